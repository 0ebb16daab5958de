package handlers

import (
	"context"
	"net/http"
	"strconv"
)

// getParam returns a path or query parameter value regardless of whether
// the router stores it with a leading colon or not. It also supports the
// standard net/http PathValue API available in recent Go versions.
func getParam(r *http.Request, name string) string {
	if r == nil {
		return ""
	}

	if val := r.URL.Query().Get(":" + name); val != "" {
		return val
	}

	if val := r.URL.Query().Get(name); val != "" {
		return val
	}

	return r.PathValue(name)
}

func getIntParam(r *http.Request, name string) (int, error) {
	return strconv.Atoi(getParam(r, name))
}

// Identity propagated by the JWT middleware.
func userIDFromContext(ctx context.Context) int {
	id, _ := ctx.Value("user_id").(int)
	return id
}

func emailFromContext(ctx context.Context) string {
	email, _ := ctx.Value("email").(string)
	return email
}
