package main

import (
	"net/http"

	"github.com/bmizerany/pat"
	"github.com/justinas/alice"

	"civicBack/internal/models"
)

func (app *application) JWTMiddlewareWithRole(requiredRole string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return app.JWTMiddleware(next, requiredRole)
	}
}

func (app *application) routes() http.Handler {
	standardMiddleware := alice.New(app.recoverPanic, app.logRequest, secureHeaders)
	authMiddleware := standardMiddleware.Append(app.JWTMiddlewareWithRole(models.RoleCitizen))
	adminAuthMiddleware := standardMiddleware.Append(app.JWTMiddlewareWithRole(models.RoleAdmin))

	mux := pat.New()

	// Auth
	mux.Post("/user/sign_up", standardMiddleware.ThenFunc(app.userHandler.SignUp))
	mux.Post("/user/sign_in", standardMiddleware.ThenFunc(app.userHandler.SignIn))
	mux.Get("/user/me", authMiddleware.ThenFunc(app.userHandler.Me))
	mux.Post("/user/logout", authMiddleware.ThenFunc(app.userHandler.LogOut))

	// Complaints
	mux.Post("/complaints", authMiddleware.ThenFunc(app.complaintHandler.CreateComplaint))
	mux.Post("/complaints/photo", authMiddleware.ThenFunc(app.complaintHandler.UploadPhoto))
	mux.Get("/complaints/stats", adminAuthMiddleware.ThenFunc(app.complaintHandler.GetStats))
	mux.Get("/complaints/:id", standardMiddleware.ThenFunc(app.complaintHandler.GetComplaintByID))
	mux.Get("/complaints", standardMiddleware.ThenFunc(app.complaintHandler.GetComplaints))
	mux.Put("/complaints/:id", adminAuthMiddleware.ThenFunc(app.complaintHandler.UpdateComplaint))
	mux.Del("/complaints/:id", adminAuthMiddleware.ThenFunc(app.complaintHandler.DeleteComplaint))

	// Upvotes
	mux.Post("/upvotes", authMiddleware.ThenFunc(app.upvoteHandler.CreateUpvote))
	mux.Del("/upvotes/:id", authMiddleware.ThenFunc(app.upvoteHandler.DeleteUpvote))
	mux.Get("/upvotes/check/:complaint_id", authMiddleware.ThenFunc(app.upvoteHandler.CheckUpvote))
	mux.Get("/upvotes/complaint/:complaint_id", standardMiddleware.ThenFunc(app.upvoteHandler.GetUpvotesByComplaint))
	mux.Get("/upvotes", adminAuthMiddleware.ThenFunc(app.upvoteHandler.GetAllUpvotes))

	// Realtime feed for the admin dashboard. The ticket endpoint is
	// authenticated; /ws itself checks the ticket because websocket
	// connects cannot carry an Authorization header.
	mux.Get("/ws/ticket", authMiddleware.ThenFunc(app.WebSocketTicketHandler))
	mux.Get("/ws", standardMiddleware.ThenFunc(app.WebSocketHandler))

	return standardMiddleware.Then(mux)
}
