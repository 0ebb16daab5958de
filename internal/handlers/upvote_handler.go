package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"civicBack/internal/models"
	"civicBack/internal/ratelimit"
	"civicBack/internal/services"
)

type UpvoteHandler struct {
	Service *services.UpvoteService
	Limiter *ratelimit.Limiter
}

type createUpvoteRequest struct {
	ComplaintID int `json:"complaint_id"`
}

func (h *UpvoteHandler) CreateUpvote(w http.ResponseWriter, r *http.Request) {
	var req createUpvoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	email := emailFromContext(r.Context())
	if !h.Limiter.Allow(r.Context(), "cast:"+email) {
		http.Error(w, "Too many votes, slow down", http.StatusTooManyRequests)
		return
	}

	upvote, err := h.Service.Cast(r.Context(), req.ComplaintID, email)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrComplaintNotFound):
			http.Error(w, "Complaint not found", http.StatusNotFound)
		case errors.Is(err, models.ErrAlreadyUpvoted):
			http.Error(w, "You have already upvoted this complaint", http.StatusBadRequest)
		case errors.Is(err, models.ErrInvalidInput):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, models.ErrStorageUnavailable):
			log.Printf("CreateUpvote storage error: %v", err)
			http.Error(w, "Service temporarily unavailable", http.StatusServiceUnavailable)
		default:
			log.Printf("CreateUpvote error: %v", err)
			http.Error(w, "Failed to create upvote", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(upvote)
}

func (h *UpvoteHandler) DeleteUpvote(w http.ResponseWriter, r *http.Request) {
	id, err := getIntParam(r, "id")
	if err != nil {
		http.Error(w, "Invalid upvote ID", http.StatusBadRequest)
		return
	}

	err = h.Service.Retract(r.Context(), id, emailFromContext(r.Context()))
	if err != nil {
		switch {
		case errors.Is(err, models.ErrUpvoteNotFound):
			http.Error(w, "Upvote not found", http.StatusNotFound)
		case errors.Is(err, models.ErrNotUpvoteOwner):
			http.Error(w, "You can only remove your own upvotes", http.StatusForbidden)
		case errors.Is(err, models.ErrStorageUnavailable):
			log.Printf("DeleteUpvote storage error: %v", err)
			http.Error(w, "Service temporarily unavailable", http.StatusServiceUnavailable)
		default:
			log.Printf("DeleteUpvote error: %v", err)
			http.Error(w, "Failed to remove upvote", http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *UpvoteHandler) CheckUpvote(w http.ResponseWriter, r *http.Request) {
	complaintID, err := getIntParam(r, "complaint_id")
	if err != nil {
		http.Error(w, "Invalid complaint ID", http.StatusBadRequest)
		return
	}

	check, err := h.Service.HasUpvoted(r.Context(), complaintID, emailFromContext(r.Context()))
	if err != nil {
		log.Printf("CheckUpvote error: %v", err)
		http.Error(w, "Failed to check upvote status", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(check)
}

func (h *UpvoteHandler) GetUpvotesByComplaint(w http.ResponseWriter, r *http.Request) {
	complaintID, err := getIntParam(r, "complaint_id")
	if err != nil {
		http.Error(w, "Invalid complaint ID", http.StatusBadRequest)
		return
	}

	upvotes, err := h.Service.GetUpvotesByComplaintID(r.Context(), complaintID)
	if err != nil {
		log.Printf("GetUpvotesByComplaint error: %v", err)
		http.Error(w, "Failed to fetch upvotes", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(upvotes)
}

func (h *UpvoteHandler) GetAllUpvotes(w http.ResponseWriter, r *http.Request) {
	upvotes, err := h.Service.GetAllUpvotes(r.Context())
	if err != nil {
		log.Printf("GetAllUpvotes error: %v", err)
		http.Error(w, "Failed to fetch upvotes", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(upvotes)
}
