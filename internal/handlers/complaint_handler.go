package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"

	"civicBack/internal/models"
	"civicBack/internal/services"
	"civicBack/utils"
)

const maxPhotoSize = 10 << 20 // 10 MB

type ComplaintHandler struct {
	Service *services.ComplaintService
	Storage *utils.S3Storage
}

func (h *ComplaintHandler) CreateComplaint(w http.ResponseWriter, r *http.Request) {
	var req models.CreateComplaintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	created, err := h.Service.Submit(r.Context(), req, userIDFromContext(r.Context()))
	if err != nil {
		if errors.Is(err, models.ErrInvalidInput) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Printf("CreateComplaint error: %v", err)
		http.Error(w, "Failed to create complaint", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

func (h *ComplaintHandler) GetComplaints(w http.ResponseWriter, r *http.Request) {
	filter := models.ComplaintFilter{
		Status:   r.URL.Query().Get("status"),
		Category: r.URL.Query().Get("category"),
	}
	filter.Page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	filter.Limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))

	list, err := h.Service.ListComplaints(r.Context(), filter)
	if err != nil {
		if errors.Is(err, models.ErrInvalidInput) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Printf("GetComplaints error: %v", err)
		http.Error(w, "Failed to fetch complaints", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(list)
}

func (h *ComplaintHandler) GetComplaintByID(w http.ResponseWriter, r *http.Request) {
	id, err := getIntParam(r, "id")
	if err != nil {
		http.Error(w, "Invalid complaint ID", http.StatusBadRequest)
		return
	}

	complaint, err := h.Service.GetComplaintByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrComplaintNotFound) {
			http.Error(w, "Complaint not found", http.StatusNotFound)
			return
		}
		log.Printf("GetComplaintByID error: %v", err)
		http.Error(w, "Failed to fetch complaint", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(complaint)
}

func (h *ComplaintHandler) UpdateComplaint(w http.ResponseWriter, r *http.Request) {
	id, err := getIntParam(r, "id")
	if err != nil {
		http.Error(w, "Invalid complaint ID", http.StatusBadRequest)
		return
	}

	var patch models.AdminComplaintPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	updated, err := h.Service.AdminUpdate(r.Context(), id, patch)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrComplaintNotFound):
			http.Error(w, "Complaint not found", http.StatusNotFound)
		case errors.Is(err, models.ErrInvalidInput):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			log.Printf("UpdateComplaint error: %v", err)
			http.Error(w, "Failed to update complaint", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updated)
}

func (h *ComplaintHandler) DeleteComplaint(w http.ResponseWriter, r *http.Request) {
	id, err := getIntParam(r, "id")
	if err != nil {
		http.Error(w, "Invalid complaint ID", http.StatusBadRequest)
		return
	}

	if err := h.Service.Remove(r.Context(), id); err != nil {
		if errors.Is(err, models.ErrComplaintNotFound) {
			http.Error(w, "Complaint not found", http.StatusNotFound)
			return
		}
		log.Printf("DeleteComplaint error: %v", err)
		http.Error(w, "Failed to delete complaint", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ComplaintHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.Stats(r.Context())
	if err != nil {
		log.Printf("GetStats error: %v", err)
		http.Error(w, "Failed to fetch stats", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}

// UploadPhoto accepts a multipart photo, stores it in the object
// store and returns the public URL the client should submit as
// photo_url.
func (h *ComplaintHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	if h.Storage == nil {
		http.Error(w, "Photo storage is not configured", http.StatusServiceUnavailable)
		return
	}

	if err := r.ParseMultipartForm(maxPhotoSize); err != nil {
		http.Error(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		http.Error(w, "Photo file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxPhotoSize))
	if err != nil {
		log.Printf("UploadPhoto read error: %v", err)
		http.Error(w, "Failed to read photo", http.StatusInternalServerError)
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	fileName := uuid.New().String() + filepath.Ext(header.Filename)
	url, err := h.Storage.UploadFile(data, fileName, "complaints", contentType)
	if err != nil {
		log.Printf("UploadPhoto S3 error: %v", err)
		http.Error(w, "Failed to store photo", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"photo_url": url})
}
