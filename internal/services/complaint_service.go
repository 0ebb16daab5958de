package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"civicBack/internal/escalation"
	"civicBack/internal/models"
)

const (
	maxTitleLength           = 200
	maxDescriptionLength     = 2000
	maxResolutionNotesLength = 1000

	defaultListLimit = 50
	maxListLimit     = 100
)

// ComplaintStore is the repository surface the lifecycle path needs.
type ComplaintStore interface {
	CreateComplaint(ctx context.Context, c models.Complaint) (models.Complaint, error)
	GetComplaintByID(ctx context.Context, id int) (models.Complaint, error)
	GetComplaints(ctx context.Context, filter models.ComplaintFilter) ([]models.Complaint, int, error)
	UpdateComplaintAdmin(ctx context.Context, id int, patch models.AdminComplaintPatch) (models.Complaint, error)
	DeleteComplaintByID(ctx context.Context, id int) error
	GetComplaintStats(ctx context.Context) (models.ComplaintStats, error)
}

// CategoryClassifier suggests a category when the submitter leaves it
// empty. Implementations must be safe to call with a nil receiver.
type CategoryClassifier interface {
	SuggestCategory(ctx context.Context, title, description string) string
}

// ComplaintService owns complaint creation and the administrative
// status overrides that bypass vote-driven escalation.
type ComplaintService struct {
	ComplaintRepo ComplaintStore
	Classifier    CategoryClassifier
	Events        EventPublisher
}

// Submit validates and persists a new complaint: status pending,
// zero votes, defaulted category and threshold.
func (s *ComplaintService) Submit(ctx context.Context, req models.CreateComplaintRequest, authorID int) (models.Complaint, error) {
	title := strings.TrimSpace(req.Title)
	description := strings.TrimSpace(req.Description)
	photoURL := strings.TrimSpace(req.PhotoURL)

	if title == "" {
		return models.Complaint{}, fmt.Errorf("%w: title is required", models.ErrInvalidInput)
	}
	if len(title) > maxTitleLength {
		return models.Complaint{}, fmt.Errorf("%w: title cannot exceed %d characters", models.ErrInvalidInput, maxTitleLength)
	}
	if description == "" {
		return models.Complaint{}, fmt.Errorf("%w: description is required", models.ErrInvalidInput)
	}
	if len(description) > maxDescriptionLength {
		return models.Complaint{}, fmt.Errorf("%w: description cannot exceed %d characters", models.ErrInvalidInput, maxDescriptionLength)
	}
	if photoURL == "" {
		return models.Complaint{}, fmt.Errorf("%w: photo is required", models.ErrInvalidInput)
	}
	if req.Latitude != nil && (*req.Latitude < -90 || *req.Latitude > 90) {
		return models.Complaint{}, fmt.Errorf("%w: latitude must be between -90 and 90", models.ErrInvalidInput)
	}
	if req.Longitude != nil && (*req.Longitude < -180 || *req.Longitude > 180) {
		return models.Complaint{}, fmt.Errorf("%w: longitude must be between -180 and 180", models.ErrInvalidInput)
	}

	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = models.CategoryOther
		if s.Classifier != nil {
			category = s.Classifier.SuggestCategory(ctx, title, description)
		}
	}
	if _, ok := models.Categories[category]; !ok {
		return models.Complaint{}, fmt.Errorf("%w: unknown category %q", models.ErrInvalidInput, category)
	}

	threshold := req.EscalationThreshold
	if threshold == 0 {
		threshold = escalation.DefaultThreshold
	}
	if threshold < 1 {
		return models.Complaint{}, fmt.Errorf("%w: escalation threshold must be at least 1", models.ErrInvalidInput)
	}

	complaint := models.Complaint{
		Title:               title,
		Description:         description,
		PhotoURL:            photoURL,
		Latitude:            req.Latitude,
		Longitude:           req.Longitude,
		Address:             strings.TrimSpace(req.Address),
		Category:            category,
		Status:              escalation.StatusPending,
		Priority:            models.PriorityMedium,
		UpvoteCount:         0,
		EscalationThreshold: threshold,
		CreatedBy:           authorID,
	}

	created, err := s.ComplaintRepo.CreateComplaint(ctx, complaint)
	if err != nil {
		return models.Complaint{}, s.storageErr(err)
	}
	s.publish(models.EventComplaintCreated, created)
	return created, nil
}

func (s *ComplaintService) GetComplaintByID(ctx context.Context, id int) (models.Complaint, error) {
	complaint, err := s.ComplaintRepo.GetComplaintByID(ctx, id)
	if err != nil {
		return models.Complaint{}, s.storageErr(err)
	}
	return complaint, nil
}

func (s *ComplaintService) ListComplaints(ctx context.Context, filter models.ComplaintFilter) (models.ComplaintList, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = defaultListLimit
	}
	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}
	if filter.Status != "" && !escalation.ValidStatus(filter.Status) {
		return models.ComplaintList{}, fmt.Errorf("%w: unknown status %q", models.ErrInvalidInput, filter.Status)
	}
	if filter.Category != "" {
		if _, ok := models.Categories[filter.Category]; !ok {
			return models.ComplaintList{}, fmt.Errorf("%w: unknown category %q", models.ErrInvalidInput, filter.Category)
		}
	}

	complaints, total, err := s.ComplaintRepo.GetComplaints(ctx, filter)
	if err != nil {
		return models.ComplaintList{}, s.storageErr(err)
	}
	pages := (total + filter.Limit - 1) / filter.Limit
	return models.ComplaintList{
		Complaints: complaints,
		Page:       filter.Page,
		Limit:      filter.Limit,
		Total:      total,
		Pages:      pages,
	}, nil
}

// AdminUpdate applies a whitelisted patch on behalf of an
// administrator. Status set here is authoritative: the escalation rules
// only resume once an admin has put the complaint back to pending.
func (s *ComplaintService) AdminUpdate(ctx context.Context, id int, patch models.AdminComplaintPatch) (models.Complaint, error) {
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" || len(title) > maxTitleLength {
			return models.Complaint{}, fmt.Errorf("%w: title must be 1-%d characters", models.ErrInvalidInput, maxTitleLength)
		}
		patch.Title = &title
	}
	if patch.Description != nil {
		description := strings.TrimSpace(*patch.Description)
		if description == "" || len(description) > maxDescriptionLength {
			return models.Complaint{}, fmt.Errorf("%w: description must be 1-%d characters", models.ErrInvalidInput, maxDescriptionLength)
		}
		patch.Description = &description
	}
	if patch.Status != nil && !escalation.ValidStatus(*patch.Status) {
		return models.Complaint{}, fmt.Errorf("%w: unknown status %q", models.ErrInvalidInput, *patch.Status)
	}
	if patch.Category != nil {
		if _, ok := models.Categories[*patch.Category]; !ok {
			return models.Complaint{}, fmt.Errorf("%w: unknown category %q", models.ErrInvalidInput, *patch.Category)
		}
	}
	if patch.Priority != nil {
		if _, ok := models.Priorities[*patch.Priority]; !ok {
			return models.Complaint{}, fmt.Errorf("%w: unknown priority %q", models.ErrInvalidInput, *patch.Priority)
		}
	}
	if patch.ResolutionNotes != nil && len(*patch.ResolutionNotes) > maxResolutionNotesLength {
		return models.Complaint{}, fmt.Errorf("%w: resolution notes cannot exceed %d characters", models.ErrInvalidInput, maxResolutionNotesLength)
	}
	if patch.EscalationThreshold != nil && *patch.EscalationThreshold < 1 {
		return models.Complaint{}, fmt.Errorf("%w: escalation threshold must be at least 1", models.ErrInvalidInput)
	}

	before, err := s.ComplaintRepo.GetComplaintByID(ctx, id)
	if err != nil {
		return models.Complaint{}, s.storageErr(err)
	}

	updated, err := s.ComplaintRepo.UpdateComplaintAdmin(ctx, id, patch)
	if err != nil {
		return models.Complaint{}, s.storageErr(err)
	}
	if patch.Status != nil && before.Status != updated.Status {
		s.publish(models.EventStatusChanged, updated)
	}
	return updated, nil
}

// Remove deletes the complaint together with its upvotes.
func (s *ComplaintService) Remove(ctx context.Context, id int) error {
	if err := s.ComplaintRepo.DeleteComplaintByID(ctx, id); err != nil {
		return s.storageErr(err)
	}
	return nil
}

func (s *ComplaintService) Stats(ctx context.Context) (models.ComplaintStats, error) {
	stats, err := s.ComplaintRepo.GetComplaintStats(ctx)
	if err != nil {
		return models.ComplaintStats{}, s.storageErr(err)
	}
	return stats, nil
}

func (s *ComplaintService) publish(eventType string, c models.Complaint) {
	if s.Events == nil {
		return
	}
	s.Events.PublishComplaintEvent(models.ComplaintEvent{
		Type:        eventType,
		ComplaintID: c.ID,
		Title:       c.Title,
		Status:      c.Status,
		UpvoteCount: c.UpvoteCount,
		At:          time.Now(),
	})
}

func (s *ComplaintService) storageErr(err error) error {
	switch {
	case errors.Is(err, models.ErrComplaintNotFound),
		errors.Is(err, models.ErrInvalidInput):
		return err
	default:
		return fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	}
}
