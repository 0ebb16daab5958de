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

// ComplaintVoteStore is the slice of the complaint repository the vote
// path needs: existence lookup plus the atomic counter/status update.
type ComplaintVoteStore interface {
	GetComplaintByID(ctx context.Context, id int) (models.Complaint, error)
	ApplyVoteDelta(ctx context.Context, complaintID, delta int) (models.Complaint, error)
}

// UpvoteStore persists (complaint, voter) pairs. Implementations must
// reject a duplicate pair with models.ErrAlreadyUpvoted at the storage
// layer, not via a read-then-write check.
type UpvoteStore interface {
	CreateUpvote(ctx context.Context, upvote models.Upvote) (models.Upvote, error)
	GetUpvoteByID(ctx context.Context, id int) (models.Upvote, error)
	DeleteUpvoteByID(ctx context.Context, id int) error
	HasUpvoted(ctx context.Context, complaintID int, userEmail string) (models.UpvoteCheck, error)
	GetUpvotesByComplaintID(ctx context.Context, complaintID int) ([]models.Upvote, error)
	GetAllUpvotes(ctx context.Context) ([]models.Upvote, error)
}

// EventPublisher pushes complaint events to the realtime feed. A nil
// publisher disables the feed.
type EventPublisher interface {
	PublishComplaintEvent(event models.ComplaintEvent)
}

// UpvoteService coordinates the two stores and the escalation rules so
// cast/retract behave as single logical operations.
type UpvoteService struct {
	ComplaintRepo ComplaintVoteStore
	UpvoteRepo    UpvoteStore
	Events        EventPublisher
}

// NormalizeEmail lowercases and trims a voter identity. Every read and
// write of user_email goes through this so the unique key compares
// canonical values.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Cast records one vote by the voter on the complaint, bumps the
// counter and escalates the status when the threshold is crossed.
func (s *UpvoteService) Cast(ctx context.Context, complaintID int, voterEmail string) (models.Upvote, error) {
	voterEmail = NormalizeEmail(voterEmail)
	if voterEmail == "" {
		return models.Upvote{}, fmt.Errorf("%w: voter email is required", models.ErrInvalidInput)
	}

	before, err := s.ComplaintRepo.GetComplaintByID(ctx, complaintID)
	if err != nil {
		return models.Upvote{}, s.storageErr(err)
	}

	upvote, err := s.UpvoteRepo.CreateUpvote(ctx, models.Upvote{
		ComplaintID: complaintID,
		UserEmail:   voterEmail,
	})
	if err != nil {
		return models.Upvote{}, s.storageErr(err)
	}

	updated, err := s.ComplaintRepo.ApplyVoteDelta(ctx, complaintID, +1)
	if errors.Is(err, models.ErrComplaintNotFound) {
		// The complaint vanished between the existence check and the
		// counter update. Undo the vote so no orphan is left behind by
		// this cast, and report the complaint as missing.
		_ = s.UpvoteRepo.DeleteUpvoteByID(ctx, upvote.ID)
		return models.Upvote{}, models.ErrComplaintNotFound
	}
	if err != nil {
		return models.Upvote{}, s.storageErr(err)
	}

	if before.Status != updated.Status && updated.Status == escalation.StatusEscalated {
		s.publish(models.EventComplaintEscalated, updated)
	}
	return upvote, nil
}

// Retract removes the voter's own vote and decrements the counter,
// reverting an escalated complaint to pending when it drops below the
// threshold. A complaint deleted since the vote was cast is a
// documented no-op on the counter side: the vote record is still
// removed and the call succeeds.
func (s *UpvoteService) Retract(ctx context.Context, upvoteID int, voterEmail string) error {
	voterEmail = NormalizeEmail(voterEmail)

	upvote, err := s.UpvoteRepo.GetUpvoteByID(ctx, upvoteID)
	if err != nil {
		return s.storageErr(err)
	}
	if upvote.UserEmail != voterEmail {
		return models.ErrNotUpvoteOwner
	}

	if err := s.UpvoteRepo.DeleteUpvoteByID(ctx, upvoteID); err != nil {
		return s.storageErr(err)
	}

	updated, err := s.ComplaintRepo.ApplyVoteDelta(ctx, upvote.ComplaintID, -1)
	if errors.Is(err, models.ErrComplaintNotFound) {
		return nil
	}
	if err != nil {
		return s.storageErr(err)
	}

	if updated.Status == escalation.StatusPending && updated.UpvoteCount == updated.EscalationThreshold-1 {
		s.publish(models.EventComplaintReverted, updated)
	}
	return nil
}

// HasUpvoted reports whether the voter already upvoted the complaint.
func (s *UpvoteService) HasUpvoted(ctx context.Context, complaintID int, voterEmail string) (models.UpvoteCheck, error) {
	check, err := s.UpvoteRepo.HasUpvoted(ctx, complaintID, NormalizeEmail(voterEmail))
	if err != nil {
		return models.UpvoteCheck{}, s.storageErr(err)
	}
	return check, nil
}

func (s *UpvoteService) GetUpvotesByComplaintID(ctx context.Context, complaintID int) ([]models.Upvote, error) {
	upvotes, err := s.UpvoteRepo.GetUpvotesByComplaintID(ctx, complaintID)
	if err != nil {
		return nil, s.storageErr(err)
	}
	return upvotes, nil
}

func (s *UpvoteService) GetAllUpvotes(ctx context.Context) ([]models.Upvote, error) {
	upvotes, err := s.UpvoteRepo.GetAllUpvotes(ctx)
	if err != nil {
		return nil, s.storageErr(err)
	}
	return upvotes, nil
}

func (s *UpvoteService) publish(eventType string, c models.Complaint) {
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

// storageErr passes domain sentinels through untouched and wraps
// everything else as an unavailable storage collaborator.
func (s *UpvoteService) storageErr(err error) error {
	switch {
	case errors.Is(err, models.ErrComplaintNotFound),
		errors.Is(err, models.ErrUpvoteNotFound),
		errors.Is(err, models.ErrAlreadyUpvoted),
		errors.Is(err, models.ErrNotUpvoteOwner):
		return err
	default:
		return fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	}
}
