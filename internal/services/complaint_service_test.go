package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"civicBack/internal/escalation"
	"civicBack/internal/models"
)

func newLifecycleFixture() (*ComplaintService, *memComplaintStore, *memUpvoteStore, *recordingPublisher) {
	upvotes := newMemUpvoteStore()
	complaints := newMemComplaintStore(upvotes)
	events := &recordingPublisher{}
	svc := &ComplaintService{
		ComplaintRepo: complaints,
		Events:        events,
	}
	return svc, complaints, upvotes, events
}

func validSubmission() models.CreateComplaintRequest {
	return models.CreateComplaintRequest{
		Title:       "Pothole on Main street",
		Description: "Deep pothole near the bus stop, damaging cars.",
		PhotoURL:    "https://cdn.example.com/photos/pothole.jpg",
	}
}

func TestSubmitDefaults(t *testing.T) {
	svc, _, _, events := newLifecycleFixture()

	created, err := svc.Submit(context.Background(), validSubmission(), 7)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if created.Status != escalation.StatusPending {
		t.Errorf("expected pending status, got %s", created.Status)
	}
	if created.UpvoteCount != 0 {
		t.Errorf("expected zero upvotes, got %d", created.UpvoteCount)
	}
	if created.Category != models.CategoryOther {
		t.Errorf("expected category other without classifier, got %s", created.Category)
	}
	if created.EscalationThreshold != escalation.DefaultThreshold {
		t.Errorf("expected default threshold %d, got %d", escalation.DefaultThreshold, created.EscalationThreshold)
	}
	if created.Priority != models.PriorityMedium {
		t.Errorf("expected medium priority, got %s", created.Priority)
	}
	if created.CreatedBy != 7 {
		t.Errorf("expected author 7, got %d", created.CreatedBy)
	}
	if len(events.byType(models.EventComplaintCreated)) != 1 {
		t.Errorf("expected a created event")
	}
}

func TestSubmitUsesClassifierWhenCategoryEmpty(t *testing.T) {
	svc, _, _, _ := newLifecycleFixture()
	svc.Classifier = &fixedClassifier{category: models.CategoryDrainage}

	created, err := svc.Submit(context.Background(), validSubmission(), 1)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if created.Category != models.CategoryDrainage {
		t.Fatalf("expected classifier suggestion drainage, got %s", created.Category)
	}
}

func TestSubmitExplicitCategorySkipsClassifier(t *testing.T) {
	svc, _, _, _ := newLifecycleFixture()
	svc.Classifier = &fixedClassifier{category: models.CategoryDrainage}

	req := validSubmission()
	req.Category = models.CategoryTraffic
	created, err := svc.Submit(context.Background(), req, 1)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if created.Category != models.CategoryTraffic {
		t.Fatalf("expected traffic, got %s", created.Category)
	}
}

func TestSubmitValidation(t *testing.T) {
	svc, _, _, _ := newLifecycleFixture()
	badLat := 91.0
	badLon := -181.0

	cases := []struct {
		name   string
		modify func(*models.CreateComplaintRequest)
	}{
		{"empty title", func(r *models.CreateComplaintRequest) { r.Title = "   " }},
		{"title too long", func(r *models.CreateComplaintRequest) { r.Title = strings.Repeat("x", 201) }},
		{"empty description", func(r *models.CreateComplaintRequest) { r.Description = "" }},
		{"description too long", func(r *models.CreateComplaintRequest) { r.Description = strings.Repeat("x", 2001) }},
		{"missing photo", func(r *models.CreateComplaintRequest) { r.PhotoURL = "" }},
		{"latitude out of range", func(r *models.CreateComplaintRequest) { r.Latitude = &badLat }},
		{"longitude out of range", func(r *models.CreateComplaintRequest) { r.Longitude = &badLon }},
		{"unknown category", func(r *models.CreateComplaintRequest) { r.Category = "potholes" }},
		{"negative threshold", func(r *models.CreateComplaintRequest) { r.EscalationThreshold = -3 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validSubmission()
			tc.modify(&req)
			_, err := svc.Submit(context.Background(), req, 1)
			if !errors.Is(err, models.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestAdminUpdateStatusOverride(t *testing.T) {
	svc, complaints, _, events := newLifecycleFixture()
	c := complaints.put(models.Complaint{
		Title:               "Overflowing bins",
		Status:              escalation.StatusEscalated,
		UpvoteCount:         8,
		EscalationThreshold: 5,
	})

	status := escalation.StatusInProgress
	notes := "Crew dispatched"
	updated, err := svc.AdminUpdate(context.Background(), c.ID, models.AdminComplaintPatch{
		Status:          &status,
		ResolutionNotes: &notes,
	})
	if err != nil {
		t.Fatalf("AdminUpdate: %v", err)
	}
	if updated.Status != escalation.StatusInProgress {
		t.Fatalf("expected in_progress, got %s", updated.Status)
	}
	if updated.ResolutionNotes != notes {
		t.Fatalf("expected resolution notes persisted")
	}
	if updated.UpvoteCount != 8 {
		t.Fatalf("admin patch must not touch the counter, got %d", updated.UpvoteCount)
	}
	if len(events.byType(models.EventStatusChanged)) != 1 {
		t.Errorf("expected a status change event")
	}
}

func TestAdminUpdateRejectsUnknownStatus(t *testing.T) {
	svc, complaints, _, _ := newLifecycleFixture()
	c := complaints.put(models.Complaint{Title: "x", Status: escalation.StatusPending, EscalationThreshold: 5})

	status := "archived"
	_, err := svc.AdminUpdate(context.Background(), c.ID, models.AdminComplaintPatch{Status: &status})
	if !errors.Is(err, models.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestAdminUpdateThresholdTakesEffectOnNextVote(t *testing.T) {
	upvoteStore := newMemUpvoteStore()
	complaints := newMemComplaintStore(upvoteStore)
	lifecycle := &ComplaintService{ComplaintRepo: complaints}
	votes := &UpvoteService{ComplaintRepo: complaints, UpvoteRepo: upvoteStore}

	c := complaints.put(models.Complaint{
		Title:               "Dark underpass",
		Status:              escalation.StatusPending,
		UpvoteCount:         2,
		EscalationThreshold: 10,
	})

	threshold := 3
	if _, err := lifecycle.AdminUpdate(context.Background(), c.ID, models.AdminComplaintPatch{EscalationThreshold: &threshold}); err != nil {
		t.Fatalf("AdminUpdate: %v", err)
	}

	if _, err := votes.Cast(context.Background(), c.ID, "voter@example.com"); err != nil {
		t.Fatalf("Cast: %v", err)
	}
	got, _ := complaints.GetComplaintByID(context.Background(), c.ID)
	if got.Status != escalation.StatusEscalated {
		t.Fatalf("expected escalation at lowered threshold, got %s", got.Status)
	}
}

func TestAdminUpdateNotFound(t *testing.T) {
	svc, _, _, _ := newLifecycleFixture()
	title := "updated"
	_, err := svc.AdminUpdate(context.Background(), 404, models.AdminComplaintPatch{Title: &title})
	if !errors.Is(err, models.ErrComplaintNotFound) {
		t.Fatalf("expected ErrComplaintNotFound, got %v", err)
	}
}

func TestRemoveCascadesUpvotes(t *testing.T) {
	svc, complaints, upvotes, _ := newLifecycleFixture()
	votes := &UpvoteService{ComplaintRepo: complaints, UpvoteRepo: upvotes}

	c := complaints.put(models.Complaint{
		Title:               "Noise from construction site",
		Status:              escalation.StatusPending,
		EscalationThreshold: 5,
	})
	if _, err := votes.Cast(context.Background(), c.ID, "a@example.com"); err != nil {
		t.Fatalf("Cast: %v", err)
	}
	if _, err := votes.Cast(context.Background(), c.ID, "b@example.com"); err != nil {
		t.Fatalf("Cast: %v", err)
	}

	if err := svc.Remove(context.Background(), c.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	left, _ := upvotes.GetUpvotesByComplaintID(context.Background(), c.ID)
	if len(left) != 0 {
		t.Fatalf("expected cascade to remove upvotes, %d left", len(left))
	}
}

func TestRemoveNotFound(t *testing.T) {
	svc, _, _, _ := newLifecycleFixture()
	if err := svc.Remove(context.Background(), 404); !errors.Is(err, models.ErrComplaintNotFound) {
		t.Fatalf("expected ErrComplaintNotFound, got %v", err)
	}
}

func TestListComplaintsRejectsUnknownFilter(t *testing.T) {
	svc, _, _, _ := newLifecycleFixture()
	_, err := svc.ListComplaints(context.Background(), models.ComplaintFilter{Status: "archived"})
	if !errors.Is(err, models.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for bad status, got %v", err)
	}
	_, err = svc.ListComplaints(context.Background(), models.ComplaintFilter{Category: "potholes"})
	if !errors.Is(err, models.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for bad category, got %v", err)
	}
}

func TestClassifierNilClientFallsBack(t *testing.T) {
	var svc *ClassifierService
	if got := svc.SuggestCategory(context.Background(), "title", "description"); got != models.CategoryOther {
		t.Fatalf("nil classifier must return other, got %s", got)
	}
	svc = &ClassifierService{}
	if got := svc.SuggestCategory(context.Background(), "title", "description"); got != models.CategoryOther {
		t.Fatalf("classifier without client must return other, got %s", got)
	}
}
