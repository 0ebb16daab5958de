package services

import (
	"context"
	"fmt"
	"sync"

	"civicBack/internal/escalation"
	"civicBack/internal/models"
)

// memComplaintStore is an in-memory ComplaintStore/ComplaintVoteStore
// mirroring the repository contract, including the locked
// read-modify-write of ApplyVoteDelta.
type memComplaintStore struct {
	mu         sync.Mutex
	nextID     int
	complaints map[int]models.Complaint
	upvotes    *memUpvoteStore // cascade target for DeleteComplaintByID
}

func newMemComplaintStore(upvotes *memUpvoteStore) *memComplaintStore {
	return &memComplaintStore{
		nextID:     1,
		complaints: map[int]models.Complaint{},
		upvotes:    upvotes,
	}
}

func (m *memComplaintStore) put(c models.Complaint) models.Complaint {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.ID == 0 {
		c.ID = m.nextID
		m.nextID++
	}
	m.complaints[c.ID] = c
	return c
}

func (m *memComplaintStore) CreateComplaint(_ context.Context, c models.Complaint) (models.Complaint, error) {
	return m.put(c), nil
}

func (m *memComplaintStore) GetComplaintByID(_ context.Context, id int) (models.Complaint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.complaints[id]
	if !ok {
		return models.Complaint{}, models.ErrComplaintNotFound
	}
	return c, nil
}

func (m *memComplaintStore) GetComplaints(_ context.Context, filter models.ComplaintFilter) ([]models.Complaint, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Complaint
	for _, c := range m.complaints {
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		if filter.Category != "" && c.Category != filter.Category {
			continue
		}
		out = append(out, c)
	}
	return out, len(out), nil
}

func (m *memComplaintStore) ApplyVoteDelta(_ context.Context, complaintID, delta int) (models.Complaint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.complaints[complaintID]
	if !ok {
		return models.Complaint{}, models.ErrComplaintNotFound
	}
	newCount := c.UpvoteCount + delta
	if newCount < 0 {
		newCount = 0
		delta = -c.UpvoteCount
	}
	c.Status = escalation.Next(c.Status, c.UpvoteCount, c.EscalationThreshold, delta)
	c.UpvoteCount = newCount
	m.complaints[complaintID] = c
	return c, nil
}

func (m *memComplaintStore) UpdateComplaintAdmin(_ context.Context, id int, patch models.AdminComplaintPatch) (models.Complaint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.complaints[id]
	if !ok {
		return models.Complaint{}, models.ErrComplaintNotFound
	}
	if patch.Title != nil {
		c.Title = *patch.Title
	}
	if patch.Description != nil {
		c.Description = *patch.Description
	}
	if patch.Category != nil {
		c.Category = *patch.Category
	}
	if patch.Status != nil {
		c.Status = *patch.Status
	}
	if patch.Priority != nil {
		c.Priority = *patch.Priority
	}
	if patch.AssignedTo != nil {
		c.AssignedTo = *patch.AssignedTo
	}
	if patch.ResolutionNotes != nil {
		c.ResolutionNotes = *patch.ResolutionNotes
	}
	if patch.EstimatedCompletion != nil {
		c.EstimatedCompletion = patch.EstimatedCompletion
	}
	if patch.EscalationThreshold != nil {
		c.EscalationThreshold = *patch.EscalationThreshold
	}
	m.complaints[id] = c
	return c, nil
}

func (m *memComplaintStore) DeleteComplaintByID(_ context.Context, id int) error {
	m.mu.Lock()
	if _, ok := m.complaints[id]; !ok {
		m.mu.Unlock()
		return models.ErrComplaintNotFound
	}
	delete(m.complaints, id)
	m.mu.Unlock()
	if m.upvotes != nil {
		m.upvotes.deleteByComplaint(id)
	}
	return nil
}

func (m *memComplaintStore) GetComplaintStats(_ context.Context) (models.ComplaintStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := models.ComplaintStats{ByStatus: map[string]int{}, ByCategory: map[string]int{}}
	for _, c := range m.complaints {
		stats.Total++
		stats.ByStatus[c.Status]++
		stats.ByCategory[c.Category]++
	}
	return stats, nil
}

// memUpvoteStore enforces the (complaint, voter) unique key under a
// mutex the way the database index does.
type memUpvoteStore struct {
	mu      sync.Mutex
	nextID  int
	upvotes map[int]models.Upvote
	pairs   map[string]int
}

func newMemUpvoteStore() *memUpvoteStore {
	return &memUpvoteStore{
		nextID:  1,
		upvotes: map[int]models.Upvote{},
		pairs:   map[string]int{},
	}
}

func pairKey(complaintID int, email string) string {
	return fmt.Sprintf("%d|%s", complaintID, email)
}

func (m *memUpvoteStore) CreateUpvote(_ context.Context, upvote models.Upvote) (models.Upvote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := pairKey(upvote.ComplaintID, upvote.UserEmail)
	if _, exists := m.pairs[key]; exists {
		return models.Upvote{}, models.ErrAlreadyUpvoted
	}
	upvote.ID = m.nextID
	m.nextID++
	m.upvotes[upvote.ID] = upvote
	m.pairs[key] = upvote.ID
	return upvote, nil
}

func (m *memUpvoteStore) GetUpvoteByID(_ context.Context, id int) (models.Upvote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.upvotes[id]
	if !ok {
		return models.Upvote{}, models.ErrUpvoteNotFound
	}
	return u, nil
}

func (m *memUpvoteStore) DeleteUpvoteByID(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.upvotes[id]
	if !ok {
		return models.ErrUpvoteNotFound
	}
	delete(m.upvotes, id)
	delete(m.pairs, pairKey(u.ComplaintID, u.UserEmail))
	return nil
}

func (m *memUpvoteStore) HasUpvoted(_ context.Context, complaintID int, userEmail string) (models.UpvoteCheck, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.pairs[pairKey(complaintID, userEmail)]
	if !ok {
		return models.UpvoteCheck{}, nil
	}
	return models.UpvoteCheck{HasUpvoted: true, UpvoteID: id}, nil
}

func (m *memUpvoteStore) GetUpvotesByComplaintID(_ context.Context, complaintID int) ([]models.Upvote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Upvote
	for _, u := range m.upvotes {
		if u.ComplaintID == complaintID {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *memUpvoteStore) GetAllUpvotes(_ context.Context) ([]models.Upvote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Upvote
	for _, u := range m.upvotes {
		out = append(out, u)
	}
	return out, nil
}

func (m *memUpvoteStore) deleteByComplaint(complaintID int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, u := range m.upvotes {
		if u.ComplaintID == complaintID {
			delete(m.upvotes, id)
			delete(m.pairs, pairKey(u.ComplaintID, u.UserEmail))
		}
	}
}

// recordingPublisher captures events for assertions.
type recordingPublisher struct {
	mu     sync.Mutex
	events []models.ComplaintEvent
}

func (p *recordingPublisher) PublishComplaintEvent(event models.ComplaintEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) byType(eventType string) []models.ComplaintEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []models.ComplaintEvent
	for _, e := range p.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

// fixedClassifier always suggests the same category.
type fixedClassifier struct {
	category string
}

func (c *fixedClassifier) SuggestCategory(_ context.Context, _, _ string) string {
	return c.category
}
