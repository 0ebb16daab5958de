package models

import "time"

// Complaint event types pushed to the realtime feed.
const (
	EventComplaintCreated   = "complaint_created"
	EventComplaintEscalated = "complaint_escalated"
	EventComplaintReverted  = "complaint_reverted"
	EventStatusChanged      = "status_changed"
)

// ComplaintEvent is broadcast to connected dashboard clients when a
// complaint is created or changes status.
type ComplaintEvent struct {
	Type        string    `json:"type"`
	ComplaintID int       `json:"complaint_id"`
	Title       string    `json:"title"`
	Status      string    `json:"status"`
	UpvoteCount int       `json:"upvote_count"`
	At          time.Time `json:"at"`
}
