package models

import (
	"time"
)

type Upvote struct {
	ID          int       `json:"id"`
	ComplaintID int       `json:"complaint_id"`
	UserEmail   string    `json:"user_email"`
	CreatedAt   time.Time `json:"created_at"`

	// Joined complaint snippet for the admin listing. Empty on writes.
	ComplaintTitle  string `json:"complaint_title,omitempty"`
	ComplaintStatus string `json:"complaint_status,omitempty"`
}

// UpvoteCheck answers "has this user upvoted this complaint", carrying
// the upvote id so the client can retract without another lookup.
type UpvoteCheck struct {
	HasUpvoted bool `json:"has_upvoted"`
	UpvoteID   int  `json:"upvote_id,omitempty"`
}
