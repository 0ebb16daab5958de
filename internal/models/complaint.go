package models

import (
	"time"
)

// Complaint categories accepted by the platform.
const (
	CategoryRoadMaintenance = "road_maintenance"
	CategoryStreetlights    = "streetlights"
	CategoryWasteManagement = "waste_management"
	CategoryWaterSupply     = "water_supply"
	CategoryDrainage        = "drainage"
	CategoryParks           = "parks"
	CategoryTraffic         = "traffic"
	CategoryNoisePollution  = "noise_pollution"
	CategoryOther           = "other"
)

// Complaint priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

var Categories = map[string]struct{}{
	CategoryRoadMaintenance: {},
	CategoryStreetlights:    {},
	CategoryWasteManagement: {},
	CategoryWaterSupply:     {},
	CategoryDrainage:        {},
	CategoryParks:           {},
	CategoryTraffic:         {},
	CategoryNoisePollution:  {},
	CategoryOther:           {},
}

var Priorities = map[string]struct{}{
	PriorityLow:    {},
	PriorityMedium: {},
	PriorityHigh:   {},
	PriorityUrgent: {},
}

type Complaint struct {
	ID                  int            `json:"id"`
	Title               string         `json:"title"`
	Description         string         `json:"description"`
	PhotoURL            string         `json:"photo_url"`
	Latitude            *float64       `json:"latitude,omitempty"`
	Longitude           *float64       `json:"longitude,omitempty"`
	Address             string         `json:"address"`
	Category            string         `json:"category"`
	Status              string         `json:"status"`
	Priority            string         `json:"priority"`
	UpvoteCount         int            `json:"upvote_count"`
	EscalationThreshold int            `json:"escalation_threshold"`
	AssignedTo          string         `json:"assigned_to,omitempty"`
	ResolutionNotes     string         `json:"resolution_notes,omitempty"`
	EstimatedCompletion *time.Time     `json:"estimated_completion,omitempty"`
	CreatedBy           int            `json:"created_by"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
	Author              ComplaintUser  `json:"author,omitempty"`
}

// ComplaintUser is the reporter snippet joined into complaint reads.
type ComplaintUser struct {
	ID       int    `json:"id,omitempty"`
	FullName string `json:"full_name,omitempty"`
	Email    string `json:"email,omitempty"`
}

// CreateComplaintRequest is the submission payload. Category may be
// left empty, in which case the classifier suggests one.
type CreateComplaintRequest struct {
	Title               string   `json:"title"`
	Description         string   `json:"description"`
	PhotoURL            string   `json:"photo_url"`
	Latitude            *float64 `json:"latitude"`
	Longitude           *float64 `json:"longitude"`
	Address             string   `json:"address"`
	Category            string   `json:"category"`
	EscalationThreshold int      `json:"escalation_threshold"`
}

// AdminComplaintPatch carries the fields an administrator may change.
// Nil pointers mean "leave untouched". Status and counters outside this
// whitelist can only move through the vote path.
type AdminComplaintPatch struct {
	Title               *string    `json:"title"`
	Description         *string    `json:"description"`
	Category            *string    `json:"category"`
	Status              *string    `json:"status"`
	Priority            *string    `json:"priority"`
	AssignedTo          *string    `json:"assigned_to"`
	ResolutionNotes     *string    `json:"resolution_notes"`
	EstimatedCompletion *time.Time `json:"estimated_completion"`
	EscalationThreshold *int       `json:"escalation_threshold"`
}

// ComplaintFilter narrows complaint listings.
type ComplaintFilter struct {
	Status   string
	Category string
	Page     int
	Limit    int
}

// ComplaintList is a page of complaints plus pagination metadata.
type ComplaintList struct {
	Complaints []Complaint `json:"data"`
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
	Total      int         `json:"total"`
	Pages      int         `json:"pages"`
}

// ComplaintStats aggregates counts for the admin dashboard.
type ComplaintStats struct {
	Total      int            `json:"total"`
	ByStatus   map[string]int `json:"by_status"`
	ByCategory map[string]int `json:"by_category"`
}
