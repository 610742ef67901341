package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IssueCategory enum
type IssueCategory string

const (
	Road        IssueCategory = "Road"
	Water       IssueCategory = "Water"
	Sanitation  IssueCategory = "Sanitation"
	Electricity IssueCategory = "Electricity"
	Other       IssueCategory = "Other"
)

// ValidCategory reports whether s is one of the known categories.
func ValidCategory(s string) bool {
	switch IssueCategory(s) {
	case Road, Water, Sanitation, Electricity, Other:
		return true
	}
	return false
}

// IssueStatus enum
type IssueStatus string

const (
	StatusPending    IssueStatus = "Pending"
	StatusInProgress IssueStatus = "In Progress"
	StatusWorking    IssueStatus = "Working"
	StatusResolved   IssueStatus = "Resolved"
	StatusClosed     IssueStatus = "Closed"
	StatusRejected   IssueStatus = "Rejected"
)

// nextStatuses is the full lifecycle: Pending forks into the working branch
// or a terminal rejection, the working branch moves strictly forward.
var nextStatuses = map[IssueStatus][]IssueStatus{
	StatusPending:    {StatusInProgress, StatusRejected},
	StatusInProgress: {StatusWorking},
	StatusWorking:    {StatusResolved},
	StatusResolved:   {StatusClosed},
	StatusClosed:     {},
	StatusRejected:   {},
}

// CanTransitionTo reports whether next is a legal successor of s.
func (s IssueStatus) CanTransitionTo(next IssueStatus) bool {
	for _, allowed := range nextStatuses[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transitions exist from s.
func (s IssueStatus) Terminal() bool {
	return len(nextStatuses[s]) == 0
}

// ValidStatus reports whether s names a known lifecycle status.
func ValidStatus(s string) bool {
	_, ok := nextStatuses[IssueStatus(s)]
	return ok
}

// IssuePriority enum
type IssuePriority string

const (
	PriorityNormal IssuePriority = "Normal"
	PriorityHigh   IssuePriority = "High"
)

// TimelineEntry is a single audit record on an issue. Entries are stored
// newest first and never modified after insertion.
type TimelineEntry struct {
	Action    string    `bson:"action" json:"action"`
	UpdatedBy string    `bson:"updatedBy" json:"updatedBy"`
	Date      time.Time `bson:"date" json:"date"`
}

// Issue represents a civic issue reported by a citizen
type Issue struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Category    IssueCategory      `bson:"category" json:"category"`
	ImageURL    string             `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	Location    string             `bson:"location,omitempty" json:"location,omitempty"`
	UserEmail   string             `bson:"userEmail" json:"userEmail"`
	Status      IssueStatus        `bson:"status" json:"status"`
	Priority    IssuePriority      `bson:"priority" json:"priority"`
	Upvotes     int64              `bson:"upvotes" json:"upvotes"`
	AssignedTo  string             `bson:"assignedTo,omitempty" json:"assignedTo,omitempty"`
	Timeline    []TimelineEntry    `bson:"timeline" json:"timeline"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
