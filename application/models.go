package application

import "time"

type Status string

const (
	StatusPending   Status = "pending"
	StatusReviewed  Status = "reviewed"
	StatusAccepted  Status = "accepted"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

// validTransitions maps each status to the states it may move to.
// Terminal states have no entries.
var validTransitions = map[Status][]Status{
	StatusPending:  {StatusReviewed, StatusAccepted, StatusRejected, StatusCancelled},
	StatusReviewed: {StatusAccepted, StatusRejected, StatusCancelled},
}

func canTransition(from, to Status) bool {
	for _, next := range validTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Application mirrors the applications table. Snapshot columns freeze
// the posting and resume as they were at apply time, so later edits
// don't rewrite history either side relies on.
type Application struct {
	ID              string
	JobPostingID    string
	ResumeID        string
	JobSeekerID     string
	KindergartenID  string
	Status          Status
	CoverLetter     *string
	SnapshotPosting []byte
	SnapshotResume  []byte
	ReviewedAt      *time.Time
	ReviewedBy      *string
	ReviewNote      *string
	CancelledAt     *time.Time
	CancelReason    *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
