package jobs

import "time"

// Job is a saved job posting a user is targeting.
type Job struct {
	ID          int64
	UserID      string
	Title       string
	Company     string
	Location    string
	Description string
	URL         string
	CreatedAt   time.Time
}
