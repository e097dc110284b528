package classification

import "time"

// Classification is a label items can carry, e.g. "hazardous".
type Classification struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Job tracks one background classification run.
type Job struct {
	ID         string     `json:"id"`
	Status     string     `json:"status"` // running, completed
	Processed  int        `json:"processed"`
	Failed     int        `json:"failed"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

const (
	JobRunning   = "running"
	JobCompleted = "completed"
)
