package domain

import (
	"fmt"
	"time"
)

// JobStatus represents the lifecycle state of a bulk-send job.
type JobStatus string

const (
	JobStatusProcessing JobStatus = "PROCESSING"
	JobStatusCompleted  JobStatus = "COMPLETED"
)

func (s JobStatus) String() string { return string(s) }

func (s JobStatus) IsValid() bool {
	switch s {
	case JobStatusProcessing, JobStatusCompleted:
		return true
	}
	return false
}

// Job is the tracked execution state of one bulk-send request. Total is
// fixed at creation; Progress never decreases and reaches 100 exactly
// when Status becomes COMPLETED; Logs is append-only; Summary is set
// only on completion.
type Job struct {
	ID        string
	Status    JobStatus
	Progress  int
	Total     int
	StartedAt time.Time
	Logs      []string
	Summary   string
}

// Clone returns a deep copy so registry readers never share the live
// Logs slice with the job's worker.
func (j *Job) Clone() *Job {
	if j == nil {
		return nil
	}

	clone := *j
	clone.Logs = make([]string, len(j.Logs))
	copy(clone.Logs, j.Logs)
	return &clone
}

// FormatSummary renders the completion summary line.
func FormatSummary(successCount, failCount int) string {
	return fmt.Sprintf("Sent: %d, Failed: %d", successCount, failCount)
}
