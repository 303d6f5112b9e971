package domain

import (
	"errors"
	"fmt"
	"time"
)

// JobStatus is the application status tracked per job.
type JobStatus string

const (
	StatusNotApplied JobStatus = "Not Applied"
	StatusApplied    JobStatus = "Applied"
	StatusRejected   JobStatus = "Rejected"
	StatusSelected   JobStatus = "Selected"

	// DefaultStatus applies to every job without a ledger entry.
	DefaultStatus = StatusNotApplied

	// StatusLogLimit caps the status change history.
	StatusLogLimit = 50
)

var AllStatuses = []JobStatus{StatusNotApplied, StatusApplied, StatusRejected, StatusSelected}

var ErrInvalidStatus = errors.New("invalid job status")

func ParseStatus(s string) (JobStatus, error) {
	st := JobStatus(s)
	switch st {
	case StatusNotApplied, StatusApplied, StatusRejected, StatusSelected:
		return st, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// StatusOrDefault maps a missing ledger entry to DefaultStatus.
func StatusOrDefault(st JobStatus) JobStatus {
	if st == "" {
		return DefaultStatus
	}
	return st
}

// StatusLogEntry records one move away from the default status.
type StatusLogEntry struct {
	JobID    string    `json:"jobId"`
	JobTitle string    `json:"jobTitle"`
	Company  string    `json:"company"`
	Status   JobStatus `json:"status"`
	Date     time.Time `json:"date"`
}
