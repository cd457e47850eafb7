package domain

import "time"

// ApplicationStatus enumerates review states for an application.
type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "Pending"
	ApplicationStatusReviewed ApplicationStatus = "Reviewed"
	ApplicationStatusAccepted ApplicationStatus = "Accepted"
	ApplicationStatusRejected ApplicationStatus = "Rejected"
)

// ApplicationStatuses lists every status in display order.
var ApplicationStatuses = []ApplicationStatus{
	ApplicationStatusPending,
	ApplicationStatusReviewed,
	ApplicationStatusAccepted,
	ApplicationStatusRejected,
}

// Valid reports whether s is one of the four allowed labels.
func (s ApplicationStatus) Valid() bool {
	for _, known := range ApplicationStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Application is a seeker's request to be considered for a job.
type Application struct {
	ID              int64
	JobID           int64
	UserID          int64
	CoverLetter     string
	ResumePath      *string
	ApplicationDate time.Time
	Status          ApplicationStatus
}

// ApplicationWithJob carries the joined job for seeker views.
type ApplicationWithJob struct {
	Application
	Job Job
}

// Applicant carries the joined user for employer views.
type Applicant struct {
	Application
	Name  *string
	Email string
}

// DisplayName falls back to the email when the applicant has no name.
func (a Applicant) DisplayName() string {
	if a.Name != nil && *a.Name != "" {
		return *a.Name
	}
	return a.Email
}
