package service

import (
	"context"
	"fmt"
	"math"

	"github.com/spec-kit/job-board/internal/domain"
	"github.com/spec-kit/job-board/internal/events"
	"github.com/spec-kit/job-board/internal/repository"
	apperrors "github.com/spec-kit/job-board/pkg/util/errorutil"
)

// DefaultPageSize is the number of jobs shown per listing page.
const DefaultPageSize = 5

// JobService coordinates listing workflows.
type JobService struct {
	jobs       repository.JobRepository
	dispatcher events.Dispatcher
	pageSize   int
}

// JobDependencies bundles repositories for job service.
type JobDependencies struct {
	JobRepo    repository.JobRepository
	Dispatcher events.Dispatcher
	PageSize   int
}

// JobInput describes the post-job form.
type JobInput struct {
	Title       string
	Description string
	Location    string
	JobType     string
	Salary      string
}

// NewJobService constructs the service.
func NewJobService(deps JobDependencies) *JobService {
	pageSize := deps.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &JobService{
		jobs:       deps.JobRepo,
		dispatcher: deps.Dispatcher,
		pageSize:   pageSize,
	}
}

// PostJob creates an open listing owned by the employer.
func (s *JobService) PostJob(ctx context.Context, actor domain.Actor, input JobInput) (*domain.Job, error) {
	if !actor.Is(domain.RoleEmployer) {
		return nil, apperrors.NewUnauthorized("employer required")
	}
	if input.Title == "" || input.Description == "" || input.Location == "" || input.JobType == "" || input.Salary == "" {
		return nil, apperrors.NewValidationError("title, description, location, job_type, salary required", nil)
	}

	job := &domain.Job{
		Title:       input.Title,
		Description: input.Description,
		Location:    input.Location,
		JobType:     input.JobType,
		Salary:      input.Salary,
		PostedBy:    actor.UserID,
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}

	s.publish(ctx, events.Event{
		Type:  events.EventJobPosted,
		JobID: job.ID,
		Actor: events.ActorFrom(actor),
		Payload: events.JobPostedPayload{
			Title:    job.Title,
			Location: job.Location,
			JobType:  job.JobType,
		},
	})
	return job, nil
}

// ListJobs returns one page of jobs, newest first, optionally filtered by a
// case-insensitive title substring. Pages below 1 are treated as page 1 and
// pages past the end are empty.
func (s *JobService) ListJobs(ctx context.Context, query string, page int) (domain.JobPage, error) {
	if page < 1 {
		page = 1
	}
	filter := repository.JobFilter{
		TitleSearch: query,
		Limit:       s.pageSize,
	}

	total, err := s.jobs.Count(ctx, filter)
	if err != nil {
		return domain.JobPage{}, fmt.Errorf("count jobs: %w", err)
	}

	var jobs []domain.Job
	// a page whose offset does not fit in an int is necessarily past the end
	if page <= math.MaxInt/s.pageSize {
		filter.Offset = (page - 1) * s.pageSize
		jobs, err = s.jobs.List(ctx, filter)
		if err != nil {
			return domain.JobPage{}, fmt.Errorf("list jobs: %w", err)
		}
	}

	return domain.JobPage{
		Jobs:     jobs,
		Query:    query,
		Page:     page,
		PageSize: s.pageSize,
		Total:    total,
	}, nil
}

// GetJob loads a single listing.
func (s *JobService) GetJob(ctx context.Context, jobID int64) (*domain.Job, error) {
	return s.jobs.GetByID(ctx, jobID)
}

// CloseJob marks the job closed when the actor owns it. A non-owner employer
// gets (false, nil) and the job is left untouched. Closing twice is a no-op.
func (s *JobService) CloseJob(ctx context.Context, actor domain.Actor, jobID int64) (bool, error) {
	if !actor.Is(domain.RoleEmployer) {
		return false, apperrors.NewUnauthorized("employer required")
	}
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return false, err
	}
	if job.PostedBy != actor.UserID {
		return false, nil
	}
	if job.IsClosed {
		return true, nil
	}
	if err := s.jobs.MarkClosed(ctx, jobID); err != nil {
		return false, fmt.Errorf("close job: %w", err)
	}

	s.publish(ctx, events.Event{
		Type:  events.EventJobClosed,
		JobID: jobID,
		Actor: events.ActorFrom(actor),
	})
	return true, nil
}

// EmployerDashboard lists the actor's jobs with live applicant counts.
func (s *JobService) EmployerDashboard(ctx context.Context, actor domain.Actor) ([]domain.JobSummary, error) {
	if !actor.Is(domain.RoleEmployer) {
		return nil, apperrors.NewUnauthorized("employer required")
	}
	return s.jobs.ListByOwnerWithCounts(ctx, actor.UserID)
}

// publish emits informational events; their handlers never fail the workflow.
func (s *JobService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}
