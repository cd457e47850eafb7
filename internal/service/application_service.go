package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spec-kit/job-board/internal/domain"
	"github.com/spec-kit/job-board/internal/events"
	"github.com/spec-kit/job-board/internal/repository"
	"github.com/spec-kit/job-board/internal/storage"
	apperrors "github.com/spec-kit/job-board/pkg/util/errorutil"
)

// ErrInvalidResume is returned by UploadResume for a missing or non-PDF file.
var ErrInvalidResume = errors.New("invalid file or no file selected")

// ResumeUpload is an uploaded file as received from the form.
type ResumeUpload struct {
	Filename string
	Content  io.Reader
}

// ApplyInput is the application form.
type ApplyInput struct {
	CoverLetter string
	Resume      *ResumeUpload
}

// Profile is a seeker's account with their application history.
type Profile struct {
	User         *domain.User
	Applications []domain.ApplicationWithJob
}

// JobApplicants is a job with every application submitted to it.
type JobApplicants struct {
	Job        *domain.Job
	Applicants []domain.Applicant
}

// ApplicationService coordinates the seeker and employer sides of applying.
type ApplicationService struct {
	applications   repository.ApplicationRepository
	jobs           repository.JobRepository
	users          repository.UserRepository
	resumes        storage.ResumeStore
	dispatcher     events.Dispatcher
	enforceOwnerOf bool
	now            func() time.Time
}

// ApplicationDependencies bundles collaborators for the application service.
type ApplicationDependencies struct {
	ApplicationRepo repository.ApplicationRepository
	JobRepo         repository.JobRepository
	UserRepo        repository.UserRepository
	Resumes         storage.ResumeStore
	Dispatcher      events.Dispatcher
	// EnforceJobOwnership restricts ViewApplicants and UpdateStatus to the
	// employer who posted the job.
	EnforceJobOwnership bool
}

// NewApplicationService constructs the service.
func NewApplicationService(deps ApplicationDependencies) *ApplicationService {
	return &ApplicationService{
		applications:   deps.ApplicationRepo,
		jobs:           deps.JobRepo,
		users:          deps.UserRepo,
		resumes:        deps.Resumes,
		dispatcher:     deps.Dispatcher,
		enforceOwnerOf: deps.EnforceJobOwnership,
		now:            time.Now,
	}
}

// Apply records a Pending application and sends the confirmation mail to the
// actor's session email. A résumé without a pdf extension is dropped silently.
// A notification failure is returned after the application is stored.
func (s *ApplicationService) Apply(ctx context.Context, actor domain.Actor, jobID int64, input ApplyInput) (*domain.Application, error) {
	if !actor.Is(domain.RoleSeeker) {
		return nil, apperrors.NewUnauthorized("seeker required")
	}
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if input.CoverLetter == "" {
		return nil, apperrors.NewValidationError("cover_letter required", nil)
	}

	var resumePath *string
	if input.Resume != nil && storage.IsPDF(input.Resume.Filename) {
		stored, err := s.resumes.Save(ctx, input.Resume.Filename, input.Resume.Content)
		switch {
		case errors.Is(err, storage.ErrInvalidFilename):
			// nothing usable left of the name; treat as no attachment
		case err != nil:
			return nil, fmt.Errorf("store resume: %w", err)
		default:
			resumePath = &stored
		}
	}

	application := &domain.Application{
		JobID:           job.ID,
		UserID:          actor.UserID,
		CoverLetter:     input.CoverLetter,
		ResumePath:      resumePath,
		ApplicationDate: s.now().UTC(),
		Status:          domain.ApplicationStatusPending,
	}
	if err := s.applications.Create(ctx, application); err != nil {
		return nil, fmt.Errorf("create application: %w", err)
	}

	if s.dispatcher != nil {
		err := s.dispatcher.Publish(ctx, events.Event{
			Type:  events.EventApplicationSubmitted,
			JobID: job.ID,
			Actor: events.ActorFrom(actor),
			Payload: events.ApplicationSubmittedPayload{
				ApplicationID: application.ID,
				JobTitle:      job.Title,
				SeekerEmail:   actor.Email,
				HasResume:     resumePath != nil,
			},
		})
		if err != nil {
			return application, fmt.Errorf("notify application %d: %w", application.ID, err)
		}
	}
	return application, nil
}

// SeekerDashboard lists the actor's applications with their jobs.
func (s *ApplicationService) SeekerDashboard(ctx context.Context, actor domain.Actor) ([]domain.ApplicationWithJob, error) {
	if !actor.Is(domain.RoleSeeker) {
		return nil, apperrors.NewUnauthorized("seeker required")
	}
	return s.applications.ListByUser(ctx, actor.UserID)
}

// Profile returns the actor's account and application history.
func (s *ApplicationService) Profile(ctx context.Context, actor domain.Actor) (*Profile, error) {
	if !actor.Is(domain.RoleSeeker) {
		return nil, apperrors.NewUnauthorized("seeker required")
	}
	user, err := s.users.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	applications, err := s.applications.ListByUser(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	return &Profile{User: user, Applications: applications}, nil
}

// UploadResume replaces the actor's stored résumé. A missing or non-PDF file
// returns ErrInvalidResume and leaves the profile unchanged.
func (s *ApplicationService) UploadResume(ctx context.Context, actor domain.Actor, upload *ResumeUpload) (*domain.User, error) {
	if !actor.Is(domain.RoleSeeker) {
		return nil, apperrors.NewUnauthorized("seeker required")
	}
	if upload == nil || !storage.IsPDF(upload.Filename) {
		return nil, ErrInvalidResume
	}
	user, err := s.users.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	stored, err := s.resumes.Save(ctx, upload.Filename, upload.Content)
	if errors.Is(err, storage.ErrInvalidFilename) {
		return nil, ErrInvalidResume
	}
	if err != nil {
		return nil, fmt.Errorf("store resume: %w", err)
	}

	user.ResumePath = &stored
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

// UpdateExperience overwrites the actor's experience text, empty included.
func (s *ApplicationService) UpdateExperience(ctx context.Context, actor domain.Actor, experience string) (*domain.User, error) {
	if !actor.Is(domain.RoleSeeker) {
		return nil, apperrors.NewUnauthorized("seeker required")
	}
	user, err := s.users.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	user.Experience = &experience
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

// ViewApplicants returns a job and all applications to it. Any employer may
// call it unless job ownership is enforced.
func (s *ApplicationService) ViewApplicants(ctx context.Context, actor domain.Actor, jobID int64) (*JobApplicants, error) {
	if !actor.Is(domain.RoleEmployer) {
		return nil, apperrors.NewUnauthorized("employer required")
	}
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if s.enforceOwnerOf && job.PostedBy != actor.UserID {
		return nil, apperrors.NewForbidden("job owner required")
	}
	applicants, err := s.applications.ListByJob(ctx, job.ID)
	if err != nil {
		return nil, err
	}
	return &JobApplicants{Job: job, Applicants: applicants}, nil
}

// UpdateStatus sets an application's status to any of the four labels. No
// transition order is enforced; unknown labels are rejected without mutation.
func (s *ApplicationService) UpdateStatus(ctx context.Context, actor domain.Actor, applicationID int64, status domain.ApplicationStatus) (*domain.Application, error) {
	if !actor.Is(domain.RoleEmployer) {
		return nil, apperrors.NewUnauthorized("employer required")
	}
	application, err := s.applications.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, apperrors.NewValidationError("unknown application status", map[string]any{
			"status":  status,
			"allowed": domain.ApplicationStatuses,
		})
	}
	if s.enforceOwnerOf {
		job, err := s.jobs.GetByID(ctx, application.JobID)
		if err != nil {
			return nil, err
		}
		if job.PostedBy != actor.UserID {
			return nil, apperrors.NewForbidden("job owner required")
		}
	}

	previous := application.Status
	if err := s.applications.UpdateStatus(ctx, application.ID, status); err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}
	application.Status = status

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			Type:  events.EventApplicationStatusChanged,
			JobID: application.JobID,
			Actor: events.ActorFrom(actor),
			Payload: events.ApplicationStatusChangedPayload{
				ApplicationID: application.ID,
				OldStatus:     previous,
				NewStatus:     status,
			},
		})
	}
	return application, nil
}
