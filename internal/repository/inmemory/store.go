// Package inmemory provides map-backed repositories used when no Postgres DSN
// is configured and by tests.
package inmemory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/spec-kit/job-board/internal/domain"
	"github.com/spec-kit/job-board/internal/repository"
)

// Store holds all tables behind one lock so joins see a consistent view.
type Store struct {
	mu           sync.RWMutex
	users        map[int64]domain.User
	jobs         map[int64]domain.Job
	applications map[int64]domain.Application
	revoked      map[string]time.Time
	seq          map[string]int64
	now          func() time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		users:        make(map[int64]domain.User),
		jobs:         make(map[int64]domain.Job),
		applications: make(map[int64]domain.Application),
		revoked:      make(map[string]time.Time),
		seq:          make(map[string]int64),
		now:          time.Now,
	}
}

func (s *Store) nextID(table string) int64 {
	s.seq[table]++
	return s.seq[table]
}

// Users returns the identity store view.
func (s *Store) Users() repository.UserRepository { return &userRepository{s} }

// Jobs returns the listing store view.
func (s *Store) Jobs() repository.JobRepository { return &jobRepository{s} }

// Applications returns the application store view.
func (s *Store) Applications() repository.ApplicationRepository { return &applicationRepository{s} }

// Sessions returns the revocation list view.
func (s *Store) Sessions() repository.SessionRepository { return &sessionRepository{s} }

type userRepository struct{ s *Store }

func (r *userRepository) Create(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.users {
		if existing.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	user.ID = r.s.nextID("users")
	r.s.users[user.ID] = *user
	return nil
}

func (r *userRepository) Update(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.users[user.ID]
	if !ok {
		return fmt.Errorf("user %d: %w", user.ID, domain.ErrNotFound)
	}
	existing.Name = user.Name
	existing.PasswordHash = user.PasswordHash
	existing.Experience = user.Experience
	existing.ResumePath = user.ResumePath
	r.s.users[user.ID] = existing
	return nil
}

func (r *userRepository) GetByID(_ context.Context, id int64) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	user, ok := r.s.users[id]
	if !ok {
		return nil, fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, user := range r.s.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, fmt.Errorf("user %q: %w", email, domain.ErrNotFound)
}

type jobRepository struct{ s *Store }

func (r *jobRepository) Create(_ context.Context, job *domain.Job) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	job.ID = r.s.nextID("jobs")
	r.s.jobs[job.ID] = *job
	return nil
}

func (r *jobRepository) GetByID(_ context.Context, id int64) (*domain.Job, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	job, ok := r.s.jobs[id]
	if !ok {
		return nil, fmt.Errorf("job %d: %w", id, domain.ErrNotFound)
	}
	return &job, nil
}

func (r *jobRepository) MarkClosed(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	job, ok := r.s.jobs[id]
	if !ok {
		return fmt.Errorf("job %d: %w", id, domain.ErrNotFound)
	}
	job.IsClosed = true
	r.s.jobs[id] = job
	return nil
}

func (r *jobRepository) List(_ context.Context, filter repository.JobFilter) ([]domain.Job, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	matched := r.matching(filter)
	limit := filter.Limit
	if limit <= 0 {
		limit = 5
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	if offset >= len(matched) {
		return nil, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], nil
}

func (r *jobRepository) Count(_ context.Context, filter repository.JobFilter) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return len(r.matching(filter)), nil
}

// matching returns jobs passing filter ordered by id descending. Callers hold the lock.
func (r *jobRepository) matching(filter repository.JobFilter) []domain.Job {
	needle := strings.ToLower(filter.TitleSearch)
	var out []domain.Job
	for _, job := range r.s.jobs {
		if filter.PostedBy != nil && job.PostedBy != *filter.PostedBy {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(job.Title), needle) {
			continue
		}
		out = append(out, job)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (r *jobRepository) ListByOwnerWithCounts(_ context.Context, ownerID int64) ([]domain.JobSummary, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	counts := make(map[int64]int)
	for _, application := range r.s.applications {
		counts[application.JobID]++
	}

	var out []domain.JobSummary
	for _, job := range r.s.jobs {
		if job.PostedBy != ownerID {
			continue
		}
		out = append(out, domain.JobSummary{Job: job, ApplicantCount: counts[job.ID]})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type applicationRepository struct{ s *Store }

func (r *applicationRepository) Create(_ context.Context, application *domain.Application) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.jobs[application.JobID]; !ok {
		return fmt.Errorf("job %d: %w", application.JobID, domain.ErrNotFound)
	}
	if _, ok := r.s.users[application.UserID]; !ok {
		return fmt.Errorf("user %d: %w", application.UserID, domain.ErrNotFound)
	}
	application.ID = r.s.nextID("applications")
	r.s.applications[application.ID] = *application
	return nil
}

func (r *applicationRepository) GetByID(_ context.Context, id int64) (*domain.Application, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	application, ok := r.s.applications[id]
	if !ok {
		return nil, fmt.Errorf("application %d: %w", id, domain.ErrNotFound)
	}
	return &application, nil
}

func (r *applicationRepository) UpdateStatus(_ context.Context, id int64, status domain.ApplicationStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	application, ok := r.s.applications[id]
	if !ok {
		return fmt.Errorf("application %d: %w", id, domain.ErrNotFound)
	}
	application.Status = status
	r.s.applications[id] = application
	return nil
}

func (r *applicationRepository) ListByUser(_ context.Context, userID int64) ([]domain.ApplicationWithJob, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []domain.ApplicationWithJob
	for _, application := range r.s.applications {
		if application.UserID != userID {
			continue
		}
		out = append(out, domain.ApplicationWithJob{Application: application, Job: r.s.jobs[application.JobID]})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *applicationRepository) ListByJob(_ context.Context, jobID int64) ([]domain.Applicant, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []domain.Applicant
	for _, application := range r.s.applications {
		if application.JobID != jobID {
			continue
		}
		user := r.s.users[application.UserID]
		out = append(out, domain.Applicant{Application: application, Name: user.Name, Email: user.Email})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type sessionRepository struct{ s *Store }

func (r *sessionRepository) Revoke(_ context.Context, sessionID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.revoked[sessionID] = r.s.now().Add(ttl)
	return nil
}

func (r *sessionRepository) IsRevoked(_ context.Context, sessionID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	until, ok := r.s.revoked[sessionID]
	if !ok {
		return false, nil
	}
	if r.s.now().After(until) {
		delete(r.s.revoked, sessionID)
		return false, nil
	}
	return true, nil
}
