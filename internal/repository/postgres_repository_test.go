package repository_test

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/job-board/internal/domain"
	"github.com/spec-kit/job-board/internal/persistence"
	"github.com/spec-kit/job-board/internal/repository"
)

// newTestPostgres connects to TEST_POSTGRES_DSN, applies the repository
// migrations and empties every table. Tests skip when the variable is unset.
func newTestPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, pool.Ping(ctx))

	require.NoError(t, persistence.RunMigrations(ctx, pool, "../../migrations", zap.NewNop()))
	_, err = pool.Exec(ctx, `TRUNCATE applications, jobs, users RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
	return pool
}

func createUser(t *testing.T, users repository.UserRepository, email string, role domain.Role) *domain.User {
	t.Helper()
	user := &domain.User{Email: email, PasswordHash: "hash", Role: role}
	require.NoError(t, users.Create(context.Background(), user))
	return user
}

func createJob(t *testing.T, jobs repository.JobRepository, owner int64, title string) *domain.Job {
	t.Helper()
	job := &domain.Job{
		Title:       title,
		Description: "Build APIs",
		Location:    "Remote",
		JobType:     "Full-time",
		Salary:      "100k",
		PostedBy:    owner,
	}
	require.NoError(t, jobs.Create(context.Background(), job))
	return job
}

func TestPostgresUserRepository(t *testing.T) {
	pool := newTestPostgres(t)
	users := repository.NewUserRepository(pool)
	ctx := context.Background()

	user := createUser(t, users, "a@example.com", domain.RoleEmployer)
	assert.Equal(t, int64(1), user.ID)

	err := users.Create(ctx, &domain.User{Email: "a@example.com", PasswordHash: "x", Role: domain.RoleSeeker})
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)

	name := "Ada"
	user.Name = &name
	require.NoError(t, users.Update(ctx, user))

	got, err := users.GetByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	require.NotNil(t, got.Name)
	assert.Equal(t, "Ada", *got.Name)
	assert.Equal(t, domain.RoleEmployer, got.Role)

	_, err = users.GetByID(ctx, 99)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = users.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPostgresUserRepositoryAcceptsLongValues(t *testing.T) {
	pool := newTestPostgres(t)
	users := repository.NewUserRepository(pool)
	jobs := repository.NewJobRepository(pool)

	long := strings.Repeat("x", 300)
	user := &domain.User{Name: &long, Email: long + "@example.com", PasswordHash: "hash", Role: domain.RoleEmployer}
	require.NoError(t, users.Create(context.Background(), user))

	job := createJob(t, jobs, user.ID, strings.Repeat("Senior ", 60))
	got, err := jobs.GetByID(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Len(t, got.Title, 7*60)
}

func TestPostgresJobRepositorySearch(t *testing.T) {
	pool := newTestPostgres(t)
	users := repository.NewUserRepository(pool)
	jobs := repository.NewJobRepository(pool)
	ctx := context.Background()

	owner := createUser(t, users, "e@example.com", domain.RoleEmployer)
	other := createUser(t, users, "o@example.com", domain.RoleEmployer)
	createJob(t, jobs, owner.ID, "Backend Engineer")
	createJob(t, jobs, owner.ID, "100% Remote backend")
	createJob(t, jobs, other.ID, "Data_Analyst")

	found, err := jobs.List(ctx, repository.JobFilter{TitleSearch: "BACKEND", Limit: 10})
	require.NoError(t, err)
	assert.Len(t, found, 2)

	total, err := jobs.Count(ctx, repository.JobFilter{TitleSearch: "%"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	total, err = jobs.Count(ctx, repository.JobFilter{TitleSearch: "a_a"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	total, err = jobs.Count(ctx, repository.JobFilter{TitleSearch: "_"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	// newest first
	page, err := jobs.List(ctx, repository.JobFilter{Limit: 2, Offset: 2})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "Backend Engineer", page[0].Title)

	mine, err := jobs.Count(ctx, repository.JobFilter{PostedBy: &owner.ID})
	require.NoError(t, err)
	assert.Equal(t, 2, mine)
}

func TestPostgresApplicationJoins(t *testing.T) {
	pool := newTestPostgres(t)
	users := repository.NewUserRepository(pool)
	jobs := repository.NewJobRepository(pool)
	applications := repository.NewApplicationRepository(pool)
	ctx := context.Background()

	owner := createUser(t, users, "e@example.com", domain.RoleEmployer)
	seeker := createUser(t, users, "s@example.com", domain.RoleSeeker)
	first := createJob(t, jobs, owner.ID, "Backend Engineer")
	second := createJob(t, jobs, owner.ID, "Frontend Engineer")

	application := &domain.Application{
		JobID:           first.ID,
		UserID:          seeker.ID,
		CoverLetter:     "Hire me",
		ApplicationDate: time.Now().UTC(),
		Status:          domain.ApplicationStatusPending,
	}
	require.NoError(t, applications.Create(ctx, application))

	require.NoError(t, applications.UpdateStatus(ctx, application.ID, domain.ApplicationStatusAccepted))
	assert.ErrorIs(t, applications.UpdateStatus(ctx, 99, domain.ApplicationStatusAccepted), domain.ErrNotFound)

	got, err := applications.GetByID(ctx, application.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ApplicationStatusAccepted, got.Status)
	assert.Nil(t, got.ResumePath)
	_, err = applications.GetByID(ctx, 99)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	mine, err := applications.ListByUser(ctx, seeker.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Backend Engineer", mine[0].Job.Title)

	applicants, err := applications.ListByJob(ctx, first.ID)
	require.NoError(t, err)
	require.Len(t, applicants, 1)
	assert.Equal(t, "s@example.com", applicants[0].Email)
	assert.Equal(t, "s@example.com", applicants[0].DisplayName())

	require.NoError(t, jobs.MarkClosed(ctx, second.ID))
	summaries, err := jobs.ListByOwnerWithCounts(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, 1, summaries[0].ApplicantCount)
	assert.Equal(t, 0, summaries[1].ApplicantCount)
	assert.True(t, summaries[1].IsClosed)
}
