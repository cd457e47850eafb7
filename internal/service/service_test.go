package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/job-board/internal/config"
	"github.com/spec-kit/job-board/internal/domain"
	"github.com/spec-kit/job-board/internal/events"
	"github.com/spec-kit/job-board/internal/mailer"
	"github.com/spec-kit/job-board/internal/repository/inmemory"
	"github.com/spec-kit/job-board/internal/storage"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []mailer.Message
	err  error
}

func (m *recordingMailer) Send(_ context.Context, msg mailer.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

type fixture struct {
	store        *inmemory.Store
	fs           afero.Fs
	mail         *recordingMailer
	auth         *AuthService
	jobs         *JobService
	applications *ApplicationService
}

func testConfig() config.Config {
	return config.Config{Auth: config.AuthConfig{
		SessionSecret:     "test-secret",
		SessionTTLMinutes: 60,
		BcryptCost:        4,
	}}
}

func newFixture(t *testing.T, enforceOwnership bool) *fixture {
	t.Helper()
	store := inmemory.NewStore()
	fs := afero.NewMemMapFs()
	mail := &recordingMailer{}
	dispatcher := events.NewInMemoryDispatcher()
	NewNotificationService(dispatcher, mail, zap.NewNop()).RegisterHandlers()

	return &fixture{
		store: store,
		fs:    fs,
		mail:  mail,
		auth: NewAuthService(testConfig(), AuthDependencies{
			UserRepo:    store.Users(),
			SessionRepo: store.Sessions(),
		}),
		jobs: NewJobService(JobDependencies{
			JobRepo:    store.Jobs(),
			Dispatcher: dispatcher,
		}),
		applications: NewApplicationService(ApplicationDependencies{
			ApplicationRepo:     store.Applications(),
			JobRepo:             store.Jobs(),
			UserRepo:            store.Users(),
			Resumes:             storage.NewResumeStore(fs),
			Dispatcher:          dispatcher,
			EnforceJobOwnership: enforceOwnership,
		}),
	}
}

func (f *fixture) register(t *testing.T, email string, role domain.Role) domain.Actor {
	t.Helper()
	user, err := f.auth.Register(context.Background(), RegisterInput{Name: "N", Email: email, Password: "pw", Role: role})
	require.NoError(t, err)
	return domain.Actor{UserID: user.ID, Role: user.Role, Email: user.Email}
}

func (f *fixture) postJob(t *testing.T, employer domain.Actor, title string) *domain.Job {
	t.Helper()
	job, err := f.jobs.PostJob(context.Background(), employer, JobInput{
		Title:       title,
		Description: "Build things",
		Location:    "Remote",
		JobType:     "Full-time",
		Salary:      "100k",
	})
	require.NoError(t, err)
	return job
}

var errSMTP = errors.New("smtp: connection refused")

var fixedNow = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
