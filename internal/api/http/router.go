package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/job-board/internal/api/http/handlers"
	"github.com/spec-kit/job-board/internal/auth"
	"github.com/spec-kit/job-board/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health            *handlers.HealthHandler
	Auth              *handlers.AuthHandler
	Jobs              *handlers.JobsHandler
	Applications      *handlers.ApplicationsHandler
	SessionMiddleware *auth.SessionMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Use(cfg.SessionMiddleware.Handle)

	app.Get("/", cfg.Auth.Index)
	app.Get("/register", cfg.Auth.RegisterForm)
	app.Post("/register", cfg.Auth.Register)
	app.Get("/login", cfg.Auth.LoginForm)
	app.Post("/login", cfg.Auth.Login)
	app.Get("/home", auth.RequireSession(), cfg.Auth.Home)
	app.Get("/logout", auth.RequireSession(), cfg.Auth.Logout)

	app.Get("/jobs", cfg.Jobs.List)
	app.Get("/search", cfg.Jobs.Search)

	employer := auth.RequireRole(domain.RoleEmployer)
	app.Get("/post-job", employer, cfg.Jobs.PostJobForm)
	app.Post("/post-job", employer, cfg.Jobs.PostJob)
	app.Post("/close-job/:job_id", employer, cfg.Jobs.Close)
	app.Get("/dashboard/employer", employer, cfg.Jobs.EmployerDashboard)
	app.Get("/view-applicants/:job_id", employer, cfg.Applications.ViewApplicants)
	app.Post("/update-status/:app_id", employer, cfg.Applications.UpdateStatus)

	seeker := auth.RequireRole(domain.RoleSeeker)
	app.Get("/apply/:job_id", seeker, cfg.Applications.ApplyForm)
	app.Post("/apply/:job_id", seeker, cfg.Applications.Apply)
	app.Get("/dashboard/seeker", seeker, cfg.Applications.SeekerDashboard)
	app.Get("/profile", seeker, cfg.Applications.Profile)
	app.Post("/upload-resume", seeker, cfg.Applications.UploadResume)
	app.Post("/update-experience", seeker, cfg.Applications.UpdateExperience)
}
