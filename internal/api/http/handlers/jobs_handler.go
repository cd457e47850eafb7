package handlers

import (
	"net/http"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/job-board/internal/api/dto"
	"github.com/spec-kit/job-board/internal/service"
)

// JobsHandler serves listing pages for both roles.
type JobsHandler struct {
	jobs *service.JobService
}

// NewJobsHandler constructs handler.
func NewJobsHandler(jobs *service.JobService) *JobsHandler {
	return &JobsHandler{jobs: jobs}
}

// PostJobForm handles GET /post-job.
func (h *JobsHandler) PostJobForm(c *fiber.Ctx) error {
	return render(c, "post_job", fiber.Map{"Title": "Post a job"})
}

// PostJob handles POST /post-job.
func (h *JobsHandler) PostJob(c *fiber.Ctx) error {
	var form dto.JobForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid form")
	}

	_, err := h.jobs.PostJob(c.UserContext(), principal(c).Actor(), service.JobInput{
		Title:       form.Title,
		Description: form.Description,
		Location:    form.Location,
		JobType:     form.JobType,
		Salary:      form.Salary,
	})
	if msg, ok := validationMessage(err); ok {
		return flashRedirect(c, msg, "/post-job")
	}
	if err != nil {
		return err
	}
	return flashRedirect(c, "Job posted successfully!", "/jobs")
}

// List handles GET /jobs?q=&page=.
func (h *JobsHandler) List(c *fiber.Ctx) error {
	page, err := h.jobs.ListJobs(c.UserContext(), c.Query("q"), c.QueryInt("page", 1))
	if err != nil {
		return err
	}
	return render(c, "jobs", fiber.Map{"Title": "Jobs", "Page": page})
}

// Search handles GET /search?q= by forwarding to the listing.
func (h *JobsHandler) Search(c *fiber.Ctx) error {
	return c.Redirect("/jobs?q="+url.QueryEscape(c.Query("q")), fiber.StatusFound)
}

// Close handles POST /close-job/:job_id. A caller who does not own the job
// is sent back to the dashboard without a notice.
func (h *JobsHandler) Close(c *fiber.Ctx) error {
	jobID, err := idParam(c, "job_id")
	if err != nil {
		return err
	}
	closed, err := h.jobs.CloseJob(c.UserContext(), principal(c).Actor(), jobID)
	if err != nil {
		return err
	}
	if closed {
		Flash(c, "Job marked as closed.")
	}
	return c.Redirect("/dashboard/employer", fiber.StatusFound)
}

// EmployerDashboard handles GET /dashboard/employer.
func (h *JobsHandler) EmployerDashboard(c *fiber.Ctx) error {
	jobs, err := h.jobs.EmployerDashboard(c.UserContext(), principal(c).Actor())
	if err != nil {
		return err
	}
	return render(c, "dashboard_employer", fiber.Map{"Title": "Employer dashboard", "Jobs": jobs})
}
