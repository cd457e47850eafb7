package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/job-board/internal/api/dto"
	"github.com/spec-kit/job-board/internal/domain"
	"github.com/spec-kit/job-board/internal/service"
)

// ApplicationsHandler serves the apply flow, seeker pages and the employer
// review pages.
type ApplicationsHandler struct {
	applications *service.ApplicationService
	jobs         *service.JobService
}

// NewApplicationsHandler constructs handler.
func NewApplicationsHandler(applications *service.ApplicationService, jobs *service.JobService) *ApplicationsHandler {
	return &ApplicationsHandler{applications: applications, jobs: jobs}
}

// ApplyForm handles GET /apply/:job_id.
func (h *ApplicationsHandler) ApplyForm(c *fiber.Ctx) error {
	jobID, err := idParam(c, "job_id")
	if err != nil {
		return err
	}
	job, err := h.jobs.GetJob(c.UserContext(), jobID)
	if err != nil {
		return err
	}
	return render(c, "apply", fiber.Map{"Title": "Apply", "Job": job})
}

// Apply handles POST /apply/:job_id.
func (h *ApplicationsHandler) Apply(c *fiber.Ctx) error {
	jobID, err := idParam(c, "job_id")
	if err != nil {
		return err
	}
	var form dto.ApplyForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid form")
	}

	resume, closeResume, err := formResume(c)
	if err != nil {
		return err
	}
	defer closeResume()

	_, err = h.applications.Apply(c.UserContext(), principal(c).Actor(), jobID, service.ApplyInput{
		CoverLetter: form.CoverLetter,
		Resume:      resume,
	})
	if msg, ok := validationMessage(err); ok {
		return flashRedirect(c, msg, c.Path())
	}
	if err != nil {
		return err
	}
	return flashRedirect(c, "Applied successfully! A confirmation email was sent.", "/dashboard/seeker")
}

// SeekerDashboard handles GET /dashboard/seeker.
func (h *ApplicationsHandler) SeekerDashboard(c *fiber.Ctx) error {
	applications, err := h.applications.SeekerDashboard(c.UserContext(), principal(c).Actor())
	if err != nil {
		return err
	}
	return render(c, "dashboard_seeker", fiber.Map{
		"Title":        "Seeker dashboard",
		"User":         principal(c).User,
		"Applications": applications,
	})
}

// Profile handles GET /profile.
func (h *ApplicationsHandler) Profile(c *fiber.Ctx) error {
	profile, err := h.applications.Profile(c.UserContext(), principal(c).Actor())
	if err != nil {
		return err
	}
	return render(c, "profile", fiber.Map{
		"Title":        "Profile",
		"User":         profile.User,
		"Applications": profile.Applications,
	})
}

// UploadResume handles POST /upload-resume.
func (h *ApplicationsHandler) UploadResume(c *fiber.Ctx) error {
	resume, closeResume, err := formResume(c)
	if err != nil {
		return err
	}
	defer closeResume()

	_, err = h.applications.UploadResume(c.UserContext(), principal(c).Actor(), resume)
	if errors.Is(err, service.ErrInvalidResume) {
		return flashRedirect(c, "Invalid file or no file selected.", "/profile")
	}
	if err != nil {
		return err
	}
	return flashRedirect(c, "Resume uploaded successfully!", "/profile")
}

// UpdateExperience handles POST /update-experience.
func (h *ApplicationsHandler) UpdateExperience(c *fiber.Ctx) error {
	var form dto.ExperienceForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid form")
	}
	if _, err := h.applications.UpdateExperience(c.UserContext(), principal(c).Actor(), form.Experience); err != nil {
		return err
	}
	return flashRedirect(c, "Experience updated.", "/profile")
}

// ViewApplicants handles GET /view-applicants/:job_id.
func (h *ApplicationsHandler) ViewApplicants(c *fiber.Ctx) error {
	jobID, err := idParam(c, "job_id")
	if err != nil {
		return err
	}
	view, err := h.applications.ViewApplicants(c.UserContext(), principal(c).Actor(), jobID)
	if err != nil {
		return err
	}
	return render(c, "view_applicants", fiber.Map{
		"Title":      "Applicants",
		"Job":        view.Job,
		"Applicants": view.Applicants,
		"Statuses":   domain.ApplicationStatuses,
	})
}

// UpdateStatus handles POST /update-status/:app_id.
func (h *ApplicationsHandler) UpdateStatus(c *fiber.Ctx) error {
	appID, err := idParam(c, "app_id")
	if err != nil {
		return err
	}
	var form dto.StatusForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid form")
	}

	application, err := h.applications.UpdateStatus(c.UserContext(), principal(c).Actor(), appID, domain.ApplicationStatus(form.Status))
	if err != nil {
		return err
	}
	return flashRedirect(c, "Application status updated.", "/view-applicants/"+strconv.FormatInt(application.JobID, 10))
}

// formResume opens the optional "resume" file field. The returned closer is
// always safe to call.
func formResume(c *fiber.Ctx) (*service.ResumeUpload, func(), error) {
	noop := func() {}
	header, err := c.FormFile("resume")
	if err != nil || header.Filename == "" {
		// no file part, or not a multipart body at all
		return nil, noop, nil
	}
	file, err := header.Open()
	if err != nil {
		return nil, noop, err
	}
	return &service.ResumeUpload{Filename: header.Filename, Content: file}, closeFile(file), nil
}

func closeFile(f multipart.File) func() {
	return func() { _ = f.Close() }
}
