package dto

// JobForm is posted by the post-job page.
type JobForm struct {
	Title       string `form:"title"`
	Description string `form:"description"`
	Location    string `form:"location"`
	JobType     string `form:"job_type"`
	Salary      string `form:"salary"`
}

