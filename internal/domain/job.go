package domain

// Job is a listing posted by an employer.
type Job struct {
	ID          int64
	Title       string
	Description string
	Location    string
	JobType     string
	Salary      string
	PostedBy    int64
	IsClosed    bool
}

// JobSummary is a job annotated with its live applicant count.
type JobSummary struct {
	Job
	ApplicantCount int
}

// JobPage is one page of a job listing.
type JobPage struct {
	Jobs     []Job
	Query    string
	Page     int
	PageSize int
	Total    int
}

// Pages returns the number of pages needed for Total.
func (p JobPage) Pages() int {
	if p.PageSize <= 0 || p.Total == 0 {
		return 0
	}
	return (p.Total + p.PageSize - 1) / p.PageSize
}

func (p JobPage) HasPrev() bool { return p.Page > 1 }

func (p JobPage) HasNext() bool { return p.Page < p.Pages() }

func (p JobPage) PrevPage() int { return p.Page - 1 }

func (p JobPage) NextPage() int { return p.Page + 1 }
