package domain

// JobPosting is one role returned by the batched job search.
type JobPosting struct {
	ID        ID     `json:"id"`
	Title     string `json:"title"`
	Company   string `json:"company"` // source company name, not a key into Company
	Location  string `json:"location,omitempty"`
	URL       string `json:"url"`
	PostedAt  string `json:"postedAt,omitempty"`
	Seniority string `json:"seniority,omitempty"`
}

// JobGroup is the backend's per-company bundle of postings.
// Company is a free-form label and is matched to a Company by name only.
type JobGroup struct {
	Company string       `json:"company"`
	Jobs    []JobPosting `json:"jobs"`
}

// Salary is a yearly range in pounds.
type Salary struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// JobDetail is the richer job record served by the company profile endpoints.
type JobDetail struct {
	ID              ID       `json:"id"`
	Title           string   `json:"title"`
	Company         string   `json:"company"`
	Location        string   `json:"location"`
	Description     string   `json:"description"`
	Requirements    []string `json:"requirements"`
	ExperienceLevel string   `json:"experienceLevel"`
	JobURL          string   `json:"jobUrl"`
	Salary          *Salary  `json:"salary,omitempty"`
	MatchScore      *int     `json:"matchScore,omitempty"`
}

// Profile is a company overview record.
type Profile struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Industry    string `json:"industry"`
	Size        string `json:"size"`
	Website     string `json:"website"`
	Logo        string `json:"logo,omitempty"`
}

// Overview bundles a profile with its open roles.
type Overview struct {
	Company Profile     `json:"company"`
	Jobs    []JobDetail `json:"jobs"`
}
