package model

import "time"

// PersonalInfo holds the scalar contact fields of a résumé. Name is seeded
// from the caller-supplied label; the other fields are filled at most once.
type PersonalInfo struct {
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
}

// Education is a single degree line.
type Education struct {
	Degree string `json:"degree"`
	School string `json:"school,omitempty"`
	Year   string `json:"year,omitempty"`
}

// Experience is a work history entry built from a header line plus bullets.
type Experience struct {
	Title       string `json:"title"`
	Company     string `json:"company,omitempty"`
	Duration    string `json:"duration,omitempty"`
	Description string `json:"description,omitempty"`
}

// Project is a portfolio entry built from a header line plus bullets.
type Project struct {
	Name         string `json:"name"`
	Technologies string `json:"technologies,omitempty"`
	Description  string `json:"description,omitempty"`
}

// StructuredResumeData is the structured form of a résumé's text.
// Slices are always non-nil so the JSON form carries [] rather than null.
type StructuredResumeData struct {
	PersonalInfo PersonalInfo `json:"personal_info"`
	Education    []Education  `json:"education"`
	Skills       []string     `json:"skills"`
	Experience   []Experience `json:"experience"`
	Projects     []Project    `json:"projects"`
}

// Resume is a stored résumé: the extracted text plus its structured form.
type Resume struct {
	ID         string               `json:"id"`
	OwnerID    string               `json:"user_id"`
	Name       string               `json:"resume_name"`
	Content    string               `json:"content,omitempty"`
	Data       StructuredResumeData `json:"resume_data"`
	SourceHash string               `json:"source_hash,omitempty"` // sha256 of the uploaded document, if any
	CreatedAt  time.Time            `json:"created_at"`
	UpdatedAt  time.Time            `json:"updated_at"`
}

// ResumeUpdate carries the fields of a partial update. Nil means unchanged.
type ResumeUpdate struct {
	Name *string
	Data *StructuredResumeData
}

// QAPair is one likely interview question with a suggested answer.
type QAPair struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// ChainStep records the outcome of one generation step.
type ChainStep struct {
	Step   string `json:"step"`
	Status string `json:"status"` // "success" or "failed"
	Count  int    `json:"count,omitempty"`
	Error  string `json:"error,omitempty"`
}

// ApplicationKit is the generated material for applying to one job.
type ApplicationKit struct {
	Email          string        `json:"email,omitempty"`
	CoverLetter    string        `json:"cover_letter,omitempty"`
	QA             []QAPair      `json:"q_and_a,omitempty"`
	Topics         []string      `json:"topics,omitempty"`
	Steps          []ChainStep   `json:"chain_status"`
	GenerationTime time.Duration `json:"generation_time"`
}

// Normalize replaces nil slices with empty ones.
func (d *StructuredResumeData) Normalize() {
	if d.Education == nil {
		d.Education = []Education{}
	}
	if d.Skills == nil {
		d.Skills = []string{}
	}
	if d.Experience == nil {
		d.Experience = []Experience{}
	}
	if d.Projects == nil {
		d.Projects = []Project{}
	}
}

// ResumeAnalysis scores a résumé against a job description.
type ResumeAnalysis struct {
	Score           int      `json:"score"` // 0 to 100
	KeywordsFound   []string `json:"keywords_found"`
	KeywordsMissing []string `json:"keywords_missing"`
}
