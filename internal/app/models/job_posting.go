package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// BranchAll opens a posting to every branch
const BranchAll = "All"

// DateLayout is the wire and storage format of posting deadlines
const DateLayout = "2006-01-02"

// PostingStatus is the lifecycle state of a job posting
type PostingStatus string

const (
	PostingOpen   PostingStatus = "Open"
	PostingClosed PostingStatus = "Closed"
)

// Valid reports whether s is a known posting status
func (s PostingStatus) Valid() bool {
	return s == PostingOpen || s == PostingClosed
}

// JobPosting defines the job posting model based on the 'job_postings' table
type JobPosting struct {
	ID                int64         `json:"job_id" db:"id"`
	OfficerID         int64         `json:"officer_id" db:"officer_id"`
	Title             string        `json:"title" db:"title"`
	Description       string        `json:"description" db:"description"`
	BranchEligibility string        `json:"branch_eligibility" db:"branch_eligibility"`
	MinCGPA           float64       `json:"min_cgpa" db:"min_cgpa"`
	PackageStipend    string        `json:"package_stipend" db:"package_stipend"`
	Deadline          Date          `json:"deadline" db:"deadline"`
	Status            PostingStatus `json:"status" db:"status"`
	CreatedAt         time.Time     `json:"created_at" db:"created_at"`

	Skills []string `json:"skills"`
}

// MatchesBranch applies the branch rule of the eligibility filter: "All" opens
// the posting to everyone, anything else must contain the student's branch.
// Both comparisons ignore case.
func (j *JobPosting) MatchesBranch(branch string) bool {
	eligibility := strings.TrimSpace(j.BranchEligibility)
	if strings.EqualFold(eligibility, BranchAll) {
		return true
	}
	branch = strings.TrimSpace(branch)
	if branch == "" {
		return false
	}
	return strings.Contains(strings.ToLower(eligibility), strings.ToLower(branch))
}

// AcceptsUntil reports whether the posting is open and its deadline has not
// passed on the given day.
func (j *JobPosting) AcceptsUntil(today time.Time) bool {
	if j.Status != PostingOpen {
		return false
	}
	return !DateOf(j.Deadline.Time).Before(DateOf(today))
}

// IsEligibleFor is the eligibility filter minus the "already applied" clause,
// which needs the application table.
func (j *JobPosting) IsEligibleFor(student *Student, today time.Time) bool {
	if student == nil {
		return false
	}
	return j.AcceptsUntil(today) && j.MinCGPA <= student.CGPA && j.MatchesBranch(student.Branch)
}

// DateOf truncates t to midnight UTC of its calendar day
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Date is a calendar day encoded as YYYY-MM-DD on the wire
type Date struct {
	time.Time
}

// ParseDate parses a YYYY-MM-DD string
func ParseDate(value string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(value))
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	parsed, err := ParseDate(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
