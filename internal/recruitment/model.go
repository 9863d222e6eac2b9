package recruitment

import (
	"time"
)

type JobType string

const (
	JobFullTime  JobType = "full-time"
	JobPartTime  JobType = "part-time"
	JobContract  JobType = "contract"
	JobTemporary JobType = "temporary"
)

type ExperienceLevel string

const (
	LevelEntry     ExperienceLevel = "entry"
	LevelMid       ExperienceLevel = "mid"
	LevelSenior    ExperienceLevel = "senior"
	LevelExecutive ExperienceLevel = "executive"
)

type ApplicationStatus string

const (
	StatusSubmitted   ApplicationStatus = "submitted"
	StatusUnderReview ApplicationStatus = "under-review"
	StatusShortlisted ApplicationStatus = "shortlisted"
	StatusRejected    ApplicationStatus = "rejected"
	StatusOffered     ApplicationStatus = "offered"
	StatusHired       ApplicationStatus = "hired"
)

func (s ApplicationStatus) Valid() bool {
	switch s {
	case StatusSubmitted, StatusUnderReview, StatusShortlisted, StatusRejected, StatusOffered, StatusHired:
		return true
	}
	return false
}

type Salary struct {
	Min      int    `json:"min"`
	Max      int    `json:"max"`
	Currency string `json:"currency"`
}

// Position is a job opening. PriorApplications is the number of
// applications received before this store existed; the live count is
// derived, see PositionView.
type Position struct {
	ID                string          `json:"id"`
	Title             string          `json:"title"`
	Slug              string          `json:"slug"`
	Department        string          `json:"department"`
	Location          string          `json:"location"`
	JobType           JobType         `json:"jobType"`
	ExperienceLevel   ExperienceLevel `json:"experienceLevel"`
	Salary            Salary          `json:"salary"`
	Description       string          `json:"description"`
	Requirements      []string        `json:"requirements"`
	Benefits          []string        `json:"benefits"`
	IsActive          bool            `json:"isActive"`
	FeaturedImage     string          `json:"featuredImage,omitempty"`
	PriorApplications int             `json:"priorApplications"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

func (p Position) EntityID() string { return p.ID }

// PositionView is a position with its derived application count.
type PositionView struct {
	Position
	ApplicationsCount int `json:"applicationsCount"`
}

type Application struct {
	ID                string            `json:"id"`
	PositionID        string            `json:"jobPositionId"`
	JobTitle          string            `json:"jobTitle"`
	ApplicantName     string            `json:"applicantName"`
	ApplicantEmail    string            `json:"applicantEmail"`
	ApplicantPhone    string            `json:"applicantPhone"`
	Resume            string            `json:"resume"`
	CoverLetter       string            `json:"coverLetter"`
	Qualifications    string            `json:"qualifications"`
	YearsOfExperience int               `json:"yearsOfExperience"`
	Status            ApplicationStatus `json:"status"`
	Notes             string            `json:"notes,omitempty"`
	CreatedAt         time.Time         `json:"createdAt"`
	UpdatedAt         time.Time         `json:"updatedAt"`
}

func (a Application) EntityID() string { return a.ID }

type ContactMessage struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}

func (m ContactMessage) EntityID() string { return m.ID }

type SocialLinks struct {
	Facebook  string `json:"facebook,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
	Instagram string `json:"instagram,omitempty"`
}

type Settings struct {
	SiteName         string      `json:"siteName"`
	Tagline          string      `json:"tagline"`
	Description      string      `json:"description"`
	Phone            string      `json:"phone"`
	Email            string      `json:"email"`
	Address          string      `json:"address"`
	OperatingHours   string      `json:"operatingHours"`
	EmergencyContact string      `json:"emergencyContact"`
	SocialLinks      SocialLinks `json:"socialLinks"`
}

// State is the document persisted under StateKey.
type State struct {
	Positions    []Position       `json:"jobPositions"`
	Applications []Application    `json:"jobApplications"`
	Messages     []ContactMessage `json:"contactMessages"`
	Settings     Settings         `json:"settings"`
}

type PositionInput struct {
	Title             string
	Slug              string
	Department        string
	Location          string
	JobType           JobType
	ExperienceLevel   ExperienceLevel
	Salary            Salary
	Description       string
	Requirements      []string
	Benefits          []string
	IsActive          bool
	FeaturedImage     string
	PriorApplications int
}

type PositionPatch struct {
	Title           *string
	Slug            *string
	Department      *string
	Location        *string
	JobType         *JobType
	ExperienceLevel *ExperienceLevel
	Salary          *Salary
	Description     *string
	Requirements    []string
	Benefits        []string
	IsActive        *bool
	FeaturedImage   *string
}

type ApplicationInput struct {
	PositionID        string
	JobTitle          string
	ApplicantName     string
	ApplicantEmail    string
	ApplicantPhone    string
	Resume            string
	CoverLetter       string
	Qualifications    string
	YearsOfExperience int
}

type ApplicationPatch struct {
	Status *ApplicationStatus
	Notes  *string
}

type MessageInput struct {
	Name    string
	Email   string
	Phone   string
	Subject string
	Message string
}

type SettingsPatch struct {
	SiteName         *string
	Tagline          *string
	Description      *string
	Phone            *string
	Email            *string
	Address          *string
	OperatingHours   *string
	EmergencyContact *string
	SocialLinks      *SocialLinks
}

// JobQuery filters active positions. Empty fields match everything.
type JobQuery struct {
	Keyword    string
	JobType    JobType
	Department string
	Location   string
}

type JobFacets struct {
	Departments []string  `json:"departments"`
	Locations   []string  `json:"locations"`
	JobTypes    []JobType `json:"jobTypes"`
}

// SeekerStats summarises one applicant's applications.
type SeekerStats struct {
	Submitted   int `json:"submitted"`
	UnderReview int `json:"underReview"`
	Shortlisted int `json:"shortlisted"`
	Offers      int `json:"offers"`
}

// Stats is the recruitment part of the back-office dashboard.
type Stats struct {
	ActivePositions   int                       `json:"activePositions"`
	TotalApplications int                       `json:"totalApplications"`
	ByStatus          map[ApplicationStatus]int `json:"applicationsByStatus"`
	UnreadMessages    int                       `json:"unreadMessages"`
}
