package models

// Domain models matching the database schema in db/migrations/0001_init.sql

// User roles.
const (
	RoleCandidate = "candidate"
	RoleEmployer  = "employer"
)

// Job statuses.
const (
	JobDraft  = "Draft"
	JobActive = "Active"
	JobClosed = "Closed"
	JobOnHold = "On Hold"
)

// Work types.
const (
	WorkFullTime   = "Full-time"
	WorkPartTime   = "Part-time"
	WorkContract   = "Contract"
	WorkInternship = "Internship"
	WorkRemote     = "Remote"
)

// Experience levels.
const (
	ExpEntry   = "Entry Level"
	ExpMid     = "Mid Level"
	ExpSenior  = "Senior Level"
	ExpFresher = "Fresher"
)

// Application statuses.
const (
	AppApplied            = "Applied"
	AppScreening          = "Screening"
	AppInterviewScheduled = "Interview Scheduled"
	AppInterviewed        = "Interviewed"
	AppSelected           = "Selected"
	AppRejected           = "Rejected"
)

// Interview modes.
const (
	ModeOnline   = "Online"
	ModeInPerson = "In-person"
	ModePhone    = "Phone"
)

type Aadhaar struct {
	Number   string `json:"number,omitempty"`
	Verified bool   `json:"verified"`
}

type Education struct {
	Level       string `json:"level,omitempty"`
	Field       string `json:"field,omitempty"`
	Institution string `json:"institution,omitempty"`
	Year        string `json:"year,omitempty"`
}

type Certificate struct {
	Name       string `json:"name"`
	Data       string `json:"data"` // base64
	UploadedAt int64  `json:"uploadedAt"`
}

type User struct {
	ID             int64         `json:"id" db:"id"`
	FullName       string        `json:"fullName" db:"full_name"`
	PhoneNumber    string        `json:"phoneNumber" db:"phone_number"`
	Email          string        `json:"email" db:"email"` // stored lowercased
	PasswordHash   string        `json:"-" db:"password_hash"`
	DateOfBirth    string        `json:"dateOfBirth,omitempty" db:"date_of_birth"`
	Gender         string        `json:"gender,omitempty" db:"gender"`
	State          string        `json:"state,omitempty" db:"state"`
	District       string        `json:"district,omitempty" db:"district"`
	FaceImage      string        `json:"-" db:"face_image"` // base64 reference image, never serialized
	FaceDescriptor []float64     `json:"-" db:"face_descriptor"`
	Aadhaar        Aadhaar       `json:"aadhaar" db:"aadhaar"`
	Education      Education     `json:"education" db:"education"`
	Skills         []string      `json:"skills" db:"skills"`
	JobRoles       []string      `json:"jobRoles" db:"job_roles"`
	Resume         string        `json:"resume,omitempty" db:"resume"`
	Certificates   []Certificate `json:"certificates" db:"certificates"`
	Role           string        `json:"role" db:"role"`
	CompanyName    string        `json:"companyName,omitempty" db:"company_name"`
	Designation    string        `json:"designation,omitempty" db:"designation"`
	CompanyWebsite string        `json:"companyWebsite,omitempty" db:"company_website"`
	IsActive       bool          `json:"isActive" db:"is_active"`
	Verified       bool          `json:"verified" db:"verified"`
	Created        int64         `json:"created" db:"created"`
	Updated        int64         `json:"updated" db:"updated"`
}

// PublicUser is the sanitized view returned by the API: no password hash, no
// raw face image, no descriptor.
type PublicUser struct {
	ID             int64         `json:"id"`
	FullName       string        `json:"fullName"`
	PhoneNumber    string        `json:"phoneNumber"`
	Email          string        `json:"email"`
	DateOfBirth    string        `json:"dateOfBirth,omitempty"`
	Gender         string        `json:"gender,omitempty"`
	State          string        `json:"state,omitempty"`
	District       string        `json:"district,omitempty"`
	Aadhaar        Aadhaar       `json:"aadhaar"`
	Education      Education     `json:"education"`
	Skills         []string      `json:"skills"`
	JobRoles       []string      `json:"jobRoles"`
	Resume         string        `json:"resume,omitempty"`
	Certificates   []Certificate `json:"certificates"`
	Role           string        `json:"role"`
	CompanyName    string        `json:"companyName,omitempty"`
	Designation    string        `json:"designation,omitempty"`
	CompanyWebsite string        `json:"companyWebsite,omitempty"`
	IsActive       bool          `json:"isActive"`
	Verified       bool          `json:"verified"`
	Created        int64         `json:"created"`
	Updated        int64         `json:"updated"`
}

func (u *User) Public() *PublicUser {
	return &PublicUser{
		ID:             u.ID,
		FullName:       u.FullName,
		PhoneNumber:    u.PhoneNumber,
		Email:          u.Email,
		DateOfBirth:    u.DateOfBirth,
		Gender:         u.Gender,
		State:          u.State,
		District:       u.District,
		Aadhaar:        u.Aadhaar,
		Education:      u.Education,
		Skills:         u.Skills,
		JobRoles:       u.JobRoles,
		Resume:         u.Resume,
		Certificates:   u.Certificates,
		Role:           u.Role,
		CompanyName:    u.CompanyName,
		Designation:    u.Designation,
		CompanyWebsite: u.CompanyWebsite,
		IsActive:       u.IsActive,
		Verified:       u.Verified,
		Created:        u.Created,
		Updated:        u.Updated,
	}
}

type Salary struct {
	Min      int64  `json:"min,omitempty"`
	Max      int64  `json:"max,omitempty"`
	Currency string `json:"currency,omitempty"` // defaults to INR at creation
}

type InterviewSchedule struct {
	Date        string `json:"date"` // e.g. 2024-05-01
	Time        string `json:"time"` // e.g. 10:00
	Mode        string `json:"mode"` // Online, In-person, Phone
	MeetingLink string `json:"meetingLink,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

// Application is a candidate's submission against a Job. Applications are
// embedded in the owning job row and have no independent lifecycle.
type Application struct {
	ID                string             `json:"id"`
	CandidateID       int64              `json:"candidateId"`
	CandidateName     string             `json:"candidateName"`
	CandidateEmail    string             `json:"candidateEmail"`
	CandidatePhone    string             `json:"candidatePhone"`
	AppliedDate       int64              `json:"appliedDate"`
	Status            string             `json:"status"`
	Resume            string             `json:"resume,omitempty"`
	CoverLetter       string             `json:"coverLetter,omitempty"`
	MatchScore        *int               `json:"matchScore,omitempty"`
	InterviewSchedule *InterviewSchedule `json:"interviewSchedule,omitempty"`
}

type Job struct {
	ID                  int64         `json:"id" db:"id"`
	Title               string        `json:"title" db:"title"`
	Company             string        `json:"company" db:"company"`
	EmployerID          int64         `json:"employerId" db:"employer_id"`
	EmployerName        string        `json:"employerName" db:"employer_name"`   // denormalized at creation
	EmployerEmail       string        `json:"employerEmail" db:"employer_email"` // denormalized at creation
	Description         string        `json:"description" db:"description"`
	Requirements        []string      `json:"requirements" db:"requirements"`
	Skills              []string      `json:"skills" db:"skills"`
	Location            string        `json:"location" db:"location"`
	WorkType            string        `json:"workType" db:"work_type"`
	Salary              Salary        `json:"salary" db:"salary"`
	ExperienceLevel     string        `json:"experienceLevel" db:"experience_level"`
	EducationRequired   string        `json:"educationRequired" db:"education_required"`
	Openings            int           `json:"openings" db:"openings"`
	Status              string        `json:"status" db:"status"`
	ApplicationDeadline *int64        `json:"applicationDeadline,omitempty" db:"application_deadline"`
	Applications        []Application `json:"applications" db:"applications"`
	Version             int64         `json:"-" db:"version"`
	PostedDate          int64         `json:"postedDate" db:"posted_date"`
	LastUpdated         int64         `json:"lastUpdated" db:"last_updated"`
}

// FindApplication returns the application with the given id, or nil.
func (j *Job) FindApplication(id string) *Application {
	for i := range j.Applications {
		if j.Applications[i].ID == id {
			return &j.Applications[i]
		}
	}
	return nil
}

// HasApplicationFrom reports whether the candidate already applied to this job.
func (j *Job) HasApplicationFrom(candidateID int64) bool {
	for i := range j.Applications {
		if j.Applications[i].CandidateID == candidateID {
			return true
		}
	}
	return false
}

// applicationTransitions is the lifecycle table. Rejected is reachable from
// any non-terminal state; Selected and Rejected are terminal. Scheduling an
// interview bypasses this table and forces Interview Scheduled.
var applicationTransitions = map[string][]string{
	AppApplied:            {AppScreening, AppInterviewScheduled, AppRejected},
	AppScreening:          {AppInterviewScheduled, AppRejected},
	AppInterviewScheduled: {AppInterviewed, AppRejected},
	AppInterviewed:        {AppSelected, AppRejected},
	AppSelected:           {},
	AppRejected:           {},
}

// ValidApplicationStatus reports whether s is a known application status.
func ValidApplicationStatus(s string) bool {
	_, ok := applicationTransitions[s]
	return ok
}

// CanTransition reports whether an application may move from one status to
// another. Setting the same status again is a no-op and always allowed.
func CanTransition(from, to string) bool {
	if from == to {
		return true
	}
	for _, next := range applicationTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
