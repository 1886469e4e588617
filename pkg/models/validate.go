package models

import "fmt"

// FieldError is a user-correctable validation failure tied to one field.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// ValidateRegistration checks the fields a new user record must carry.
// Returns nil on success, otherwise the first failing field.
func ValidateRegistration(u *User, password string) *FieldError {
	switch {
	case u.FullName == "":
		return &FieldError{Field: "fullName", Reason: "required"}
	case u.PhoneNumber == "":
		return &FieldError{Field: "phoneNumber", Reason: "required"}
	case u.Email == "":
		return &FieldError{Field: "email", Reason: "required"}
	case password == "":
		return &FieldError{Field: "password", Reason: "required"}
	case u.FaceImage == "":
		return &FieldError{Field: "faceImage", Reason: "required"}
	}

	if u.Role != RoleCandidate && u.Role != RoleEmployer {
		return &FieldError{Field: "role", Reason: "must be candidate or employer"}
	}
	if u.Role == RoleEmployer && u.CompanyName == "" {
		return &FieldError{Field: "companyName", Reason: "required for employers"}
	}

	return nil
}

// ValidateNewJob checks the fields a job posting must carry before persist.
func ValidateNewJob(j *Job) *FieldError {
	switch {
	case j.Title == "":
		return &FieldError{Field: "title", Reason: "required"}
	case j.Company == "":
		return &FieldError{Field: "company", Reason: "required"}
	case j.EmployerID <= 0:
		return &FieldError{Field: "employerId", Reason: "required"}
	case j.Description == "":
		return &FieldError{Field: "description", Reason: "required"}
	case j.Location == "":
		return &FieldError{Field: "location", Reason: "required"}
	}

	if j.WorkType != "" && !validWorkType(j.WorkType) {
		return &FieldError{Field: "workType", Reason: "unknown work type"}
	}
	if j.ExperienceLevel != "" && !validExperience(j.ExperienceLevel) {
		return &FieldError{Field: "experienceLevel", Reason: "unknown experience level"}
	}

	return nil
}

// ValidateInterviewSchedule checks a schedule payload before it is attached
// to an application.
func ValidateInterviewSchedule(s *InterviewSchedule) *FieldError {
	if s.Date == "" {
		return &FieldError{Field: "date", Reason: "required"}
	}
	if s.Time == "" {
		return &FieldError{Field: "time", Reason: "required"}
	}
	switch s.Mode {
	case "", ModeOnline, ModeInPerson, ModePhone:
	default:
		return &FieldError{Field: "mode", Reason: "must be Online, In-person or Phone"}
	}
	return nil
}

func validWorkType(s string) bool {
	switch s {
	case WorkFullTime, WorkPartTime, WorkContract, WorkInternship, WorkRemote:
		return true
	}
	return false
}

func validExperience(s string) bool {
	switch s {
	case ExpEntry, ExpMid, ExpSenior, ExpFresher:
		return true
	}
	return false
}
