package models_test

import (
	"testing"

	"github.com/skillbridge/skillbridge/pkg/models"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{models.AppApplied, models.AppScreening, true},
		{models.AppApplied, models.AppInterviewScheduled, true},
		{models.AppApplied, models.AppRejected, true},
		{models.AppApplied, models.AppInterviewed, false},
		{models.AppApplied, models.AppSelected, false},
		{models.AppScreening, models.AppInterviewScheduled, true},
		{models.AppScreening, models.AppRejected, true},
		{models.AppScreening, models.AppApplied, false},
		{models.AppScreening, models.AppSelected, false},
		{models.AppInterviewScheduled, models.AppInterviewed, true},
		{models.AppInterviewScheduled, models.AppRejected, true},
		{models.AppInterviewScheduled, models.AppSelected, false},
		{models.AppInterviewed, models.AppSelected, true},
		{models.AppInterviewed, models.AppRejected, true},
		{models.AppInterviewed, models.AppScreening, false},
		// terminal states only allow the same-status no-op
		{models.AppSelected, models.AppRejected, false},
		{models.AppSelected, models.AppSelected, true},
		{models.AppRejected, models.AppApplied, false},
		{models.AppRejected, models.AppRejected, true},
		// same-status no-op on a non-terminal state
		{models.AppScreening, models.AppScreening, true},
	}

	for _, tt := range tests {
		if got := models.CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%q, %q) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestValidApplicationStatus(t *testing.T) {
	for _, s := range []string{
		models.AppApplied, models.AppScreening, models.AppInterviewScheduled,
		models.AppInterviewed, models.AppSelected, models.AppRejected,
	} {
		if !models.ValidApplicationStatus(s) {
			t.Errorf("%q must be a valid status", s)
		}
	}
	for _, s := range []string{"", "Hired", "applied", "Pending"} {
		if models.ValidApplicationStatus(s) {
			t.Errorf("%q must not be a valid status", s)
		}
	}
}

func TestJobApplicationLookups(t *testing.T) {
	job := &models.Job{
		Applications: []models.Application{
			{ID: "a1", CandidateID: 10},
			{ID: "a2", CandidateID: 11},
		},
	}

	if app := job.FindApplication("a2"); app == nil || app.CandidateID != 11 {
		t.Fatalf("FindApplication(a2) = %+v", app)
	}
	if app := job.FindApplication("nope"); app != nil {
		t.Fatalf("expected nil for unknown id, got %+v", app)
	}

	// FindApplication returns a pointer into the slice so callers can mutate
	job.FindApplication("a1").Status = models.AppScreening
	if job.Applications[0].Status != models.AppScreening {
		t.Fatalf("mutation through FindApplication did not stick")
	}

	if !job.HasApplicationFrom(10) {
		t.Fatalf("expected application from candidate 10")
	}
	if job.HasApplicationFrom(99) {
		t.Fatalf("unexpected application from candidate 99")
	}
}

func TestValidateRegistration(t *testing.T) {
	valid := func() *models.User {
		return &models.User{
			FullName:    "Asha Kumari",
			PhoneNumber: "9876543210",
			Email:       "asha@example.com",
			FaceImage:   "base64data",
			Role:        models.RoleCandidate,
		}
	}

	if err := models.ValidateRegistration(valid(), "pw"); err != nil {
		t.Fatalf("valid candidate rejected: %v", err)
	}

	tests := []struct {
		name      string
		mutate    func(u *models.User)
		password  string
		wantField string
	}{
		{"MissingName", func(u *models.User) { u.FullName = "" }, "pw", "fullName"},
		{"MissingPhone", func(u *models.User) { u.PhoneNumber = "" }, "pw", "phoneNumber"},
		{"MissingEmail", func(u *models.User) { u.Email = "" }, "pw", "email"},
		{"MissingPassword", func(u *models.User) {}, "", "password"},
		{"MissingFaceImage", func(u *models.User) { u.FaceImage = "" }, "pw", "faceImage"},
		{"BadRole", func(u *models.User) { u.Role = "admin" }, "pw", "role"},
		{"EmployerNoCompany", func(u *models.User) { u.Role = models.RoleEmployer }, "pw", "companyName"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := valid()
			tt.mutate(u)
			err := models.ValidateRegistration(u, tt.password)
			if err == nil {
				t.Fatalf("expected error for %s", tt.name)
			}
			if err.Field != tt.wantField {
				t.Fatalf("expected field %q got %q", tt.wantField, err.Field)
			}
		})
	}

	employer := valid()
	employer.Role = models.RoleEmployer
	employer.CompanyName = "Acme"
	if err := models.ValidateRegistration(employer, "pw"); err != nil {
		t.Fatalf("valid employer rejected: %v", err)
	}
}

func TestValidateNewJob(t *testing.T) {
	valid := func() *models.Job {
		return &models.Job{
			Title:       "Driver",
			Company:     "Acme",
			EmployerID:  1,
			Description: "Deliver packages",
			Location:    "Mumbai",
		}
	}

	if err := models.ValidateNewJob(valid()); err != nil {
		t.Fatalf("valid job rejected: %v", err)
	}

	tests := []struct {
		name      string
		mutate    func(j *models.Job)
		wantField string
	}{
		{"MissingTitle", func(j *models.Job) { j.Title = "" }, "title"},
		{"MissingCompany", func(j *models.Job) { j.Company = "" }, "company"},
		{"MissingEmployer", func(j *models.Job) { j.EmployerID = 0 }, "employerId"},
		{"MissingDescription", func(j *models.Job) { j.Description = "" }, "description"},
		{"MissingLocation", func(j *models.Job) { j.Location = "" }, "location"},
		{"BadWorkType", func(j *models.Job) { j.WorkType = "Gig" }, "workType"},
		{"BadExperience", func(j *models.Job) { j.ExperienceLevel = "Expert" }, "experienceLevel"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j := valid()
			tt.mutate(j)
			err := models.ValidateNewJob(j)
			if err == nil {
				t.Fatalf("expected error for %s", tt.name)
			}
			if err.Field != tt.wantField {
				t.Fatalf("expected field %q got %q", tt.wantField, err.Field)
			}
		})
	}

	// enum fields are optional; defaults are applied at the handler
	j := valid()
	j.WorkType = models.WorkRemote
	j.ExperienceLevel = models.ExpFresher
	if err := models.ValidateNewJob(j); err != nil {
		t.Fatalf("valid enums rejected: %v", err)
	}
}

func TestValidateInterviewSchedule(t *testing.T) {
	ok := &models.InterviewSchedule{Date: "2026-09-01", Time: "10:00", Mode: models.ModePhone}
	if err := models.ValidateInterviewSchedule(ok); err != nil {
		t.Fatalf("valid schedule rejected: %v", err)
	}

	noMode := &models.InterviewSchedule{Date: "2026-09-01", Time: "10:00"}
	if err := models.ValidateInterviewSchedule(noMode); err != nil {
		t.Fatalf("empty mode must be allowed (defaulted later): %v", err)
	}

	if err := models.ValidateInterviewSchedule(&models.InterviewSchedule{Time: "10:00"}); err == nil || err.Field != "date" {
		t.Fatalf("expected date error, got %v", err)
	}
	if err := models.ValidateInterviewSchedule(&models.InterviewSchedule{Date: "2026-09-01"}); err == nil || err.Field != "time" {
		t.Fatalf("expected time error, got %v", err)
	}
	bad := &models.InterviewSchedule{Date: "2026-09-01", Time: "10:00", Mode: "Telepathy"}
	if err := models.ValidateInterviewSchedule(bad); err == nil || err.Field != "mode" {
		t.Fatalf("expected mode error, got %v", err)
	}
}
