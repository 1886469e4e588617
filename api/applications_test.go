package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/skillbridge/skillbridge/api"
	"github.com/skillbridge/skillbridge/pkg/models"
	"github.com/skillbridge/skillbridge/pkg/repository/mock"
)

func applyCall(h *api.ApplicationsHandler, jobID string, body map[string]any) (*http.Response, []byte) {
	b, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/api/jobs/"+jobID+"/apply", bytes.NewReader(b))
	req = mux.SetURLVars(req, map[string]string{"jobId": jobID})
	w := httptest.NewRecorder()
	h.Apply(w, req)
	res := w.Result()
	data, _ := io.ReadAll(res.Body)
	res.Body.Close()
	return res, data
}

func TestApply(t *testing.T) {
	mocks := mock.NewMocks()
	candidate := seedCandidate(mocks, "pw")
	employer := seedEmployer(mocks)
	active := seedJob(mocks, employer.ID, models.JobActive, []string{"Python", "SQL", "Docker"})
	closed := seedJob(mocks, employer.ID, models.JobClosed, nil)
	handler := api.NewApplicationsHandler(mocks.JobRepo, mocks.UserRepo, nil)

	t.Run("Success", func(t *testing.T) {
		res, data := applyCall(handler, "1", map[string]any{"candidateId": candidate.ID})
		if res.StatusCode != http.StatusOK {
			t.Fatalf("expected 200 got %d body=%s", res.StatusCode, data)
		}
		if !bytes.Contains(data, []byte("Application submitted successfully")) {
			t.Fatalf("unexpected body: %s", data)
		}

		stored, _ := mocks.JobRepo.GetJob(testCtx(), active.ID)
		if len(stored.Applications) != 1 {
			t.Fatalf("expected 1 application got %d", len(stored.Applications))
		}
		app := stored.Applications[0]
		if app.ID == "" {
			t.Fatalf("application id must be generated")
		}
		if app.Status != models.AppApplied {
			t.Fatalf("new application must start Applied, got %q", app.Status)
		}
		if app.CandidateName != candidate.FullName || app.CandidateEmail != candidate.Email {
			t.Fatalf("candidate identity not denormalized: %+v", app)
		}
		// candidate has Python and SQL of the 3 required skills
		if app.MatchScore == nil || *app.MatchScore != 66 {
			t.Fatalf("unexpected match score: %v", app.MatchScore)
		}
	})

	t.Run("Duplicate", func(t *testing.T) {
		res, data := applyCall(handler, "1", map[string]any{"candidateId": candidate.ID})
		if res.StatusCode != http.StatusBadRequest {
			t.Fatalf("expected 400 got %d body=%s", res.StatusCode, data)
		}
		if !bytes.Contains(data, []byte("You have already applied for this job")) {
			t.Fatalf("unexpected body: %s", data)
		}

		stored, _ := mocks.JobRepo.GetJob(testCtx(), active.ID)
		if len(stored.Applications) != 1 {
			t.Fatalf("duplicate apply must not add an application, got %d", len(stored.Applications))
		}
	})

	t.Run("ClosedJob", func(t *testing.T) {
		res, data := applyCall(handler, "2", map[string]any{"candidateId": candidate.ID})
		if res.StatusCode != http.StatusBadRequest {
			t.Fatalf("expected 400 got %d body=%s", res.StatusCode, data)
		}
		if !bytes.Contains(data, []byte("Job is not accepting applications")) {
			t.Fatalf("unexpected body: %s", data)
		}
		_ = closed
	})

	t.Run("UnknownJob", func(t *testing.T) {
		res, data := applyCall(handler, "404", map[string]any{"candidateId": candidate.ID})
		if res.StatusCode != http.StatusNotFound {
			t.Fatalf("expected 404 got %d body=%s", res.StatusCode, data)
		}
		if !bytes.Contains(data, []byte("Job not found")) {
			t.Fatalf("unexpected body: %s", data)
		}
	})

	t.Run("UnknownCandidate", func(t *testing.T) {
		res, _ := applyCall(handler, "1", map[string]any{"candidateId": 404})
		if res.StatusCode != http.StatusNotFound {
			t.Fatalf("expected 404 got %d", res.StatusCode)
		}
	})

	t.Run("MissingCandidateID", func(t *testing.T) {
		res, _ := applyCall(handler, "1", map[string]any{})
		if res.StatusCode != http.StatusBadRequest {
			t.Fatalf("expected 400 got %d", res.StatusCode)
		}
	})
}

func TestListApplications(t *testing.T) {
	mocks := mock.NewMocks()
	employer := seedEmployer(mocks)
	job := seedJob(mocks, employer.ID, models.JobActive, nil)
	mocks.JobRepo.UpdateApplications(testCtx(), job.ID, func(j *models.Job) error {
		j.Applications = append(j.Applications,
			models.Application{ID: "a1", CandidateID: 10, Status: models.AppApplied},
			models.Application{ID: "a2", CandidateID: 11, Status: models.AppScreening},
			models.Application{ID: "a3", CandidateID: 12, Status: models.AppApplied},
		)
		return nil
	})
	handler := api.NewApplicationsHandler(mocks.JobRepo, mocks.UserRepo, nil)

	list := func(query string) (int, []models.Application) {
		req := httptest.NewRequest(http.MethodGet, "/api/jobs/1/applications"+query, nil)
		req = mux.SetURLVars(req, map[string]string{"jobId": "1"})
		w := httptest.NewRecorder()
		handler.List(w, req)
		res := w.Result()
		defer res.Body.Close()
		if res.StatusCode != http.StatusOK {
			t.Fatalf("expected 200 got %d", res.StatusCode)
		}
		var resp struct {
			Count        int                  `json:"count"`
			Applications []models.Application `json:"applications"`
		}
		if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		return resp.Count, resp.Applications
	}

	if count, _ := list(""); count != 3 {
		t.Fatalf("unfiltered: expected 3 got %d", count)
	}
	count, apps := list("?status=Applied")
	if count != 2 {
		t.Fatalf("status filter: expected 2 got %d", count)
	}
	for _, a := range apps {
		if a.Status != models.AppApplied {
			t.Fatalf("filter leaked status %q", a.Status)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/jobs/404/applications", nil)
	req = mux.SetURLVars(req, map[string]string{"jobId": "404"})
	w := httptest.NewRecorder()
	handler.List(w, req)
	if w.Result().StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", w.Result().StatusCode)
	}
}

func updateCall(h *api.ApplicationsHandler, jobID, appID string, body map[string]any) (*http.Response, []byte) {
	b, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPut, "/api/jobs/"+jobID+"/applications/"+appID, bytes.NewReader(b))
	req = mux.SetURLVars(req, map[string]string{"jobId": jobID, "applicationId": appID})
	w := httptest.NewRecorder()
	h.Update(w, req)
	res := w.Result()
	data, _ := io.ReadAll(res.Body)
	res.Body.Close()
	return res, data
}

func TestUpdateApplication(t *testing.T) {
	setup := func(status string) (*mock.Mocks, *api.ApplicationsHandler) {
		mocks := mock.NewMocks()
		employer := seedEmployer(mocks)
		job := seedJob(mocks, employer.ID, models.JobActive, nil)
		mocks.JobRepo.UpdateApplications(testCtx(), job.ID, func(j *models.Job) error {
			j.Applications = append(j.Applications, models.Application{ID: "app-1", CandidateID: 10, Status: status})
			return nil
		})
		return mocks, api.NewApplicationsHandler(mocks.JobRepo, mocks.UserRepo, nil)
	}

	t.Run("LegalTransition", func(t *testing.T) {
		mocks, handler := setup(models.AppApplied)
		res, data := updateCall(handler, "1", "app-1", map[string]any{"status": models.AppScreening})
		if res.StatusCode != http.StatusOK {
			t.Fatalf("expected 200 got %d body=%s", res.StatusCode, data)
		}
		stored, _ := mocks.JobRepo.GetJob(testCtx(), 1)
		if stored.Applications[0].Status != models.AppScreening {
			t.Fatalf("status not updated: %q", stored.Applications[0].Status)
		}
	})

	t.Run("SameStatusNoOp", func(t *testing.T) {
		_, handler := setup(models.AppScreening)
		res, data := updateCall(handler, "1", "app-1", map[string]any{"status": models.AppScreening})
		if res.StatusCode != http.StatusOK {
			t.Fatalf("expected 200 got %d body=%s", res.StatusCode, data)
		}
	})

	t.Run("IllegalTransition", func(t *testing.T) {
		mocks, handler := setup(models.AppApplied)
		res, data := updateCall(handler, "1", "app-1", map[string]any{"status": models.AppSelected})
		if res.StatusCode != http.StatusBadRequest {
			t.Fatalf("expected 400 got %d body=%s", res.StatusCode, data)
		}
		stored, _ := mocks.JobRepo.GetJob(testCtx(), 1)
		if stored.Applications[0].Status != models.AppApplied {
			t.Fatalf("rejected transition must not change status: %q", stored.Applications[0].Status)
		}
	})

	t.Run("TerminalStateLocked", func(t *testing.T) {
		_, handler := setup(models.AppRejected)
		res, _ := updateCall(handler, "1", "app-1", map[string]any{"status": models.AppScreening})
		if res.StatusCode != http.StatusBadRequest {
			t.Fatalf("expected 400 got %d", res.StatusCode)
		}
	})

	t.Run("UnknownStatus", func(t *testing.T) {
		_, handler := setup(models.AppApplied)
		res, _ := updateCall(handler, "1", "app-1", map[string]any{"status": "Hired"})
		if res.StatusCode != http.StatusBadRequest {
			t.Fatalf("expected 400 got %d", res.StatusCode)
		}
	})

	t.Run("ScheduleOverridesStatus", func(t *testing.T) {
		mocks, handler := setup(models.AppApplied)
		res, data := updateCall(handler, "1", "app-1", map[string]any{
			"status": models.AppRejected,
			"interviewSchedule": map[string]string{
				"date": "2026-09-01",
				"time": "10:00",
			},
		})
		if res.StatusCode != http.StatusOK {
			t.Fatalf("expected 200 got %d body=%s", res.StatusCode, data)
		}
		stored, _ := mocks.JobRepo.GetJob(testCtx(), 1)
		app := stored.Applications[0]
		if app.Status != models.AppInterviewScheduled {
			t.Fatalf("schedule must force Interview Scheduled, got %q", app.Status)
		}
		if app.InterviewSchedule == nil || app.InterviewSchedule.Mode != models.ModeOnline {
			t.Fatalf("schedule mode must default Online: %+v", app.InterviewSchedule)
		}
	})

	t.Run("UnknownApplication", func(t *testing.T) {
		_, handler := setup(models.AppApplied)
		res, data := updateCall(handler, "1", "nope", map[string]any{"status": models.AppScreening})
		if res.StatusCode != http.StatusNotFound {
			t.Fatalf("expected 404 got %d", res.StatusCode)
		}
		if !bytes.Contains(data, []byte("Application not found")) {
			t.Fatalf("unexpected body: %s", data)
		}
	})
}

func TestScheduleInterview(t *testing.T) {
	mocks := mock.NewMocks()
	employer := seedEmployer(mocks)
	job := seedJob(mocks, employer.ID, models.JobActive, nil)
	mocks.JobRepo.UpdateApplications(testCtx(), job.ID, func(j *models.Job) error {
		j.Applications = append(j.Applications, models.Application{ID: "app-1", CandidateID: 10, Status: models.AppApplied})
		return nil
	})
	handler := api.NewApplicationsHandler(mocks.JobRepo, mocks.UserRepo, nil)

	call := func(appID string, body map[string]any) (*http.Response, []byte) {
		b, _ := json.Marshal(body)
		req := httptest.NewRequest(http.MethodPost, "/api/jobs/1/applications/"+appID+"/schedule-interview", bytes.NewReader(b))
		req = mux.SetURLVars(req, map[string]string{"jobId": "1", "applicationId": appID})
		w := httptest.NewRecorder()
		handler.ScheduleInterview(w, req)
		res := w.Result()
		data, _ := io.ReadAll(res.Body)
		res.Body.Close()
		return res, data
	}

	t.Run("MissingDate", func(t *testing.T) {
		res, _ := call("app-1", map[string]any{"time": "10:00"})
		if res.StatusCode != http.StatusBadRequest {
			t.Fatalf("expected 400 got %d", res.StatusCode)
		}
	})

	t.Run("BadMode", func(t *testing.T) {
		res, _ := call("app-1", map[string]any{"date": "2026-09-01", "time": "10:00", "mode": "Carrier Pigeon"})
		if res.StatusCode != http.StatusBadRequest {
			t.Fatalf("expected 400 got %d", res.StatusCode)
		}
	})

	t.Run("Success", func(t *testing.T) {
		res, data := call("app-1", map[string]any{
			"date":        "2026-09-01",
			"time":        "10:00",
			"mode":        models.ModeInPerson,
			"meetingLink": "",
			"notes":       "Bring ID proof",
		})
		if res.StatusCode != http.StatusOK {
			t.Fatalf("expected 200 got %d body=%s", res.StatusCode, data)
		}
		if !bytes.Contains(data, []byte("Interview scheduled successfully")) {
			t.Fatalf("unexpected body: %s", data)
		}

		stored, _ := mocks.JobRepo.GetJob(testCtx(), job.ID)
		app := stored.Applications[0]
		if app.Status != models.AppInterviewScheduled {
			t.Fatalf("expected Interview Scheduled got %q", app.Status)
		}
		if app.InterviewSchedule == nil || app.InterviewSchedule.Date != "2026-09-01" {
			t.Fatalf("schedule not stored: %+v", app.InterviewSchedule)
		}
	})

	t.Run("UnknownApplication", func(t *testing.T) {
		res, _ := call("nope", map[string]any{"date": "2026-09-01", "time": "10:00"})
		if res.StatusCode != http.StatusNotFound {
			t.Fatalf("expected 404 got %d", res.StatusCode)
		}
	})
}
