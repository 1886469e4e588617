package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/skillbridge/skillbridge/internal/cache"
	"github.com/skillbridge/skillbridge/internal/skillgap"
	"github.com/skillbridge/skillbridge/pkg/models"
	"github.com/skillbridge/skillbridge/pkg/repository"
)

// Lifecycle errors surfaced from the mutate closures.
var (
	errNotAccepting         = errors.New("job is not accepting applications")
	errDuplicateApplication = errors.New("duplicate application")
	errApplicationNotFound  = errors.New("application not found")
	errIllegalTransition    = errors.New("illegal status transition")
	errUnknownStatus        = errors.New("unknown application status")
)

type ApplicationsHandler struct {
	jobRepo  repository.JobRepo
	userRepo repository.UserRepo
	cache    *cache.Cache
}

func NewApplicationsHandler(jr repository.JobRepo, ur repository.UserRepo, c *cache.Cache) *ApplicationsHandler {
	return &ApplicationsHandler{jobRepo: jr, userRepo: ur, cache: c}
}

type applyRequest struct {
	CandidateID    int64  `json:"candidateId"`
	CandidateName  string `json:"candidateName"`
	CandidateEmail string `json:"candidateEmail"`
	CandidatePhone string `json:"candidatePhone"`
	Resume         string `json:"resume"`
	CoverLetter    string `json:"coverLetter"`
}

func (h *ApplicationsHandler) Apply(w http.ResponseWriter, r *http.Request) {
	jobID, err := strconv.ParseInt(mux.Vars(r)["jobId"], 10, 64)
	if err != nil || jobID <= 0 {
		writeMessage(w, "Invalid job id", http.StatusBadRequest)
		return
	}

	var req applyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.CandidateID <= 0 {
		writeMessage(w, "candidateId is required", http.StatusBadRequest)
		return
	}

	ctx := r.Context()

	// Denormalize candidate identity from the store when the client did not
	// send it.
	candidate, err := h.userRepo.GetUserByID(ctx, req.CandidateID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeMessage(w, "Candidate not found", http.StatusNotFound)
			return
		}
		logger.Error("resolve candidate", "err", err)
		writeMessage(w, "Error applying for job", http.StatusInternalServerError)
		return
	}
	if req.CandidateName == "" {
		req.CandidateName = candidate.FullName
	}
	if req.CandidateEmail == "" {
		req.CandidateEmail = candidate.Email
	}
	if req.CandidatePhone == "" {
		req.CandidatePhone = candidate.PhoneNumber
	}

	_, err = h.jobRepo.UpdateApplications(ctx, jobID, func(job *models.Job) error {
		if job.Status != models.JobActive {
			return errNotAccepting
		}
		if job.HasApplicationFrom(req.CandidateID) {
			return errDuplicateApplication
		}

		score, _, _ := skillgap.Score(candidate.Skills, job.Skills)
		job.Applications = append(job.Applications, models.Application{
			ID:             uuid.NewString(),
			CandidateID:    req.CandidateID,
			CandidateName:  req.CandidateName,
			CandidateEmail: req.CandidateEmail,
			CandidatePhone: req.CandidatePhone,
			AppliedDate:    time.Now().UTC().UnixMilli(),
			Status:         models.AppApplied,
			Resume:         req.Resume,
			CoverLetter:    req.CoverLetter,
			MatchScore:     &score,
		})
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			writeMessage(w, "Job not found", http.StatusNotFound)
		case errors.Is(err, errNotAccepting):
			writeMessage(w, "Job is not accepting applications", http.StatusBadRequest)
		case errors.Is(err, errDuplicateApplication):
			writeMessage(w, "You have already applied for this job", http.StatusBadRequest)
		default:
			logger.Error("apply for job", "err", err)
			writeMessage(w, "Error applying for job", http.StatusInternalServerError)
		}
		return
	}

	h.cache.InvalidateListings(ctx)
	logger.Info("application submitted", "candidate", req.CandidateName, "job_id", jobID)

	writeJSON(w, map[string]any{
		"success": true,
		"message": "Application submitted successfully",
	}, http.StatusOK)
}

func (h *ApplicationsHandler) List(w http.ResponseWriter, r *http.Request) {
	jobID, err := strconv.ParseInt(mux.Vars(r)["jobId"], 10, 64)
	if err != nil || jobID <= 0 {
		writeMessage(w, "Invalid job id", http.StatusBadRequest)
		return
	}

	job, err := h.jobRepo.GetJob(r.Context(), jobID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeMessage(w, "Job not found", http.StatusNotFound)
			return
		}
		logger.Error("fetch job", "err", err)
		writeMessage(w, "Error fetching applications", http.StatusInternalServerError)
		return
	}

	applications := job.Applications
	if status := r.URL.Query().Get("status"); status != "" {
		filtered := make([]models.Application, 0, len(applications))
		for _, a := range applications {
			if a.Status == status {
				filtered = append(filtered, a)
			}
		}
		applications = filtered
	}

	writeJSON(w, map[string]any{
		"success":      true,
		"count":        len(applications),
		"applications": applications,
	}, http.StatusOK)
}

type updateApplicationRequest struct {
	Status            string                    `json:"status"`
	InterviewSchedule *models.InterviewSchedule `json:"interviewSchedule"`
}

// Update applies a status change or an interview schedule. A schedule in the
// request wins over a status supplied in the same call: it always forces
// Interview Scheduled.
func (h *ApplicationsHandler) Update(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	jobID, err := strconv.ParseInt(vars["jobId"], 10, 64)
	if err != nil || jobID <= 0 {
		writeMessage(w, "Invalid job id", http.StatusBadRequest)
		return
	}
	applicationID := vars["applicationId"]

	var req updateApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, "Invalid request", http.StatusBadRequest)
		return
	}

	if req.InterviewSchedule != nil {
		if ferr := models.ValidateInterviewSchedule(req.InterviewSchedule); ferr != nil {
			writeMessage(w, "Invalid interview schedule: "+ferr.Error(), http.StatusBadRequest)
			return
		}
	}

	var updated *models.Application
	_, err = h.jobRepo.UpdateApplications(r.Context(), jobID, func(job *models.Job) error {
		app := job.FindApplication(applicationID)
		if app == nil {
			return errApplicationNotFound
		}

		if req.InterviewSchedule != nil {
			schedule := *req.InterviewSchedule
			if schedule.Mode == "" {
				schedule.Mode = models.ModeOnline
			}
			app.InterviewSchedule = &schedule
			app.Status = models.AppInterviewScheduled
		} else if req.Status != "" {
			if !models.ValidApplicationStatus(req.Status) {
				return errUnknownStatus
			}
			if !models.CanTransition(app.Status, req.Status) {
				return errIllegalTransition
			}
			app.Status = req.Status
		}

		copied := *app
		updated = &copied
		return nil
	})
	if err != nil {
		h.writeLifecycleError(w, err, "Error updating application")
		return
	}

	logger.Info("application updated", "job_id", jobID, "application_id", applicationID)

	writeJSON(w, map[string]any{
		"success":     true,
		"message":     "Application updated successfully",
		"application": updated,
	}, http.StatusOK)
}

type scheduleInterviewRequest struct {
	Date        string `json:"date"`
	Time        string `json:"time"`
	Mode        string `json:"mode"`
	MeetingLink string `json:"meetingLink"`
	Notes       string `json:"notes"`
}

// ScheduleInterview attaches a schedule and forces the application to
// Interview Scheduled regardless of its prior state.
func (h *ApplicationsHandler) ScheduleInterview(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	jobID, err := strconv.ParseInt(vars["jobId"], 10, 64)
	if err != nil || jobID <= 0 {
		writeMessage(w, "Invalid job id", http.StatusBadRequest)
		return
	}
	applicationID := vars["applicationId"]

	var req scheduleInterviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, "Invalid request", http.StatusBadRequest)
		return
	}

	schedule := models.InterviewSchedule{
		Date:        req.Date,
		Time:        req.Time,
		Mode:        req.Mode,
		MeetingLink: req.MeetingLink,
		Notes:       req.Notes,
	}
	if schedule.Mode == "" {
		schedule.Mode = models.ModeOnline
	}
	if ferr := models.ValidateInterviewSchedule(&schedule); ferr != nil {
		writeMessage(w, "Invalid interview schedule: "+ferr.Error(), http.StatusBadRequest)
		return
	}

	var updated *models.Application
	_, err = h.jobRepo.UpdateApplications(r.Context(), jobID, func(job *models.Job) error {
		app := job.FindApplication(applicationID)
		if app == nil {
			return errApplicationNotFound
		}

		app.InterviewSchedule = &schedule
		app.Status = models.AppInterviewScheduled

		copied := *app
		updated = &copied
		return nil
	})
	if err != nil {
		h.writeLifecycleError(w, err, "Error scheduling interview")
		return
	}

	logger.Info("interview scheduled", "job_id", jobID, "application_id", applicationID,
		"date", schedule.Date, "time", schedule.Time)

	writeJSON(w, map[string]any{
		"success":     true,
		"message":     "Interview scheduled successfully",
		"application": updated,
	}, http.StatusOK)
}

func (h *ApplicationsHandler) writeLifecycleError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeMessage(w, "Job not found", http.StatusNotFound)
	case errors.Is(err, errApplicationNotFound):
		writeMessage(w, "Application not found", http.StatusNotFound)
	case errors.Is(err, errUnknownStatus):
		writeMessage(w, "Unknown application status", http.StatusBadRequest)
	case errors.Is(err, errIllegalTransition):
		writeMessage(w, "Illegal status transition", http.StatusBadRequest)
	default:
		logger.Error("application lifecycle", "err", err)
		writeMessage(w, fallback, http.StatusInternalServerError)
	}
}
