package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/skillbridge/skillbridge/internal/cache"
	"github.com/skillbridge/skillbridge/pkg/models"
	"github.com/skillbridge/skillbridge/pkg/repository"
)

type JobsHandler struct {
	jobRepo  repository.JobRepo
	userRepo repository.UserRepo
	cache    *cache.Cache
}

func NewJobsHandler(jr repository.JobRepo, ur repository.UserRepo, c *cache.Cache) *JobsHandler {
	return &JobsHandler{jobRepo: jr, userRepo: ur, cache: c}
}

type listJobsResponse struct {
	Success bool         `json:"success"`
	Count   int          `json:"count"`
	Jobs    []models.Job `json:"jobs"`
}

func (h *JobsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := repository.JobFilter{
		Status:   q.Get("status"),
		Location: q.Get("location"),
	}
	if v := q.Get("employerId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			writeMessage(w, "Invalid employerId", http.StatusBadRequest)
			return
		}
		filter.EmployerID = id
	}
	if v := q.Get("skills"); v != "" {
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				filter.Skills = append(filter.Skills, s)
			}
		}
	}

	ctx := r.Context()
	key := cache.ListingKey(filter.Status, filter.Location, filter.EmployerID, filter.Skills)

	var resp listJobsResponse
	if err := h.cache.GetListing(ctx, key, &resp); err == nil {
		writeJSON(w, resp, http.StatusOK)
		return
	}

	jobs, err := h.jobRepo.ListJobs(ctx, filter, 100)
	if err != nil {
		logger.Error("list jobs", "err", err)
		writeMessage(w, "Error fetching jobs", http.StatusInternalServerError)
		return
	}

	resp = listJobsResponse{Success: true, Count: len(jobs), Jobs: jobs}
	h.cache.SetListing(ctx, key, resp)
	writeJSON(w, resp, http.StatusOK)
}

func (h *JobsHandler) Get(w http.ResponseWriter, r *http.Request) {
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
		writeMessage(w, "Error fetching job", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]any{"success": true, "job": job}, http.StatusOK)
}

type createJobRequest struct {
	Title               string        `json:"title"`
	Company             string        `json:"company"`
	EmployerID          int64         `json:"employerId"`
	EmployerName        string        `json:"employerName"`
	EmployerEmail       string        `json:"employerEmail"`
	Description         string        `json:"description"`
	Requirements        []string      `json:"requirements"`
	Skills              []string      `json:"skills"`
	Location            string        `json:"location"`
	WorkType            string        `json:"workType"`
	Salary              models.Salary `json:"salary"`
	ExperienceLevel     string        `json:"experienceLevel"`
	EducationRequired   string        `json:"educationRequired"`
	Openings            int           `json:"openings"`
	ApplicationDeadline *int64        `json:"applicationDeadline"`
}

func (h *JobsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, "Invalid request", http.StatusBadRequest)
		return
	}

	job := &models.Job{
		Title:               req.Title,
		Company:             req.Company,
		EmployerID:          req.EmployerID,
		EmployerName:        req.EmployerName,
		EmployerEmail:       req.EmployerEmail,
		Description:         req.Description,
		Requirements:        req.Requirements,
		Skills:              req.Skills,
		Location:            req.Location,
		WorkType:            req.WorkType,
		Salary:              req.Salary,
		ExperienceLevel:     req.ExperienceLevel,
		EducationRequired:   req.EducationRequired,
		Openings:            req.Openings,
		ApplicationDeadline: req.ApplicationDeadline,
		Status:              models.JobActive, // always opens Active
	}

	if ferr := models.ValidateNewJob(job); ferr != nil {
		writeMessage(w, "Missing required fields: title, company, employerId, description, location", http.StatusBadRequest)
		return
	}

	ctx := r.Context()

	employer, err := h.userRepo.GetUserByID(ctx, job.EmployerID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		logger.Error("resolve employer", "err", err)
		writeMessage(w, "Error posting job", http.StatusInternalServerError)
		return
	}
	if employer == nil || employer.Role != models.RoleEmployer {
		writeMessage(w, "Invalid employer or insufficient permissions", http.StatusForbidden)
		return
	}

	// Denormalize employer identity at creation time; never re-synced.
	if job.EmployerName == "" {
		job.EmployerName = employer.FullName
	}
	if job.EmployerEmail == "" {
		job.EmployerEmail = employer.Email
	}
	if job.WorkType == "" {
		job.WorkType = models.WorkFullTime
	}
	if job.ExperienceLevel == "" {
		job.ExperienceLevel = models.ExpEntry
	}
	if job.EducationRequired == "" {
		job.EducationRequired = "10th Pass"
	}
	if job.Openings <= 0 {
		job.Openings = 1
	}
	if job.Salary.Currency == "" {
		job.Salary.Currency = "INR"
	}
	job.Applications = []models.Application{}

	jobID, err := h.jobRepo.CreateJob(ctx, job)
	if err != nil {
		logger.Error("create job", "err", err)
		writeMessage(w, "Error posting job", http.StatusInternalServerError)
		return
	}

	created, err := h.jobRepo.GetJob(ctx, jobID)
	if err != nil {
		logger.Error("fetch created job", "err", err)
		writeMessage(w, "Error posting job", http.StatusInternalServerError)
		return
	}

	h.cache.InvalidateListings(ctx)
	logger.Info("job posted", "title", created.Title, "company", created.Company)

	writeJSON(w, map[string]any{
		"success": true,
		"message": "Job posted successfully",
		"job":     created,
	}, http.StatusCreated)
}

// updateJobRequest carries the recognized mutable fields; the owning
// employer and the identity key cannot be changed through a patch.
type updateJobRequest struct {
	Title               *string        `json:"title"`
	Company             *string        `json:"company"`
	Description         *string        `json:"description"`
	Requirements        *[]string      `json:"requirements"`
	Skills              *[]string      `json:"skills"`
	Location            *string        `json:"location"`
	WorkType            *string        `json:"workType"`
	Salary              *models.Salary `json:"salary"`
	ExperienceLevel     *string        `json:"experienceLevel"`
	EducationRequired   *string        `json:"educationRequired"`
	Openings            *int           `json:"openings"`
	Status              *string        `json:"status"`
	ApplicationDeadline *int64         `json:"applicationDeadline"`
}

func (h *JobsHandler) Update(w http.ResponseWriter, r *http.Request) {
	jobID, err := strconv.ParseInt(mux.Vars(r)["jobId"], 10, 64)
	if err != nil || jobID <= 0 {
		writeMessage(w, "Invalid job id", http.StatusBadRequest)
		return
	}

	var req updateJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, "Invalid request", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	job, err := h.jobRepo.GetJob(ctx, jobID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeMessage(w, "Job not found", http.StatusNotFound)
			return
		}
		logger.Error("fetch job", "err", err)
		writeMessage(w, "Error updating job", http.StatusInternalServerError)
		return
	}

	if req.Title != nil {
		job.Title = *req.Title
	}
	if req.Company != nil {
		job.Company = *req.Company
	}
	if req.Description != nil {
		job.Description = *req.Description
	}
	if req.Requirements != nil {
		job.Requirements = *req.Requirements
	}
	if req.Skills != nil {
		job.Skills = *req.Skills
	}
	if req.Location != nil {
		job.Location = *req.Location
	}
	if req.WorkType != nil {
		job.WorkType = *req.WorkType
	}
	if req.Salary != nil {
		job.Salary = *req.Salary
	}
	if req.ExperienceLevel != nil {
		job.ExperienceLevel = *req.ExperienceLevel
	}
	if req.EducationRequired != nil {
		job.EducationRequired = *req.EducationRequired
	}
	if req.Openings != nil {
		job.Openings = *req.Openings
	}
	if req.Status != nil {
		job.Status = *req.Status
	}
	if req.ApplicationDeadline != nil {
		job.ApplicationDeadline = req.ApplicationDeadline
	}

	if err := h.jobRepo.UpdateJob(ctx, job); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeMessage(w, "Job not found", http.StatusNotFound)
			return
		}
		logger.Error("update job", "err", err)
		writeMessage(w, "Error updating job", http.StatusInternalServerError)
		return
	}

	updated, err := h.jobRepo.GetJob(ctx, jobID)
	if err != nil {
		logger.Error("fetch updated job", "err", err)
		writeMessage(w, "Error updating job", http.StatusInternalServerError)
		return
	}

	h.cache.InvalidateListings(ctx)

	writeJSON(w, map[string]any{
		"success": true,
		"message": "Job updated successfully",
		"job":     updated,
	}, http.StatusOK)
}

func (h *JobsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	jobID, err := strconv.ParseInt(mux.Vars(r)["jobId"], 10, 64)
	if err != nil || jobID <= 0 {
		writeMessage(w, "Invalid job id", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	if err := h.jobRepo.DeleteJob(ctx, jobID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeMessage(w, "Job not found", http.StatusNotFound)
			return
		}
		logger.Error("delete job", "err", err)
		writeMessage(w, "Error deleting job", http.StatusInternalServerError)
		return
	}

	h.cache.InvalidateListings(ctx)

	writeJSON(w, map[string]any{
		"success": true,
		"message": "Job deleted successfully",
	}, http.StatusOK)
}
