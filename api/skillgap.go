package api

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/skillbridge/skillbridge/internal/resume"
	"github.com/skillbridge/skillbridge/internal/skillgap"
	"github.com/skillbridge/skillbridge/pkg/repository"
)

// SkillGapHandler serves resume parsing and candidate/job skill scoring.
// The analyzer is optional; without it skill detection falls back to the
// local keyword scan.
type SkillGapHandler struct {
	userRepo repository.UserRepo
	jobRepo  repository.JobRepo
	analyzer skillgap.Analyzer
}

func NewSkillGapHandler(ur repository.UserRepo, jr repository.JobRepo, analyzer skillgap.Analyzer) *SkillGapHandler {
	return &SkillGapHandler{userRepo: ur, jobRepo: jr, analyzer: analyzer}
}

type parseResumeRequest struct {
	FileName string `json:"fileName"`
	MimeType string `json:"mimeType"`
	Data     string `json:"data"` // base64, optionally with a data URL prefix
}

func (h *SkillGapHandler) ParseResume(w http.ResponseWriter, r *http.Request) {
	var req parseResumeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.Data == "" {
		writeMessage(w, "Resume data is required", http.StatusBadRequest)
		return
	}

	payload := req.Data
	if idx := strings.Index(payload, ","); idx >= 0 && strings.HasPrefix(payload, "data:") {
		payload = payload[idx+1:]
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		writeMessage(w, "Invalid resume data", http.StatusBadRequest)
		return
	}

	text, err := resume.ExtractText(req.MimeType, data)
	if err != nil {
		writeMessage(w, "Unsupported resume format", http.StatusBadRequest)
		return
	}

	skills := h.detectSkills(r, text)

	writeJSON(w, map[string]any{
		"success": true,
		"text":    text,
		"skills":  skills,
	}, http.StatusOK)
}

// detectSkills prefers the configured analyzer and falls back to the keyword
// scan when it is absent or fails.
func (h *SkillGapHandler) detectSkills(r *http.Request, text string) []string {
	if h.analyzer != nil {
		skills, err := h.analyzer.ExtractSkills(r.Context(), text)
		if err == nil {
			return skills
		}
		logger.Warn("skill extraction fell back to keyword scan", "err", err)
	}
	return skillgap.DetectSkills(text)
}

type scoreRequest struct {
	CandidateID int64 `json:"candidateId"`
	JobID       int64 `json:"jobId"`
}

func (h *SkillGapHandler) ScoreSkillGap(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.CandidateID <= 0 || req.JobID <= 0 {
		writeMessage(w, "candidateId and jobId are required", http.StatusBadRequest)
		return
	}

	ctx := r.Context()

	candidate, err := h.userRepo.GetUserByID(ctx, req.CandidateID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeMessage(w, "Candidate not found", http.StatusNotFound)
			return
		}
		logger.Error("resolve candidate", "err", err)
		writeMessage(w, "Error scoring skills", http.StatusInternalServerError)
		return
	}

	job, err := h.jobRepo.GetJob(ctx, req.JobID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeMessage(w, "Job not found", http.StatusNotFound)
			return
		}
		logger.Error("fetch job", "err", err)
		writeMessage(w, "Error scoring skills", http.StatusInternalServerError)
		return
	}

	score, matched, missing := skillgap.Score(candidate.Skills, job.Skills)

	writeJSON(w, map[string]any{
		"success":       true,
		"matchScore":    score,
		"matchedSkills": matched,
		"missingSkills": missing,
	}, http.StatusOK)
}
