package api

import (
	"github.com/gorilla/mux"
	"github.com/skillbridge/skillbridge/internal/cache"
	"github.com/skillbridge/skillbridge/internal/config"
	"github.com/skillbridge/skillbridge/internal/db"
	"github.com/skillbridge/skillbridge/internal/repository/sqlite"
	"github.com/skillbridge/skillbridge/internal/skillgap"
)

func SetupRoutes(cfg *config.Config, version, buildTime string, conn *db.DB, c *cache.Cache, analyzer skillgap.Analyzer) *mux.Router {
	r := mux.NewRouter()

	// Middleware chain
	r.Use(LoggingMiddleware)
	r.Use(CORSMiddleware)
	r.Use(RecoveryMiddleware)

	// Repository
	repo := sqlite.New(conn, logger)

	// Create handlers
	systemHandler := &SystemHandler{}
	authHandler := NewAuthHandler(repo, cfg.JWTSecret, cfg.TokenDuration)
	jobsHandler := NewJobsHandler(repo, repo, c)
	applicationsHandler := NewApplicationsHandler(repo, repo, c)
	skillGapHandler := NewSkillGapHandler(repo, repo, analyzer)

	// Open endpoints
	r.HandleFunc("/version", systemHandler.VersionHandler(version, buildTime)).Methods("GET")
	r.HandleFunc("/health", systemHandler.HealthHandler).Methods("GET")
	r.HandleFunc("/api/auth/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/api/auth/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/api/auth/verify-face", authHandler.VerifyFace).Methods("POST")
	r.HandleFunc("/api/auth/profile/{userId}", authHandler.GetProfile).Methods("GET")
	r.HandleFunc("/api/jobs", jobsHandler.List).Methods("GET")
	r.HandleFunc("/api/jobs/{jobId:[0-9]+}", jobsHandler.Get).Methods("GET")

	// Protected routes
	protected := r.PathPrefix("/api").Subrouter()
	protected.Use(JWTAuthMiddlewareWithSecret(cfg.JWTSecret))

	protected.HandleFunc("/auth/profile/{userId}", authHandler.UpdateProfile).Methods("PUT")

	protected.HandleFunc("/jobs", jobsHandler.Create).Methods("POST")
	protected.HandleFunc("/jobs/{jobId:[0-9]+}", jobsHandler.Update).Methods("PUT")
	protected.HandleFunc("/jobs/{jobId:[0-9]+}", jobsHandler.Delete).Methods("DELETE")

	protected.HandleFunc("/jobs/{jobId:[0-9]+}/apply", applicationsHandler.Apply).Methods("POST")
	protected.HandleFunc("/jobs/{jobId:[0-9]+}/applications", applicationsHandler.List).Methods("GET")
	protected.HandleFunc("/jobs/{jobId:[0-9]+}/applications/{applicationId}", applicationsHandler.Update).Methods("PUT")
	protected.HandleFunc("/jobs/{jobId:[0-9]+}/applications/{applicationId}/schedule-interview", applicationsHandler.ScheduleInterview).Methods("POST")

	protected.HandleFunc("/resume/parse", skillGapHandler.ParseResume).Methods("POST")
	protected.HandleFunc("/skillgap/score", skillGapHandler.ScoreSkillGap).Methods("POST")

	return r
}
