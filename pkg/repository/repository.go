package repository

import (
	"context"
	"errors"

	"github.com/skillbridge/skillbridge/pkg/models"
)

// Repository interfaces for domain entities. These are the public contracts
// consumers should depend on; concrete implementations live under internal/.

// Sentinel errors translated to HTTP statuses at the handler layer.
var (
	// ErrNotFound means the id (or email/phone identifier) resolved nothing.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate means a uniqueness constraint (email, phone) was violated.
	ErrDuplicate = errors.New("already exists")
	// ErrVersionConflict means a concurrent writer bumped the job version
	// between our read and write.
	ErrVersionConflict = errors.New("version conflict")
)

type UserRepo interface {
	CreateUser(ctx context.Context, u *models.User) (int64, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	// GetUserByIdentifier matches either email (lowercased) or phone number.
	GetUserByIdentifier(ctx context.Context, identifier string) (*models.User, error)
	UpdateUser(ctx context.Context, u *models.User) error
}

// JobFilter is the recognized listing filter set. Zero values mean "no
// constraint" for that option.
type JobFilter struct {
	Status     string   // exact match
	Location   string   // case-insensitive substring
	EmployerID int64    // exact match
	Skills     []string // any-of set match
}

type JobRepo interface {
	CreateJob(ctx context.Context, j *models.Job) (int64, error)
	GetJob(ctx context.Context, id int64) (*models.Job, error)
	// ListJobs returns postings ordered by posted date descending, capped at
	// limit (100 when limit <= 0).
	ListJobs(ctx context.Context, f JobFilter, limit int) ([]models.Job, error)
	UpdateJob(ctx context.Context, j *models.Job) error
	DeleteJob(ctx context.Context, id int64) error
	// UpdateApplications runs mutate against the current application list of
	// the job and persists the result under the row's optimistic version
	// check, retrying on conflict. An error returned by mutate aborts the
	// write and is passed through unchanged.
	UpdateApplications(ctx context.Context, jobID int64, mutate func(j *models.Job) error) (*models.Job, error)
	// ListExpiredActive returns ids of Active jobs whose application deadline
	// is at or before now (unix millis).
	ListExpiredActive(ctx context.Context, now int64) ([]int64, error)
	SetJobStatus(ctx context.Context, id int64, status string) error
}
