package mock

import (
	"context"
	"strings"
	"sync"

	"github.com/skillbridge/skillbridge/pkg/models"
	"github.com/skillbridge/skillbridge/pkg/repository"
)

// Test helpers and mocks
type Mocks struct {
	UserRepo *UserRepo
	JobRepo  *JobRepo
}

func NewMocks() *Mocks {
	return &Mocks{
		UserRepo: &UserRepo{},
		JobRepo:  &JobRepo{},
	}
}

// UserRepo is an in-memory UserRepo holding at most a handful of users.
type UserRepo struct {
	Users     []*models.User
	nextID    int64
	CreateErr error
	UpdateErr error
}

var _ repository.UserRepo = (*UserRepo)(nil)

func (m *UserRepo) CreateUser(ctx context.Context, u *models.User) (int64, error) {
	if m.CreateErr != nil {
		return 0, m.CreateErr
	}
	for _, existing := range m.Users {
		if strings.EqualFold(existing.Email, u.Email) || existing.PhoneNumber == u.PhoneNumber {
			return 0, repository.ErrDuplicate
		}
	}
	m.nextID++
	stored := *u
	stored.ID = m.nextID
	m.Users = append(m.Users, &stored)
	return stored.ID, nil
}

func (m *UserRepo) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	for _, u := range m.Users {
		if u.ID == id {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *UserRepo) GetUserByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	for _, u := range m.Users {
		if strings.EqualFold(u.Email, identifier) || u.PhoneNumber == identifier {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *UserRepo) UpdateUser(ctx context.Context, u *models.User) error {
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	for i, existing := range m.Users {
		if existing.ID == u.ID {
			copied := *u
			m.Users[i] = &copied
			return nil
		}
	}
	return repository.ErrNotFound
}

// JobRepo is an in-memory JobRepo. UpdateApplications applies the mutate
// closure under the lock, so closure-checked invariants hold even when a
// test drives it from multiple goroutines.
type JobRepo struct {
	mu        sync.Mutex
	Jobs      []*models.Job
	nextID    int64
	CreateErr error
	UpdateErr error
	ListErr   error
}

var _ repository.JobRepo = (*JobRepo)(nil)

func (m *JobRepo) CreateJob(ctx context.Context, j *models.Job) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return 0, m.CreateErr
	}
	m.nextID++
	stored := *j
	stored.ID = m.nextID
	stored.Version = 1
	if stored.Applications == nil {
		stored.Applications = []models.Application{}
	}
	m.Jobs = append(m.Jobs, &stored)
	return stored.ID, nil
}

func (m *JobRepo) GetJob(ctx context.Context, id int64) (*models.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j := m.find(id)
	if j == nil {
		return nil, repository.ErrNotFound
	}
	copied := *j
	return &copied, nil
}

func (m *JobRepo) ListJobs(ctx context.Context, f repository.JobFilter, limit int) ([]models.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	if limit <= 0 {
		limit = 100
	}
	var out []models.Job
	for _, j := range m.Jobs {
		if f.Status != "" && j.Status != f.Status {
			continue
		}
		if f.EmployerID != 0 && j.EmployerID != f.EmployerID {
			continue
		}
		if f.Location != "" && !strings.Contains(strings.ToLower(j.Location), strings.ToLower(f.Location)) {
			continue
		}
		if len(f.Skills) > 0 && !anySkill(j.Skills, f.Skills) {
			continue
		}
		out = append(out, *j)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *JobRepo) UpdateJob(ctx context.Context, j *models.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	stored := m.find(j.ID)
	if stored == nil {
		return repository.ErrNotFound
	}
	copied := *j
	copied.Version = stored.Version + 1
	*stored = copied
	return nil
}

func (m *JobRepo) DeleteJob(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, j := range m.Jobs {
		if j.ID == id {
			m.Jobs = append(m.Jobs[:i], m.Jobs[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *JobRepo) UpdateApplications(ctx context.Context, jobID int64, mutate func(j *models.Job) error) (*models.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := m.find(jobID)
	if stored == nil {
		return nil, repository.ErrNotFound
	}
	working := *stored
	working.Applications = append([]models.Application(nil), stored.Applications...)
	if err := mutate(&working); err != nil {
		return nil, err
	}
	working.Version = stored.Version + 1
	*stored = working
	copied := working
	return &copied, nil
}

func (m *JobRepo) ListExpiredActive(ctx context.Context, now int64) ([]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []int64
	for _, j := range m.Jobs {
		if j.Status == models.JobActive && j.ApplicationDeadline != nil && *j.ApplicationDeadline <= now {
			ids = append(ids, j.ID)
		}
	}
	return ids, nil
}

func (m *JobRepo) SetJobStatus(ctx context.Context, id int64, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := m.find(id)
	if stored == nil {
		return repository.ErrNotFound
	}
	stored.Status = status
	return nil
}

func (m *JobRepo) find(id int64) *models.Job {
	for _, j := range m.Jobs {
		if j.ID == id {
			return j
		}
	}
	return nil
}

func anySkill(jobSkills, want []string) bool {
	for _, w := range want {
		for _, s := range jobSkills {
			if strings.EqualFold(strings.TrimSpace(s), strings.TrimSpace(w)) {
				return true
			}
		}
	}
	return false
}
