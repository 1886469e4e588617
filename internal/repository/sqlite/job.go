package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/skillbridge/skillbridge/pkg/models"
	"github.com/skillbridge/skillbridge/pkg/repository"
)

const jobColumns = `id, title, company, employer_id, employer_name, employer_email, description, requirements,
	skills, location, work_type, salary, experience_level, education_required, openings, status,
	application_deadline, applications, version, posted_date, last_updated`

// occRetries bounds the read-modify-write loop in UpdateApplications.
const occRetries = 3

func (r *SQLiteRepo) CreateJob(ctx context.Context, j *models.Job) (int64, error) {
	if j == nil {
		return 0, fmt.Errorf("job is nil")
	}

	ts := now()
	res, err := r.conn.Exec(ctx, `INSERT INTO jobs
		(title, company, employer_id, employer_name, employer_email, description, requirements, skills,
		 location, work_type, salary, experience_level, education_required, openings, status,
		 application_deadline, applications, version, posted_date, last_updated)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1, ?, ?)`,
		j.Title, j.Company, j.EmployerID, j.EmployerName, j.EmployerEmail, j.Description,
		marshalJSON(j.Requirements), marshalJSON(j.Skills), j.Location, j.WorkType, marshalJSON(j.Salary),
		j.ExperienceLevel, j.EducationRequired, j.Openings, j.Status, j.ApplicationDeadline,
		marshalJSON(j.Applications), ts, ts)
	if err != nil {
		return 0, err
	}

	return res.LastInsertId()
}

func (r *SQLiteRepo) GetJob(ctx context.Context, id int64) (*models.Job, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, repository.ErrNotFound
	}
	return scanJob(rows)
}

// ListJobs applies the SQL-expressible filters in the query, the skills
// any-of filter in memory, and caps the result afterwards so the cap applies
// to the filtered set.
func (r *SQLiteRepo) ListJobs(ctx context.Context, f repository.JobFilter, limit int) ([]models.Job, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `SELECT ` + jobColumns + ` FROM jobs`
	var conds []string
	var args []any
	if f.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, f.Status)
	}
	if f.EmployerID > 0 {
		conds = append(conds, "employer_id = ?")
		args = append(args, f.EmployerID)
	}
	if f.Location != "" {
		conds = append(conds, "instr(lower(location), lower(?)) > 0")
		args = append(args, f.Location)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY posted_date DESC"

	rows, err := r.conn.QueryRows(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.Job, 0)
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		if len(f.Skills) > 0 && !skillsIntersect(j.Skills, f.Skills) {
			continue
		}
		out = append(out, *j)
		if len(out) >= limit {
			break
		}
	}

	return out, rows.Err()
}

// UpdateJob rewrites the mutable columns of a posting. The employer reference
// is deliberately not part of the statement.
func (r *SQLiteRepo) UpdateJob(ctx context.Context, j *models.Job) error {
	if j == nil {
		return fmt.Errorf("job is nil")
	}

	res, err := r.conn.Exec(ctx, `UPDATE jobs SET
		title = ?, company = ?, description = ?, requirements = ?, skills = ?, location = ?, work_type = ?,
		salary = ?, experience_level = ?, education_required = ?, openings = ?, status = ?,
		application_deadline = ?, version = version + 1, last_updated = ?
		WHERE id = ?`,
		j.Title, j.Company, j.Description, marshalJSON(j.Requirements), marshalJSON(j.Skills), j.Location,
		j.WorkType, marshalJSON(j.Salary), j.ExperienceLevel, j.EducationRequired, j.Openings, j.Status,
		j.ApplicationDeadline, now(), j.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepo) DeleteJob(ctx context.Context, id int64) error {
	res, err := r.conn.Exec(ctx, `DELETE FROM jobs WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// UpdateApplications runs mutate against a fresh read of the job and writes
// the application list back under the row's version check. A concurrent
// writer bumps the version and voids our write; the loop re-reads and
// re-applies mutate, so invariants checked inside mutate (duplicate
// applications, job status) hold under interleaving.
func (r *SQLiteRepo) UpdateApplications(ctx context.Context, jobID int64, mutate func(j *models.Job) error) (*models.Job, error) {
	for attempt := 0; attempt < occRetries; attempt++ {
		job, err := r.GetJob(ctx, jobID)
		if err != nil {
			return nil, err
		}

		if err := mutate(job); err != nil {
			return nil, err
		}

		ts := now()
		res, err := r.conn.Exec(ctx,
			`UPDATE jobs SET applications = ?, version = version + 1, last_updated = ? WHERE id = ? AND version = ?`,
			marshalJSON(job.Applications), ts, jobID, job.Version)
		if err != nil {
			return nil, err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return nil, err
		}
		if n == 1 {
			job.Version++
			job.LastUpdated = ts
			return job, nil
		}
		// lost the race, re-read and try again
	}

	return nil, repository.ErrVersionConflict
}

func (r *SQLiteRepo) ListExpiredActive(ctx context.Context, nowMillis int64) ([]int64, error) {
	rows, err := r.conn.QueryRows(ctx,
		`SELECT id FROM jobs WHERE status = ? AND application_deadline IS NOT NULL AND application_deadline <= ?`,
		models.JobActive, nowMillis)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *SQLiteRepo) SetJobStatus(ctx context.Context, id int64, status string) error {
	res, err := r.conn.Exec(ctx,
		`UPDATE jobs SET status = ?, version = version + 1, last_updated = ? WHERE id = ?`,
		status, now(), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func scanJob(rows *sql.Rows) (*models.Job, error) {
	var j models.Job
	var requirements, skills, salary, applications string
	var deadline sql.NullInt64

	if err := rows.Scan(&j.ID, &j.Title, &j.Company, &j.EmployerID, &j.EmployerName, &j.EmployerEmail,
		&j.Description, &requirements, &skills, &j.Location, &j.WorkType, &salary, &j.ExperienceLevel,
		&j.EducationRequired, &j.Openings, &j.Status, &deadline, &applications, &j.Version,
		&j.PostedDate, &j.LastUpdated); err != nil {
		return nil, err
	}

	if deadline.Valid {
		v := deadline.Int64
		j.ApplicationDeadline = &v
	}
	unmarshalJSON(requirements, &j.Requirements)
	unmarshalJSON(skills, &j.Skills)
	unmarshalJSON(salary, &j.Salary)
	unmarshalJSON(applications, &j.Applications)
	if j.Applications == nil {
		j.Applications = []models.Application{}
	}

	return &j, nil
}

func skillsIntersect(jobSkills, wanted []string) bool {
	for _, w := range wanted {
		for _, s := range jobSkills {
			if strings.EqualFold(strings.TrimSpace(s), strings.TrimSpace(w)) {
				return true
			}
		}
	}
	return false
}
