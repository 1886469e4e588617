package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/skillbridge/skillbridge/pkg/models"
	"github.com/skillbridge/skillbridge/pkg/repository"
)

const userColumns = `id, full_name, phone_number, email, password_hash, date_of_birth, gender, state, district,
	face_image, face_descriptor, aadhaar_number, aadhaar_verified, education, skills, job_roles, resume,
	certificates, role, company_name, designation, company_website, is_active, verified, created, updated`

func (r *SQLiteRepo) CreateUser(ctx context.Context, u *models.User) (int64, error) {
	if u == nil {
		return 0, fmt.Errorf("user is nil")
	}

	ts := now()
	res, err := r.conn.Exec(ctx, `INSERT INTO users
		(full_name, phone_number, email, password_hash, date_of_birth, gender, state, district,
		 face_image, face_descriptor, aadhaar_number, aadhaar_verified, education, skills, job_roles, resume,
		 certificates, role, company_name, designation, company_website, is_active, verified, created, updated)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.FullName, u.PhoneNumber, strings.ToLower(u.Email), u.PasswordHash, u.DateOfBirth, u.Gender, u.State, u.District,
		u.FaceImage, marshalJSON(u.FaceDescriptor), u.Aadhaar.Number, boolToInt(u.Aadhaar.Verified),
		marshalJSON(u.Education), marshalJSON(u.Skills), marshalJSON(u.JobRoles), u.Resume,
		marshalJSON(u.Certificates), u.Role, u.CompanyName, u.Designation, u.CompanyWebsite,
		boolToInt(u.IsActive), boolToInt(u.Verified), ts, ts)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, repository.ErrDuplicate
		}
		return 0, err
	}

	return res.LastInsertId()
}

func (r *SQLiteRepo) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

// GetUserByIdentifier matches either the (lowercased) email or the phone number.
func (r *SQLiteRepo) GetUserByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = ? OR phone_number = ?`,
		strings.ToLower(identifier), identifier)
	return scanUser(row)
}

func (r *SQLiteRepo) UpdateUser(ctx context.Context, u *models.User) error {
	if u == nil {
		return fmt.Errorf("user is nil")
	}

	res, err := r.conn.Exec(ctx, `UPDATE users SET
		full_name = ?, state = ?, district = ?, education = ?, skills = ?, job_roles = ?, resume = ?,
		certificates = ?, designation = ?, company_website = ?, aadhaar_number = ?, aadhaar_verified = ?,
		is_active = ?, verified = ?, updated = ?
		WHERE id = ?`,
		u.FullName, u.State, u.District, marshalJSON(u.Education), marshalJSON(u.Skills),
		marshalJSON(u.JobRoles), u.Resume, marshalJSON(u.Certificates), u.Designation, u.CompanyWebsite,
		u.Aadhaar.Number, boolToInt(u.Aadhaar.Verified), boolToInt(u.IsActive), boolToInt(u.Verified),
		now(), u.ID)
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

func scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	var descriptor, education, skills, jobRoles, certificates string
	var aadhaarVerified, isActive, verified int
	var dob, gender, state, district, resume, companyName, designation, website, aadhaarNumber sql.NullString

	err := row.Scan(&u.ID, &u.FullName, &u.PhoneNumber, &u.Email, &u.PasswordHash, &dob, &gender, &state, &district,
		&u.FaceImage, &descriptor, &aadhaarNumber, &aadhaarVerified, &education, &skills, &jobRoles, &resume,
		&certificates, &u.Role, &companyName, &designation, &website, &isActive, &verified, &u.Created, &u.Updated)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	u.DateOfBirth = dob.String
	u.Gender = gender.String
	u.State = state.String
	u.District = district.String
	u.Resume = resume.String
	u.CompanyName = companyName.String
	u.Designation = designation.String
	u.CompanyWebsite = website.String
	u.Aadhaar = models.Aadhaar{Number: aadhaarNumber.String, Verified: aadhaarVerified != 0}
	u.IsActive = isActive != 0
	u.Verified = verified != 0
	unmarshalJSON(descriptor, &u.FaceDescriptor)
	unmarshalJSON(education, &u.Education)
	unmarshalJSON(skills, &u.Skills)
	unmarshalJSON(jobRoles, &u.JobRoles)
	unmarshalJSON(certificates, &u.Certificates)

	return &u, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
