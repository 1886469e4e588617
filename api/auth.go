package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
	"github.com/skillbridge/skillbridge/internal/face"
	"github.com/skillbridge/skillbridge/pkg/models"
	"github.com/skillbridge/skillbridge/pkg/repository"
	"golang.org/x/crypto/bcrypt"
)

type AuthHandler struct {
	userRepo      repository.UserRepo
	jwtSecret     string
	tokenDuration time.Duration
}

// NewAuthHandler creates a new AuthHandler with required dependencies.
func NewAuthHandler(ur repository.UserRepo, jwtSecret string, tokenDuration time.Duration) *AuthHandler {
	return &AuthHandler{userRepo: ur, jwtSecret: jwtSecret, tokenDuration: tokenDuration}
}

// generateToken issues a signed session token carrying the user id as its
// sole claim.
func (h *AuthHandler) generateToken(userID int64) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":  userID,
		"exp": time.Now().Add(h.tokenDuration).Unix(),
	})
	return token.SignedString([]byte(h.jwtSecret))
}

type registerRequest struct {
	FullName       string               `json:"fullName"`
	PhoneNumber    string               `json:"phoneNumber"`
	Email          string               `json:"email"`
	Password       string               `json:"password"`
	DateOfBirth    string               `json:"dateOfBirth"`
	Gender         string               `json:"gender"`
	State          string               `json:"state"`
	District       string               `json:"district"`
	FaceImage      string               `json:"faceImage"`
	Aadhaar        string               `json:"aadhaar"`
	Education      models.Education     `json:"education"`
	Skills         []string             `json:"skills"`
	JobRoles       []string             `json:"jobRoles"`
	Resume         string               `json:"resume"`
	Certificates   []models.Certificate `json:"certificates"`
	Role           string               `json:"role"`
	CompanyName    string               `json:"companyName"`
	Designation    string               `json:"designation"`
	CompanyWebsite string               `json:"companyWebsite"`
}

// tokenUser is the compact user block returned by register and login.
type tokenUser struct {
	ID          int64  `json:"id"`
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Role        string `json:"role"`
	CompanyName string `json:"companyName,omitempty"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, "Invalid request", http.StatusBadRequest)
		return
	}

	role := req.Role
	if role == "" {
		role = models.RoleCandidate
	}

	user := &models.User{
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
		Email:       strings.ToLower(req.Email),
		DateOfBirth: req.DateOfBirth,
		Gender:      req.Gender,
		State:       req.State,
		District:    req.District,
		FaceImage:   req.FaceImage,
		Aadhaar:     models.Aadhaar{Number: req.Aadhaar},
		Education:   req.Education,
		Skills:      req.Skills,
		JobRoles:    req.JobRoles,
		Resume:      req.Resume,
		Role:        role,
		IsActive:    true,
	}
	if role == models.RoleEmployer {
		user.CompanyName = req.CompanyName
		user.Designation = req.Designation
		user.CompanyWebsite = req.CompanyWebsite
	}

	ts := time.Now().UTC().UnixMilli()
	for _, c := range req.Certificates {
		if c.UploadedAt == 0 {
			c.UploadedAt = ts
		}
		user.Certificates = append(user.Certificates, c)
	}

	if ferr := models.ValidateRegistration(user, req.Password); ferr != nil {
		writeMessage(w, "Please provide all required fields: "+ferr.Error(), http.StatusBadRequest)
		return
	}

	ctx := r.Context()

	// Duplicate check over both identifiers before the insert; the unique
	// constraints backstop the race.
	for _, ident := range []string{user.Email, user.PhoneNumber} {
		if _, err := h.userRepo.GetUserByIdentifier(ctx, ident); err == nil {
			writeMessage(w, "User with this email or phone number already exists", http.StatusBadRequest)
			return
		} else if !errors.Is(err, repository.ErrNotFound) {
			logger.Error("duplicate check", "err", err)
			writeMessage(w, "Error registering user", http.StatusInternalServerError)
			return
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeMessage(w, "Error registering user", http.StatusInternalServerError)
		return
	}
	user.PasswordHash = string(hash)

	userID, err := h.userRepo.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			writeMessage(w, "User with this email or phone number already exists", http.StatusBadRequest)
			return
		}
		logger.Error("create user", "err", err)
		writeMessage(w, "Error registering user", http.StatusInternalServerError)
		return
	}

	tokenStr, err := h.generateToken(userID)
	if err != nil {
		writeMessage(w, "Error signing token", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]any{
		"message": "User registered successfully",
		"token":   tokenStr,
		"user": tokenUser{
			ID:          userID,
			FullName:    user.FullName,
			Email:       user.Email,
			PhoneNumber: user.PhoneNumber,
			Role:        user.Role,
			CompanyName: user.CompanyName,
		},
	}, http.StatusCreated)
}

type loginRequest struct {
	Identifier string `json:"identifier"` // email or phone
	Password   string `json:"password"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.Identifier == "" || req.Password == "" {
		writeMessage(w, "Please provide login credentials", http.StatusBadRequest)
		return
	}

	ctx := r.Context()

	user, err := h.userRepo.GetUserByIdentifier(ctx, req.Identifier)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeMessage(w, "Invalid credentials", http.StatusUnauthorized)
			return
		}
		logger.Error("lookup user", "err", err)
		writeMessage(w, "Error during login", http.StatusInternalServerError)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		writeMessage(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	tokenStr, err := h.generateToken(user.ID)
	if err != nil {
		writeMessage(w, "Error signing token", http.StatusInternalServerError)
		return
	}

	// Employers skip the face gate entirely.
	writeJSON(w, map[string]any{
		"message":                  "Login successful",
		"token":                    tokenStr,
		"requiresFaceVerification": user.Role == models.RoleCandidate,
		"user": tokenUser{
			ID:          user.ID,
			FullName:    user.FullName,
			Email:       user.Email,
			PhoneNumber: user.PhoneNumber,
			Role:        user.Role,
			CompanyName: user.CompanyName,
		},
	}, http.StatusOK)
}

type verifyFaceRequest struct {
	UserID            int64  `json:"userId"`
	CapturedFaceImage string `json:"capturedFaceImage"`
}

func (h *AuthHandler) VerifyFace(w http.ResponseWriter, r *http.Request) {
	var req verifyFaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.UserID <= 0 || req.CapturedFaceImage == "" {
		writeMessage(w, "User ID and face image are required", http.StatusBadRequest)
		return
	}

	user, err := h.userRepo.GetUserByID(r.Context(), req.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeMessage(w, "User not found", http.StatusNotFound)
			return
		}
		logger.Error("lookup user", "err", err)
		writeMessage(w, "Error during face verification", http.StatusInternalServerError)
		return
	}

	gate := face.NewGate()
	result, err := gate.Resolve(user.FaceImage, req.CapturedFaceImage)
	if err != nil {
		writeMessage(w, "Error during face verification", http.StatusInternalServerError)
		return
	}

	logger.Info("face verification",
		"email", user.Email,
		"match", result.IsMatch,
		"confidence", result.Confidence,
	)

	if !result.IsMatch {
		writeJSON(w, map[string]any{
			"message":    "Face verification failed - Face does not match",
			"confidence": result.Confidence,
		}, http.StatusUnauthorized)
		return
	}

	writeJSON(w, map[string]any{
		"message":    "Face verification successful",
		"verified":   true,
		"confidence": result.Confidence,
	}, http.StatusOK)
}

func (h *AuthHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(mux.Vars(r)["userId"], 10, 64)
	if err != nil || userID <= 0 {
		writeMessage(w, "Invalid user id", http.StatusBadRequest)
		return
	}

	user, err := h.userRepo.GetUserByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeMessage(w, "User not found", http.StatusNotFound)
			return
		}
		logger.Error("fetch profile", "err", err)
		writeMessage(w, "Error fetching profile", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]any{"user": user.Public()}, http.StatusOK)
}

// updateProfileRequest uses pointers so absent fields are left untouched.
type updateProfileRequest struct {
	FullName       *string               `json:"fullName"`
	State          *string               `json:"state"`
	District       *string               `json:"district"`
	Education      *models.Education     `json:"education"`
	Skills         *[]string             `json:"skills"`
	JobRoles       *[]string             `json:"jobRoles"`
	Resume         *string               `json:"resume"`
	Certificates   *[]models.Certificate `json:"certificates"`
	Designation    *string               `json:"designation"`
	CompanyWebsite *string               `json:"companyWebsite"`
}

// UpdateProfile applies recognized mutable fields only. Role, email, phone,
// face image and the password hash are not reachable through this path.
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(mux.Vars(r)["userId"], 10, 64)
	if err != nil || userID <= 0 {
		writeMessage(w, "Invalid user id", http.StatusBadRequest)
		return
	}

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, "Invalid request", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	user, err := h.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeMessage(w, "User not found", http.StatusNotFound)
			return
		}
		logger.Error("fetch user", "err", err)
		writeMessage(w, "Error updating profile", http.StatusInternalServerError)
		return
	}

	if req.FullName != nil && *req.FullName != "" {
		user.FullName = *req.FullName
	}
	if req.State != nil {
		user.State = *req.State
	}
	if req.District != nil {
		user.District = *req.District
	}
	if req.Education != nil {
		user.Education = *req.Education
	}
	if req.Skills != nil {
		user.Skills = *req.Skills
	}
	if req.JobRoles != nil {
		user.JobRoles = *req.JobRoles
	}
	if req.Resume != nil {
		user.Resume = *req.Resume
	}
	if req.Certificates != nil {
		ts := time.Now().UTC().UnixMilli()
		certs := *req.Certificates
		for i := range certs {
			if certs[i].UploadedAt == 0 {
				certs[i].UploadedAt = ts
			}
		}
		user.Certificates = certs
	}
	if req.Designation != nil {
		user.Designation = *req.Designation
	}
	if req.CompanyWebsite != nil {
		user.CompanyWebsite = *req.CompanyWebsite
	}

	if err := h.userRepo.UpdateUser(ctx, user); err != nil {
		logger.Error("update user", "err", err)
		writeMessage(w, "Error updating profile", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]any{"message": "Profile updated successfully", "user": user.Public()}, http.StatusOK)
}
