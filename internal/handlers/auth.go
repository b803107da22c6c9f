package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ecotrack-lk/backend/internal/middleware"
	"github.com/ecotrack-lk/backend/internal/models"
)

// Register handles POST /api/auth/register
func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	if err := s.deps.AuthService.ValidateUsername(req.Username); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err := s.deps.AuthService.ValidateEmail(req.Email); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err := s.deps.AuthService.ValidatePassword(req.Password); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if req.PhoneNumber != "" {
		if err := s.deps.AuthService.ValidatePhoneNumber(req.PhoneNumber); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
	}
	if req.Role == "" {
		req.Role = models.RoleResident
	}
	if !models.IsValidRole(req.Role) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid role"})
		return
	}

	if existing, _ := s.deps.Users.FindUserByUsername(r.Context(), req.Username); existing != nil {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "Username already taken"})
		return
	}
	if existing, _ := s.deps.Users.FindUserByEmail(r.Context(), req.Email); existing != nil {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "Email already registered"})
		return
	}

	hash, err := s.deps.AuthService.HashPassword(req.Password)
	if err != nil {
		logrus.WithError(err).Error("Failed to hash password")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to create user"})
		return
	}

	user := models.User{
		ID:           primitive.NewObjectID(),
		Username:     req.Username,
		FullName:     req.FullName,
		Email:        req.Email,
		PhoneNumber:  req.PhoneNumber,
		Address:      req.Address,
		PasswordHash: hash,
		Role:         req.Role,
		AlertMethods: req.AlertMethods,
		Locations:    req.Locations,
		Language:     req.Language,
	}
	if user.Language == "" {
		user.Language = "en"
	}

	if err := s.deps.Users.InsertUser(r.Context(), user); err != nil {
		logrus.WithError(err).WithField("username", req.Username).Error("Failed to insert user")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to create user"})
		return
	}

	token, err := s.deps.AuthService.GenerateToken(&user)
	if err != nil {
		logrus.WithError(err).Error("Failed to generate token")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to create user"})
		return
	}
	refreshToken, err := s.deps.AuthService.GenerateRefreshToken()
	if err != nil {
		logrus.WithError(err).Error("Failed to generate refresh token")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to create user"})
		return
	}

	logrus.WithFields(logrus.Fields{"username": req.Username, "role": req.Role}).Info("User registered")
	writeJSON(w, http.StatusCreated, models.LoginResponse{
		Token:        token,
		RefreshToken: refreshToken,
		User:         user,
	})
}

// Login handles POST /api/auth/login. The account is identified by username
// or phone number. A phone-number account with no password yet accepts the
// submitted password as its new credential.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}
	if req.Password == "" || (req.Username == "" && req.PhoneNumber == "") {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Username or phone number and password are required"})
		return
	}

	var (
		user *models.User
		err  error
	)
	if req.Username != "" {
		user, err = s.deps.Users.FindUserByUsername(r.Context(), req.Username)
	} else {
		user, err = s.deps.Users.FindUserByPhone(r.Context(), req.PhoneNumber)
	}
	if err != nil || user == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
		return
	}
	if !user.IsActive {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Account is disabled"})
		return
	}

	if user.PasswordHash == "" {
		// First login for a pre-provisioned phone account: the submitted
		// password becomes the credential.
		if err := s.deps.AuthService.ValidatePassword(req.Password); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		hash, hashErr := s.deps.AuthService.HashPassword(req.Password)
		if hashErr != nil {
			logrus.WithError(hashErr).Error("Failed to hash first-login password")
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Login failed"})
			return
		}
		if err := s.deps.Users.SetPasswordHash(r.Context(), user.ID.Hex(), hash); err != nil {
			logrus.WithError(err).Error("Failed to store first-login password")
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Login failed"})
			return
		}
		user.PasswordHash = hash
	} else if !s.deps.AuthService.CheckPassword(req.Password, user.PasswordHash) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
		return
	}

	token, err := s.deps.AuthService.GenerateToken(user)
	if err != nil {
		logrus.WithError(err).Error("Failed to generate token")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Login failed"})
		return
	}
	refreshToken, err := s.deps.AuthService.GenerateRefreshToken()
	if err != nil {
		logrus.WithError(err).Error("Failed to generate refresh token")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Login failed"})
		return
	}

	if err := s.deps.Users.UpdateLastLogin(r.Context(), user.ID.Hex()); err != nil {
		logrus.WithError(err).Warn("Failed to update last login")
	}

	writeJSON(w, http.StatusOK, models.LoginResponse{
		Token:        token,
		RefreshToken: refreshToken,
		User:         *user,
	})
}

// GetProfile handles GET /api/auth/profile
func (s *Server) GetProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Authentication required"})
		return
	}

	user, err := s.deps.Users.FindUserByID(r.Context(), claims.UserID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "User not found"})
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// profileUpdateRequest carries the editable profile fields.
type profileUpdateRequest struct {
	FullName     string   `json:"fullName"`
	Email        string   `json:"email"`
	PhoneNumber  string   `json:"phoneNumber"`
	Address      string   `json:"address"`
	AlertMethods []string `json:"alertMethods"`
	Locations    []string `json:"locations"`
	Language     string   `json:"language"`
}

// UpdateProfile handles PUT /api/auth/profile
func (s *Server) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Authentication required"})
		return
	}

	var req profileUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	user, err := s.deps.Users.FindUserByID(r.Context(), claims.UserID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "User not found"})
		return
	}

	if req.Email != "" && req.Email != user.Email {
		if err := s.deps.AuthService.ValidateEmail(req.Email); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		user.Email = req.Email
	}
	if req.PhoneNumber != "" && req.PhoneNumber != user.PhoneNumber {
		if err := s.deps.AuthService.ValidatePhoneNumber(req.PhoneNumber); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		user.PhoneNumber = req.PhoneNumber
	}
	if req.FullName != "" {
		user.FullName = req.FullName
	}
	if req.Address != "" {
		user.Address = req.Address
	}
	if req.AlertMethods != nil {
		user.AlertMethods = req.AlertMethods
	}
	if req.Locations != nil {
		user.Locations = req.Locations
	}
	if req.Language != "" {
		user.Language = req.Language
	}
	user.UpdatedAt = time.Now()

	if err := s.deps.Users.UpdateUser(r.Context(), claims.UserID, *user); err != nil {
		logrus.WithError(err).WithField("user_id", claims.UserID).Error("Failed to update profile")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to update profile"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Profile updated"})
}

// changePasswordRequest is the POST /api/auth/change-password body.
type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// ChangePassword handles POST /api/auth/change-password
func (s *Server) ChangePassword(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Authentication required"})
		return
	}

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	user, err := s.deps.Users.FindUserByID(r.Context(), claims.UserID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "User not found"})
		return
	}
	if !s.deps.AuthService.CheckPassword(req.CurrentPassword, user.PasswordHash) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Current password is incorrect"})
		return
	}
	if err := s.deps.AuthService.ValidatePassword(req.NewPassword); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	hash, err := s.deps.AuthService.HashPassword(req.NewPassword)
	if err != nil {
		logrus.WithError(err).Error("Failed to hash new password")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to change password"})
		return
	}
	if err := s.deps.Users.SetPasswordHash(r.Context(), claims.UserID, hash); err != nil {
		logrus.WithError(err).WithField("user_id", claims.UserID).Error("Failed to store new password")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to change password"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Password changed successfully"})
}
