package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"libraryLoanManagement/internal/auth"
	"libraryLoanManagement/models"
	"libraryLoanManagement/repository"
)

// Issued tokens live this long; revocation via logout can end them earlier.
const tokenTTL = 30 * 24 * time.Hour

const minPasswordLen = 5

// AuthHandler serves signup, login and logout.
type AuthHandler struct {
	Users     repository.UserRepositoryI
	Tokens    repository.TokenRepositoryI
	JWTSecret string
	Logger    *slog.Logger

	// limiter throttles credential guessing across signup and login.
	limiter *rate.Limiter
}

// NewAuthHandler wires an auth handler with a login/signup rate limiter.
func NewAuthHandler(users repository.UserRepositoryI, tokens repository.TokenRepositoryI, jwtSecret string, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		Users:     users,
		Tokens:    tokens,
		JWTSecret: jwtSecret,
		Logger:    logger,
		limiter:   rate.NewLimiter(rate.Every(time.Minute/30), 30),
	}
}

// SignUp handles POST /signup.
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"status": "error", "message": "invalid request body"})
		return
	}
	if !h.limiter.Allow() {
		writeJSON(w, http.StatusTooManyRequests, map[string]any{"status": "error", "message": "too many requests"})
		return
	}

	fe := fieldErrors{}
	if req.Name == "" {
		fe.add("name", "The name field is required")
	}
	if req.Email == "" {
		fe.add("email", "The email field is required")
	} else if _, err := mail.ParseAddress(req.Email); err != nil {
		fe.add("email", "The email must be a valid email address")
	}
	if len(req.Password) < minPasswordLen {
		fe.add("password", "The password must be at least 5 characters")
	}
	if len(fe) == 0 {
		exists, err := h.Users.EmailExists(r.Context(), req.Email)
		if err != nil {
			h.registrationFailed(w, err)
			return
		}
		if exists {
			fe.add("email", "The email has already been taken")
		}
	}
	if len(fe) > 0 {
		fe.write(w)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.registrationFailed(w, err)
		return
	}
	user, err := h.Users.Create(r.Context(), req.Name, req.Email, hash)
	if err != nil {
		h.registrationFailed(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"status":  "success",
		"message": "User registered successfully",
		"data":    user,
	})
}

func (h *AuthHandler) registrationFailed(w http.ResponseWriter, err error) {
	h.Logger.Error("signup failed", slog.String("error", err.Error()))
	writeJSON(w, http.StatusInternalServerError, map[string]any{
		"status":  "error",
		"message": "Registration failed, please try again",
		"error":   err.Error(),
	})
}

// Login handles POST /login. Failures are deliberately low-detail: an
// unknown email and a wrong password answer identically.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"status": "error", "message": "invalid request body"})
		return
	}
	if !h.limiter.Allow() {
		writeJSON(w, http.StatusTooManyRequests, map[string]any{"status": "error", "message": "too many requests"})
		return
	}

	fe := fieldErrors{}
	if req.Email == "" {
		fe.add("email", "The email field is required")
	}
	if req.Password == "" {
		fe.add("password", "The password field is required")
	}
	if len(fe) > 0 {
		fe.write(w)
		return
	}

	user, err := h.Users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"status": "error", "message": "internal error"})
		return
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{
			"status":  "error",
			"message": "Login failed. Please check your credentials.",
		})
		return
	}

	tokenID := uuid.NewString()
	if err := h.Tokens.Insert(r.Context(), &models.AccessToken{ID: tokenID, UserID: user.ID, Name: "API Token"}); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"status": "error", "message": "internal error"})
		return
	}
	signed, err := auth.IssueToken(h.JWTSecret, user.ID, user.Name, user.Role, tokenID, tokenTTL)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"status": "error", "message": "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status": "success",
		"token":  map[string]string{"token": signed},
		"user":   user,
	})
}

// Logout handles POST /logout: every outstanding token of the requesting
// user is revoked.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	p, err := auth.RequirePrincipal(r)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"status": "error", "message": "unauthenticated"})
		return
	}
	if _, err := h.Tokens.DeleteByUserID(r.Context(), p.UserID); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"status": "error", "message": "internal error"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Logout successful"})
}
