package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"

	"github.com/vedran77/orbit/internal/domain"
	"github.com/vedran77/orbit/internal/service"
	"github.com/vedran77/orbit/internal/transport/http/middleware"
	"github.com/vedran77/orbit/pkg/validator"
)

type AuthHandler struct {
	accountService      *service.AccountService
	verificationService *service.VerificationService
}

func NewAuthHandler(accountService *service.AccountService, verificationService *service.VerificationService) *AuthHandler {
	return &AuthHandler{
		accountService:      accountService,
		verificationService: verificationService,
	}
}

type registerResponse struct {
	Account *domain.Account           `json:"account"`
	Token   *domain.VerificationToken `json:"verification_token"`
}

// Register creates the account and issues its first verification token. The
// duplicate response is deliberately generic so callers cannot probe which
// field is taken.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input service.CreateAccountInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if errs := validator.ValidateRegister(input.Email, input.Username, input.FirstName, input.LastName, input.Password); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	account, err := h.accountService.Create(r.Context(), input)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	token, err := h.verificationService.Issue(r.Context(), account.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, registerResponse{Account: account, Token: token})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input service.LoginInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if errs := validator.ValidateLogin(input.Email, input.Password); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	resp, err := h.accountService.Login(r.Context(), input, remoteAddr(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

type changePasswordInput struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var input changePasswordInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if errs := validator.ValidateChangePassword(input.CurrentPassword, input.NewPassword); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	accountID := middleware.GetAccountID(r.Context())
	if err := h.accountService.ChangePassword(r.Context(), accountID, input.CurrentPassword, input.NewPassword); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Password updated"})
}

func remoteAddr(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}

func writeValidationErrors(w http.ResponseWriter, errs validator.ValidationErrors) {
	writeJSON(w, http.StatusBadRequest, map[string]any{
		"error": map[string]any{
			"code":   "VALIDATION_ERROR",
			"fields": errs,
		},
	})
}

// writeServiceError maps domain errors to responses. Expected conflicts get
// their own codes; anything else is a logged 500.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrDuplicateAccount):
		writeError(w, http.StatusConflict, "DUPLICATE_ACCOUNT", "Username or Email already exists")
	case errors.Is(err, domain.ErrAccountNotFound):
		writeError(w, http.StatusNotFound, "ACCOUNT_NOT_FOUND", "Account not found")
	case errors.Is(err, domain.ErrTokenNotFound):
		writeError(w, http.StatusNotFound, "TOKEN_INVALID", "We were unable to verify your account, the token may be invalid or expired")
	case errors.Is(err, domain.ErrIncorrectPassword):
		writeError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
	case errors.Is(err, domain.ErrSelfFollow):
		writeError(w, http.StatusBadRequest, "SELF_FOLLOW", "An account cannot follow itself")
	case errors.Is(err, domain.ErrAlreadyVerified):
		writeError(w, http.StatusConflict, "ALREADY_VERIFIED", "Your account has already been verified")
	case errors.Is(err, domain.ErrVerifiedDowngrade):
		writeError(w, http.StatusBadRequest, "VERIFIED_IMMUTABLE", "Verified status cannot be revoked")
	case errors.Is(err, domain.ErrTargetGone):
		writeError(w, http.StatusConflict, "TARGET_GONE", "Target account no longer exists")
	default:
		slog.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
	}
}
