package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/vedran77/orbit/internal/service"
	"github.com/vedran77/orbit/internal/transport/http/middleware"
	"github.com/vedran77/orbit/pkg/validator"
)

type VerificationHandler struct {
	verificationService *service.VerificationService
}

func NewVerificationHandler(verificationService *service.VerificationService) *VerificationHandler {
	return &VerificationHandler{verificationService: verificationService}
}

// Issue creates an additional verification token for the authenticated
// account, for when the original email never arrived.
func (h *VerificationHandler) Issue(w http.ResponseWriter, r *http.Request) {
	accountID := middleware.GetAccountID(r.Context())

	token, err := h.verificationService.Issue(r.Context(), accountID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, token)
}

type confirmInput struct {
	Token string `json:"token"`
	Email string `json:"email"`
}

func (h *VerificationHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	var input confirmInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if errs := validator.ValidateConfirm(input.Token, input.Email); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	if err := h.verificationService.Confirm(r.Context(), input.Token, input.Email); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Your account has successfully been verified"})
}
