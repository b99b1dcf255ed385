package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cmlabs-hris/qr-attendance/internal/domain/credential"
	"github.com/cmlabs-hris/qr-attendance/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type CredentialHandler interface {
	IssuePersonal(w http.ResponseWriter, r *http.Request)
	VerifyPersonal(w http.ResponseWriter, r *http.Request)
	IssueShared(w http.ResponseWriter, r *http.Request)
	VerifyShared(w http.ResponseWriter, r *http.Request)
}

type credentialHandlerImpl struct {
	credentialService credential.CredentialService
	now               func() time.Time
}

// NewCredentialHandler verifies tokens against now, which defaults to time.Now.
func NewCredentialHandler(credentialService credential.CredentialService, now func() time.Time) CredentialHandler {
	if now == nil {
		now = time.Now
	}
	return &credentialHandlerImpl{
		credentialService: credentialService,
		now:               now,
	}
}

// IssuePersonal handles GET /credentials/personal/{employeeID}
func (h *credentialHandlerImpl) IssuePersonal(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	if _, ok := authorizeEmployee(w, r, employeeID); !ok {
		return
	}

	result, err := h.credentialService.IssuePersonal(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// VerifyPersonal handles POST /credentials/personal/verify
func (h *credentialHandlerImpl) VerifyPersonal(w http.ResponseWriter, r *http.Request) {
	var req credential.VerifyPersonalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode verify request", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, credential.VerifyResponse{
		Valid: h.credentialService.VerifyPersonal(req.Token, req.EmployeeID, h.now()),
	})
}

// IssueShared handles POST /credentials/shared/{type}
func (h *credentialHandlerImpl) IssueShared(w http.ResponseWriter, r *http.Request) {
	t := credential.SharedType(strings.ToLower(chi.URLParam(r, "type")))

	result, err := h.credentialService.IssueShared(r.Context(), t)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Shared QR code issued", result)
}

// VerifyShared handles POST /credentials/shared/verify
func (h *credentialHandlerImpl) VerifyShared(w http.ResponseWriter, r *http.Request) {
	var req credential.VerifySharedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode verify request", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, credential.VerifyResponse{
		Valid: h.credentialService.VerifyShared(r.Context(), req.Token, req.QRType, h.now()),
	})
}
