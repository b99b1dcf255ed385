package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/qr-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/qr-attendance/internal/handler/http/response"
	"github.com/cmlabs-hris/qr-attendance/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
)

type AttendanceHandler interface {
	Punch(w http.ResponseWriter, r *http.Request)
	GetMyAttendance(w http.ResponseWriter, r *http.Request)
	ListByEmployee(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// Punch handles POST /attendance/punch
func (h *attendanceHandlerImpl) Punch(w http.ResponseWriter, r *http.Request) {
	var req attendance.RecordPunchRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode punch request", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	// employee_id defaults to the caller
	if req.EmployeeID == "" {
		if claims, err := jwt.ClaimsFromContext(r.Context()); err == nil {
			req.EmployeeID = claims.EmployeeID
		}
	}

	if _, ok := authorizeEmployee(w, r, req.EmployeeID); !ok {
		return
	}

	result, err := h.attendanceService.RecordPunch(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, result.Message, result)
}

// GetMyAttendance handles GET /attendance/my
func (h *attendanceHandlerImpl) GetMyAttendance(w http.ResponseWriter, r *http.Request) {
	claims, err := jwt.ClaimsFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, "Invalid token")
		return
	}

	h.list(w, r, claims.EmployeeID)
}

// ListByEmployee handles GET /reports/employees/{employeeID}/attendance
func (h *attendanceHandlerImpl) ListByEmployee(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	if _, ok := authorizeEmployee(w, r, employeeID); !ok {
		return
	}

	h.list(w, r, employeeID)
}

func (h *attendanceHandlerImpl) list(w http.ResponseWriter, r *http.Request, employeeID string) {
	filter := attendance.AttendanceFilter{
		EmployeeID: employeeID,
		Request:    periodFromQuery(r),
	}

	result, err := h.attendanceService.ListAttendance(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
