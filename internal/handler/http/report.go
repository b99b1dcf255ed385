package http

import (
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/qr-attendance/internal/domain/report"
	"github.com/cmlabs-hris/qr-attendance/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

const (
	defaultTrendDays     = 7
	defaultActivityLimit = 10
)

type ReportHandler interface {
	ResolvePeriod(w http.ResponseWriter, r *http.Request)
	GetEmployeeStats(w http.ResponseWriter, r *http.Request)
	GetFleetStats(w http.ResponseWriter, r *http.Request)
	ListEmployeeStats(w http.ResponseWriter, r *http.Request)
	GetRecentActivity(w http.ResponseWriter, r *http.Request)
	GetAttendanceTrend(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

// ResolvePeriod handles GET /reports/period/{name}
func (h *reportHandlerImpl) ResolvePeriod(w http.ResponseWriter, r *http.Request) {
	req := periodFromQuery(r)
	req.Name = chi.URLParam(r, "name")

	result, err := h.reportService.ResolvePeriod(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetEmployeeStats handles GET /reports/employees/{employeeID}/stats
func (h *reportHandlerImpl) GetEmployeeStats(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	if _, ok := authorizeEmployee(w, r, employeeID); !ok {
		return
	}

	result, err := h.reportService.GetEmployeeStats(r.Context(), employeeID, periodFromQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetFleetStats handles GET /reports/fleet
func (h *reportHandlerImpl) GetFleetStats(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.GetFleetStats(r.Context(), periodFromQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListEmployeeStats handles GET /reports/employees
func (h *reportHandlerImpl) ListEmployeeStats(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.ListEmployeeStats(r.Context(), periodFromQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetRecentActivity handles GET /reports/activity
func (h *reportHandlerImpl) GetRecentActivity(w http.ResponseWriter, r *http.Request) {
	limit := defaultActivityLimit
	if l := r.URL.Query().Get("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil {
			response.BadRequest(w, "invalid limit parameter", nil)
			return
		}
		limit = parsed
	}

	result, err := h.reportService.GetRecentActivity(r.Context(), limit)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetAttendanceTrend handles GET /reports/trend
func (h *reportHandlerImpl) GetAttendanceTrend(w http.ResponseWriter, r *http.Request) {
	days := defaultTrendDays
	if d := r.URL.Query().Get("days"); d != "" {
		parsed, err := strconv.Atoi(d)
		if err != nil {
			response.BadRequest(w, "invalid days parameter", nil)
			return
		}
		days = parsed
	}

	result, err := h.reportService.GetAttendanceTrend(r.Context(), days)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
