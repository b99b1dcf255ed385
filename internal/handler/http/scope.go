package http

import (
	"net/http"

	"github.com/cmlabs-hris/qr-attendance/internal/handler/http/response"
	"github.com/cmlabs-hris/qr-attendance/internal/pkg/jwt"
	"github.com/cmlabs-hris/qr-attendance/internal/pkg/period"
)

// authorizeEmployee lets admins act on anyone and employees only on
// themselves. It writes the error response and returns false on refusal.
func authorizeEmployee(w http.ResponseWriter, r *http.Request, employeeID string) (jwt.Claims, bool) {
	claims, err := jwt.ClaimsFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, "Invalid token")
		return jwt.Claims{}, false
	}
	if !claims.IsAdmin && claims.EmployeeID != employeeID {
		response.Forbidden(w, "You can only access your own attendance")
		return jwt.Claims{}, false
	}
	return claims, true
}

// periodFromQuery reads ?period=&start_date=&end_date=.
func periodFromQuery(r *http.Request) period.Request {
	q := r.URL.Query()
	return period.Request{
		Name:      q.Get("period"),
		StartDate: q.Get("start_date"),
		EndDate:   q.Get("end_date"),
	}
}
