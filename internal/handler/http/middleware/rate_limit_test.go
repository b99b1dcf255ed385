package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/qr-attendance/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestRateLimitByEmployee(t *testing.T) {
	svc := jwt.NewJWTService("secret", "1h")
	handler := RateLimitByEmployee(rate.Limit(0.001), 2)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	request := func(employeeID string) int {
		token, _, err := svc.GenerateAccessToken(employeeID, false)
		require.NoError(t, err)
		decoded, err := svc.JWTAuth().Decode(token)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req = req.WithContext(jwtauth.NewContext(req.Context(), decoded, nil))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusNoContent, request("emp-1"))
	assert.Equal(t, http.StatusNoContent, request("emp-1"))
	assert.Equal(t, http.StatusTooManyRequests, request("emp-1"))
	assert.Equal(t, http.StatusNoContent, request("emp-2"))

	// anonymous requests are left to AuthRequired
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil).WithContext(context.Background()))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
