package credential

import (
	"strings"

	"github.com/cmlabs-hris/qr-attendance/internal/pkg/validator"
)

type PersonalCredentialResponse struct {
	EmployeeID  string `json:"employee_id"`
	Token       string `json:"token"`
	ExpiresAt   string `json:"expires_at"`
	QRCodeImage string `json:"qr_code_image"`
}

type SharedCredentialResponse struct {
	QRType      SharedType `json:"qr_type"`
	Token       string     `json:"token"`
	ValidFrom   string     `json:"valid_from"`
	ValidTo     string     `json:"valid_to"`
	QRCodeImage string     `json:"qr_code_image"`
}

type VerifyPersonalRequest struct {
	Token      string `json:"token"`
	EmployeeID string `json:"employee_id"`
}

func (r *VerifyPersonalRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Token) {
		errs = append(errs, validator.ValidationError{
			Field:   "token",
			Message: "token is required",
		})
	}
	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type VerifySharedRequest struct {
	Token  string     `json:"token"`
	QRType SharedType `json:"qr_type"`
}

func (r *VerifySharedRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Token) {
		errs = append(errs, validator.ValidationError{
			Field:   "token",
			Message: "token is required",
		})
	}
	r.QRType = SharedType(strings.ToLower(strings.TrimSpace(string(r.QRType))))
	if !validator.IsInSlice(string(r.QRType), SharedTypes) {
		errs = append(errs, validator.ValidationError{
			Field:   "qr_type",
			Message: ErrInvalidSharedType.Error(),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type VerifyResponse struct {
	Valid bool `json:"valid"`
}
