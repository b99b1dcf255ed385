package cron

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/qr-attendance/internal/domain/credential"
)

type CredentialJobs struct {
	credentialService credential.CredentialService
	interval          time.Duration
}

func NewCredentialJobs(credentialService credential.CredentialService, interval time.Duration) *CredentialJobs {
	return &CredentialJobs{
		credentialService: credentialService,
		interval:          interval,
	}
}

func (j *CredentialJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("ensure_shared_credentials", j.interval, j.EnsureSharedCredentials)
}

// EnsureSharedCredentials keeps a live morning and evening credential on
// display. A failure for one type does not stop the other.
func (j *CredentialJobs) EnsureSharedCredentials(ctx context.Context) error {
	var errs []error
	for _, t := range []credential.SharedType{credential.SharedMorning, credential.SharedEvening} {
		rotated, err := j.credentialService.EnsureShared(ctx, t)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if rotated {
			slog.Info("Cron: Issued shared credential", "qr_type", t)
		}
	}
	return errors.Join(errs...)
}
