package credential

import "errors"

var (
	ErrInvalidCredential  = errors.New("qr code is invalid or expired")
	ErrInvalidSharedType  = errors.New("qr code type must be morning or evening")
	ErrCredentialNotFound = errors.New("credential not found")
)
