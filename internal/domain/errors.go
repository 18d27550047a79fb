package domain

import "errors"

var (
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrForbidden             = errors.New("forbidden")
	ErrInvalidInput          = errors.New("invalid input")
	ErrDuplicateProfile      = errors.New("profile already exists for this user")
	ErrBillingCustomerAbsent = errors.New("no billing customer on file")
	ErrEntitlementExhausted  = errors.New("free audit limit reached")
	ErrInvalidSignature      = errors.New("invalid webhook signature")
	ErrUpstream              = errors.New("upstream service failed")
	ErrUnsupportedFileType   = errors.New("unsupported file type")
)
