package domain

import "errors"

// Tenant and access errors are all terminal for the request and are surfaced
// to the caller as one opaque denial; the distinguishing detail is kept in
// internal logs and the audit trail only.
var (
	ErrMissingTenantContext     = errors.New("missing tenant context")
	ErrUnauthorizedTenantSwitch = errors.New("unauthorized tenant switch")
	ErrTenantNotFound           = errors.New("tenant not found")
	ErrInvalidTenantIdentifier  = errors.New("invalid tenant identifier")
	ErrTenantSessionFailed      = errors.New("tenant session establishment failed")
	ErrAccessDenied             = errors.New("access denied")
)

// ErrMatterNotFound is a plain lookup miss, not a denial: within the
// caller's own tenant scope a missing matter renders as a 404.
var ErrMatterNotFound = errors.New("matter not found")

// IsDenial reports whether err belongs to the tenant/access taxonomy that
// must be rendered as the uniform denial response.
func IsDenial(err error) bool {
	return errors.Is(err, ErrMissingTenantContext) ||
		errors.Is(err, ErrUnauthorizedTenantSwitch) ||
		errors.Is(err, ErrTenantNotFound) ||
		errors.Is(err, ErrInvalidTenantIdentifier) ||
		errors.Is(err, ErrTenantSessionFailed) ||
		errors.Is(err, ErrAccessDenied)
}
