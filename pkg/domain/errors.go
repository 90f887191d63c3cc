package domain

import (
	"errors"
	"fmt"
)

// ValidationError reports malformed input. It is surfaced verbatim to the
// caller and never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// NotFoundError reports a referenced entity that is absent or belongs to a
// different organization than the caller's scope. The two cases are
// deliberately indistinguishable so existence never leaks across tenants.
type NotFoundError struct {
	Entity EntityType
	ID     string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// UnauthorizedError reports a missing membership. It is produced only by the
// scope guard; below that boundary cross-tenant access surfaces as NotFound.
type UnauthorizedError struct {
	UserID         string
	OrganizationID string
}

func (e UnauthorizedError) Error() string {
	return fmt.Sprintf("user %s is not a member of organization %s", e.UserID, e.OrganizationID)
}

// ConflictError reports that an ordering or referential invariant would be
// violated. The reason carries enough detail for the caller to retry.
type ConflictError struct {
	Reason string
}

func (e ConflictError) Error() string {
	return e.Reason
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var nf NotFoundError
	return errors.As(err, &nf)
}

// IsUnauthorized reports whether err is (or wraps) an UnauthorizedError.
func IsUnauthorized(err error) bool {
	var ue UnauthorizedError
	return errors.As(err, &ue)
}

// IsConflict reports whether err is (or wraps) a ConflictError.
func IsConflict(err error) bool {
	var ce ConflictError
	return errors.As(err, &ce)
}
