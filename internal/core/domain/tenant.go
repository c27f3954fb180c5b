package domain

import (
	"fmt"
	"regexp"
	"strconv"
)

var tenantPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_-]*$`)

// TenantID identifies a college. Each tenant owns exactly one vector index.
type TenantID string

// NewTenantID validates s as a tenant identifier.
// Identifiers are used as directory names, so path separators are rejected.
func NewTenantID(s string) (TenantID, error) {
	if s == "" || !tenantPattern.MatchString(s) {
		return "", fmt.Errorf("%w: tenant id %q", ErrInvalidInput, s)
	}
	return TenantID(s), nil
}

// String returns the string representation.
func (t TenantID) String() string {
	return string(t)
}

// DirName returns the tenant's directory name under the data root.
// Numeric ids are zero-padded to three digits (college_007).
func (t TenantID) DirName() string {
	if n, err := strconv.Atoi(string(t)); err == nil && n >= 0 {
		return fmt.Sprintf("college_%03d", n)
	}
	return "college_" + string(t)
}
