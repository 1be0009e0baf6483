package app

import "fmt"

// DomainError is a failure the newspaper's rules produced, as opposed to a
// backend fault. It carries the HTTP status and the stable code clients
// branch on (FORBIDDEN, NO_CATEGORIES, EMPTY_CONTENT, ...); mapError
// translates it at the edge, and anything that is not a DomainError or a
// known sentinel becomes a generic 500.
type DomainError struct {
	Status  int
	Code    string
	Message string
	Details any
}

func (e *DomainError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func domainError(status int, code, message string, details any) *DomainError {
	return &DomainError{
		Status:  status,
		Code:    code,
		Message: message,
		Details: details,
	}
}
