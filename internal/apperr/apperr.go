package apperr

import "errors"

// Kind classifies a business failure independently of any transport.
// The HTTP boundary (internal/httperr) owns the status-code mapping.
type Kind string

const (
	KindValidation      Kind = "validation"
	KindDuplicateEmail  Kind = "duplicate_email"
	KindDuplicateDomain Kind = "duplicate_domain"
	KindTenantNotFound  Kind = "tenant_not_found"
	KindNotFound        Kind = "not_found"
	KindConflict        Kind = "conflict"
	KindEmailDelivery   Kind = "email_delivery"
	KindUnauthorized    Kind = "unauthorized"
	KindForbidden       Kind = "forbidden"
)

type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Code + ": " + e.Message
	}
	return e.Code
}

// ===============================
// Constructors
// ===============================

func Validation(code, message string) error {
	return &Error{Kind: KindValidation, Code: code, Message: message}
}

func DuplicateEmail(code, message string) error {
	return &Error{Kind: KindDuplicateEmail, Code: code, Message: message}
}

func DuplicateDomain(code, message string) error {
	return &Error{Kind: KindDuplicateDomain, Code: code, Message: message}
}

func TenantNotFound(code, message string) error {
	return &Error{Kind: KindTenantNotFound, Code: code, Message: message}
}

func NotFound(code, message string) error {
	return &Error{Kind: KindNotFound, Code: code, Message: message}
}

func Conflict(code, message string) error {
	return &Error{Kind: KindConflict, Code: code, Message: message}
}

func EmailDelivery(code, message string) error {
	return &Error{Kind: KindEmailDelivery, Code: code, Message: message}
}

func Unauthorized(code, message string) error {
	return &Error{Kind: KindUnauthorized, Code: code, Message: message}
}

func Forbidden(code, message string) error {
	return &Error{Kind: KindForbidden, Code: code, Message: message}
}

// ===============================
// Inspection
// ===============================

func IsKind(err error, kind Kind) bool {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind == kind
	}
	return false
}

func IsCode(err error, code string) bool {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code == code
	}
	return false
}

func CodeOf(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ""
}
