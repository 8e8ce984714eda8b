package services

import (
	"errors"
)

// Error kinds. Every domain error wraps exactly one of them; handlers map kinds to status codes.
var (
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrDuplicate    = errors.New("duplicate")
	ErrStorage      = errors.New("storage failure")
)

var (
	ErrAlbaranNotFound     = newDomainError(ErrNotFound, "albaran not found")
	ErrNotAlbaranOwner     = newDomainError(ErrUnauthorized, "albaran belongs to another user")
	ErrAlbaranSigned       = newDomainError(ErrConflict, "albaran already signed")
	ErrSignInProgress      = newDomainError(ErrConflict, "albaran is already being signed")
	ErrAlbaranChanged      = newDomainError(ErrConflict, "albaran changed while processing the request")
	ErrArtifactNotFound    = newDomainError(ErrNotFound, "file not found")
	ErrClientNotFound      = newDomainError(ErrNotFound, "client not found")
	ErrProjectNotFound     = newDomainError(ErrNotFound, "project not found")
	ErrClientEmailTaken    = newDomainError(ErrDuplicate, "a client with that email already exists for this user or company")
	ErrProjectNameTaken    = newDomainError(ErrDuplicate, "a project with that name already exists for this user")
	ErrClientInUse         = newDomainError(ErrConflict, "client still has projects or albaranes")
	ErrProjectInUse        = newDomainError(ErrConflict, "project still has albaranes")
	ErrFormatInvalid       = newDomainError(ErrValidation, "format must be 'hours' or 'material'")
	ErrDescriptionRequired = newDomainError(ErrValidation, "description is required")
	ErrWorkdateRequired    = newDomainError(ErrValidation, "workdate is required")
	ErrWorkdateInvalid     = newDomainError(ErrValidation, "workdate must be a date (YYYY-MM-DD)")
	ErrClientRequired      = newDomainError(ErrValidation, "clientId is required")
	ErrProjectRequired     = newDomainError(ErrValidation, "projectId is required")
	ErrHoursRequired       = newDomainError(ErrValidation, "hours must be a positive number for format 'hours'")
	ErrMaterialRequired    = newDomainError(ErrValidation, "material is required for format 'material'")
	ErrProjectClient       = newDomainError(ErrValidation, "project does not belong to the client")
	ErrNameRequired        = newDomainError(ErrValidation, "name is required")
	ErrNoSignatureFile     = newDomainError(ErrValidation, "no file")
	ErrUnsupportedImage    = newDomainError(ErrValidation, "signature must be a JPEG or PNG image")
	ErrUnreadableSignature = newDomainError(ErrValidation, "signature image could not be read")
)

type domainError struct {
	kind  error
	msg   string
	cause error
}

func newDomainError(kind error, msg string) *domainError {
	return &domainError{kind: kind, msg: msg}
}

func (e *domainError) Error() string {
	if e.cause != nil {
		return e.msg + ": " + e.cause.Error()
	}
	return e.msg
}

func (e *domainError) Unwrap() []error {
	if e.cause != nil {
		return []error{e.kind, e.cause}
	}
	return []error{e.kind}
}

// storageError reports a local artifact or durable store failure during op.
func storageError(op string, cause error) error {
	return &domainError{kind: ErrStorage, msg: op, cause: cause}
}

// PublicMessage returns the client-facing text of err without any wrapped cause.
func PublicMessage(err error) string {
	var de *domainError
	if errors.As(err, &de) {
		return de.msg
	}
	return err.Error()
}
