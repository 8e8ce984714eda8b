package constants

import "time"

// Context and session keys
const (
	ContextKeyUserID    = "user_id"
	ContextKeyPrincipal = "principal"
	ContextKeyRequestID = "request_id"
	ContextKeySignature = "signature_upload"
	SessionCookieName   = "albaranes_session"
)

// Account rules
const (
	MinPasswordLength = 8
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Signature upload limits
const (
	SignatureFormField   = "file"
	MaxSignatureFileSize = 5 << 20
)

// SigningClaimTTL bounds how long a sign claim blocks other requests. A claim older than
// this is treated as abandoned.
const SigningClaimTTL = 2 * time.Minute

// AllowedSignatureTypes lists the MIME types accepted for signature images.
var AllowedSignatureTypes = []string{"image/jpeg", "image/png"}

// Artifact naming
const (
	PDFFilePattern       = "albaran_%d.pdf"
	SignatureFilePattern = "firma_%d%s"
)
