package apperror

// Codes double as the error tags returned to the dashboard.
const (
	// Client errors (4xx)
	CodeUnauthenticated    = "unauthenticated"
	CodeInvalidArgument    = "invalid-argument"
	CodePermissionDenied   = "permission-denied"
	CodeNotFound           = "not-found"
	CodeFailedPrecondition = "failed-precondition"
	CodeResourceExhausted  = "resource-exhausted"

	// Server errors (5xx)
	CodeInternal = "internal"
)
