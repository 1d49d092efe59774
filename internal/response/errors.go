package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrEmailTaken         ErrCode = "EMAIL_ALREADY_REGISTERED"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrTokenExpired       ErrCode = "TOKEN_EXPIRED"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden       ErrCode = "FORBIDDEN"
	ErrAdminAccessOnly ErrCode = "ADMIN_ACCESS_ONLY"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound         ErrCode = "NOT_FOUND"
	ErrConflict         ErrCode = "CONFLICT"
	ErrDependencyExists ErrCode = "DEPENDENCY_EXISTS"

	// ─── Quiz / grading specific ───────────────────────────────────────
	ErrQuizNotPublished  ErrCode = "QUIZ_NOT_PUBLISHED"
	ErrQuizNotDraft      ErrCode = "QUIZ_NOT_DRAFT"
	ErrNoQuestions       ErrCode = "NO_QUESTIONS"
	ErrMalformedAnswer   ErrCode = "MALFORMED_ANSWER"
	ErrInvalidQuizConfig ErrCode = "INVALID_QUIZ_CONFIG"
	ErrGradeMismatch     ErrCode = "GRADE_COUNT_MISMATCH"
	ErrQuestionIndex     ErrCode = "QUESTION_INDEX_OUT_OF_RANGE"

	// ─── Export ────────────────────────────────────────────────────────
	ErrExportFailed ErrCode = "EXPORT_FAILED"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Email or password is incorrect."
	case ErrEmailTaken:
		return "An account with this email already exists."
	case ErrTokenRequired:
		return "An authentication token is required."
	case ErrTokenInvalid:
		return "The authentication token is invalid."
	case ErrTokenExpired:
		return "The authentication token has expired."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "You do not have permission to access this resource."
	case ErrAdminAccessOnly:
		return "This resource is restricted to administrators."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "The ID format is invalid."
	case ErrInvalidPayload:
		return "The request payload is invalid."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "The requested resource was not found."
	case ErrConflict:
		return "The resource already exists."
	case ErrDependencyExists:
		return "This record cannot be deleted because other data still references it."

	// ─── Quiz / grading specific ───────────────────────────────────────
	case ErrQuizNotPublished:
		return "This quiz is not currently available."
	case ErrQuizNotDraft:
		return "This quiz is not in DRAFT status."
	case ErrNoQuestions:
		return "This quiz has no questions."
	case ErrMalformedAnswer:
		return "One of the submitted answers does not match its question's expected shape."
	case ErrInvalidQuizConfig:
		return "The quiz configuration is invalid and cannot be graded."
	case ErrGradeMismatch:
		return "The grading form does not cover every question of the submission."
	case ErrQuestionIndex:
		return "The question index is out of range for this submission."

	// ─── Export ────────────────────────────────────────────────────────
	case ErrExportFailed:
		return "The PDF export could not be generated."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
