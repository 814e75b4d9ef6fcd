package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrTokenExpired       ErrCode = "TOKEN_EXPIRED"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden         ErrCode = "FORBIDDEN"
	ErrStudentAccessOnly ErrCode = "STUDENT_ACCESS_ONLY"
	ErrAdvisorAccessOnly ErrCode = "ADVISOR_ACCESS_ONLY"
	ErrNotPlanOwner      ErrCode = "NOT_PLAN_OWNER"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"
	ErrConflict ErrCode = "CONFLICT"

	// ─── Program configuration ─────────────────────────────────────────
	ErrInvalidRequirements ErrCode = "INVALID_REQUIREMENTS"
	ErrDuplicateProgram    ErrCode = "DUPLICATE_PROGRAM"
	ErrProgramAttached     ErrCode = "PROGRAM_ALREADY_ATTACHED"

	// ─── Planning ──────────────────────────────────────────────────────
	ErrUnknownCourse ErrCode = "UNKNOWN_COURSE"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	case ErrInvalidCredentials:
		return "Email or password is incorrect."
	case ErrTokenRequired:
		return "An authentication token is required."
	case ErrTokenInvalid:
		return "The authentication token is invalid."
	case ErrTokenExpired:
		return "The authentication token has expired."

	case ErrForbidden:
		return "You do not have permission to access this resource."
	case ErrStudentAccessOnly:
		return "This resource is restricted to students."
	case ErrAdvisorAccessOnly:
		return "This resource is restricted to advisors."
	case ErrNotPlanOwner:
		return "This plan belongs to another student."

	case ErrValidation:
		return "The request failed validation."
	case ErrInvalidID:
		return "The identifier in the URL is malformed."
	case ErrInvalidPayload:
		return "The request payload could not be parsed."

	case ErrNotFound:
		return "The requested resource was not found."
	case ErrConflict:
		return "The request conflicts with existing data."

	case ErrInvalidRequirements:
		return "The program's requirement tree is not well-formed."
	case ErrDuplicateProgram:
		return "A program with this slug and catalog year already exists."
	case ErrProgramAttached:
		return "This program is already attached to the plan."

	case ErrUnknownCourse:
		return "The course code does not exist in the catalog."

	case ErrRateLimitExceeded:
		return "Too many requests. Please slow down."

	case ErrInternal:
		return "An internal error occurred. Please try again later."
	default:
		return "Unknown error."
	}
}
