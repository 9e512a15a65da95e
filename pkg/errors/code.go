package errors

// ErrorCode represents a unique error identifier
type ErrorCode int

// Error code ranges allocation:
// 10000-10999: System & Common errors
// 11000-11999: Handle errors
// 12000-12999: Problem catalog & picker errors
// 13000-13999: Submission & rating history errors
// 14000-14999: Upstream API errors
// 15000-15999: Comparison errors

const (
	// ========== System & Common Errors (10000-10999) ==========

	Success ErrorCode = 10000

	// Generic errors (10000-10099)
	InternalServerError ErrorCode = 10001
	InvalidParams       ErrorCode = 10002
	NotFound            ErrorCode = 10003
	TooManyRequests     ErrorCode = 10006
	ServiceUnavailable  ErrorCode = 10007
	Timeout             ErrorCode = 10008

	// Cache errors (10200-10299)
	CacheError ErrorCode = 10200

	// Validation errors (10300-10399)
	ValidationFailed ErrorCode = 10300

	// ========== Handle Errors (11000-11999) ==========

	HandleNotFound    ErrorCode = 11000
	InvalidHandle     ErrorCode = 11001
	SnapshotNotFound  ErrorCode = 11002
	AnalysisFailed    ErrorCode = 11003
	SessionIDRequired ErrorCode = 11004

	// ========== Problem Errors (12000-12999) ==========

	CatalogUnavailable ErrorCode = 12000
	NoSolvedProblems   ErrorCode = 12001
	NoProblemForRating ErrorCode = 12002
	InvalidRatingRange ErrorCode = 12003

	// ========== Submission Errors (13000-13999) ==========

	SubmissionFetchFailed ErrorCode = 13000
	RatingFetchFailed     ErrorCode = 13001

	// ========== Upstream Errors (14000-14999) ==========

	UpstreamUnavailable ErrorCode = 14000
	UpstreamMalformed   ErrorCode = 14001

	// ========== Comparison Errors (15000-15999) ==========

	ComparisonFailed          ErrorCode = 15000
	ComparisonHandlesRequired ErrorCode = 15001
)

// errorMessages maps error codes to their default English messages
var errorMessages = map[ErrorCode]string{
	// System & Common
	Success:             "Success",
	InternalServerError: "Internal server error",
	InvalidParams:       "Invalid parameters",
	NotFound:            "Resource not found",
	TooManyRequests:     "Too many requests, please try again later",
	ServiceUnavailable:  "Service temporarily unavailable",
	Timeout:             "Request timeout",

	// Cache
	CacheError: "Cache operation failed",

	// Validation
	ValidationFailed: "Validation failed",

	// Handle
	HandleNotFound:    "User not found",
	InvalidHandle:     "Invalid handle",
	SnapshotNotFound:  "No analysis available for this session",
	AnalysisFailed:    "Failed to fetch data. Please check the handle and try again.",
	SessionIDRequired: "Session id is required",

	// Problems
	CatalogUnavailable: "Problem catalog is unavailable",
	NoSolvedProblems:   "No solved problems found",
	NoProblemForRating: "No solved problems found with this rating.",
	InvalidRatingRange: "Invalid rating range",

	// Submissions
	SubmissionFetchFailed: "Failed to fetch submissions",
	RatingFetchFailed:     "Failed to fetch rating history",

	// Upstream
	UpstreamUnavailable: "Codeforces API is unreachable",
	UpstreamMalformed:   "Codeforces API returned malformed data",

	// Comparison
	ComparisonFailed:          "Failed to compare users",
	ComparisonHandlesRequired: "Please enter both handles",
}

// Message returns the default message for the error code
func (c ErrorCode) Message() string {
	if msg, ok := errorMessages[c]; ok {
		return msg
	}
	return "Unknown error"
}

// HTTPStatus returns the recommended HTTP status code for the error code
func (c ErrorCode) HTTPStatus() int {
	switch {
	case c == Success:
		return 200
	case c == NotFound, c == HandleNotFound, c == SnapshotNotFound,
		c == NoSolvedProblems, c == NoProblemForRating:
		return 404
	case c == TooManyRequests:
		return 429
	case c == ServiceUnavailable, c == CatalogUnavailable:
		return 503
	case c == Timeout:
		return 504
	case c >= 14000 && c < 15000: // Upstream errors
		return 502
	case c >= 10300 && c < 10400: // Validation errors
		return 400
	case c == InvalidParams, c == InvalidHandle, c == SessionIDRequired,
		c == InvalidRatingRange, c == ComparisonHandlesRequired:
		return 400
	case c == AnalysisFailed, c == SubmissionFetchFailed, c == RatingFetchFailed, c == ComparisonFailed:
		return 502
	default:
		return 500
	}
}
