package core

// error_messages.go maps technical errors onto messages and support codes.
//
// Codes by category:
//
//	DB001   duplicate value            "duplicate key", "violates unique"
//	DB002   value outside allowed set  "violates check constraint"
//	DB003   missing referenced row     "violates foreign key"
//	DB004   database unreachable       "connection refused"
//	DB005   connection interrupted     "connection reset"
//	DB006   operation timed out        "timeout"
//	DB007   conflicting operations     "deadlock"
//	VAL001  invalid region             (ValidationError)
//	VAL002  missing required fields    (ValidationError)
//	VAL003  invalid role               (ValidationError)
//	VAL004  email already registered   (ValidationError)
//	FILE001 file too large             "request body too large", "file too large"
//	FILE002 unsupported file type      (ValidationError)
//	FILE003 unreadable spreadsheet     (ValidationError)
//	FILE004 no file                    "no file provided"
//	FILE005 sheet not found            (ValidationError)
//	UPL002  import slots exhausted     "too many concurrent uploads"
//	UPL004  request cancelled          "context canceled"
//	UPL005  request timed out          "context deadline exceeded"
//	AUTH001 wrong email or password    "invalid credentials"
//	AUTH002 bad bearer token           "invalid token"
//	AUTH003 admin role required        "admin access required"
//	RATE001 throttled                  "rate limit"
//	ERR000  anything else
//
// Patterns are matched case-insensitively and the first match wins, so the
// more specific ones come first.

import (
	"errors"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened
	Action  string // What to do about it
	Code    string // Support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	{"duplicate key", UserMessage{"A record with this value already exists", "Check for duplicate entries", "DB001"}},
	{"violates unique", UserMessage{"A record with this value already exists", "Check for duplicate entries", "DB001"}},
	{"violates check constraint", UserMessage{"A value is outside the allowed set", "Check region and role values", "DB002"}},
	{"violates foreign key", UserMessage{"Referenced record does not exist", "Sign in again and retry", "DB003"}},

	{"connection refused", UserMessage{"Unable to connect to database", "Please try again in a few moments", "DB004"}},
	{"connection reset", UserMessage{"Database connection was interrupted", "Please try again", "DB005"}},
	{"timeout", UserMessage{"Operation timed out", "Try a smaller file or try again later", "DB006"}},
	{"deadlock", UserMessage{"Database was busy with conflicting operations", "Please try again", "DB007"}},

	{"request body too large", UserMessage{"File exceeds maximum size limit", "Split the spreadsheet into smaller files", "FILE001"}},
	{"file too large", UserMessage{"File exceeds maximum size limit", "Split the spreadsheet into smaller files", "FILE001"}},
	{"no file provided", UserMessage{"No file was selected", "Choose a .xls, .xlsx or .xlsm file", "FILE004"}},

	{"too many concurrent uploads", UserMessage{"System is busy processing other uploads", "Please wait a moment and try again", "UPL002"}},
	{"context canceled", UserMessage{"Request was cancelled", "Please try again", "UPL004"}},
	{"context deadline exceeded", UserMessage{"Request timed out", "Try a smaller file or check your connection", "UPL005"}},

	{"invalid credentials", UserMessage{"Invalid credentials", "Check your email and password", "AUTH001"}},
	{"invalid token", UserMessage{"Invalid token", "Sign in again", "AUTH002"}},
	{"admin access required", UserMessage{"Admin access required", "Ask an administrator for access", "AUTH003"}},

	{"rate limit", UserMessage{"Too many requests", "Please wait a moment before trying again", "RATE001"}},
}

// defaultMessage is returned when nothing matches. Check the server log for the cause.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts an error to a user-facing message.
// Validation errors keep their own message and code.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	var ve *ValidationError
	if errors.As(err, &ve) {
		return UserMessage{Message: ve.Message, Code: ve.Code}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}
