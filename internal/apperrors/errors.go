// Package apperrors defines the application's error taxonomy. Every
// failure a user can see maps to exactly one code, and every code maps
// to exactly one short, non-technical message.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies one kind of user-visible failure.
type Code string

const (
	// Network
	NetworkOffline Code = "NETWORK_OFFLINE"
	APIError       Code = "API_ERROR"
	Timeout        Code = "TIMEOUT"

	// Validation
	InvalidImage  Code = "INVALID_IMAGE"
	ImageTooSmall Code = "IMAGE_TOO_SMALL"
	InvalidFormat Code = "INVALID_FORMAT"

	// Generation
	GenerationFailed  Code = "GENERATION_FAILED"
	GenerationTimeout Code = "GENERATION_TIMEOUT"
	RateLimited       Code = "RATE_LIMITED"
	DailyLimitReached Code = "DAILY_LIMIT_REACHED"

	// Purchase
	PurchaseFailed    Code = "PURCHASE_FAILED"
	PurchaseCancelled Code = "PURCHASE_CANCELLED"
	RestoreFailed     Code = "RESTORE_FAILED"

	// Export
	ExportFailed     Code = "EXPORT_FAILED"
	PermissionDenied Code = "PERMISSION_DENIED"
)

// Codes lists every declared error code; the message table must cover
// all of them.
var Codes = []Code{
	NetworkOffline, APIError, Timeout,
	InvalidImage, ImageTooSmall, InvalidFormat,
	GenerationFailed, GenerationTimeout, RateLimited, DailyLimitReached,
	PurchaseFailed, PurchaseCancelled, RestoreFailed,
	ExportFailed, PermissionDenied,
}

var messages = map[Code]string{
	NetworkOffline: "No internet connection. Please check your network.",
	APIError:       "Something went wrong. Please try again.",
	Timeout:        "The request timed out. Please try again.",

	InvalidImage:  "Please select a valid image file.",
	ImageTooSmall: "Image must be at least 256x256 pixels.",
	InvalidFormat: "Invalid file format. Please use JPEG, PNG, or WebP.",

	GenerationFailed:  "Failed to generate avatar. Please try again.",
	GenerationTimeout: "Generation timed out. Please try again.",
	RateLimited:       "Too many requests. Please wait a moment.",
	DailyLimitReached: "You've reached your daily limit. Upgrade to Premium for unlimited generations.",

	PurchaseFailed:    "Purchase failed. Please try again.",
	PurchaseCancelled: "Purchase was cancelled.",
	RestoreFailed:     "Failed to restore purchases. Please try again.",

	ExportFailed:     "Failed to export avatar. Please try again.",
	PermissionDenied: "Permission denied. Please allow access in Settings.",
}

// Message returns the user-facing message for a code. The mapping is
// total; unknown codes fall back to the generic API error message.
func Message(code Code) string {
	if msg, ok := messages[code]; ok {
		return msg
	}
	return messages[APIError]
}

// AppError carries an error code, an internal message for logs, and the
// user-facing message for the code. The underlying cause, when present,
// is preserved for logging but never shown to the user.
type AppError struct {
	Code        Code
	Message     string // internal
	UserMessage string
	Err         error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

// New creates an AppError with the code's canonical user message.
func New(code Code, message string) *AppError {
	return &AppError{Code: code, Message: message, UserMessage: Message(code)}
}

// NewWithUserMessage creates an AppError with a caller-supplied user
// message, used when the provider returns its own displayable text.
func NewWithUserMessage(code Code, message, userMessage string) *AppError {
	return &AppError{Code: code, Message: message, UserMessage: userMessage}
}

// Wrap creates an AppError preserving the underlying cause.
func Wrap(code Code, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, UserMessage: Message(code), Err: err}
}

// CodeOf extracts the error code, defaulting to APIError for errors
// outside the taxonomy.
func CodeOf(err error) Code {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return APIError
}

// UserMessageOf extracts the user-facing message for any error.
func UserMessageOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.UserMessage
	}
	return Message(APIError)
}

// HTTPStatus maps an error code to the HTTP status the API surface uses.
func HTTPStatus(code Code) int {
	switch code {
	case InvalidImage, ImageTooSmall, InvalidFormat:
		return http.StatusBadRequest
	case PermissionDenied:
		return http.StatusForbidden
	case RateLimited, DailyLimitReached:
		return http.StatusTooManyRequests
	case Timeout, GenerationTimeout:
		return http.StatusGatewayTimeout
	case PurchaseCancelled:
		return http.StatusConflict
	case RestoreFailed:
		return http.StatusNotFound
	case NetworkOffline, APIError, GenerationFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
