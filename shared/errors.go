package shared

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrorCategory represents different types of errors that can occur
type ErrorCategory string

const (
	// ErrorCategoryTransientRemote covers rate-limit and service-unavailable signals. Retried.
	ErrorCategoryTransientRemote ErrorCategory = "transient_remote"
	// ErrorCategoryPermanentRemote covers malformed requests, auth failures and bad payloads. Never retried.
	ErrorCategoryPermanentRemote ErrorCategory = "permanent_remote"
	// ErrorCategoryStorageUnavailable is returned when the persistence store cannot be reached.
	ErrorCategoryStorageUnavailable ErrorCategory = "storage_unavailable"
	// ErrorCategoryValidation marks malformed draws or selections.
	ErrorCategoryValidation ErrorCategory = "validation"
)

// ServiceError represents a standardized error with additional context
type ServiceError struct {
	Category    ErrorCategory `json:"category"`
	Code        string        `json:"code"`
	Message     string        `json:"message"`
	Details     interface{}   `json:"details,omitempty"`
	Timestamp   time.Time     `json:"timestamp"`
	ServiceName string        `json:"service_name"`
	Operation   string        `json:"operation"`
	Retryable   bool          `json:"retryable"`
	Cause       error         `json:"-"` // Original error, not serialized
}

// Error implements the error interface
func (e *ServiceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s:%s] %s: %v", e.Category, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Category, e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *ServiceError) Unwrap() error {
	return e.Cause
}

// NewServiceError creates a new service error
func NewServiceError(category ErrorCategory, code, message, serviceName, operation string, retryable bool, cause error) *ServiceError {
	return &ServiceError{
		Category:    category,
		Code:        code,
		Message:     message,
		Timestamp:   time.Now(),
		ServiceName: serviceName,
		Operation:   operation,
		Retryable:   retryable,
		Cause:       cause,
	}
}

// NewTransientRemoteError wraps a rate-limited or unavailable remote response.
func NewTransientRemoteError(serviceName, operation, message string, cause error) *ServiceError {
	return NewServiceError(ErrorCategoryTransientRemote, "REMOTE_UNAVAILABLE", message, serviceName, operation, true, cause)
}

// NewPermanentRemoteError wraps a remote failure that retrying cannot fix.
func NewPermanentRemoteError(serviceName, operation, message string, cause error) *ServiceError {
	return NewServiceError(ErrorCategoryPermanentRemote, "REMOTE_REJECTED", message, serviceName, operation, false, cause)
}

// NewStorageUnavailableError wraps a persistence failure.
func NewStorageUnavailableError(serviceName, operation string, cause error) *ServiceError {
	return NewServiceError(ErrorCategoryStorageUnavailable, "STORAGE_UNAVAILABLE", "persistence store unavailable", serviceName, operation, false, cause)
}

// NewValidationError reports a malformed record or input.
func NewValidationError(operation, message string) *ServiceError {
	return NewServiceError(ErrorCategoryValidation, "INVALID_INPUT", message, "", operation, false, nil)
}

// WithDetails adds additional details to the error
func (e *ServiceError) WithDetails(details interface{}) *ServiceError {
	e.Details = details
	return e
}

// IsRetryable returns whether the error is retryable
func (e *ServiceError) IsRetryable() bool {
	return e.Retryable
}

// GetCategory returns the error category
func (e *ServiceError) GetCategory() ErrorCategory {
	return e.Category
}

// LogError logs the error with structured fields
func (e *ServiceError) LogError() {
	logrus.WithFields(logrus.Fields{
		"error_category":   e.Category,
		"error_code":       e.Code,
		"error_message":    e.Message,
		"service_name":     e.ServiceName,
		"operation":        e.Operation,
		"retryable":        e.Retryable,
		"timestamp":        e.Timestamp,
		"details":          e.Details,
		"underlying_error": e.Cause,
	}).Error("Service error occurred")
}

// CategoryOf returns the category of the first ServiceError in err's chain, or "".
func CategoryOf(err error) ErrorCategory {
	var serviceErr *ServiceError
	if errors.As(err, &serviceErr) {
		return serviceErr.Category
	}
	return ""
}

// IsTransient reports whether err was classified as a transient remote failure.
func IsTransient(err error) bool {
	return CategoryOf(err) == ErrorCategoryTransientRemote
}

// IsPermanentRemote reports whether err was classified as a permanent remote failure.
func IsPermanentRemote(err error) bool {
	return CategoryOf(err) == ErrorCategoryPermanentRemote
}

// IsStorageUnavailable reports whether err came from an unreachable store.
func IsStorageUnavailable(err error) bool {
	return CategoryOf(err) == ErrorCategoryStorageUnavailable
}

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool {
	return CategoryOf(err) == ErrorCategoryValidation
}

// ClassifyHTTPStatus maps a non-2xx response status to the error taxonomy.
// It is the only place remote responses are inspected for retryability.
func ClassifyHTTPStatus(serviceName, operation string, statusCode int, body string) *ServiceError {
	message := fmt.Sprintf("remote returned HTTP %d: %s", statusCode, http.StatusText(statusCode))
	if body != "" {
		message = fmt.Sprintf("%s (%s)", message, truncate(body, 200))
	}

	switch statusCode {
	case http.StatusTooManyRequests, http.StatusServiceUnavailable:
		return NewTransientRemoteError(serviceName, operation, message, nil).WithDetails(map[string]int{"status_code": statusCode})
	default:
		return NewPermanentRemoteError(serviceName, operation, message, nil).WithDetails(map[string]int{"status_code": statusCode})
	}
}

// WrapError wraps an existing error with service error context
func WrapError(err error, category ErrorCategory, code, serviceName, operation string, retryable bool) *ServiceError {
	if err == nil {
		return nil
	}

	// If it's already a ServiceError, just update the context
	var serviceErr *ServiceError
	if errors.As(err, &serviceErr) {
		serviceErr.ServiceName = serviceName
		serviceErr.Operation = operation
		return serviceErr
	}

	return NewServiceError(category, code, err.Error(), serviceName, operation, retryable, err)
}

// BuildBatchProcessingErrorSummary creates a comprehensive error summary for batch processing results
func BuildBatchProcessingErrorSummary(successCount, totalErrorCount int, sampleErrors []error) string {
	var summaryBuilder strings.Builder
	summaryBuilder.WriteString(fmt.Sprintf("batch processing completed with %d successes and %d failures", successCount, totalErrorCount))

	// Include sample errors for debugging (limited to prevent memory issues)
	sampleSize := len(sampleErrors)
	if sampleSize > 3 {
		sampleSize = 3
	}

	for i := 0; i < sampleSize; i++ {
		summaryBuilder.WriteString(fmt.Sprintf("; %s", sampleErrors[i].Error()))
	}

	if totalErrorCount > len(sampleErrors) {
		summaryBuilder.WriteString(fmt.Sprintf("; and %d additional errors", totalErrorCount-len(sampleErrors)))
	}

	return summaryBuilder.String()
}

func truncate(text string, maxLength int) string {
	if len(text) <= maxLength {
		return text
	}
	return text[:maxLength] + "..."
}
