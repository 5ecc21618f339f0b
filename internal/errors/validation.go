package errors

// ValidationError reports user input that breaks a task rule. Operations that
// return it have not touched storage or sent notifications.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
