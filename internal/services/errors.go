package services

// ServiceError carries the HTTP status a failure should answer with
// alongside the user-facing message.
type ServiceError struct {
	Status  int
	Message string
}

func (e ServiceError) Error() string {
	return e.Message
}

func ErrNotFound(msg string) error {
	return ServiceError{Status: 404, Message: msg}
}

func ErrBadRequest(msg string) error {
	return ServiceError{Status: 400, Message: msg}
}
