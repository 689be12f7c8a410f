package model

// Response is the envelope returned by every endpoint.
// OfficialEmail is the configured identity string and is echoed on success and failure alike.
type Response struct {
	IsSuccess     bool   `json:"is_success"`
	OfficialEmail string `json:"official_email"`
	Data          any    `json:"data,omitempty"`
	Message       string `json:"message,omitempty"`
}

// Success wraps data in a successful envelope.
func Success(identity string, data any) Response {
	return Response{IsSuccess: true, OfficialEmail: identity, Data: data}
}

// Failure wraps a human-readable message in a failed envelope.
func Failure(identity, message string) Response {
	return Response{OfficialEmail: identity, Message: message}
}
