package rest

// ErrorResponse is the JSON body returned by handlers on client and server errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
