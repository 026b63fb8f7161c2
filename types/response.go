package types

type ApiResponse struct {
	Message string      `json:"message"`
	Status  int         `json:"status"`
	Token   string      `json:"token,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponse is returned for failed requests; Kind lets clients tell a
// duplicate assignment apart from a missing customer without parsing text.
type ErrorResponse struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
	Kind    string `json:"kind,omitempty"`
}
