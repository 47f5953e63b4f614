package response

// Envelope is the body of every API response. Status is "success" or
// "error"; Errors carries validation details or conflict identifiers.
type Envelope struct {
	Status     string      `json:"status"`
	StatusCode int         `json:"status_code"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data,omitempty"`
	Errors     interface{} `json:"errors,omitempty"`
}
