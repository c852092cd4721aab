package types

// ChatRequest is the body accepted by POST /api/chat.
type ChatRequest struct {
	Message string `json:"message"`
}

type ChatResponse struct {
	Response string `json:"response"`
	Success  bool   `json:"success"`
}

// ModelCheckResponse reports whether the generative model answered a trivial prompt.
type ModelCheckResponse struct {
	Success  bool   `json:"success"`
	Response string `json:"response,omitempty"`
	Model    string `json:"model,omitempty"`
	Error    string `json:"error,omitempty"`
}
