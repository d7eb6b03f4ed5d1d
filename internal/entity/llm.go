package entity

// GenerationRequest is everything sent across the language model boundary
type GenerationRequest struct {
	SystemInstruction string  `json:"system_instruction"`
	Context           string  `json:"context"`
	Question          string  `json:"question"`
	MaxOutputTokens   int32   `json:"max_output_tokens"`
	Temperature       float32 `json:"temperature"`
}

type GenerationResponse struct {
	Text  string `json:"text"`
	Model string `json:"model,omitempty"`
}

// UserPrompt renders the user turn for chat style providers
func (r *GenerationRequest) UserPrompt() string {
	return "Context:\n" + r.Context + "\n\nQuestion: " + r.Question + "\n\nAnswer:"
}
