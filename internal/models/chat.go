package models

// ChatRequest is the body of POST /api/chat. Only Message is required;
// the context fields are caller-constructed free text and are embedded in
// the prompt verbatim.
type ChatRequest struct {
	Message            string `json:"message"`
	InventoryContext   string `json:"inventoryContext,omitempty"`
	CustomInstructions string `json:"customInstructions,omitempty"`
	BrochureURL        string `json:"brochureUrl,omitempty"`
}

// ChatResponse carries the generated answer text.
type ChatResponse struct {
	Response string `json:"response"`
}
