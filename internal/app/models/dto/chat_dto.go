package dto

// ChatRequest represents a visitor question for the assistant
type ChatRequest struct {
	Message string `json:"message" binding:"required"`
}

// ChatResponse represents the assistant's answer
type ChatResponse struct {
	Reply string `json:"reply"`
}

// IntentRequest represents a portal user's natural-language update request
type IntentRequest struct {
	Message string `json:"message" binding:"required"`
}

// IntentResponse carries the extracted update actions for confirmation.
// Actions is empty when the message did not describe a policy update.
type IntentResponse struct {
	Understood bool                  `json:"understood"`
	Summary    string                `json:"summary,omitempty"`
	Actions    []UpdateActionRequest `json:"actions"`
}

// ConfirmIntentRequest applies previously extracted actions
type ConfirmIntentRequest struct {
	Actions []UpdateActionRequest `json:"actions" binding:"required"`
}
