package dto

import "lina-ai/internal/models"

// QueryRequest is the inbound payload of the AI endpoint. UserContext uses
// the same snake_case shape the mobile client keeps in its wallet store.
type QueryRequest struct {
	Query       string                  `json:"query"`
	UserContext models.FinancialContext `json:"user_context"`
}

// ActionConfirmation asks the caller to confirm an action before it is
// executed elsewhere. For lookup failures Action is "error" and Payload is
// omitted.
type ActionConfirmation struct {
	Action  string         `json:"action"`
	Payload map[string]any `json:"payload,omitempty"`
	Message string         `json:"confirmation_message,omitempty"`
	Error   string         `json:"message,omitempty"`
}

// ResponseEnvelope is the single outward response shape. Response holds
// either a free-text reply or an ActionConfirmation.
type ResponseEnvelope struct {
	Success  bool   `json:"success"`
	Response any    `json:"response,omitempty"`
	Query    string `json:"query"`
	Error    string `json:"error,omitempty"`
}
