package models

import "fmt"

// Role tags who authored a chat turn.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Valid reports whether r is one of the roles the assistant accepts.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleModel
}

// ChatTurn represents a single message in a conversation.
type ChatTurn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// AssistantRequest is the payload sent to the assistant endpoint.
// History is expected to be trimmed by the caller.
type AssistantRequest struct {
	Message string     `json:"message"`
	History []ChatTurn `json:"history,omitempty"`
}

// Validate checks the request shape. Message emptiness is not enforced.
func (r AssistantRequest) Validate() map[string]string {
	fields := make(map[string]string)
	for i, turn := range r.History {
		if !turn.Role.Valid() {
			fields[fmt.Sprintf("history[%d].role", i)] = fmt.Sprintf("Role must be %q or %q", RoleUser, RoleModel)
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// AssistantReply is the reply from the assistant.
type AssistantReply struct {
	Reply string `json:"reply"`
}
