// Package widget is the chat widget's side of the assistant exchange: it
// owns the transcript, trims history and recovers from failed calls.
package widget

import (
	"context"
	"errors"
	"strings"
	"sync"

	"portfolio-backend/internal/models"
)

const (
	// HistoryLimit is how many prior turns are sent with each message.
	HistoryLimit = 5

	ApologyText = "Sorry, I'm having trouble connecting right now. Please try again in a moment."
)

// ErrBusy is returned when a message is submitted while another is in flight.
var ErrBusy = errors.New("assistant is still answering")

// Asker performs one assistant exchange.
type Asker interface {
	AskAssistant(ctx context.Context, req models.AssistantRequest) (*models.AssistantReply, error)
}

// Transcript is an append-only chat log for one widget session.
type Transcript struct {
	mu    sync.Mutex
	turns []models.ChatTurn
	busy  bool
	asker Asker
}

func NewTranscript(asker Asker) *Transcript {
	return &Transcript{asker: asker}
}

// Greet appends an opening model turn. It is sent as history like any other.
func (t *Transcript) Greet(text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.turns = append(t.turns, models.ChatTurn{Role: models.RoleModel, Content: text})
}

// Turns returns a copy of the transcript.
func (t *Transcript) Turns() []models.ChatTurn {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]models.ChatTurn, len(t.turns))
	copy(out, t.turns)
	return out
}

func (t *Transcript) Busy() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.busy
}

// Submit appends the user turn, asks the assistant with the most recent
// HistoryLimit prior turns, then appends exactly one model turn: the reply,
// or ApologyText when the exchange fails. It returns the appended model turn.
// Only ErrBusy is returned as an error; exchange failures are absorbed.
func (t *Transcript) Submit(ctx context.Context, message string) (models.ChatTurn, error) {
	t.mu.Lock()
	if t.busy {
		t.mu.Unlock()
		return models.ChatTurn{}, ErrBusy
	}
	t.busy = true
	history := recent(t.turns, HistoryLimit)
	t.turns = append(t.turns, models.ChatTurn{Role: models.RoleUser, Content: message})
	t.mu.Unlock()

	turn := models.ChatTurn{Role: models.RoleModel, Content: ApologyText}
	reply, err := t.asker.AskAssistant(ctx, models.AssistantRequest{Message: message, History: history})
	if err == nil && reply != nil && strings.TrimSpace(reply.Reply) != "" {
		turn.Content = reply.Reply
	}

	t.mu.Lock()
	t.turns = append(t.turns, turn)
	t.busy = false
	t.mu.Unlock()

	return turn, nil
}

// recent copies the last n turns so later appends cannot alias the request.
func recent(turns []models.ChatTurn, n int) []models.ChatTurn {
	if len(turns) > n {
		turns = turns[len(turns)-n:]
	}
	out := make([]models.ChatTurn, len(turns))
	copy(out, turns)
	return out
}
