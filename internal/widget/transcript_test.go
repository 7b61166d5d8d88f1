package widget

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"portfolio-backend/internal/models"
)

type stubAsker struct {
	reply    string
	err      error
	requests []models.AssistantRequest
	block    chan struct{}
	started  chan struct{}
}

func (s *stubAsker) AskAssistant(ctx context.Context, req models.AssistantRequest) (*models.AssistantReply, error) {
	s.requests = append(s.requests, req)
	if s.started != nil {
		close(s.started)
	}
	if s.block != nil {
		<-s.block
	}
	if s.err != nil {
		return nil, s.err
	}
	return &models.AssistantReply{Reply: s.reply}, nil
}

func TestSubmit_AppendsUserAndModelTurns(t *testing.T) {
	asker := &stubAsker{reply: "He specializes in Next.js."}
	tr := NewTranscript(asker)

	turn, err := tr.Submit(context.Background(), "What does Rajeel specialize in?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if turn.Role != models.RoleModel || turn.Content != "He specializes in Next.js." {
		t.Fatalf("unexpected returned turn %+v", turn)
	}

	want := []models.ChatTurn{
		{Role: models.RoleUser, Content: "What does Rajeel specialize in?"},
		{Role: models.RoleModel, Content: "He specializes in Next.js."},
	}
	if got := tr.Turns(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
	if len(asker.requests[0].History) != 0 {
		t.Fatalf("first message must be sent without history")
	}
}

func TestSubmit_NetworkErrorAppendsOneApology(t *testing.T) {
	asker := &stubAsker{reply: "first answer"}
	tr := NewTranscript(asker)
	tr.Submit(context.Background(), "first question")
	before := tr.Turns()

	asker.err = errors.New("dial tcp: connection refused")
	turn, err := tr.Submit(context.Background(), "second question")
	if err != nil {
		t.Fatalf("exchange failures must be absorbed, got %v", err)
	}
	if turn.Content != ApologyText {
		t.Fatalf("expected apology turn, got %q", turn.Content)
	}

	after := tr.Turns()
	if len(after) != len(before)+2 {
		t.Fatalf("expected exactly two new turns, got %d", len(after)-len(before))
	}
	if !reflect.DeepEqual(after[:len(before)], before) {
		t.Fatalf("prior transcript entries were modified")
	}

	var userTurns, modelTurns int
	for _, turn := range after[len(before):] {
		switch turn.Role {
		case models.RoleUser:
			userTurns++
		case models.RoleModel:
			modelTurns++
			if turn.Content != ApologyText {
				t.Fatalf("unexpected model turn %q", turn.Content)
			}
		}
	}
	if userTurns != 1 || modelTurns != 1 {
		t.Fatalf("expected one user and one apology turn, got %d user, %d model", userTurns, modelTurns)
	}
}

func TestSubmit_HistoryCappedToRecentTurns(t *testing.T) {
	asker := &stubAsker{}
	tr := NewTranscript(asker)
	tr.Greet("Hi! Ask me anything about Rajeel.")

	for i := 0; i < 4; i++ {
		asker.reply = fmt.Sprintf("answer %d", i)
		tr.Submit(context.Background(), fmt.Sprintf("question %d", i))
	}

	all := tr.Turns()
	if len(all) != 9 {
		t.Fatalf("expected 9 turns, got %d", len(all))
	}

	asker.reply = "final"
	tr.Submit(context.Background(), "question 4")

	last := asker.requests[len(asker.requests)-1]
	if last.Message != "question 4" {
		t.Fatalf("unexpected message %q", last.Message)
	}
	if len(last.History) != HistoryLimit {
		t.Fatalf("expected %d history turns, got %d", HistoryLimit, len(last.History))
	}
	if !reflect.DeepEqual(last.History, all[len(all)-HistoryLimit:]) {
		t.Fatalf("history must be the most recent turns in order, got %+v", last.History)
	}
}

func TestSubmit_HistoryIncludesGreeting(t *testing.T) {
	asker := &stubAsker{reply: "ok"}
	tr := NewTranscript(asker)
	tr.Greet("Hello!")

	tr.Submit(context.Background(), "hi")

	got := asker.requests[0].History
	if len(got) != 1 || got[0].Role != models.RoleModel || got[0].Content != "Hello!" {
		t.Fatalf("expected greeting in history, got %+v", got)
	}
}

func TestSubmit_BusyWhileInFlight(t *testing.T) {
	asker := &stubAsker{reply: "done", block: make(chan struct{}), started: make(chan struct{})}
	tr := NewTranscript(asker)

	done := make(chan error, 1)
	go func() {
		_, err := tr.Submit(context.Background(), "first")
		done <- err
	}()

	<-asker.started
	if !tr.Busy() {
		t.Fatalf("expected transcript to be busy")
	}
	if _, err := tr.Submit(context.Background(), "second"); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}

	close(asker.block)
	if err := <-done; err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tr.Busy() {
		t.Fatalf("expected busy flag to clear")
	}

	turns := tr.Turns()
	if len(turns) != 2 || turns[0].Content != "first" {
		t.Fatalf("rejected submission must not touch the transcript, got %+v", turns)
	}
}

func TestTurns_ReturnsCopy(t *testing.T) {
	tr := NewTranscript(&stubAsker{reply: "r"})
	tr.Submit(context.Background(), "m")

	turns := tr.Turns()
	turns[0].Content = "changed"

	if tr.Turns()[0].Content != "m" {
		t.Fatalf("Turns must return a copy")
	}
}

func TestSubmit_EmptyReplyBecomesApology(t *testing.T) {
	tr := NewTranscript(&stubAsker{reply: ""})

	turn, err := tr.Submit(context.Background(), "hello?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if turn.Role != models.RoleModel || turn.Content != ApologyText {
		t.Fatalf("expected apology turn, got %+v", turn)
	}
}
