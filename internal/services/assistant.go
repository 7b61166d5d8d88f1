package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"portfolio-backend/internal/models"
)

// ErrGenerationFailed is returned for every failed exchange: provider
// errors, empty output and output without a reply field.
var ErrGenerationFailed = errors.New("generation failed")

// Generator submits a rendered prompt and returns the provider's raw
// structured output.
type Generator interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

type AssistantService struct {
	generator Generator
	profile   *models.Profile
	projects  []models.Project
	limiter   *rate.Limiter
	rateChan  chan struct{} // Concurrency slots
}

// NewAssistantService wires a generator to the loaded content.
// requestsPerMin <= 0 disables outbound pacing.
func NewAssistantService(generator Generator, profile *models.Profile, projects []models.Project, requestsPerMin, concurrentReqs int) *AssistantService {
	limit := rate.Inf
	if requestsPerMin > 0 {
		limit = rate.Every(time.Minute / time.Duration(requestsPerMin))
	}
	if concurrentReqs < 1 {
		concurrentReqs = 1
	}

	rateChan := make(chan struct{}, concurrentReqs)
	for i := 0; i < concurrentReqs; i++ {
		rateChan <- struct{}{}
	}

	return &AssistantService{
		generator: generator,
		profile:   profile,
		projects:  projects,
		limiter:   rate.NewLimiter(limit, concurrentReqs),
		rateChan:  rateChan,
	}
}

func (s *AssistantService) Close() {
	if c, ok := s.generator.(io.Closer); ok {
		if err := c.Close(); err != nil {
			log.Printf("WARNING: closing %s generator: %v", s.generator.Name(), err)
		}
	}
}

// acquireRate blocks until a concurrency slot is available
func (s *AssistantService) acquireRate(ctx context.Context) error {
	select {
	case <-s.rateChan:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(5 * time.Minute):
		return fmt.Errorf("timeout waiting for generation slot")
	}
}

func (s *AssistantService) releaseRate() {
	s.rateChan <- struct{}{}
}

// AskAssistant runs one request/response exchange. Requests are
// independent: nothing is cached or remembered between calls.
func (s *AssistantService) AskAssistant(ctx context.Context, req models.AssistantRequest) (*models.AssistantReply, error) {
	prompt := BuildAssistantPrompt(s.profile, s.projects, req)

	if err := s.acquireRate(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}
	defer s.releaseRate()

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	raw, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	reply, err := parseReply(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrGenerationFailed, s.generator.Name(), err)
	}

	return reply, nil
}

// parseReply decodes the structured output. The reply text is returned
// untouched.
func parseReply(raw string) (*models.AssistantReply, error) {
	rawText := strings.TrimSpace(raw)
	rawText = strings.TrimPrefix(rawText, "```json")
	rawText = strings.TrimPrefix(rawText, "```")
	rawText = strings.TrimSuffix(rawText, "```")
	rawText = strings.TrimSpace(rawText)

	if rawText == "" {
		return nil, errors.New("empty output")
	}

	var out struct {
		Reply *string `json:"reply"`
	}
	if err := json.Unmarshal([]byte(rawText), &out); err != nil {
		// Try to extract the JSON object
		start := strings.Index(rawText, "{")
		end := strings.LastIndex(rawText, "}")
		if start < 0 || end <= start {
			return nil, fmt.Errorf("malformed output: %w", err)
		}
		if err := json.Unmarshal([]byte(rawText[start:end+1]), &out); err != nil {
			return nil, fmt.Errorf("malformed output: %w", err)
		}
	}

	if out.Reply == nil {
		return nil, errors.New("output has no reply field")
	}
	if strings.TrimSpace(*out.Reply) == "" {
		return nil, errors.New("output reply is empty")
	}

	return &models.AssistantReply{Reply: *out.Reply}, nil
}
