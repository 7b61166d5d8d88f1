package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	ollamaapi "github.com/ollama/ollama/api"
)

// replyFormat is the structured-output schema passed to Ollama.
var replyFormat = json.RawMessage(`{"type":"object","properties":{"reply":{"type":"string"}},"required":["reply"]}`)

// OllamaGenerator submits prompts to a local Ollama server.
type OllamaGenerator struct {
	client *ollamaapi.Client
	model  string
}

func NewOllamaGenerator(host, model string, httpClient *http.Client) (*OllamaGenerator, error) {
	base, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("invalid Ollama host %q: %w", host, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid Ollama host %q: scheme and host are required", host)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &OllamaGenerator{
		client: ollamaapi.NewClient(base, httpClient),
		model:  model,
	}, nil
}

func (g *OllamaGenerator) Name() string { return "ollama" }

func (g *OllamaGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	stream := false
	builder := &strings.Builder{}

	err := g.client.Chat(ctx, &ollamaapi.ChatRequest{
		Model: g.model,
		Messages: []ollamaapi.Message{
			{Role: "user", Content: prompt},
		},
		Stream: &stream,
		Format: replyFormat,
	}, func(response ollamaapi.ChatResponse) error {
		builder.WriteString(response.Message.Content)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("Ollama API error: %w", err)
	}

	return builder.String(), nil
}
