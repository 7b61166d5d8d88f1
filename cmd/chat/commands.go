package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"portfolio-backend/internal/models"
	"portfolio-backend/internal/profile"
	"portfolio-backend/internal/services"
	"portfolio-backend/internal/widget"
)

const greeting = "Hi! I'm the portfolio assistant. Ask me anything about skills, experience or projects."

func newRootCmd() *cobra.Command {
	var (
		serverURL string
		timeout   time.Duration
	)

	root := &cobra.Command{
		Use:           "chat",
		Short:         "Chat with the portfolio assistant from the terminal",
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			tr := widget.NewTranscript(widget.NewClient(serverURL, timeout))
			return runChat(cmd.Context(), tr, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	root.Flags().StringVar(&serverURL, "server", "http://localhost:8080", "portfolio backend base URL")
	root.Flags().DurationVar(&timeout, "timeout", 90*time.Second, "per-message request timeout")

	root.AddCommand(newPromptCmd())
	return root
}

// runChat reads one message per line until EOF or "/quit".
func runChat(ctx context.Context, tr *widget.Transcript, in io.Reader, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	tr.Greet(greeting)
	fmt.Fprintf(out, "assistant> %s\n", greeting)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "you> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		message := strings.TrimSpace(scanner.Text())
		switch message {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		case "/history":
			for _, turn := range tr.Turns() {
				fmt.Fprintf(out, "  %s: %s\n", turn.Role, turn.Content)
			}
			continue
		}

		turn, err := tr.Submit(ctx, message)
		if err != nil {
			fmt.Fprintf(out, "assistant> %v\n", err)
			continue
		}
		fmt.Fprintf(out, "assistant> %s\n", turn.Content)
	}
}

func newPromptCmd() *cobra.Command {
	var (
		profilePath  string
		projectsPath string
		history      []string
	)

	cmd := &cobra.Command{
		Use:   "prompt [message]",
		Short: "Render the prompt the assistant would send for a message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := profile.LoadContent(profilePath, projectsPath)
			if err != nil {
				return err
			}

			req := models.AssistantRequest{Message: args[0]}
			for _, h := range history {
				turn, err := parseTurn(h)
				if err != nil {
					return err
				}
				req.History = append(req.History, turn)
			}

			fmt.Fprintln(cmd.OutOrStdout(), services.BuildAssistantPrompt(content.Profile, content.Projects, req))
			return nil
		},
	}
	cmd.Flags().StringVar(&profilePath, "profile", "data/profile.yaml", "profile file (YAML or JSON)")
	cmd.Flags().StringVar(&projectsPath, "projects", "data/projects.yaml", "projects file (YAML or JSON)")
	cmd.Flags().StringArrayVar(&history, "turn", nil, `prior turn as "role:content", repeatable`)
	return cmd
}

func parseTurn(s string) (models.ChatTurn, error) {
	role, content, ok := strings.Cut(s, ":")
	if !ok {
		return models.ChatTurn{}, fmt.Errorf("turn %q must look like role:content", s)
	}
	turn := models.ChatTurn{Role: models.Role(strings.TrimSpace(role)), Content: strings.TrimSpace(content)}
	if !turn.Role.Valid() {
		return models.ChatTurn{}, fmt.Errorf("turn %q has role %q, want user or model", s, turn.Role)
	}
	return turn, nil
}
