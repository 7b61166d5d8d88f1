package services

import (
	"fmt"
	"strings"

	"portfolio-backend/internal/models"
)

// BuildAssistantPrompt renders the single prompt string sent to the
// generation provider. Output depends only on its arguments.
func BuildAssistantPrompt(profile *models.Profile, projects []models.Project, req models.AssistantRequest) string {
	var b strings.Builder

	short := profile.DisplayName()

	// Layer 1 — Role
	b.WriteString(fmt.Sprintf("You are the AI Assistant for %s's professional portfolio.\n", profile.Name))
	b.WriteString(fmt.Sprintf("Your goal is to answer questions about %s accurately and professionally, highlighting their strengths and educational background.\n", short))
	b.WriteString("Respond with a JSON object containing a single \"reply\" field.\n\n")

	// Layer 2 — Profile facts
	b.WriteString(fmt.Sprintf("%s's Profile:\n", short))
	writeProfile(&b, profile)

	// Layer 3 — Projects
	if len(projects) > 0 {
		b.WriteString("\nProjects:\n")
		for _, p := range projects {
			writeProject(&b, p)
		}
	}

	// Layer 4 — Guidelines
	if len(profile.Guidelines) > 0 {
		b.WriteString("\nGuidelines:\n")
		for _, g := range profile.Guidelines {
			b.WriteString("- " + g + "\n")
		}
	}

	// Layer 5 — History, in the order the caller sent it
	b.WriteString("\nChat History:\n")
	for _, turn := range req.History {
		b.WriteString(fmt.Sprintf("%s: %s\n", turn.Role, turn.Content))
	}

	// Layer 6 — New message, always the last line
	b.WriteString("\nUser: ")
	b.WriteString(req.Message)

	return b.String()
}

func writeProfile(b *strings.Builder, p *models.Profile) {
	b.WriteString("- Name: " + p.Name + "\n")
	b.WriteString("- Current Role: " + p.Role + "\n")
	if p.Headline != "" {
		b.WriteString("- Summary: " + p.Headline + "\n")
	}
	if len(p.Expertise) > 0 {
		b.WriteString("- Expertise: " + strings.Join(p.Expertise, ", ") + ".\n")
	}

	if len(p.Skills) > 0 {
		b.WriteString("- Technical Skills:\n")
		for _, g := range p.Skills {
			b.WriteString(fmt.Sprintf("    - %s: %s.\n", g.Category, strings.Join(g.Items, ", ")))
		}
	}

	if len(p.Experience) > 0 {
		b.WriteString("- Experience:\n")
		for _, e := range p.Experience {
			period := e.Period
			if e.Duration != "" {
				period += ", " + e.Duration
			}
			b.WriteString(fmt.Sprintf("    - %s (%s): %s. %s\n", e.Company, period, e.Title, e.Summary))
		}
	}

	if len(p.Education) > 0 {
		b.WriteString("- Education:\n")
		for _, e := range p.Education {
			b.WriteString("    - " + e.Title)
			var details []string
			if e.Institution != "" {
				details = append(details, e.Institution)
			}
			if e.Period != "" {
				details = append(details, e.Period)
			}
			if len(details) > 0 {
				b.WriteString(": " + strings.Join(details, ", "))
			}
			if e.Status != "" {
				b.WriteString(" (" + e.Status + ")")
			}
			b.WriteString("\n")
		}
	}

	for _, a := range p.Achievements {
		b.WriteString("- Achievement: " + a + "\n")
	}

	writeContact(b, p.Contact)
}

func writeContact(b *strings.Builder, c models.Contact) {
	fields := []struct{ label, value string }{
		{"Email", c.Email},
		{"Phone", c.Phone},
		{"Location", c.Location},
		{"GitHub", c.GitHub},
		{"LinkedIn", c.LinkedIn},
		{"Website", c.Website},
	}
	var lines []string
	for _, f := range fields {
		if f.value != "" {
			lines = append(lines, fmt.Sprintf("    - %s: %s\n", f.label, f.value))
		}
	}
	if len(lines) == 0 {
		return
	}
	b.WriteString("- Contact:\n")
	for _, l := range lines {
		b.WriteString(l)
	}
}

func writeProject(b *strings.Builder, p models.Project) {
	b.WriteString("- " + p.Title)
	if p.Category != "" {
		b.WriteString(" [" + p.Category + "]")
	}
	if p.Description != "" {
		b.WriteString(": " + p.Description)
	}
	b.WriteString("\n")
	if len(p.Technologies) > 0 {
		b.WriteString("    - Technologies: " + strings.Join(p.Technologies, ", ") + "\n")
	}
	if p.GitHubLink != "" {
		b.WriteString("    - GitHub: " + p.GitHubLink + "\n")
	}
	if p.LiveLink != "" {
		b.WriteString("    - Live: " + p.LiveLink + "\n")
	}
}
