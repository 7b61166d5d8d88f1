package services

import (
	"strings"
	"testing"

	"portfolio-backend/internal/models"
)

func testProfile() *models.Profile {
	return &models.Profile{
		Name:      "Muhammad Rajeel Siddiqui",
		Nickname:  "Rajeel",
		Role:      "Full-Stack Developer at MHN Enterprises",
		Expertise: []string{"Next.js", "Django"},
		Skills: []models.SkillGroup{
			{Category: "Frontend", Items: []string{"HTML", "CSS"}},
		},
		Experience: []models.Experience{
			{Company: "MHN Enterprises", Title: "Full Stack Developer", Period: "Jan 2025 - Present", Summary: "Building web apps."},
			{Company: "Hakam Techsoul", Title: "React Developer", Period: "August - September 2024", Duration: "2 months", Summary: "Built UIs."},
		},
		Education: []models.Education{
			{Title: "Diploma in Web Development", Institution: "Aptech", Status: "In progress"},
			{Title: "Hifz-ul-Quran", Period: "2021"},
		},
		Achievements: []string{"Winner of a UI/UX implementation hackathon."},
		Contact:      models.Contact{Email: "rajeel@example.com", Location: "Karachi"},
		Guidelines:   []string{"Be friendly, concise, and professional."},
	}
}

func lastLine(s string) string {
	lines := strings.Split(s, "\n")
	return lines[len(lines)-1]
}

func TestBuildAssistantPrompt_EmptyHistoryEndsWithUserLine(t *testing.T) {
	prompt := BuildAssistantPrompt(testProfile(), nil, models.AssistantRequest{
		Message: "What does Rajeel specialize in?",
	})

	if got := lastLine(prompt); got != "User: What does Rajeel specialize in?" {
		t.Fatalf("expected final user line, got %q", got)
	}
	if !strings.Contains(prompt, "User: What does Rajeel specialize in?") {
		t.Fatalf("prompt must contain the user line")
	}
}

func TestBuildAssistantPrompt_HistoryInOrderBeforeMessage(t *testing.T) {
	history := []models.ChatTurn{
		{Role: models.RoleUser, Content: "first question"},
		{Role: models.RoleModel, Content: "first answer"},
		{Role: models.RoleUser, Content: "second question"},
		{Role: models.RoleModel, Content: "second answer"},
		{Role: models.RoleUser, Content: "third question"},
	}
	req := models.AssistantRequest{Message: "new message", History: history}

	prompt := BuildAssistantPrompt(testProfile(), nil, req)

	pos := -1
	for _, turn := range history {
		line := string(turn.Role) + ": " + turn.Content + "\n"
		idx := strings.Index(prompt, line)
		if idx < 0 {
			t.Fatalf("missing history line %q", line)
		}
		if idx <= pos {
			t.Fatalf("history line %q out of order", line)
		}
		pos = idx
	}

	msgIdx := strings.LastIndex(prompt, "User: new message")
	if msgIdx <= pos {
		t.Fatalf("new message must follow history")
	}
	if lastLine(prompt) != "User: new message" {
		t.Fatalf("unexpected last line %q", lastLine(prompt))
	}
}

func TestBuildAssistantPrompt_ProfileFacts(t *testing.T) {
	prompt := BuildAssistantPrompt(testProfile(), nil, models.AssistantRequest{Message: "hi"})

	wants := []string{
		"You are the AI Assistant for Muhammad Rajeel Siddiqui's professional portfolio.",
		"Rajeel's Profile:",
		"- Current Role: Full-Stack Developer at MHN Enterprises",
		"- Expertise: Next.js, Django.",
		"    - Frontend: HTML, CSS.",
		"    - MHN Enterprises (Jan 2025 - Present): Full Stack Developer. Building web apps.",
		"    - Hakam Techsoul (August - September 2024, 2 months): React Developer. Built UIs.",
		"    - Diploma in Web Development: Aptech (In progress)",
		"    - Hifz-ul-Quran: 2021",
		"- Achievement: Winner of a UI/UX implementation hackathon.",
		"    - Email: rajeel@example.com",
		"Guidelines:\n- Be friendly, concise, and professional.",
		"Chat History:\n",
	}
	for _, want := range wants {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	if strings.Contains(prompt, "Phone:") {
		t.Errorf("absent contact fields must be omitted")
	}
	if strings.Contains(prompt, "Projects:") {
		t.Errorf("projects block must be omitted without projects")
	}
}

func TestBuildAssistantPrompt_ProjectLinksOmittedWhenAbsent(t *testing.T) {
	projects := []models.Project{
		{
			ID: "a", Title: "Alpha", Description: "Go service", Category: "Backend",
			GitHubLink: "https://github.com/example/alpha", Technologies: []string{"Go", "Redis"},
		},
		{ID: "b", Title: "Beta", Description: "Landing page", Category: "Frontend"},
	}

	prompt := BuildAssistantPrompt(testProfile(), projects, models.AssistantRequest{Message: "projects?"})

	for _, want := range []string{
		"Projects:\n- Alpha [Backend]: Go service\n",
		"    - Technologies: Go, Redis\n",
		"    - GitHub: https://github.com/example/alpha\n",
		"- Beta [Frontend]: Landing page\n",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	if strings.Count(prompt, "GitHub:") != 1 {
		t.Errorf("expected exactly one GitHub line")
	}
	if strings.Contains(prompt, "Live:") {
		t.Errorf("absent live link must be omitted")
	}
}

func TestBuildAssistantPrompt_Deterministic(t *testing.T) {
	req := models.AssistantRequest{
		Message: "again",
		History: []models.ChatTurn{{Role: models.RoleUser, Content: "hello"}},
	}
	a := BuildAssistantPrompt(testProfile(), nil, req)
	b := BuildAssistantPrompt(testProfile(), nil, req)
	if a != b {
		t.Fatalf("prompt rendering must be deterministic")
	}
}

func TestBuildAssistantPrompt_DoesNotCapHistory(t *testing.T) {
	var history []models.ChatTurn
	for i := 0; i < 12; i++ {
		history = append(history, models.ChatTurn{Role: models.RoleUser, Content: strings.Repeat("x", i+1)})
	}

	prompt := BuildAssistantPrompt(testProfile(), nil, models.AssistantRequest{Message: "m", History: history})

	if !strings.Contains(prompt, "user: x\n") || !strings.Contains(prompt, "user: "+strings.Repeat("x", 12)+"\n") {
		t.Fatalf("every history turn must be rendered")
	}
}

func testRequest() models.AssistantRequest {
	return models.AssistantRequest{Message: "What does Rajeel specialize in?"}
}
