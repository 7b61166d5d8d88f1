package models

// Profile holds the biography facts the assistant answers from.
type Profile struct {
	Name         string       `yaml:"name" json:"name"`
	Nickname     string       `yaml:"nickname" json:"nickname,omitempty"`
	Role         string       `yaml:"role" json:"role"`
	Headline     string       `yaml:"headline" json:"headline,omitempty"`
	Expertise    []string     `yaml:"expertise" json:"expertise,omitempty"`
	Skills       []SkillGroup `yaml:"skills" json:"skills,omitempty"`
	Experience   []Experience `yaml:"experience" json:"experience,omitempty"`
	Education    []Education  `yaml:"education" json:"education,omitempty"`
	Achievements []string     `yaml:"achievements" json:"achievements,omitempty"`
	Contact      Contact      `yaml:"contact" json:"contact"`
	Guidelines   []string     `yaml:"guidelines" json:"guidelines,omitempty"`
}

// DisplayName is the short name used when addressing the visitor.
func (p *Profile) DisplayName() string {
	if p.Nickname != "" {
		return p.Nickname
	}
	return p.Name
}

type SkillGroup struct {
	Category string   `yaml:"category" json:"category"`
	Items    []string `yaml:"items" json:"items"`
}

type Experience struct {
	Company  string `yaml:"company" json:"company"`
	Title    string `yaml:"title" json:"title"`
	Period   string `yaml:"period" json:"period"`
	Duration string `yaml:"duration" json:"duration,omitempty"`
	Summary  string `yaml:"summary" json:"summary"`
}

type Education struct {
	Title       string `yaml:"title" json:"title"`
	Institution string `yaml:"institution" json:"institution,omitempty"`
	Period      string `yaml:"period" json:"period,omitempty"`
	Status      string `yaml:"status" json:"status,omitempty"`
}

type Contact struct {
	Email    string `yaml:"email" json:"email,omitempty"`
	Phone    string `yaml:"phone" json:"phone,omitempty"`
	Location string `yaml:"location" json:"location,omitempty"`
	GitHub   string `yaml:"github" json:"github,omitempty"`
	LinkedIn string `yaml:"linkedin" json:"linkedin,omitempty"`
	Website  string `yaml:"website" json:"website,omitempty"`
}

// Project is a portfolio entry shown on the page and quoted to the assistant.
type Project struct {
	ID           string   `yaml:"id" json:"id"`
	Title        string   `yaml:"title" json:"title"`
	Description  string   `yaml:"description" json:"description"`
	ImageURL     string   `yaml:"imageUrl" json:"imageUrl"`
	ImageHint    string   `yaml:"imageHint" json:"imageHint"`
	GitHubLink   string   `yaml:"githubLink" json:"githubLink,omitempty"`
	LiveLink     string   `yaml:"liveLink" json:"liveLink,omitempty"`
	Technologies []string `yaml:"technologies" json:"technologies,omitempty"`
	Category     string   `yaml:"category" json:"category"`
}

type ProjectList struct {
	Projects []Project `yaml:"projects" json:"projects"`
}
