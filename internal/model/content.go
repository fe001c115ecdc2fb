package model

// Profile is the owner information shown in the hero, about and contact sections.
type Profile struct {
	Name     string   `yaml:"name" json:"name"`
	Headline string   `yaml:"headline" json:"headline"`
	Roles    []string `yaml:"roles" json:"roles"`
	About    []string `yaml:"about" json:"about"`
	Location string   `yaml:"location" json:"location"`
	Email    string   `yaml:"email" json:"email"`
	Phone    string   `yaml:"phone" json:"phone,omitempty"`
	Socials  []Social `yaml:"socials" json:"socials"`
}

// Social is a link to an external profile.
type Social struct {
	Name string `yaml:"name" json:"name"`
	URL  string `yaml:"url" json:"url"`
}

// Project is one entry of the project carousel.
type Project struct {
	ID           int      `yaml:"id" json:"id"`
	Title        string   `yaml:"title" json:"title"`
	Description  string   `yaml:"description" json:"description"`
	Image        string   `yaml:"image" json:"image"`
	Technologies []string `yaml:"technologies" json:"technologies"`
	LiveDemo     string   `yaml:"live_demo" json:"liveDemo"`
	GitHub       string   `yaml:"github" json:"github"`
}

// Skill is a single card of the skills showcase.
type Skill struct {
	Name        string `yaml:"name" json:"name"`
	Icon        string `yaml:"icon" json:"icon"`
	Description string `yaml:"description" json:"description"`
	Color       string `yaml:"color" json:"color"`
}

// SkillCategory groups skills under one filter tab.
type SkillCategory struct {
	Name   string  `yaml:"name" json:"name"`
	Skills []Skill `yaml:"skills" json:"skills"`
}

// Service is one card of the services list.
type Service struct {
	Title        string   `yaml:"title" json:"title"`
	Icon         string   `yaml:"icon" json:"icon"`
	Description  string   `yaml:"description" json:"description"`
	Technologies []string `yaml:"technologies" json:"technologies"`
}
