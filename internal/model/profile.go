package model

type Profile struct {
	Identity   Identity        `yaml:"identity" json:"identity"`
	Philosophy string          `yaml:"philosophy" json:"philosophy"`
	Projects   []Project       `yaml:"projects" json:"projects"`
	Skills     []SkillCategory `yaml:"skills" json:"skills"`
	Experience []Experience    `yaml:"experience" json:"experience"`
	Education  []Education     `yaml:"education" json:"education"`
	Learning   Learning        `yaml:"learning" json:"learning"`
	Failures   []Failure       `yaml:"failures" json:"failures"`
	Contact    Contact         `yaml:"contact" json:"contact"`
}

type Identity struct {
	Name      string `yaml:"name" json:"name"`
	Headline  string `yaml:"headline" json:"headline"`
	Location  string `yaml:"location" json:"location"`
	Summary   string `yaml:"summary" json:"summary"`
	AvatarURL string `yaml:"avatar_url" json:"avatar_url"`
}

type Project struct {
	Name        string   `yaml:"name" json:"name"`
	Tagline     string   `yaml:"tagline" json:"tagline"`
	Description string   `yaml:"description" json:"description"`
	Role        string   `yaml:"role" json:"role"`
	Year        string   `yaml:"year" json:"year"`
	Stack       []string `yaml:"stack" json:"stack"`
	Recognition string   `yaml:"recognition" json:"recognition"`
	Link        string   `yaml:"link" json:"link"`
	ImageURL    string   `yaml:"image_url" json:"image_url"`
}

type SkillCategory struct {
	Category string   `yaml:"category" json:"category"`
	Items    []string `yaml:"items" json:"items"`
	Notes    string   `yaml:"notes" json:"notes"`
}

type Experience struct {
	Company    string   `yaml:"company" json:"company"`
	Role       string   `yaml:"role" json:"role"`
	Period     string   `yaml:"period" json:"period"`
	Summary    string   `yaml:"summary" json:"summary"`
	Highlights []string `yaml:"highlights" json:"highlights"`
	Link       string   `yaml:"link" json:"link"`
}

type Education struct {
	School string `yaml:"school" json:"school"`
	Degree string `yaml:"degree" json:"degree"`
	Period string `yaml:"period" json:"period"`
	Notes  string `yaml:"notes" json:"notes"`
}

type Learning struct {
	Focus []string `yaml:"focus" json:"focus"`
	Notes string   `yaml:"notes" json:"notes"`
}

type Failure struct {
	Title  string `yaml:"title" json:"title"`
	Story  string `yaml:"story" json:"story"`
	Lesson string `yaml:"lesson" json:"lesson"`
}

type Contact struct {
	Email        string        `yaml:"email" json:"email"`
	Availability string        `yaml:"availability" json:"availability"`
	Links        []ContactLink `yaml:"links" json:"links"`
}

type ContactLink struct {
	Label string `yaml:"label" json:"label"`
	URL   string `yaml:"url" json:"url"`
}
