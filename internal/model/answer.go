package model

type PanelType string

const (
	PanelSummary      PanelType = "summary"
	PanelProjects     PanelType = "projects"
	PanelSkills       PanelType = "skills"
	PanelResume       PanelType = "resume"
	PanelLearningPath PanelType = "learning_path"
	PanelFailure      PanelType = "failure"
	PanelContact      PanelType = "contact"
	PanelUnknown      PanelType = "unknown"
)

// PanelTypes is the closed set accepted from the generator.
var PanelTypes = []PanelType{
	PanelSummary,
	PanelProjects,
	PanelSkills,
	PanelResume,
	PanelLearningPath,
	PanelFailure,
	PanelContact,
	PanelUnknown,
}

func (t PanelType) IsValid() bool {
	for _, item := range PanelTypes {
		if item == t {
			return true
		}
	}
	return false
}

const (
	MaxSuggestions = 4
	MaxCitations   = 3
)

type Answer struct {
	Title             string        `json:"title"`
	Type              PanelType     `json:"type"`
	Content           AnswerContent `json:"content"`
	Suggestions       []string      `json:"suggestions"`
	CanContinue       bool          `json:"canContinue"`
	SearchPlaceholder string        `json:"searchPlaceholder,omitempty"`
	Citations         []Citation    `json:"citations,omitempty"`
}

type AnswerContent struct {
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	HighlightedWords []string `json:"highlightedWords"`
	BulletPoints     []string `json:"bulletPoints,omitempty"`
	DeeperContext    string   `json:"deeperContext,omitempty"`
}

type Citation struct {
	Key      string `json:"key"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	ImageURL string `json:"imageUrl"`
	Link     string `json:"link,omitempty"`
}

type RAGInfo struct {
	Intent          string `json:"intent"`
	ChunksRetrieved int    `json:"chunksRetrieved"`
	FallbackUsed    bool   `json:"fallbackUsed"`
}
