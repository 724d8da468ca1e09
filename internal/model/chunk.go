package model

type Section string

const (
	SectionIdentity   Section = "identity"
	SectionPhilosophy Section = "philosophy"
	SectionProject    Section = "project"
	SectionSkills     Section = "skills"
	SectionExperience Section = "experience"
	SectionEducation  Section = "education"
	SectionLearning   Section = "learning"
	SectionFailure    Section = "failure"
	SectionContact    Section = "contact"
)

// AllSections lists every section in corpus order.
var AllSections = []Section{
	SectionIdentity,
	SectionPhilosophy,
	SectionProject,
	SectionSkills,
	SectionExperience,
	SectionEducation,
	SectionLearning,
	SectionFailure,
	SectionContact,
}

type ChunkSource struct {
	Section    Section `json:"section"`
	EntityName string  `json:"entity_name,omitempty"`
}

type Chunk struct {
	ID     string      `json:"id"`
	Text   string      `json:"text"`
	Source ChunkSource `json:"source"`
}
