// Package intent maps free-text questions to a coarse intent with keyword
// heuristics. Overlapping keywords are resolved by pattern priority only; there
// is no best-match scoring.
package intent

import (
	"sort"
	"strings"

	"github.com/xxxsen/askfolio/internal/model"
)

type Intent string

const (
	Project    Intent = "project"
	Skills     Intent = "skills"
	Experience Intent = "experience"
	Learning   Intent = "learning"
	Failure    Intent = "failure"
	Contact    Intent = "contact"
	Identity   Intent = "identity"
	General    Intent = "general"
)

type Pattern struct {
	Intent   Intent
	Keywords []string
	Priority int
}

// DefaultPatterns is ordered specific-before-general through Priority.
var DefaultPatterns = []Pattern{
	{Intent: Contact, Priority: 100, Keywords: []string{
		"contact", "email", "e-mail", "reach out", "reach him", "reach her", "get in touch",
		"linkedin", "github", "twitter", "hire", "phone", "social",
	}},
	{Intent: Failure, Priority: 90, Keywords: []string{
		"fail", "mistake", "lesson", "regret", "went wrong", "setback", "biggest challenge",
	}},
	{Intent: Learning, Priority: 85, Keywords: []string{
		"learning", "learn next", "studying", "currently exploring", "roadmap", "curious about",
	}},
	{Intent: Project, Priority: 80, Keywords: []string{
		"project", "built", "build", "portfolio", "side project", "shipped", "created", "made", "demo",
	}},
	{Intent: Skills, Priority: 70, Keywords: []string{
		"skill", "stack", "tech", "language", "framework", "tool", "proficient", "expertise", "good at",
	}},
	{Intent: Experience, Priority: 60, Keywords: []string{
		"experience", "resume", "cv", "career", "job", "worked at", "work history", "company",
		"education", "degree", "university", "school", "studied",
	}},
	{Intent: Identity, Priority: 50, Keywords: []string{
		"who is", "who are", "about him", "about her", "about you", "yourself", "introduce",
		"background", "philosophy", "values", "believe", "hello", "hi there",
	}},
}

var sectionsByIntent = map[Intent][]model.Section{
	Project:    {model.SectionProject, model.SectionIdentity},
	Skills:     {model.SectionSkills, model.SectionProject},
	Experience: {model.SectionExperience, model.SectionEducation, model.SectionIdentity},
	Learning:   {model.SectionLearning, model.SectionSkills},
	Failure:    {model.SectionFailure, model.SectionPhilosophy},
	Contact:    {model.SectionContact, model.SectionIdentity},
	Identity:   {model.SectionIdentity, model.SectionPhilosophy},
}

var panelByIntent = map[Intent]model.PanelType{
	Project:    model.PanelProjects,
	Skills:     model.PanelSkills,
	Experience: model.PanelResume,
	Learning:   model.PanelLearningPath,
	Failure:    model.PanelFailure,
	Contact:    model.PanelContact,
	Identity:   model.PanelSummary,
	General:    model.PanelSummary,
}

type Classifier struct {
	patterns []Pattern
}

func NewClassifier(patterns []Pattern) *Classifier {
	sorted := make([]Pattern, 0, len(patterns))
	for _, p := range patterns {
		keywords := make([]string, 0, len(p.Keywords))
		for _, kw := range p.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw != "" {
				keywords = append(keywords, kw)
			}
		}
		sorted = append(sorted, Pattern{Intent: p.Intent, Keywords: keywords, Priority: p.Priority})
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority > sorted[j].Priority
	})
	return &Classifier{patterns: sorted}
}

func NewDefaultClassifier() *Classifier {
	return NewClassifier(DefaultPatterns)
}

// Classify returns the intent of the first pattern with a keyword contained in
// the normalized query, or General when nothing matches.
func (c *Classifier) Classify(query string) Intent {
	normalized := strings.ToLower(strings.TrimSpace(query))
	if normalized == "" {
		return General
	}
	for _, p := range c.patterns {
		for _, kw := range p.Keywords {
			if strings.Contains(normalized, kw) {
				return p.Intent
			}
		}
	}
	return General
}

// Sections returns the sections eligible for retrieval. General, and any
// intent without a mapping, is unrestricted.
func Sections(in Intent) []model.Section {
	sections, ok := sectionsByIntent[in]
	if !ok {
		sections = model.AllSections
	}
	out := make([]model.Section, len(sections))
	copy(out, sections)
	return out
}

func PanelType(in Intent) model.PanelType {
	if t, ok := panelByIntent[in]; ok {
		return t
	}
	return model.PanelUnknown
}
