package service

import (
	"strings"

	"github.com/xxxsen/askfolio/internal/corpus"
	"github.com/xxxsen/askfolio/internal/intent"
	"github.com/xxxsen/askfolio/internal/model"
	"github.com/xxxsen/askfolio/internal/rag"
)

const maxDegradedDescriptionRunes = 600

var sectionTitles = map[model.Section]string{
	model.SectionIdentity:   "About",
	model.SectionPhilosophy: "Philosophy",
	model.SectionProject:    "Project",
	model.SectionSkills:     "Skills",
	model.SectionExperience: "Experience",
	model.SectionEducation:  "Education",
	model.SectionLearning:   "Currently learning",
	model.SectionFailure:    "Lessons learned",
	model.SectionContact:    "Contact",
}

// degradedAnswer answers straight from the best retrieved chunk when the
// generator must not be called.
func degradedAnswer(result *rag.Result, c *corpus.Corpus, name string) *model.Answer {
	top := result.Matches[0].Chunk
	title := top.Source.EntityName
	if title == "" {
		title = sectionTitles[top.Source.Section]
	}
	panel := intent.PanelType(result.Intent)
	if result.FallbackUsed {
		panel = model.PanelSummary
	}
	answer := &model.Answer{
		Title: title,
		Type:  panel,
		Content: model.AnswerContent{
			Title:            title,
			Description:      truncateRunes(top.Text, maxDegradedDescriptionRunes),
			HighlightedWords: []string{},
		},
		Suggestions: defaultSuggestions(name),
		CanContinue: true,
	}
	if len(result.Matches) > 1 {
		bullets := make([]string, 0, len(result.Matches)-1)
		for _, m := range result.Matches[1:] {
			label := m.Chunk.Source.EntityName
			if label == "" {
				label = sectionTitles[m.Chunk.Source.Section]
			}
			bullets = append(bullets, label)
		}
		answer.Content.BulletPoints = bullets
	}
	keys := make([]string, 0, len(result.Matches))
	for _, m := range result.Matches {
		keys = append(keys, m.Chunk.ID)
	}
	answer.Citations = resolveCitations(keys, c)
	return answer
}

// cannedAnswer is served when retrieval or generation fails. It only uses the
// profile, so it never depends on an external call.
func cannedAnswer(in intent.Intent, profile *model.Profile) *model.Answer {
	name := profile.Identity.Name
	switch in {
	case intent.Contact:
		if answer := contactAnswer(profile); answer != nil {
			return answer
		}
	case intent.Project:
		bullets := make([]string, 0, len(profile.Projects))
		for _, p := range profile.Projects {
			bullets = append(bullets, labelled(p.Name, p.Tagline))
		}
		if len(bullets) > 0 {
			return listAnswer(model.PanelProjects, "Projects", "Here are the projects "+name+" has worked on.", bullets, name)
		}
	case intent.Skills:
		bullets := make([]string, 0, len(profile.Skills))
		for _, s := range profile.Skills {
			bullets = append(bullets, labelled(s.Category, strings.Join(s.Items, ", ")))
		}
		if len(bullets) > 0 {
			return listAnswer(model.PanelSkills, "Skills", "Here is an overview of "+name+"'s skills.", bullets, name)
		}
	}
	return &model.Answer{
		Title: "No information",
		Type:  model.PanelUnknown,
		Content: model.AnswerContent{
			Title:            "No information",
			Description:      "I don't have information to answer that right now. Try asking about projects, skills or how to get in touch.",
			HighlightedWords: []string{},
		},
		Suggestions: defaultSuggestions(name),
		CanContinue: true,
	}
}

func contactAnswer(profile *model.Profile) *model.Answer {
	contact := profile.Contact
	bullets := make([]string, 0, len(contact.Links)+1)
	email := strings.TrimSpace(contact.Email)
	if email != "" {
		bullets = append(bullets, "Email: "+email)
	}
	for _, link := range contact.Links {
		if strings.TrimSpace(link.URL) == "" {
			continue
		}
		bullets = append(bullets, labelled(link.Label, link.URL))
	}
	if len(bullets) == 0 {
		return nil
	}
	description := "Here is how to reach " + profile.Identity.Name + "."
	if v := strings.TrimSpace(contact.Availability); v != "" {
		description += " " + v
	}
	answer := listAnswer(model.PanelContact, "Contact", description, bullets, profile.Identity.Name)
	if email != "" {
		answer.Content.HighlightedWords = []string{email}
	}
	return answer
}

func listAnswer(panel model.PanelType, title, description string, bullets []string, name string) *model.Answer {
	return &model.Answer{
		Title: title,
		Type:  panel,
		Content: model.AnswerContent{
			Title:            title,
			Description:      description,
			HighlightedWords: []string{},
			BulletPoints:     bullets,
		},
		Suggestions: defaultSuggestions(name),
		CanContinue: true,
	}
}

func defaultSuggestions(name string) []string {
	first := name
	if fields := strings.Fields(name); len(fields) > 0 {
		first = fields[0]
	}
	return []string{
		"What projects has " + first + " built?",
		"Which skills does " + first + " use most?",
		"How can I contact " + first + "?",
	}
}

func labelled(label, value string) string {
	label = strings.TrimSpace(label)
	value = strings.TrimSpace(value)
	switch {
	case label == "":
		return value
	case value == "":
		return label
	}
	return label + ": " + value
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return strings.TrimSpace(string(runes[:n])) + "…"
}
