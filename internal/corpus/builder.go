package corpus

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/xxxsen/askfolio/internal/model"
)

// Corpus is the read-only chunk set built from a profile.
type Corpus struct {
	Chunks    []model.Chunk
	index     map[string]int
	citations map[string]model.Citation
}

func (c *Corpus) Get(id string) (model.Chunk, bool) {
	idx, ok := c.index[id]
	if !ok {
		return model.Chunk{}, false
	}
	return c.Chunks[idx], true
}

func (c *Corpus) Citation(id string) (model.Citation, bool) {
	citation, ok := c.citations[id]
	return citation, ok
}

func (c *Corpus) Len() int {
	return len(c.Chunks)
}

type builder struct {
	chunks    []model.Chunk
	index     map[string]int
	citations map[string]model.Citation
}

// Build turns the profile into one chunk per atomic section and one chunk per
// list entity. Identical profiles always yield identical corpora.
func Build(profile *model.Profile) (*Corpus, error) {
	if profile == nil {
		return nil, fmt.Errorf("profile is required")
	}
	b := &builder{
		index:     make(map[string]int),
		citations: make(map[string]model.Citation),
	}
	name := strings.TrimSpace(profile.Identity.Name)
	if name == "" {
		return nil, fmt.Errorf("identity.name is required")
	}

	b.addIdentity(profile.Identity)
	b.addPhilosophy(name, profile.Philosophy)
	for i, project := range profile.Projects {
		if err := b.addProject(i, project); err != nil {
			return nil, err
		}
	}
	for i, skill := range profile.Skills {
		if err := b.addSkill(i, skill); err != nil {
			return nil, err
		}
	}
	for i, exp := range profile.Experience {
		if err := b.addExperience(i, exp); err != nil {
			return nil, err
		}
	}
	for i, edu := range profile.Education {
		if err := b.addEducation(i, edu); err != nil {
			return nil, err
		}
	}
	b.addLearning(name, profile.Learning)
	for i, failure := range profile.Failures {
		if err := b.addFailure(i, failure); err != nil {
			return nil, err
		}
	}
	b.addContact(name, profile.Identity.AvatarURL, profile.Contact)

	return &Corpus{Chunks: b.chunks, index: b.index, citations: b.citations}, nil
}

func (b *builder) addIdentity(identity model.Identity) {
	parts := []string{sentence(identity.Name)}
	if v := plainText(identity.Headline); v != "" {
		parts = append(parts, sentence(v))
	}
	if v := strings.TrimSpace(identity.Location); v != "" {
		parts = append(parts, sentence("Based in "+v))
	}
	if v := plainText(identity.Summary); v != "" {
		parts = append(parts, sentence(v))
	}
	id := b.add("identity", model.SectionIdentity, "", parts)
	b.citations[id] = model.Citation{
		Key:      id,
		Title:    strings.TrimSpace(identity.Name),
		Subtitle: plainText(identity.Headline),
		ImageURL: strings.TrimSpace(identity.AvatarURL),
	}
}

func (b *builder) addPhilosophy(name, philosophy string) {
	v := plainText(philosophy)
	if v == "" {
		return
	}
	b.add("philosophy", model.SectionPhilosophy, "", []string{sentence(name + "'s philosophy: " + v)})
}

func (b *builder) addProject(i int, project model.Project) error {
	name := strings.TrimSpace(project.Name)
	if name == "" {
		return fmt.Errorf("projects[%d]: name is required", i)
	}
	parts := []string{sentence("Project: " + name)}
	if v := plainText(project.Tagline); v != "" {
		parts = append(parts, sentence(v))
	}
	if v := plainText(project.Description); v != "" {
		parts = append(parts, sentence(v))
	}
	if v := strings.TrimSpace(project.Role); v != "" {
		parts = append(parts, sentence("Role: "+v))
	}
	if v := strings.TrimSpace(project.Year); v != "" {
		parts = append(parts, sentence("Year: "+v))
	}
	if stack := joinNonEmpty(project.Stack, ", "); stack != "" {
		parts = append(parts, sentence("Tech stack: "+stack))
	}
	if v := plainText(project.Recognition); v != "" {
		parts = append(parts, sentence("Recognition: "+v))
	}
	id := b.add(b.entityID(model.SectionProject, name), model.SectionProject, name, parts)
	b.citations[id] = model.Citation{
		Key:      id,
		Title:    name,
		Subtitle: plainText(project.Tagline),
		ImageURL: strings.TrimSpace(project.ImageURL),
		Link:     strings.TrimSpace(project.Link),
	}
	return nil
}

func (b *builder) addSkill(i int, skill model.SkillCategory) error {
	category := strings.TrimSpace(skill.Category)
	if category == "" {
		return fmt.Errorf("skills[%d]: category is required", i)
	}
	parts := []string{}
	if items := joinNonEmpty(skill.Items, ", "); items != "" {
		parts = append(parts, sentence("Skills in "+category+": "+items))
	} else {
		parts = append(parts, sentence("Skills in "+category))
	}
	if v := plainText(skill.Notes); v != "" {
		parts = append(parts, sentence(v))
	}
	b.add(b.entityID(model.SectionSkills, category), model.SectionSkills, category, parts)
	return nil
}

func (b *builder) addExperience(i int, exp model.Experience) error {
	company := strings.TrimSpace(exp.Company)
	if company == "" {
		return fmt.Errorf("experience[%d]: company is required", i)
	}
	head := "Experience at " + company
	if v := strings.TrimSpace(exp.Role); v != "" {
		head += " as " + v
	}
	if v := strings.TrimSpace(exp.Period); v != "" {
		head += " (" + v + ")"
	}
	parts := []string{sentence(head)}
	if v := plainText(exp.Summary); v != "" {
		parts = append(parts, sentence(v))
	}
	highlights := make([]string, 0, len(exp.Highlights))
	for _, h := range exp.Highlights {
		if v := plainText(h); v != "" {
			highlights = append(highlights, strings.TrimRight(v, "."))
		}
	}
	if len(highlights) > 0 {
		parts = append(parts, sentence("Highlights: "+strings.Join(highlights, "; ")))
	}
	id := b.add(b.entityID(model.SectionExperience, company), model.SectionExperience, company, parts)
	subtitle := strings.TrimSpace(exp.Role)
	if period := strings.TrimSpace(exp.Period); period != "" {
		subtitle = strings.TrimSpace(subtitle + " " + period)
	}
	b.citations[id] = model.Citation{
		Key:      id,
		Title:    company,
		Subtitle: subtitle,
		Link:     strings.TrimSpace(exp.Link),
	}
	return nil
}

func (b *builder) addEducation(i int, edu model.Education) error {
	school := strings.TrimSpace(edu.School)
	if school == "" {
		return fmt.Errorf("education[%d]: school is required", i)
	}
	head := "Education at " + school
	if v := strings.TrimSpace(edu.Degree); v != "" {
		head = "Education: " + v + " at " + school
	}
	if v := strings.TrimSpace(edu.Period); v != "" {
		head += " (" + v + ")"
	}
	parts := []string{sentence(head)}
	if v := plainText(edu.Notes); v != "" {
		parts = append(parts, sentence(v))
	}
	b.add(b.entityID(model.SectionEducation, school), model.SectionEducation, school, parts)
	return nil
}

func (b *builder) addLearning(name string, learning model.Learning) {
	focus := joinNonEmpty(learning.Focus, ", ")
	notes := plainText(learning.Notes)
	if focus == "" && notes == "" {
		return
	}
	parts := []string{}
	if focus != "" {
		parts = append(parts, sentence(name+" is currently learning: "+focus))
	}
	if notes != "" {
		parts = append(parts, sentence(notes))
	}
	b.add("learning", model.SectionLearning, "", parts)
}

func (b *builder) addFailure(i int, failure model.Failure) error {
	title := strings.TrimSpace(failure.Title)
	if title == "" {
		return fmt.Errorf("failures[%d]: title is required", i)
	}
	parts := []string{sentence("Failure: " + title)}
	if v := plainText(failure.Story); v != "" {
		parts = append(parts, sentence(v))
	}
	if v := plainText(failure.Lesson); v != "" {
		parts = append(parts, sentence("Lesson learned: "+v))
	}
	b.add(b.entityID(model.SectionFailure, title), model.SectionFailure, title, parts)
	return nil
}

func (b *builder) addContact(name, avatar string, contact model.Contact) {
	parts := []string{}
	email := strings.TrimSpace(contact.Email)
	if email != "" {
		parts = append(parts, sentence("Contact "+name+" by email at "+email))
	}
	for _, link := range contact.Links {
		label := strings.TrimSpace(link.Label)
		url := strings.TrimSpace(link.URL)
		if url == "" {
			continue
		}
		if label == "" {
			label = "Link"
		}
		parts = append(parts, sentence(label+": "+url))
	}
	if v := plainText(contact.Availability); v != "" {
		parts = append(parts, sentence("Availability: "+v))
	}
	if len(parts) == 0 {
		return
	}
	id := b.add("contact", model.SectionContact, "", parts)
	citation := model.Citation{Key: id, Title: "Contact " + name, Subtitle: email, ImageURL: strings.TrimSpace(avatar)}
	if email != "" {
		citation.Link = "mailto:" + email
	}
	b.citations[id] = citation
}

func (b *builder) add(id string, section model.Section, entity string, parts []string) string {
	b.index[id] = len(b.chunks)
	b.chunks = append(b.chunks, model.Chunk{
		ID:   id,
		Text: strings.Join(parts, " "),
		Source: model.ChunkSource{
			Section:    section,
			EntityName: entity,
		},
	})
	return id
}

func (b *builder) entityID(section model.Section, name string) string {
	base := string(section) + ":" + slugify(name)
	id := base
	for n := 2; ; n++ {
		if _, ok := b.index[id]; !ok {
			return id
		}
		id = base + "-" + strconv.Itoa(n)
	}
}

func slugify(name string) string {
	var sb strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
			dash = false
			continue
		}
		if !dash && sb.Len() > 0 {
			sb.WriteByte('-')
			dash = true
		}
	}
	slug := strings.TrimRight(sb.String(), "-")
	if slug == "" {
		return "item"
	}
	return slug
}

func sentence(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	switch s[len(s)-1] {
	case '.', '!', '?':
		return s
	}
	return s + "."
}

func joinNonEmpty(items []string, sep string) string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if v := strings.TrimSpace(item); v != "" {
			out = append(out, v)
		}
	}
	return strings.Join(out, sep)
}
