package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xxxsen/askfolio/internal/ai"
	"github.com/xxxsen/askfolio/internal/corpus"
	"github.com/xxxsen/askfolio/internal/model"
)

var errSchemaMismatch = errors.New("generated answer does not match schema")

const systemInstruction = `You answer questions about %s for visitors of their portfolio site.
Rules:
- Use ONLY the facts in CONTEXT. Never invent projects, employers, dates or skills.
- If CONTEXT says no strongly relevant information was found, say you do not know and suggest related questions.
- Pick "type" from the allowed values. Use "projects" or "skills" only with bulletPoints.
- "highlightedWords" are short phrases copied from your description.
- "citations" lists the ids of the CONTEXT blocks you used, at most 3.
- "suggestions" are at most 4 short follow-up questions.
- Reply with a single JSON object matching the response schema.`

var answerSchema = buildAnswerSchema()

func buildAnswerSchema() *ai.Schema {
	panelTypes := make([]string, 0, len(model.PanelTypes))
	for _, t := range model.PanelTypes {
		panelTypes = append(panelTypes, string(t))
	}
	stringList := func(desc string) *ai.Schema {
		return &ai.Schema{Type: ai.TypeArray, Description: desc, Items: &ai.Schema{Type: ai.TypeString}}
	}
	return &ai.Schema{
		Type: ai.TypeObject,
		Properties: map[string]*ai.Schema{
			"title": {Type: ai.TypeString},
			"type":  {Type: ai.TypeString, Enum: panelTypes},
			"content": {
				Type: ai.TypeObject,
				Properties: map[string]*ai.Schema{
					"title":            {Type: ai.TypeString},
					"description":      {Type: ai.TypeString},
					"highlightedWords": stringList("phrases to emphasize"),
					"bulletPoints":     stringList("list items for projects, skills and resume panels"),
					"deeperContext":    {Type: ai.TypeString},
				},
				Required: []string{"title", "description", "highlightedWords"},
			},
			"suggestions":       stringList("follow-up questions"),
			"canContinue":       {Type: ai.TypeBoolean},
			"searchPlaceholder": {Type: ai.TypeString},
			"citations":         stringList("ids of the context blocks used"),
		},
		Required: []string{"title", "type", "content", "suggestions", "canContinue"},
	}
}

func buildPrompt(query, followUp, contextBlock string) string {
	var sb strings.Builder
	sb.WriteString("CONTEXT:\n")
	sb.WriteString(contextBlock)
	if followUp != "" {
		sb.WriteString("\nPREVIOUS TOPIC: ")
		sb.WriteString(followUp)
		sb.WriteString("\n")
	}
	sb.WriteString("\nQUESTION:\n")
	sb.WriteString(query)
	return sb.String()
}

type generatedAnswer struct {
	Title             string              `json:"title"`
	Type              model.PanelType     `json:"type"`
	Content           model.AnswerContent `json:"content"`
	Suggestions       []string            `json:"suggestions"`
	CanContinue       bool                `json:"canContinue"`
	SearchPlaceholder string              `json:"searchPlaceholder"`
	Citations         []string            `json:"citations"`
}

// parseAnswer decodes and validates generator output. Citation keys are
// resolved against the corpus and unknown keys are dropped.
func parseAnswer(output string, c *corpus.Corpus) (*model.Answer, error) {
	clean := strings.TrimSpace(output)
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")
	clean = strings.TrimSpace(clean)
	start := strings.Index(clean, "{")
	end := strings.LastIndex(clean, "}")
	if start >= 0 && end > start {
		clean = clean[start : end+1]
	}

	var gen generatedAnswer
	if err := json.Unmarshal([]byte(clean), &gen); err != nil {
		return nil, fmt.Errorf("%w: %v", errSchemaMismatch, err)
	}
	if err := validateAnswer(&gen); err != nil {
		return nil, err
	}
	answer := &model.Answer{
		Title:             strings.TrimSpace(gen.Title),
		Type:              gen.Type,
		Content:           gen.Content,
		Suggestions:       limit(compact(gen.Suggestions), model.MaxSuggestions),
		CanContinue:       gen.CanContinue,
		SearchPlaceholder: strings.TrimSpace(gen.SearchPlaceholder),
		Citations:         resolveCitations(gen.Citations, c),
	}
	answer.Content.Title = strings.TrimSpace(answer.Content.Title)
	answer.Content.Description = strings.TrimSpace(answer.Content.Description)
	answer.Content.HighlightedWords = compact(answer.Content.HighlightedWords)
	answer.Content.BulletPoints = compact(answer.Content.BulletPoints)
	answer.Content.DeeperContext = strings.TrimSpace(answer.Content.DeeperContext)
	return answer, nil
}

func validateAnswer(gen *generatedAnswer) error {
	switch {
	case strings.TrimSpace(gen.Title) == "":
		return fmt.Errorf("%w: title is empty", errSchemaMismatch)
	case !gen.Type.IsValid():
		return fmt.Errorf("%w: unknown type %q", errSchemaMismatch, gen.Type)
	case strings.TrimSpace(gen.Content.Title) == "":
		return fmt.Errorf("%w: content.title is empty", errSchemaMismatch)
	case strings.TrimSpace(gen.Content.Description) == "":
		return fmt.Errorf("%w: content.description is empty", errSchemaMismatch)
	}
	switch gen.Type {
	case model.PanelProjects, model.PanelSkills:
		if len(compact(gen.Content.BulletPoints)) == 0 {
			return fmt.Errorf("%w: %s panel requires bulletPoints", errSchemaMismatch, gen.Type)
		}
	}
	return nil
}

func resolveCitations(keys []string, c *corpus.Corpus) []model.Citation {
	if c == nil {
		return nil
	}
	out := make([]model.Citation, 0, model.MaxCitations)
	seen := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		key = strings.TrimSpace(key)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		citation, ok := c.Citation(key)
		if !ok {
			continue
		}
		out = append(out, citation)
		if len(out) == model.MaxCitations {
			break
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// compact trims items and drops empty ones. It never returns nil so lists
// always encode as JSON arrays.
func compact(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if v := strings.TrimSpace(item); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func limit(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}
