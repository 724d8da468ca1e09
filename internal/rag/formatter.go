package rag

import (
	"fmt"
	"math"
	"strings"
)

const noStrongMatchNotice = "Note: no strongly relevant information was found for this question. " +
	"The general background below is all that is available; say so plainly instead of guessing."

// FormatContext renders a search result for a generation prompt. Blocks follow
// result order and chunk text is emitted as is.
func FormatContext(result *Result) string {
	if result == nil {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("Intent: ")
	sb.WriteString(string(result.Intent))
	sb.WriteString("\n")
	if result.FallbackUsed {
		sb.WriteString(noStrongMatchNotice)
		sb.WriteString("\n")
	}
	for i, m := range result.Matches {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("[%d] id=%s section=%s", i+1, m.Chunk.ID, m.Chunk.Source.Section))
		if m.Chunk.Source.EntityName != "" {
			sb.WriteString(fmt.Sprintf(" entity=%q", m.Chunk.Source.EntityName))
		}
		sb.WriteString(" relevance=")
		sb.WriteString(formatScore(m.Score, result.FallbackUsed))
		sb.WriteString("\n")
		sb.WriteString(m.Chunk.Text)
		sb.WriteString("\n")
	}
	return sb.String()
}

func formatScore(score float32, fallback bool) string {
	if fallback {
		return "n/a"
	}
	return fmt.Sprintf("%d%%", int(math.Round(float64(score)*100)))
}
