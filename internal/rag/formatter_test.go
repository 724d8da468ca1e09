package rag

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/askfolio/internal/intent"
	"github.com/xxxsen/askfolio/internal/model"
)

func TestFormatContextScored(t *testing.T) {
	res := &Result{
		Intent: intent.Project,
		Matches: []Match{
			{Chunk: model.Chunk{ID: "project:tide", Text: "Project: Tide.", Source: model.ChunkSource{Section: model.SectionProject, EntityName: "Tide"}}, Score: 0.874},
			{Chunk: model.Chunk{ID: "identity", Text: "Ada Lovelace.", Source: model.ChunkSource{Section: model.SectionIdentity}}, Score: 0.31},
		},
	}
	want := "Intent: project\n" +
		"\n[1] id=project:tide section=project entity=\"Tide\" relevance=87%\nProject: Tide.\n" +
		"\n[2] id=identity section=identity relevance=31%\nAda Lovelace.\n"
	require.Equal(t, want, FormatContext(res))
}

func TestFormatContextFallback(t *testing.T) {
	res := &Result{
		Intent:       intent.General,
		FallbackUsed: true,
		Matches:      []Match{{Chunk: model.Chunk{ID: "identity", Text: "Ada Lovelace.", Source: model.ChunkSource{Section: model.SectionIdentity}}}},
	}
	out := FormatContext(res)
	require.Contains(t, out, "Intent: general\n")
	require.Contains(t, out, noStrongMatchNotice)
	require.Contains(t, out, "relevance=n/a")
	require.NotContains(t, out, "%")
}

func TestFormatContextNil(t *testing.T) {
	require.Equal(t, "", FormatContext(nil))
}
