package core

import (
	"testing"
)

func TestIDFromContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "same content produces same ID",
			content: "test content",
		},
		{
			name:    "empty string",
			content: "",
		},
		{
			name:    "long content",
			content: "This is a much longer piece of content that should still hash consistently",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id1 := IDFromContent(tt.content)
			id2 := IDFromContent(tt.content)

			if id1 != id2 {
				t.Errorf("IDFromContent() produced different IDs for same content: %d vs %d", id1, id2)
			}
		})
	}
}

func TestIDFromContent_Different(t *testing.T) {
	id1 := IDFromContent("content1")
	id2 := IDFromContent("content2")

	if id1 == id2 {
		t.Errorf("IDFromContent() produced same ID for different content")
	}
}

func TestChunkID_Deterministic(t *testing.T) {
	id1 := ChunkID("/kb/notes.md", 3, "some chunk text")
	id2 := ChunkID("/kb/notes.md", 3, "some chunk text")

	if id1 != id2 {
		t.Errorf("ChunkID() produced different IDs for identical provenance: %d vs %d", id1, id2)
	}
}

func TestChunkID_ProvenanceMatters(t *testing.T) {
	base := ChunkID("/kb/notes.md", 0, "text")

	if ChunkID("/kb/other.md", 0, "text") == base {
		t.Error("ChunkID() ignored source path")
	}
	if ChunkID("/kb/notes.md", 1, "text") == base {
		t.Error("ChunkID() ignored sequence number")
	}
	if ChunkID("/kb/notes.md", 0, "other text") == base {
		t.Error("ChunkID() ignored content")
	}
}

func TestFileKind_String(t *testing.T) {
	tests := []struct {
		kind FileKind
		want string
	}{
		{KindPDF, "pdf"},
		{KindPlainText, "text"},
		{KindMarkup, "markup"},
		{KindSourceCode, "source"},
		{KindConfigData, "config"},
		{KindBinarySkip, "binary-skip"},
		{KindUnsupported, "unsupported"},
		{FileKind(99), "unsupported"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.want {
				t.Errorf("FileKind.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOutcome_Message(t *testing.T) {
	tests := []struct {
		name    string
		outcome Outcome
		file    string
		want    string
	}{
		{
			name: "success includes chunk count and label",
			outcome: Outcome{
				Status:     OutcomeSuccess,
				Label:      "Markdown",
				ChunkCount: 4,
			},
			file: "/kb/docs/readme.md",
			want: "added 4 chunks from readme.md (Markdown)",
		},
		{
			name: "skipped includes reason",
			outcome: Outcome{
				Status: OutcomeSkipped,
				Reason: "no content extracted",
			},
			file: "/kb/empty.txt",
			want: "skipped empty.txt: no content extracted",
		},
		{
			name: "failed includes reason",
			outcome: Outcome{
				Status: OutcomeFailed,
				Reason: "extraction failed: bad xref",
			},
			file: "/kb/broken.pdf",
			want: "failed broken.pdf: extraction failed: bad xref",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.outcome.Message(tt.file); got != tt.want {
				t.Errorf("Outcome.Message() = %q, want %q", got, tt.want)
			}
		})
	}
}
