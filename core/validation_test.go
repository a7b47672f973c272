package core

import (
	"errors"
	"testing"
)

func validTestChunk() *Chunk {
	content := "chunk content for validation"
	return &Chunk{
		Id:         ChunkID("/kb/file.txt", 0, content),
		Content:    content,
		SourceFile: "file.txt",
		SourcePath: "/kb/file.txt",
		Kind:       KindPlainText,
		Seq:        0,
		ChunkSize:  len(content),
	}
}

func TestValidateChunk(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Chunk)
		wantErr bool
	}{
		{
			name:    "valid chunk",
			mutate:  func(c *Chunk) {},
			wantErr: false,
		},
		{
			name:    "empty content",
			mutate:  func(c *Chunk) { c.Content = ""; c.ChunkSize = 0 },
			wantErr: true,
		},
		{
			name:    "empty source path",
			mutate:  func(c *Chunk) { c.SourcePath = "" },
			wantErr: true,
		},
		{
			name:    "binary-skip kind",
			mutate:  func(c *Chunk) { c.Kind = KindBinarySkip },
			wantErr: true,
		},
		{
			name:    "unsupported kind",
			mutate:  func(c *Chunk) { c.Kind = KindUnsupported },
			wantErr: true,
		},
		{
			name:    "chunk size mismatch",
			mutate:  func(c *Chunk) { c.ChunkSize = 1 },
			wantErr: true,
		},
		{
			name:    "empty vector is allowed",
			mutate:  func(c *Chunk) { c.Vector = nil },
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunk := validTestChunk()
			tt.mutate(chunk)

			err := ValidateChunk(chunk)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateChunk() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidChunk) {
				t.Errorf("ValidateChunk() error %v does not wrap ErrInvalidChunk", err)
			}
		})
	}
}

func TestValidateChunk_Nil(t *testing.T) {
	if err := ValidateChunk(nil); !errors.Is(err, ErrInvalidChunk) {
		t.Errorf("ValidateChunk(nil) = %v, want ErrInvalidChunk", err)
	}
}

func TestIsIngestibleKind(t *testing.T) {
	ingestible := []FileKind{KindPDF, KindPlainText, KindMarkup, KindSourceCode, KindConfigData}
	for _, kind := range ingestible {
		if !IsIngestibleKind(kind) {
			t.Errorf("IsIngestibleKind(%s) = false, want true", kind)
		}
	}

	for _, kind := range []FileKind{KindBinarySkip, KindUnsupported, FileKind(42)} {
		if IsIngestibleKind(kind) {
			t.Errorf("IsIngestibleKind(%s) = true, want false", kind)
		}
	}
}
