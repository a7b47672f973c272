package corpusit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veridian-labs/corpusit/ai"
)

func newTestEngine(t *testing.T, opts ...EngineOption) *Engine {
	t.Helper()
	opts = append([]EngineOption{WithInMemoryStore()}, opts...)
	engine, err := NewEngine("", opts...)
	require.NoError(t, err)
	t.Cleanup(func() { engine.Close() })
	return engine
}

func TestNewEngine_Defaults(t *testing.T) {
	engine := newTestEngine(t)
	assert.NotNil(t, engine.ChunkRepository())
	assert.NotNil(t, engine.Ledger())
}

func TestNewEngine_RejectsBadAIConfig(t *testing.T) {
	_, err := NewEngine("", WithInMemoryStore(), WithAIConfig(&ai.Config{}))
	assert.Error(t, err)
}

func TestEngine_NewPipeline(t *testing.T) {
	engine := newTestEngine(t, WithChunking(500, 50), WithReingestTolerance(0.1))

	p, err := engine.NewPipeline()
	require.NoError(t, err)
	assert.Same(t, engine.Ledger(), p.Ledger(), "pipelines share the engine's ledger")
}

func TestEngine_NewPipeline_RejectsBadChunking(t *testing.T) {
	engine := newTestEngine(t, WithChunking(100, 100))

	_, err := engine.NewPipeline()
	assert.Error(t, err, "overlap equal to chunk size must be rejected")
}

func TestEngine_NewSearcher(t *testing.T) {
	engine := newTestEngine(t)

	s, err := engine.NewSearcher()
	require.NoError(t, err)
	assert.NotNil(t, s)
}

func TestEngine_NewReindexer(t *testing.T) {
	engine := newTestEngine(t)

	r := engine.NewReindexer(nil, &discardWriter{})
	assert.NotNil(t, r)
}

type discardWriter struct{}

func (d *discardWriter) Write(p []byte) (int, error) { return len(p), nil }
