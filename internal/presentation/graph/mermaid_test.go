package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/surveyor/internal/presentation/graph"
	"github.com/aretw0/surveyor/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestGenerateMermaid(t *testing.T) {
	records := []domain.Record{
		{ID: "r0.0.1", Backtrace: domain.Backtrace{"r0", "0", "1"}},
		{ID: "r0.0.0", Backtrace: domain.Backtrace{"r0", "0", "0"}},
		{ID: "r0.1", Backtrace: domain.Backtrace{"r0", "1"}},
	}

	out := graph.GenerateMermaid(records, nil)

	assert.True(t, strings.HasPrefix(out, "graph TD\n"))
	assert.Contains(t, out, `r0(("r0"))`)
	assert.Contains(t, out, `r0_0_1["1"]`)
	assert.Contains(t, out, "r0 --> r0_0\n")
	assert.Contains(t, out, "r0_0 --> r0_0_0\n")
	assert.Contains(t, out, "r0 --> r0_1\n")
	assert.Equal(t, 1, strings.Count(out, `r0(("r0"))`), "shared ancestors are declared once")
	assert.Equal(t, 1, strings.Count(out, "r0 --> r0_0\n"), "shared edges are drawn once")
	assert.NotContains(t, out, "classDef")
}

func TestGenerateMermaid_Overlay(t *testing.T) {
	dead := []domain.Record{{ID: "a", Backtrace: domain.Backtrace{"r0", "0"}}}
	errored := []domain.Record{
		{ID: "b", Backtrace: domain.Backtrace{"r0", "1"}},
		{ID: "b", Backtrace: domain.Backtrace{"r0", "1"}},
	}

	out := graph.GenerateMermaid(append(dead, errored...), graph.OverlayFor(dead, errored))

	assert.Contains(t, out, "classDef deadended")
	assert.Contains(t, out, "class r0_0 deadended;")
	assert.Equal(t, 1, strings.Count(out, "class r0_1 errored;"))
}

func TestGenerateMermaid_Empty(t *testing.T) {
	assert.Equal(t, "graph TD\n", graph.GenerateMermaid(nil, nil))
}
