package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderPlanMiddleChange(t *testing.T) {
	p := ComputeRenderPlan([]string{"a", "b", "c"}, []string{"a", "x", "c"}, Options{})
	require.Len(t, p.Left, 3)
	require.Len(t, p.Right, 3)

	assert.Equal(t, Row{Kind: RowUnchanged, Line: 1}, p.Left[0])
	assert.Equal(t, Row{Kind: RowUnchanged, Line: 1}, p.Right[0])
	assert.Equal(t, RowDelete, p.Left[1].Kind)
	assert.Equal(t, 2, p.Left[1].Line)
	assert.Equal(t, RowInsert, p.Right[1].Kind)
	assert.Equal(t, 2, p.Right[1].Line)
	assert.Equal(t, Row{Kind: RowUnchanged, Line: 3}, p.Left[2])

	// the whole line content differs: one span covering "b".
	assert.Equal(t, []CharSpan{{1, 2}}, p.Left[1].Spans)
	assert.Equal(t, []CharSpan{{1, 2}}, p.Right[1].Spans)
}

func TestRenderPlanInsertionAtEOF(t *testing.T) {
	p := ComputeRenderPlan([]string{"a", "b"}, []string{"a", "b", "c"}, Options{})
	require.Len(t, p.Left, 3)
	require.Len(t, p.Right, 3)

	assert.Equal(t, RowFiller, p.Left[2].Kind, "filler beneath on the left")
	assert.Equal(t, 0, p.Left[2].Line)
	assert.Equal(t, RowInsert, p.Right[2].Kind)
	assert.Equal(t, 3, p.Right[2].Line)
}

func TestRenderPlanDeletion(t *testing.T) {
	p := ComputeRenderPlan([]string{"a", "b", "c"}, []string{"a", "c"}, Options{})
	require.Len(t, p.Left, 3)
	require.Len(t, p.Right, 3)

	assert.Equal(t, RowDelete, p.Left[1].Kind)
	assert.Equal(t, RowFiller, p.Right[1].Kind)
	assert.Equal(t, Row{Kind: RowUnchanged, Line: 3}, p.Left[2])
	assert.Equal(t, Row{Kind: RowUnchanged, Line: 2}, p.Right[2])
}

func TestRenderPlanUnbalancedChange(t *testing.T) {
	// one line replaced by three: two fillers on the left.
	p := ComputeRenderPlan(
		[]string{"keep", "old", "keep2"},
		[]string{"keep", "new one", "new two", "new three", "keep2"},
		Options{},
	)
	require.Equal(t, len(p.Left), len(p.Right), "sides stay aligned")
	fillers := 0
	for _, r := range p.Left {
		if r.Kind == RowFiller {
			fillers++
		}
	}
	assert.Equal(t, 2, fillers)
}

func TestRenderPlanEqualDocuments(t *testing.T) {
	p := ComputeRenderPlan([]string{"a", "b"}, []string{"a", "b"}, Options{})
	require.Len(t, p.Left, 2)
	for i, r := range p.Left {
		assert.Equal(t, Row{Kind: RowUnchanged, Line: i + 1}, r)
	}
	assert.Equal(t, p.Left, p.Right)
}
