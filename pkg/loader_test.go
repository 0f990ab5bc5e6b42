package pkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEdgeList(t *testing.T) {
	contents := []byte("# comment line\n0 1\n1,2\n// another comment\n\n2 1\n")
	events, err := ParseEdgeList(contents)
	require.NoError(t, err)
	assert.Equal(t, []EdgeEvent{
		{Source: 0, Dest: 1, Delta: 1},
		{Source: 1, Dest: 2, Delta: 1},
		{Source: 2, Dest: 1, Delta: 1},
	}, events)
}

func TestParseEdgeListRejectsMalformedLines(t *testing.T) {
	_, err := ParseEdgeList([]byte("0 one\n"))
	assert.Error(t, err)

	_, err = ParseEdgeList([]byte("justonetoken\n"))
	assert.Error(t, err)

	_, err = ParseEdgeList([]byte("-1 2\n"))
	assert.Error(t, err, "node identifiers are non-negative")
}
