package dirstat

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePath(t *testing.T) {
	tests := []struct {
		input    string
		segments []string
		str      string
	}{
		{"", []string{}, "/"},
		{"/", []string{}, "/"},
		{"a", []string{"a"}, "/a"},
		{"/a/b", []string{"a", "b"}, "/a/b"},
		{"a//b/", []string{"a", "b"}, "/a/b"},
		{"my file.txt", []string{"my file.txt"}, "/my file.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p := ParsePath(tt.input)
			assert.Equal(t, tt.segments, p.Segments())
			assert.Equal(t, tt.str, p.String())
			assert.Equal(t, len(tt.segments), p.Depth())
		})
	}
}

func TestPath_Parent(t *testing.T) {
	assert.Equal(t, NewPath("a"), NewPath("a", "b").Parent())
	assert.Equal(t, Root(), NewPath("a").Parent())
	assert.Equal(t, Root(), Root().Parent(), "parent of root is root")
	assert.True(t, Root().Parent().Parent().IsRoot())
}

func TestPath_Join(t *testing.T) {
	base := NewPath("a")
	joined := base.Join(ParsePath("b/c"))

	assert.Equal(t, NewPath("a", "b", "c"), joined)
	assert.Equal(t, NewPath("a"), base, "join does not modify the receiver")
	assert.Equal(t, base, base.Join(Root()))
	assert.Equal(t, base, Root().Join(base))
}

func TestPath_Base(t *testing.T) {
	assert.Equal(t, "c", NewPath("a", "b", "c").Base())
	assert.Equal(t, "", Root().Base())
}

func TestPath_StructuralEquality(t *testing.T) {
	m := map[Path]int{}
	m[ParsePath("/a/b")] = 1
	m[NewPath("a").Join(NewPath("b"))]++
	m[NewPath("a", "b", "c").Parent()]++

	require.Len(t, m, 1)
	assert.Equal(t, 3, m[NewPath("a", "b")])

	var zero Path
	assert.Equal(t, Root(), zero)
}

func TestPath_IsAncestorOf(t *testing.T) {
	assert.True(t, Root().IsAncestorOf(NewPath("a")))
	assert.True(t, NewPath("a").IsAncestorOf(NewPath("a", "b", "c")))
	assert.False(t, NewPath("a").IsAncestorOf(NewPath("a")))
	assert.False(t, NewPath("a").IsAncestorOf(NewPath("ab")))
	assert.False(t, NewPath("a", "b").IsAncestorOf(NewPath("a")))
	assert.False(t, Root().IsAncestorOf(Root()))
}

func TestPath_JSON(t *testing.T) {
	data, err := json.Marshal(map[Path]uint64{NewPath("a", "b"): 1, Root(): 2})
	require.NoError(t, err)
	assert.JSONEq(t, `{"/a/b": 1, "/": 2}`, string(data))

	var decoded map[Path]uint64
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, uint64(1), decoded[NewPath("a", "b")])
	assert.Equal(t, uint64(2), decoded[Root()])
}
