package dirstat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/dutrace/internal/trace"
)

func TestInterpret_Scenario(t *testing.T) {
	index := Interpret([]trace.Command{
		trace.Cd("a"),
		trace.Ls(trace.File("f", 10)),
		trace.Cd(".."),
		trace.Cd("b"),
		trace.Ls(trace.File("g", 20)),
	})

	assert.Equal(t, FileIndex{
		NewPath("a", "f"): 10,
		NewPath("b", "g"): 20,
	}, index)
}

func TestInterpreter_DirectoryEntriesAreIgnored(t *testing.T) {
	index := Interpret([]trace.Command{
		trace.Ls(trace.Dir("empty"), trace.Dir("a"), trace.File("top", 5)),
		trace.Cd("a"),
		trace.Ls(trace.Dir("deeper")),
	})

	assert.Equal(t, FileIndex{NewPath("top"): 5}, index)
}

func TestInterpreter_Navigation(t *testing.T) {
	tests := []struct {
		name string
		cmds []trace.Command
		want Path
	}{
		{
			name: "starts at root",
			want: Root(),
		},
		{
			name: "cd root is idempotent",
			cmds: []trace.Command{trace.Cd("/"), trace.Cd("/"), trace.Cd("/")},
			want: Root(),
		},
		{
			name: "cd up past root stays at root",
			cmds: []trace.Command{trace.Cd(".."), trace.Cd(".."), trace.Cd("a"), trace.Cd(".."), trace.Cd("..")},
			want: Root(),
		},
		{
			name: "joins after redundant ascents are not corrupted",
			cmds: []trace.Command{trace.Cd(".."), trace.Cd("/"), trace.Cd(".."), trace.Cd("a"), trace.Cd("b")},
			want: NewPath("a", "b"),
		},
		{
			name: "cd root mid trace resets to root",
			cmds: []trace.Command{trace.Cd("a"), trace.Cd("b"), trace.Cd("/"), trace.Cd("c")},
			want: NewPath("c"),
		},
		{
			name: "absolute target starts from root",
			cmds: []trace.Command{trace.Cd("a"), trace.Cd("/b")},
			want: NewPath("b"),
		},
		{
			name: "absolute multi segment target",
			cmds: []trace.Command{trace.Cd("x"), trace.Cd("/a/b")},
			want: NewPath("a", "b"),
		},
		{
			name: "double slash resets to root",
			cmds: []trace.Command{trace.Cd("a"), trace.Cd("b"), trace.Cd("//")},
			want: Root(),
		},
		{
			name: "multi segment target",
			cmds: []trace.Command{trace.Cd("a/b"), trace.Cd("c")},
			want: NewPath("a", "b", "c"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := NewInterpreter()
			for _, cmd := range tt.cmds {
				in.Apply(cmd)
			}

			assert.Equal(t, tt.want, in.Cwd())
		})
	}
}

func TestInterpret_AbsoluteTargetAggregates(t *testing.T) {
	cmds, err := trace.ParseString("$ cd a\n$ ls\n1 x\n$ cd /b\n$ ls\n5 g\n")
	require.NoError(t, err)

	index := Interpret(cmds)
	assert.Equal(t, FileIndex{NewPath("a", "x"): 1, NewPath("b", "g"): 5}, index)
	assert.Equal(t, DirectorySizes{NewPath("a"): 1, NewPath("b"): 5, Root(): 6}, Aggregate(index))
}

func TestInterpreter_OverwriteKeepsLastSize(t *testing.T) {
	index := Interpret([]trace.Command{
		trace.Cd("a"),
		trace.Ls(trace.File("f", 10)),
		trace.Cd(".."),
		trace.Cd("a"),
		trace.Ls(trace.File("f", 7)),
	})

	assert.Equal(t, FileIndex{NewPath("a", "f"): 7}, index)
	assert.Equal(t, DirectorySizes{NewPath("a"): 7, Root(): 7}, Aggregate(index))
}

func TestFileIndex_Total(t *testing.T) {
	index := make(FileIndex)
	assert.Equal(t, uint64(0), index.Total())

	index.Visit(NewPath("a"), 3)
	index.Visit(NewPath("b", "c"), 4)
	index.Visit(NewPath("a"), 5)

	assert.Equal(t, uint64(9), index.Total())
}
