package dirstat

import (
	"strings"

	"github.com/idelchi/dutrace/internal/trace"
)

// FileIndex maps absolute file paths to their size in bytes.
// Directories are never stored; they are derived by Aggregate.
type FileIndex map[Path]uint64

// Visit records a file. A later visit of the same path overwrites the size.
func (x FileIndex) Visit(path Path, size uint64) {
	x[path] = size
}

// Total is the sum of all file sizes.
func (x FileIndex) Total() uint64 {
	var total uint64
	for _, size := range x {
		total += size
	}

	return total
}

// Interpreter replays a trace, tracking the current directory and recording
// every listed file into its FileIndex.
type Interpreter struct {
	cwd   Path
	index FileIndex
}

// NewInterpreter returns an interpreter positioned at the root with an empty index.
func NewInterpreter() *Interpreter {
	return &Interpreter{
		cwd:   Root(),
		index: make(FileIndex),
	}
}

// Cwd returns the current directory.
func (in *Interpreter) Cwd() Path {
	return in.cwd
}

// Index returns the files recorded so far.
func (in *Interpreter) Index() FileIndex {
	return in.index
}

// Apply advances the interpreter by one command.
func (in *Interpreter) Apply(cmd trace.Command) {
	switch c := cmd.(type) {
	case trace.ChangeDirectory:
		switch {
		case c.Target == trace.Parent:
			in.cwd = in.cwd.Parent()
		case strings.HasPrefix(c.Target, trace.Root):
			// Absolute targets, "/" and "//" included, start over from the root
			in.cwd = Root().Join(ParsePath(c.Target))
		default:
			in.cwd = in.cwd.Join(ParsePath(c.Target))
		}
	case trace.List:
		for _, e := range c.Entries {
			if e.Kind != trace.KindFile {
				continue
			}

			in.index.Visit(in.cwd.Join(ParsePath(e.Name)), e.Size)
		}
	}
}

// Interpret replays cmds from the root and returns the resulting index.
func Interpret(cmds []trace.Command) FileIndex {
	in := NewInterpreter()
	for _, cmd := range cmds {
		in.Apply(cmd)
	}

	return in.Index()
}
