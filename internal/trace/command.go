package trace

import (
	"strconv"
	"strings"
)

const (
	// Parent is the cd target that ascends one level.
	Parent = ".."
	// Root is the cd target that returns to the root directory.
	Root = "/"
)

// Command is a single recorded shell command, either ChangeDirectory or List.
type Command interface {
	command()
}

// ChangeDirectory is a recorded `cd <Target>`.
type ChangeDirectory struct {
	Target string
}

// List is a recorded `ls` together with the entries it printed.
type List struct {
	Entries []Entry
}

func (ChangeDirectory) command() {}
func (List) command()            {}

// EntryKind tells directory entries from file entries in a listing.
type EntryKind uint8

const (
	// KindFile is a regular file with a size.
	KindFile EntryKind = iota
	// KindDir is a subdirectory.
	KindDir
)

func (k EntryKind) String() string {
	if k == KindDir {
		return "dir"
	}

	return "file"
}

// Entry is a single line of `ls` output.
type Entry struct {
	Kind EntryKind
	Name string
	// Size is only meaningful for files.
	Size uint64
}

// Dir returns a directory entry.
func Dir(name string) Entry {
	return Entry{Kind: KindDir, Name: name}
}

// File returns a file entry.
func File(name string, size uint64) Entry {
	return Entry{Kind: KindFile, Name: name, Size: size}
}

// Cd returns a ChangeDirectory command.
func Cd(target string) ChangeDirectory {
	return ChangeDirectory{Target: target}
}

// Ls returns a List command.
func Ls(entries ...Entry) List {
	return List{Entries: entries}
}

// Format renders commands back into the trace grammar accepted by Parse.
func Format(cmds []Command) string {
	var b strings.Builder

	for _, cmd := range cmds {
		switch c := cmd.(type) {
		case ChangeDirectory:
			b.WriteString(prompt + "cd " + c.Target + "\n")
		case List:
			b.WriteString(prompt + "ls\n")

			for _, e := range c.Entries {
				if e.Kind == KindDir {
					b.WriteString(dirPrefix + e.Name + "\n")
				} else {
					b.WriteString(strconv.FormatUint(e.Size, 10) + " " + e.Name + "\n")
				}
			}
		}
	}

	return b.String()
}
