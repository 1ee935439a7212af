package trace

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	prompt    = "$ "
	dirPrefix = "dir "
)

// ErrMalformedTrace is wrapped by every ParseError.
var ErrMalformedTrace = errors.New("malformed trace")

// ParseError reports the first line that does not fit the trace grammar.
type ParseError struct {
	// Line is the 1-based line number.
	Line int
	// Text is the offending line.
	Text string
	// Reason describes what is wrong with it.
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: line %d: %s: %q", ErrMalformedTrace, e.Line, e.Reason, e.Text)
}

func (e *ParseError) Unwrap() error {
	return ErrMalformedTrace
}

// Parse reads a recorded terminal session and returns its commands in order.
//
// Lines starting with "$ " are commands (cd or ls), every other non-blank
// line is an entry of the most recent ls. The whole trace is rejected on the
// first line that does not fit.
func Parse(r io.Reader) ([]Command, error) {
	var (
		cmds    []Command
		listing *List
		lineNum int
	)

	flush := func() {
		if listing != nil {
			cmds = append(cmds, *listing)
			listing = nil
		}
	}

	scanner := bufio.NewScanner(r)
	// Long file names can exceed the default token size
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		lineNum++
		line := strings.TrimRight(scanner.Text(), "\r")

		if strings.TrimSpace(line) == "" {
			continue
		}

		fail := func(reason string) error {
			return &ParseError{Line: lineNum, Text: line, Reason: reason}
		}

		if cmdLine, ok := strings.CutPrefix(line, prompt); ok {
			flush()

			name, arg, _ := strings.Cut(strings.TrimSpace(cmdLine), " ")
			arg = strings.TrimSpace(arg)

			switch name {
			case "cd":
				if arg == "" {
					return nil, fail("cd without a target")
				}

				if arg != Parent && hasRelativeSegment(arg) {
					return nil, fail("cd target with . or .. segments")
				}

				cmds = append(cmds, Cd(arg))
			case "ls":
				if arg != "" {
					return nil, fail("ls does not take arguments")
				}

				listing = &List{}
			default:
				return nil, fail("unknown command")
			}

			continue
		}

		if listing == nil {
			return nil, fail("entry outside of a listing")
		}

		entry, reason := parseEntry(line)
		if reason != "" {
			return nil, fail(reason)
		}

		listing.Entries = append(listing.Entries, entry)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	flush()

	return cmds, nil
}

// ParseString parses a trace held in memory.
func ParseString(s string) ([]Command, error) {
	return Parse(strings.NewReader(s))
}

// parseEntry returns the entry on the line, or a non-empty reason.
func parseEntry(line string) (Entry, string) {
	if name, ok := strings.CutPrefix(line, dirPrefix); ok {
		if name == "" {
			return Entry{}, "directory entry without a name"
		}

		if reason := checkEntryName(name); reason != "" {
			return Entry{}, reason
		}

		return Dir(name), ""
	}

	sizeStr, name, ok := strings.Cut(line, " ")
	if !ok || name == "" {
		return Entry{}, "file entry without a name"
	}

	size, err := strconv.ParseUint(sizeStr, 10, 64)
	if err != nil {
		return Entry{}, "invalid file size"
	}

	if reason := checkEntryName(name); reason != "" {
		return Entry{}, reason
	}

	return File(name, size), ""
}

// checkEntryName rejects names that do not denote a single child of the
// listed directory.
func checkEntryName(name string) string {
	switch {
	case strings.Contains(name, Root):
		return "entry name contains a separator"
	case name == "." || name == Parent:
		return "entry name is . or .."
	}

	return ""
}

// hasRelativeSegment reports whether a cd target contains "." or ".." segments.
func hasRelativeSegment(target string) bool {
	for _, segment := range strings.Split(target, Root) {
		if segment == "." || segment == Parent {
			return true
		}
	}

	return false
}
