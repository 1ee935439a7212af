// Package trace parses recorded terminal sessions of cd and ls commands into
// typed commands.
//
// A trace looks like:
//
//	$ cd /
//	$ ls
//	dir a
//	14848514 b.txt
//	$ cd a
//	$ ls
//	29116 f
//
// Parsing is all or nothing: a trace with a single malformed line is rejected
// with a *ParseError wrapping ErrMalformedTrace.
package trace
