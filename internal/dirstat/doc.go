// Package dirstat reconstructs directory sizes from a recorded trace of cd
// and ls commands and answers disk-usage questions about them.
//
// An Interpreter replays the commands into a FileIndex of absolute file
// paths, Aggregate credits every file to each of its ancestors, and the
// resulting DirectorySizes answers SumBelow and SmallestAtLeast. Run wraps
// this in trace acquisition: standard input, a single file, or a directory
// of traces discovered with fastwalk.
package dirstat
