package dirstat

import (
	"io"
	"sort"
	"sync"
	"time"

	"github.com/idelchi/dutrace/internal/trace"
)

const (
	// DefaultThreshold is the size below which directories are summed.
	DefaultThreshold = 100_000
	// DefaultCapacity is the total size of the traced disk.
	DefaultCapacity = 70_000_000
	// DefaultGoal is the free space that must be available after deletion.
	DefaultGoal = 30_000_000
	// DefaultTopN is the number of largest directories reported.
	DefaultTopN = 10
)

// FileStat represents a single directory path and size.
type FileStat struct {
	// Path is the directory path.
	Path string `json:"path"`
	// Size is the size in bytes.
	Size uint64 `json:"size"`
}

// Stats holds the results of analyzing one trace.
type Stats struct {
	// Source is the trace file, or "-" for standard input.
	Source string `json:"source"`
	// CommandCount is the number of commands in the trace.
	CommandCount int `json:"command_count"`
	// FileCount is the number of distinct files.
	FileCount int `json:"file_count"`
	// DirCount is the number of directories with at least one file below them.
	DirCount int `json:"dir_count"`
	// TotalBytes is the size of the root directory, the used space.
	TotalBytes uint64 `json:"total_bytes"`
	// Threshold is the upper bound (exclusive) for SumBelow.
	Threshold uint64 `json:"threshold"`
	// SumBelow is the sum of all directory sizes below Threshold.
	SumBelow uint64 `json:"sum_below"`
	// Capacity is the total disk size.
	Capacity uint64 `json:"capacity"`
	// Goal is the required free space.
	Goal uint64 `json:"goal"`
	// FreeBytes is the free space before any deletion.
	FreeBytes uint64 `json:"free_bytes"`
	// RequiredBytes is how much must be deleted to reach Goal.
	RequiredBytes uint64 `json:"required_bytes"`
	// CandidateFound reports whether a directory large enough exists.
	CandidateFound bool `json:"candidate_found"`
	// Candidate is the smallest directory freeing RequiredBytes, nil if none.
	Candidate *FileStat `json:"candidate,omitempty"`
	// TopDirs contains the N largest directories, smallest first.
	TopDirs []FileStat `json:"top_dirs"`
	// Elapsed is the time taken to read and analyze the trace.
	Elapsed time.Duration `json:"elapsed"`
	// TopN is the number of top results tracked.
	TopN int `json:"top_n"`
}

// Query holds the parameters of the disk-usage questions.
type Query struct {
	// Threshold is the exclusive upper bound for summed directories.
	Threshold uint64
	// Capacity is the total disk size.
	Capacity uint64
	// Goal is the free space required after deleting one directory.
	Goal uint64
	// TopN is the number of largest directories to report.
	TopN int
	// MinSize hides smaller directories from the top list.
	MinSize uint64
}

// DefaultQuery returns the query used when nothing is configured.
func DefaultQuery() Query {
	return Query{
		Threshold: DefaultThreshold,
		Capacity:  DefaultCapacity,
		Goal:      DefaultGoal,
		TopN:      DefaultTopN,
	}
}

// Options configures trace discovery and analysis.
type Options struct {
	Query

	// Path is a trace file, a directory of trace files, or "-" for stdin.
	Path string
	// Stdin is read when Path is "-". Defaults to os.Stdin.
	Stdin io.Reader
	// Extensions of trace files to include when Path is a directory (empty = all).
	Extensions []string
	// Excludes contains regex patterns to exclude while discovering traces.
	Excludes []string
	// Depth is the maximum discovery depth (0=unlimited).
	Depth int
	// ProgressInterval controls progress callback cadence.
	ProgressInterval time.Duration
	// Debug indicates whether debug output is enabled.
	Debug bool
}

// Analyze replays cmds and answers q over the reconstructed tree.
func Analyze(cmds []trace.Command, q Query) *Stats {
	if q.TopN <= 0 {
		q.TopN = DefaultTopN
	}

	index := Interpret(cmds)
	sizes := Aggregate(index)
	used := sizes.Used()

	stats := &Stats{
		CommandCount:  len(cmds),
		FileCount:     len(index),
		DirCount:      len(sizes),
		TotalBytes:    used,
		Threshold:     q.Threshold,
		SumBelow:      sizes.SumBelow(q.Threshold),
		Capacity:      q.Capacity,
		Goal:          q.Goal,
		RequiredBytes: RequiredFreeSpace(q.Capacity, q.Goal, used),
		TopDirs:       topDirectories(sizes, q.TopN, q.MinSize),
		TopN:          q.TopN,
	}

	if q.Capacity > used {
		stats.FreeBytes = q.Capacity - used
	}

	if dir, size, err := sizes.SmallestAtLeast(stats.RequiredBytes); err == nil {
		stats.CandidateFound = true
		stats.Candidate = &FileStat{Path: dir.String(), Size: size}
	}

	return stats
}

// topDirectories returns the n largest directories, reversed for display so
// the largest comes last.
func topDirectories(sizes DirectorySizes, n int, minSize uint64) []FileStat {
	dirs := make([]FileStat, 0, len(sizes))

	for dir, size := range sizes {
		if size < minSize {
			continue
		}

		dirs = append(dirs, FileStat{Path: dir.String(), Size: size})
	}

	// Sort by size (largest first, then by path) and trim to top N
	sort.Slice(dirs, func(i, j int) bool {
		if dirs[i].Size != dirs[j].Size {
			return dirs[i].Size > dirs[j].Size
		}

		return dirs[i].Path < dirs[j].Path
	})

	if len(dirs) > n {
		dirs = dirs[:n]
	}

	// Reverse for display (smallest first, displayed in reverse)
	for i, j := 0, len(dirs)-1; i < j; i, j = i+1, j-1 {
		dirs[i], dirs[j] = dirs[j], dirs[i]
	}

	return dirs
}

// counter tracks how much of the input has been read. The progress reporter
// reads it from another goroutine.
type counter struct {
	mu    sync.Mutex // Protect concurrent access
	lines int64
	bytes int64
}

// add records bytes read, of which lines were newlines.
func (c *counter) add(bytes, lines int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.bytes += bytes
	c.lines += lines
}

// snapshot returns the current line and byte counts.
func (c *counter) snapshot() (int64, int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.lines, c.bytes
}
