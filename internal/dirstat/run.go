package dirstat

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charlievieth/fastwalk"
	"go.uber.org/zap"

	"github.com/idelchi/dutrace/internal/trace"
)

// DefaultProgressInterval is the default interval for progress updates.
const DefaultProgressInterval = 500 * time.Millisecond

// Stdin is the Path that selects standard input.
const Stdin = "-"

// NewLogger returns a debug logger writing to stderr, or a no-op logger if
// enabled is false.
func NewLogger(enabled bool) *zap.SugaredLogger {
	if !enabled {
		return zap.NewNop().Sugar()
	}

	config := zap.NewDevelopmentConfig()
	config.DisableStacktrace = true
	config.EncoderConfig.TimeKey = ""

	logger, err := config.Build()
	if err != nil {
		return zap.NewNop().Sugar()
	}

	return logger.Sugar()
}

// calculateDepth returns the depth of a path relative to the root.
func calculateDepth(path, root string) int {
	relPath := strings.TrimPrefix(path, root)

	relPath = strings.TrimPrefix(relPath, string(filepath.Separator))
	if relPath == "" {
		return 0
	}

	return strings.Count(relPath, string(filepath.Separator)) + 1
}

// shouldExcludeByPattern checks if path matches any exclusion regex.
func shouldExcludeByPattern(path string, patterns []*regexp.Regexp) *regexp.Regexp {
	if len(patterns) == 0 {
		return nil
	}

	fPath := filepath.ToSlash(path)

	for _, re := range patterns {
		if re.MatchString(fPath) {
			return re
		}
	}

	return nil
}

// shouldIncludeByExtension checks if file should be included based on extension filters.
// Returns true if file should be included, false if excluded.
func shouldIncludeByExtension(path string, include, exclude map[string]struct{}) bool {
	// Check excludes first
	for ext := range exclude {
		if strings.HasSuffix(path, ext) {
			return false
		}
	}
	// If no include filter, include all
	if len(include) == 0 {
		return true
	}
	// Check includes
	for ext := range include {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}

	return false
}

// splitExtensions separates include suffixes from '!'-prefixed exclude suffixes.
func splitExtensions(extensions []string) (map[string]struct{}, map[string]struct{}) {
	include := make(map[string]struct{}, len(extensions))
	exclude := make(map[string]struct{}, len(extensions))

	for _, e := range extensions { //nolint:varnamelen // e is standard for element in range
		e = strings.Trim(e, "'\"") // Strip quotes first

		if strings.HasPrefix(e, "!") {
			exclude[strings.TrimPrefix(e, "!")] = struct{}{}
		} else {
			include[e] = struct{}{}
		}
	}

	return include, exclude
}

// startProgressReporter invokes hook(lines, bytes) on each tick until ctx is done.
//
//nolint:varnamelen // c is idiomatic for counter
func startProgressReporter(ctx context.Context, c *counter, hook func(int64, int64), interval time.Duration) {
	if hook == nil {
		return
	}

	if interval <= 0 {
		interval = DefaultProgressInterval
	}

	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				hook(c.snapshot())
			case <-ctx.Done():
				return
			}
		}
	}()
}

// countingReader feeds the progress counter and stops reading once ctx is done.
type countingReader struct {
	ctx     context.Context //nolint:containedctx // Checked on every read
	reader  io.Reader
	counter *counter
}

func (r *countingReader) Read(p []byte) (int, error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}

	n, err := r.reader.Read(p)
	r.counter.add(int64(n), int64(bytes.Count(p[:n], []byte{'\n'})))

	return n, err
}

// Run reads one or more traces and returns the analysis of each.
//
// opt.Path may be "-" (or empty) for standard input, a single trace file,
// or a directory. Directories are walked for trace files, filtered by
// opt.Extensions, opt.Excludes and opt.Depth, and every match is analyzed
// on its own, in path order.
//
// Reading can be cancelled via ctx. Progress updates are sent to
// progressHook if provided.
func Run(ctx context.Context, opt Options, progressHook func(int64, int64)) ([]*Stats, error) {
	log := NewLogger(opt.Debug)
	defer func() { _ = log.Sync() }()

	if opt.Path == "" {
		opt.Path = Stdin
	}

	if opt.Stdin == nil {
		opt.Stdin = os.Stdin
	}

	progress := &counter{}

	// Create child context to ensure progress reporter cleanup
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	startProgressReporter(ctx, progress, progressHook, opt.ProgressInterval)

	if opt.Path == Stdin {
		stats, err := analyzeReader(ctx, opt.Stdin, Stdin, opt.Query, progress, log)
		if err != nil {
			return nil, err
		}

		return []*Stats{stats}, nil
	}

	// Normalize to native format to handle both C:/Path and C:\Path inputs
	opt.Path = filepath.Clean(opt.Path)

	statInfo, err := os.Stat(opt.Path)
	if err != nil {
		return nil, fmt.Errorf("accessing path %q: %w", opt.Path, err)
	}

	sources := []string{opt.Path}

	if statInfo.IsDir() {
		sources, err = discover(ctx, opt, log)
		if err != nil {
			return nil, err
		}

		if len(sources) == 0 {
			return nil, fmt.Errorf("no trace files found in %q", opt.Path)
		}
	}

	results := make([]*Stats, 0, len(sources))

	for _, source := range sources {
		stats, err := analyzeFile(ctx, source, opt.Query, progress, log)
		if err != nil {
			return nil, err
		}

		results = append(results, stats)
	}

	return results, nil
}

func analyzeFile(ctx context.Context, path string, q Query, progress *counter, log *zap.SugaredLogger) (*Stats, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening trace %q: %w", path, err)
	}
	defer file.Close()

	return analyzeReader(ctx, file, filepath.ToSlash(path), q, progress, log)
}

// analyzeReader parses the complete trace before interpreting any of it,
// so a malformed trace never yields partial results.
func analyzeReader(
	ctx context.Context,
	reader io.Reader,
	source string,
	q Query,
	progress *counter,
	log *zap.SugaredLogger,
) (*Stats, error) {
	start := time.Now()

	cmds, err := trace.Parse(&countingReader{ctx: ctx, reader: reader, counter: progress})
	if err != nil {
		return nil, fmt.Errorf("parsing trace %q: %w", source, err)
	}

	log.Debugw("parsed trace", "source", source, "commands", len(cmds))

	stats := Analyze(cmds, q)
	stats.Source = source
	stats.Elapsed = time.Since(start)

	log.Debugw("analyzed trace",
		"source", source,
		"files", stats.FileCount,
		"directories", stats.DirCount,
		"used", stats.TotalBytes,
		"required", stats.RequiredBytes,
	)

	return stats, nil
}

// discover walks opt.Path with fastwalk and returns the matching trace files, sorted.
//
//nolint:gocognit // Walk callback mirrors the filter order
func discover(ctx context.Context, opt Options, log *zap.SugaredLogger) ([]string, error) {
	extInclude, extExclude := splitExtensions(opt.Extensions)

	excludeRegexes := make([]*regexp.Regexp, 0, len(opt.Excludes))

	for _, p := range opt.Excludes {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compiling exclusion pattern %q: %w", p, err)
		}

		excludeRegexes = append(excludeRegexes, re)
	}

	log.Debugw("discovering traces",
		"root", opt.Path,
		"include", keys(extInclude),
		"exclude", keys(extExclude),
		"patterns", opt.Excludes,
		"depth", opt.Depth,
	)

	var (
		mu    sync.Mutex
		found []string
	)

	// Configure fastwalk
	conf := &fastwalk.Config{
		Follow: false, // Don't follow symlinks
	}

	// Walk directory with fastwalk (parallel traversal)
	//nolint:varnamelen // d is standard for DirEntry
	walkErr := fastwalk.Walk(conf, opt.Path, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Debugw("error accessing path", "path", path, "error", err)

			return nil // Silently skip errors
		}

		// Check cancellation periodically
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if currentDepth := calculateDepth(path, opt.Path); opt.Depth > 0 && currentDepth > opt.Depth {
			if d.IsDir() {
				log.Debugw("skipping directory beyond depth", "path", path, "depth", opt.Depth)

				return filepath.SkipDir
			}

			return nil
		}

		if matchedPattern := shouldExcludeByPattern(path, excludeRegexes); matchedPattern != nil {
			log.Debugw("excluding path", "path", filepath.ToSlash(path), "pattern", matchedPattern.String())

			if d.IsDir() {
				return filepath.SkipDir
			}

			return nil
		}

		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}

		if !shouldIncludeByExtension(path, extInclude, extExclude) {
			log.Debugw("excluding file (extension filter)", "path", path)

			return nil
		}

		mu.Lock()
		found = append(found, path)
		mu.Unlock()

		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	sort.Strings(found)

	return found, nil
}

func keys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}

	sort.Strings(out)

	return out
}
