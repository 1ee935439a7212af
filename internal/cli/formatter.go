package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/idelchi/dutrace/internal/dirstat"
)

const (
	// TabSpacing is the number of spaces between tabwriter columns.
	TabSpacing = 2
)

//nolint:gochecknoglobals // Style constant
var headingStyle = lipgloss.NewStyle().Bold(true)

// PrintJSON outputs the statistics of every trace as a JSON array.
func PrintJSON(stats []*dirstat.Stats, writer io.Writer) error {
	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}

	if _, err := fmt.Fprintln(writer, string(data)); err != nil {
		return err
	}

	return nil
}

// PrintTable outputs statistics in human-readable table format.
// Headings are bold when styled is set.
func PrintTable(stats []*dirstat.Stats, writer io.Writer, styled bool) error {
	w := tabwriter.NewWriter(writer, 0, 4, TabSpacing, ' ', 0)

	heading := func(title string) {
		if styled {
			title = headingStyle.Render(title)
		}

		fmt.Fprintf(w, "\n%s\t\t\n", title)
	}

	for _, s := range stats {
		if len(stats) > 1 {
			heading(fmt.Sprintf("Trace '%s':", s.Source))
		}

		heading("Top directories:")

		for i, dir := range s.TopDirs {
			fmt.Fprintf(w, "  %d) '%s'\t%s (%.1f%%)\n",
				len(s.TopDirs)-i, dir.Path, humanize.IBytes(dir.Size), percent(dir.Size, s.TotalBytes))
		}

		heading("Disk usage:")
		fmt.Fprintf(w, "Below %s:\t%s\n", humanize.Comma(int64(s.Threshold)), formatSize(s.SumBelow)) //nolint:gosec // Fits
		fmt.Fprintf(w, "Used:\t%s of %s\n", formatSize(s.TotalBytes), formatSize(s.Capacity))
		fmt.Fprintf(w, "Free:\t%s (goal %s)\n", formatSize(s.FreeBytes), formatSize(s.Goal))
		fmt.Fprintf(w, "Required:\t%s\n", formatSize(s.RequiredBytes))

		if s.Candidate != nil {
			fmt.Fprintf(w, "Delete:\t'%s' %s\n", s.Candidate.Path, formatSize(s.Candidate.Size))
		} else {
			fmt.Fprintf(w, "Delete:\tno directory is large enough\n")
		}

		heading("Stats:")
		fmt.Fprintf(w, "Commands:\t%d\n", s.CommandCount)
		fmt.Fprintf(w, "Files:\t%d\n", s.FileCount)
		fmt.Fprintf(w, "Directories:\t%d\n", s.DirCount)
		fmt.Fprintf(w, "\nElapsed:\t%v\n", s.Elapsed)
	}

	return w.Flush()
}

// formatSize renders a size as an exact count followed by its IEC form.
func formatSize(size uint64) string {
	return fmt.Sprintf("%s (%s)", humanize.Comma(int64(size)), humanize.IBytes(size)) //nolint:gosec // Fits
}

func percent(part, total uint64) float64 {
	if total == 0 {
		return 0
	}

	return 100.0 * float64(part) / float64(total)
}
