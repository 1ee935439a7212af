package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/dutrace/internal/dirstat"
)

func sampleStats() []*dirstat.Stats {
	return []*dirstat.Stats{
		{
			Source:         "one.log",
			CommandCount:   5,
			FileCount:      2,
			DirCount:       3,
			TotalBytes:     30,
			Threshold:      15,
			SumBelow:       10,
			Capacity:       40,
			Goal:           25,
			FreeBytes:      10,
			RequiredBytes:  15,
			CandidateFound: true,
			Candidate:      &dirstat.FileStat{Path: "/b", Size: 20},
			TopDirs:        []dirstat.FileStat{{Path: "/a", Size: 10}, {Path: "/b", Size: 20}, {Path: "/", Size: 30}},
			TopN:           10,
		},
		{
			Source:        "two.log",
			TotalBytes:    30,
			Capacity:      40,
			Goal:          1000,
			RequiredBytes: 990,
			TopDirs:       []dirstat.FileStat{},
			TopN:          10,
		},
	}
}

func TestPrintTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintTable(sampleStats(), &buf, false))

	out := buf.String()

	assert.Contains(t, out, "Trace 'one.log':")
	assert.Contains(t, out, "Trace 'two.log':")
	assert.Contains(t, out, "3) '/a'")
	assert.Contains(t, out, "1) '/'")
	assert.Contains(t, out, "(33.3%)")
	assert.Contains(t, out, "'/b' 20 (20 B)")
	assert.Contains(t, out, "no directory is large enough")
	assert.Equal(t, 2, strings.Count(out, "Top directories:"))
}

func TestPrintTable_SingleTraceHasNoTraceHeading(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintTable(sampleStats()[:1], &buf, false))

	assert.NotContains(t, buf.String(), "Trace '")
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintJSON(sampleStats(), &buf))

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)

	assert.Equal(t, "one.log", decoded[0]["source"])
	assert.Equal(t, true, decoded[0]["candidate_found"])
	assert.Contains(t, decoded[0], "candidate")
	assert.Equal(t, false, decoded[1]["candidate_found"])
	assert.NotContains(t, decoded[1], "candidate")
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "1,536 (1.5 KiB)", formatSize(1536))
	assert.Equal(t, "0 (0 B)", formatSize(0))
}
