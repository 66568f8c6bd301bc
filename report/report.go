// Package report renders the output of a pipeline run.
package report

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"lettercount/mapreduce/types"
)

// Reporter receives the final output table and the stage timings of one
// run. Implementations must not modify the table.
type Reporter interface {
	Report(out types.OutputTable, timings types.Timings) error
}

// TextReporter prints the run as plain text, to every writer at once.
type TextReporter struct {
	Threads int
	writer  io.Writer
}

// NewTextReporter creates a TextReporter writing to all of writers.
func NewTextReporter(threads int, writers ...io.Writer) *TextReporter {
	return &TextReporter{
		Threads: threads,
		writer:  io.MultiWriter(writers...),
	}
}

func (r *TextReporter) Report(out types.OutputTable, timings types.Timings) error {
	_, err := fmt.Fprintf(r.writer,
		"Number of threads: %d\n"+
			"Time taken for mapping phase : %dms\n"+
			"Time taken for grouping phase : %dms\n"+
			"Time taken for threadpool to be set up and reduce phase to execute: %dms\n"+
			"%s\n",
		r.Threads,
		timings.Map.Milliseconds(),
		timings.Group.Milliseconds(),
		timings.Reduce.Milliseconds(),
		FormatOutput(out))
	return err
}

// FormatOutput renders the table as {A={a.txt=2, b.txt=1}, B={a.txt=1}}
// with categories and record names sorted.
func FormatOutput(out types.OutputTable) string {
	var buf strings.Builder
	buf.WriteByte('{')
	for i, category := range sortedKeys(out) {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(category)
		buf.WriteString("={")
		tally := out[category]
		for j, name := range sortedKeys(tally) {
			if j > 0 {
				buf.WriteString(", ")
			}
			fmt.Fprintf(&buf, "%s=%d", name, tally[name])
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return buf.String()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
