package types

import "time"

// Record is one named unit of input text. It is not modified once handed
// to the pipeline.
type Record struct {
	Name    string
	Content string
}

// Emission is a (category, record name) pair produced by the map stage.
// Category is a single uppercase letter.
type Emission struct {
	Category string
	Name     string
}

// GroupTable maps a category to the names of the records that emitted it,
// one entry per emission.
type GroupTable map[string][]string

// Tally counts how many times each record name appears in one category.
type Tally map[string]int

// OutputTable maps a category to its tally.
type OutputTable map[string]Tally

// Timings holds the wall clock spent in each stage of one run.
type Timings struct {
	Map    time.Duration
	Group  time.Duration
	Reduce time.Duration
}

// Total returns the sum of all stage durations.
func (t Timings) Total() time.Duration {
	return t.Map + t.Group + t.Reduce
}

// MapFunc turns one record into its emissions.
type MapFunc func(record Record) ([]Emission, error)

// ReduceFunc tallies the record names collected for one category.
type ReduceFunc func(category string, names []string) (Tally, error)
