// Package pipeline runs the Map, Group and Reduce stages over a set of
// records. Map and Reduce each get a fresh worker pool that is fully
// drained before the next stage starts.
package pipeline

import (
	"context"
	"log"
	"os"
	"time"

	"lettercount/mapreduce/functions"
	"lettercount/mapreduce/types"
)

var logger = log.New(os.Stderr, "[pipeline] ", log.Lmicroseconds)

// Coordinator sequences the three stages. MapFn and ReduceFn must be set;
// NewCoordinator fills in the letter counting functions.
type Coordinator struct {
	MapWorkers    int
	ReduceWorkers int
	MapFn         types.MapFunc
	ReduceFn      types.ReduceFunc
	Logger        *log.Logger
}

// NewCoordinator returns a coordinator that classifies records by leading
// letter and tallies record names per category.
func NewCoordinator(mapWorkers, reduceWorkers int) *Coordinator {
	return &Coordinator{
		MapWorkers:    mapWorkers,
		ReduceWorkers: reduceWorkers,
		MapFn:         functions.LetterMap,
		ReduceFn:      functions.NameReduce,
		Logger:        logger,
	}
}

// Run is shorthand for NewCoordinator(mapPoolSize, reducePoolSize).Run.
func Run(ctx context.Context, records []types.Record, mapPoolSize, reducePoolSize int) (types.OutputTable, error) {
	return NewCoordinator(mapPoolSize, reducePoolSize).Run(ctx, records)
}

// Run executes the pipeline and returns the output table.
func (c *Coordinator) Run(ctx context.Context, records []types.Record) (types.OutputTable, error) {
	out, _, err := c.RunTimed(ctx, records)
	return out, err
}

// RunTimed executes the pipeline and also reports how long each stage took.
// Both pool sizes are checked before any stage starts.
func (c *Coordinator) RunTimed(ctx context.Context, records []types.Record) (types.OutputTable, types.Timings, error) {
	var timings types.Timings
	l := c.logger()
	if err := checkPoolSize("map", c.MapWorkers); err != nil {
		return nil, timings, err
	}
	if err := checkPoolSize("reduce", c.ReduceWorkers); err != nil {
		return nil, timings, err
	}

	start := time.Now()
	l.Printf("map: %d records on %d workers", len(records), c.MapWorkers)
	emissions, err := MapStage(ctx, records, c.MapWorkers, c.MapFn)
	timings.Map = time.Since(start)
	if err != nil {
		l.Printf("map failed after %v: %v", timings.Map, err)
		return nil, timings, err
	}
	l.Printf("map: %d emissions in %v", len(emissions), timings.Map)

	start = time.Now()
	grouped := GroupStage(emissions)
	timings.Group = time.Since(start)
	l.Printf("group: %d categories in %v", len(grouped), timings.Group)

	start = time.Now()
	l.Printf("reduce: %d categories on %d workers", len(grouped), c.ReduceWorkers)
	out, err := ReduceStage(ctx, grouped, c.ReduceWorkers, c.ReduceFn)
	timings.Reduce = time.Since(start)
	if err != nil {
		l.Printf("reduce failed after %v: %v", timings.Reduce, err)
		return nil, timings, err
	}
	l.Printf("reduce: done in %v", timings.Reduce)
	return out, timings, nil
}

func (c *Coordinator) logger() *log.Logger {
	if c.Logger == nil {
		return logger
	}
	return c.Logger
}
