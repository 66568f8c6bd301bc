package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"lettercount/mapreduce/types"
	"lettercount/mapreduce/workpool"
)

// outputTable collects the tallies of concurrent reduce tasks.
type outputTable struct {
	mutex  sync.Mutex
	output types.OutputTable
}

func (o *outputTable) reduceDone(category string, tally types.Tally) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.output[category] = tally
}

// ReduceStage runs reduceFn for every category of grouped on a pool of
// poolSize workers and returns the output table once every task has
// finished. Failures are wrapped in ErrTally.
func ReduceStage(ctx context.Context, grouped types.GroupTable, poolSize int, reduceFn types.ReduceFunc) (types.OutputTable, error) {
	if err := checkPoolSize("reduce", poolSize); err != nil {
		return nil, err
	}
	pool, err := workpool.New(poolSize)
	if err != nil {
		return nil, err
	}

	out := &outputTable{output: make(types.OutputTable, len(grouped))}
	var submitErr error
	for category, names := range grouped {
		category, names := category, names // per-iteration copy (go<1.22 loopvar semantics)
		submitErr = pool.Submit(ctx, func() error {
			var tally types.Tally
			err := runTask("reduce", category, func() (err error) {
				tally, err = reduceFn(category, names)
				return err
			})
			if err != nil {
				return err
			}
			out.reduceDone(category, tally)
			return nil
		})
		if submitErr != nil {
			break
		}
	}

	taskErr := pool.Wait()
	if taskErr != nil {
		taskErr = fmt.Errorf("%w: %w", ErrTally, taskErr)
	}
	if submitErr != nil {
		return nil, fmt.Errorf("reduce stage stopped after %d of %d categories: %w", pool.Submitted(), len(grouped), errors.Join(submitErr, taskErr))
	}
	if taskErr != nil {
		return nil, taskErr
	}
	return out.output, nil
}
