package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"lettercount/mapreduce/types"
	"lettercount/mapreduce/workpool"
)

// emissionBatch collects the emissions of concurrent map tasks.
type emissionBatch struct {
	mutex     sync.Mutex
	emissions []types.Emission
}

// mapDone merges the complete output of one task.
func (b *emissionBatch) mapDone(emissions []types.Emission) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.emissions = append(b.emissions, emissions...)
}

// MapStage runs mapFn for every record on a pool of poolSize workers and
// returns the merged emissions once every task has finished. A failed task
// merges nothing; the failures are reported together, wrapped in
// ErrClassification, after all tasks have been awaited.
func MapStage(ctx context.Context, records []types.Record, poolSize int, mapFn types.MapFunc) ([]types.Emission, error) {
	if err := checkPoolSize("map", poolSize); err != nil {
		return nil, err
	}
	pool, err := workpool.New(poolSize)
	if err != nil {
		return nil, err
	}

	batch := &emissionBatch{}
	var submitErr error
	for _, record := range records {
		record := record // per-iteration copy (go<1.22 loopvar semantics)
		submitErr = pool.Submit(ctx, func() error {
			var emissions []types.Emission
			err := runTask("map", record.Name, func() (err error) {
				emissions, err = mapFn(record)
				return err
			})
			if err != nil {
				return err
			}
			batch.mapDone(emissions)
			return nil
		})
		if submitErr != nil {
			break
		}
	}

	// always drain the pool so no task outlives the stage
	taskErr := pool.Wait()
	if taskErr != nil {
		taskErr = fmt.Errorf("%w: %w", ErrClassification, taskErr)
	}
	if submitErr != nil {
		return nil, fmt.Errorf("map stage stopped after %d of %d records: %w", pool.Submitted(), len(records), errors.Join(submitErr, taskErr))
	}
	if taskErr != nil {
		return nil, taskErr
	}
	return batch.emissions, nil
}
