package pipeline

import "lettercount/mapreduce/types"

// GroupStage builds the group table from a finished emission batch.
func GroupStage(emissions []types.Emission) types.GroupTable {
	grouped := make(types.GroupTable)
	for _, e := range emissions {
		grouped[e.Category] = append(grouped[e.Category], e.Name)
	}
	return grouped
}
