package report

import (
	"errors"
	"fmt"
	"io"
	"time"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/timestamppb"

	"lettercount/mapreduce/types"
	"lettercount/wire"
)

// OutputToStruct converts the output table to a protobuf Struct keyed by
// category, each value a Struct of record name to count.
func OutputToStruct(out types.OutputTable) (*structpb.Struct, error) {
	fields := make(map[string]any, len(out))
	for category, tally := range out {
		counts := make(map[string]any, len(tally))
		for name, n := range tally {
			counts[name] = n
		}
		fields[category] = counts
	}
	return structpb.NewStruct(fields)
}

// StructToOutput is the inverse of OutputToStruct.
func StructToOutput(st *structpb.Struct) (types.OutputTable, error) {
	out := make(types.OutputTable, len(st.GetFields()))
	for category, v := range st.GetFields() {
		counts := v.GetStructValue()
		if counts == nil {
			return nil, fmt.Errorf("category %q: not a struct", category)
		}
		tally := make(types.Tally, len(counts.GetFields()))
		for name, n := range counts.GetFields() {
			if _, ok := n.GetKind().(*structpb.Value_NumberValue); !ok {
				return nil, fmt.Errorf("category %q, record %q: not a number", category, name)
			}
			tally[name] = int(n.GetNumberValue())
		}
		out[category] = tally
	}
	return out, nil
}

// JSONReporter writes the output table and the stage timings as JSON.
type JSONReporter struct {
	W io.Writer
}

func (r *JSONReporter) Report(out types.OutputTable, timings types.Timings) error {
	output, err := OutputToStruct(out)
	if err != nil {
		return err
	}
	doc := &structpb.Struct{Fields: map[string]*structpb.Value{
		"output": structpb.NewStructValue(output),
		"timings": structpb.NewStructValue(&structpb.Struct{Fields: map[string]*structpb.Value{
			"map":    structpb.NewStringValue(timings.Map.String()),
			"group":  structpb.NewStringValue(timings.Group.String()),
			"reduce": structpb.NewStringValue(timings.Reduce.String()),
		}}),
	}}
	bytes, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(doc)
	if err != nil {
		return err
	}
	bytes = append(bytes, '\n')
	_, err = r.W.Write(bytes)
	return err
}

// Snapshot is a run result read back from a snapshot stream.
type Snapshot struct {
	CreatedAt time.Time
	Output    types.OutputTable
	Timings   types.Timings
}

// SnapshotReporter writes a binary snapshot: a timestamp, the output table
// and the map, group and reduce durations, each as one wire frame.
type SnapshotReporter struct {
	W   io.Writer
	Now func() time.Time
}

func (r *SnapshotReporter) Report(out types.OutputTable, timings types.Timings) error {
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	output, err := OutputToStruct(out)
	if err != nil {
		return err
	}
	if err := wire.Send(r.W, timestamppb.New(now())); err != nil {
		return err
	}
	if err := wire.Send(r.W, output); err != nil {
		return err
	}
	for _, d := range []time.Duration{timings.Map, timings.Group, timings.Reduce} {
		if err := wire.Send(r.W, durationpb.New(d)); err != nil {
			return err
		}
	}
	return nil
}

var ErrBadSnapshot = errors.New("malformed snapshot")

// ReadSnapshot reads a snapshot written by SnapshotReporter.
func ReadSnapshot(r io.Reader) (*Snapshot, error) {
	msg, err := wire.Receive(r)
	if err != nil {
		return nil, err
	}
	ts, ok := msg.(*timestamppb.Timestamp)
	if !ok {
		return nil, fmt.Errorf("%w: expected timestamp, got %T", ErrBadSnapshot, msg)
	}
	msg, err = wire.Receive(r)
	if err != nil {
		return nil, err
	}
	st, ok := msg.(*structpb.Struct)
	if !ok {
		return nil, fmt.Errorf("%w: expected struct, got %T", ErrBadSnapshot, msg)
	}
	out, err := StructToOutput(st)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadSnapshot, err)
	}
	var durations [3]time.Duration
	for i := range durations {
		msg, err = wire.Receive(r)
		if err != nil {
			return nil, err
		}
		d, ok := msg.(*durationpb.Duration)
		if !ok {
			return nil, fmt.Errorf("%w: expected duration, got %T", ErrBadSnapshot, msg)
		}
		durations[i] = d.AsDuration()
	}
	return &Snapshot{
		CreatedAt: ts.AsTime(),
		Output:    out,
		Timings:   types.Timings{Map: durations[0], Group: durations[1], Reduce: durations[2]},
	}, nil
}
