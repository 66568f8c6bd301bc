package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"lettercount/mapreduce/pipeline"
	"lettercount/mapreduce/types"
	"lettercount/report"
)

func TestCheckOptions(t *testing.T) {
	tests := []struct {
		name    string
		opts    options
		wantErr error
	}{
		{"zero threads", options{threads: 0, format: "text", files: []string{"a"}}, pipeline.ErrInvalidPoolSize},
		{"negative reduce", options{threads: 2, reduceThreads: -1, reduceSet: true, format: "text", files: []string{"a"}}, pipeline.ErrInvalidPoolSize},
		{"zero reduce", options{threads: 2, reduceThreads: 0, reduceSet: true, format: "text", files: []string{"a"}}, pipeline.ErrInvalidPoolSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := checkOptions(&tt.opts); !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
		})
	}

	opts := options{threads: 3, format: "text", files: []string{"a"}}
	if err := checkOptions(&opts); err != nil {
		t.Fatal(err)
	}
	if opts.reduceThreads != 3 {
		t.Errorf("reduceThreads defaulted to %d, want 3", opts.reduceThreads)
	}
	for _, bad := range []options{
		{threads: 1, format: "xml", files: []string{"a"}},
		{threads: 1, format: "text"},
	} {
		if err := checkOptions(&bad); err == nil {
			t.Errorf("options %+v accepted", bad)
		}
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.txt")
	os.WriteFile(a, []byte("Apple apple BANANA\n"), 0644)
	os.WriteFile(b, []byte("apple 123\n"), 0644)

	opts := options{
		threads:       2,
		reduceThreads: 2,
		out:           filepath.Join(dir, "DataOut.txt"),
		format:        "text",
		snapshot:      filepath.Join(dir, "out.pb"),
		files:         []string{a, b},
	}
	var stdout bytes.Buffer
	if err := run(context.Background(), opts, &stdout); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stdout.String(), "{A={a.txt=2, b.txt=1}, B={a.txt=1}}") {
		t.Errorf("unexpected report:\n%s", stdout.String())
	}
	written, err := os.ReadFile(opts.out)
	if err != nil {
		t.Fatal(err)
	}
	if string(written) != stdout.String() {
		t.Error("report file differs from stdout")
	}

	f, err := os.Open(opts.snapshot)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	snap, err := report.ReadSnapshot(f)
	if err != nil {
		t.Fatal(err)
	}
	want := types.OutputTable{"A": {"a.txt": 2, "b.txt": 1}, "B": {"a.txt": 1}}
	if !reflect.DeepEqual(snap.Output, want) {
		t.Errorf("snapshot output %v, want %v", snap.Output, want)
	}
}

func TestRunJSON(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.txt")
	os.WriteFile(a, []byte("Apple apple BANANA\n"), 0644)
	os.WriteFile(b, []byte("apple 123\n"), 0644)

	opts := options{
		threads:       2,
		reduceThreads: 2,
		out:           filepath.Join(dir, "DataOut.json"),
		format:        "json",
		files:         []string{a, b},
	}
	var stdout bytes.Buffer
	if err := run(context.Background(), opts, &stdout); err != nil {
		t.Fatal(err)
	}
	written, err := os.ReadFile(opts.out)
	if err != nil {
		t.Fatal(err)
	}
	for name, data := range map[string][]byte{"stdout": stdout.Bytes(), "file": written} {
		var doc struct {
			Output map[string]map[string]int `json:"output"`
		}
		if err := json.Unmarshal(data, &doc); err != nil {
			t.Fatalf("%s is not a JSON document: %v\n%s", name, err, data)
		}
		if doc.Output["A"]["a.txt"] != 2 || doc.Output["A"]["b.txt"] != 1 || doc.Output["B"]["a.txt"] != 1 {
			t.Errorf("%s: unexpected output %v", name, doc.Output)
		}
	}
}

func TestRunMissingFile(t *testing.T) {
	opts := options{threads: 1, reduceThreads: 1, format: "text", files: []string{filepath.Join(t.TempDir(), "missing")}}
	var stdout bytes.Buffer
	if err := run(context.Background(), opts, &stdout); err == nil {
		t.Error("run succeeded with a missing input")
	}
}
