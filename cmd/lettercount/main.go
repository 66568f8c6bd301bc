package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"lettercount/cmd/lettercount/loader"
	"lettercount/mapreduce/pipeline"
	"lettercount/report"
	"lettercount/utils"
)

func printUsage() {
	fmt.Printf(`Usage of %s: %s [OPTIONS] <FILE>...
Counts, for every leading letter, how many words of each file start with it.
Options:
  -threads <number>         Map workers (default: CPUs available to this process).
  -reduceThreads <number>   Reduce workers (default: same as -threads).
  -out <filename>           Also write the report to this file (default DataOut.txt, "" to disable).
  -format <text|json>       Report format (default text).
  -snapshot <filename>      Write a binary protobuf snapshot of the result.
  -h                        Print this help message.
`, os.Args[0], os.Args[0])
}

type options struct {
	threads       int
	reduceThreads int
	reduceSet     bool
	out           string
	format        string
	snapshot      string
	files         []string
}

func checkOptions(opts *options) error {
	if opts.threads < 1 {
		return fmt.Errorf("%w: -threads %d", pipeline.ErrInvalidPoolSize, opts.threads)
	}
	if !opts.reduceSet {
		opts.reduceThreads = opts.threads
	}
	if opts.reduceThreads < 1 {
		return fmt.Errorf("%w: -reduceThreads %d", pipeline.ErrInvalidPoolSize, opts.reduceThreads)
	}
	if opts.format != "text" && opts.format != "json" {
		return fmt.Errorf("unknown format %q", opts.format)
	}
	if len(opts.files) == 0 {
		return errors.New("no input files specified")
	}
	return nil
}

func main() {
	flagSet := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	opts := options{}
	flagSet.IntVar(&opts.threads, "threads", utils.AvailableCPUs(), "Map workers")
	flagSet.IntVar(&opts.reduceThreads, "reduceThreads", 0, "Reduce workers")
	flagSet.StringVar(&opts.out, "out", "DataOut.txt", "Report file")
	flagSet.StringVar(&opts.format, "format", "text", "Report format")
	flagSet.StringVar(&opts.snapshot, "snapshot", "", "Snapshot file")
	flagSet.Usage = printUsage
	flagSet.Parse(os.Args[1:])
	opts.files = flagSet.Args()
	flagSet.Visit(func(f *flag.Flag) {
		if f.Name == "reduceThreads" {
			opts.reduceSet = true
		}
	})
	if err := checkOptions(&opts); err != nil {
		fmt.Println(err)
		printUsage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := run(ctx, opts, os.Stdout); err != nil {
		fmt.Printf("lettercount failed: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, stdout io.Writer) error {
	programStart := time.Now()

	writers := []io.Writer{stdout}
	if opts.out != "" {
		f, err := os.Create(opts.out)
		if err != nil {
			return err
		}
		defer f.Close()
		writers = append(writers, f)
	}
	w := io.MultiWriter(writers...)

	loadStart := time.Now()
	records, err := loader.LoadAll(opts.files)
	if err != nil {
		return err
	}
	loadDuration := time.Since(loadStart)
	// json output must stay a single document
	text := opts.format != "json"
	if text {
		fmt.Fprintf(w, "Time taken for loading data phase : %dms\n", loadDuration.Milliseconds())
	}

	coordinator := pipeline.NewCoordinator(opts.threads, opts.reduceThreads)
	out, timings, err := coordinator.RunTimed(ctx, records)
	if err != nil {
		return err
	}

	reporters := []report.Reporter{}
	switch opts.format {
	case "json":
		reporters = append(reporters, &report.JSONReporter{W: w})
	default:
		reporters = append(reporters, report.NewTextReporter(opts.threads, w))
	}
	if opts.snapshot != "" {
		f, err := os.Create(opts.snapshot)
		if err != nil {
			return err
		}
		defer f.Close()
		reporters = append(reporters, &report.SnapshotReporter{W: f})
	}
	for _, r := range reporters {
		if err := r.Report(out, timings); err != nil {
			return err
		}
	}

	if text {
		fmt.Fprintf(w, "Time taken entire program to execute: %dms\n", time.Since(programStart).Milliseconds())
	}
	return nil
}
