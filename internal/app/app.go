// internal/app/app.go
package app

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"shaccel-core/accel"
	"shaccel/internal/cli"
	"shaccel/internal/pipeline"
	"shaccel/internal/version"
	"shaccel/internal/writers"
)

// RunContext parses argv, hashes every requested input through the
// simulated accelerator, and writes digests to stdout. Exit codes: 0 ok,
// 2 usage or input error, 3 output error, 130 cancelled.
func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)
	defer func() { _ = outw.Flush() }()

	fs := cli.NewFlagSet("shaccel")
	fs.SetOutput(io.Discard)

	opts, err := cli.ParseArgs(fs, argv)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fs.SetOutput(outw)
			fs.Usage()
			if e := outw.Flush(); writers.IsBrokenPipe(e) {
				return 0
			} else if e != nil {
				_, _ = fmt.Fprintln(stderr, e)
				return 3
			}
			return 0
		}
		_, _ = fmt.Fprintln(stderr, err)
		fs.SetOutput(outw)
		fs.Usage()
		_ = outw.Flush()
		return 2
	}

	if opts.Version {
		_, _ = fmt.Fprintf(outw, "shaccel version %s\n", version.Version)
		if e := outw.Flush(); writers.IsBrokenPipe(e) {
			return 0
		} else if e != nil {
			_, _ = fmt.Fprintln(stderr, e)
			return 3
		}
		return 0
	}

	jobs, err := gatherJobs(opts)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 2
	}

	engines := []int{0, 1}
	if opts.Engine >= 0 {
		engines = []int{opts.Engine}
	}

	acc := accel.New(accel.Config{})

	wch, werrCh := writers.StartReportWriter(outw, opts.Output, opts.Header, 64)
	runErr := pipeline.ForEachDigest(parent, acc, engines, jobs, func(r pipeline.Result) error {
		wch <- r
		return nil
	})
	close(wch)
	werr := <-werrCh

	if opts.Stats {
		for _, e := range engines {
			f := acc.Instance(e)
			_, _ = fmt.Fprintf(stderr, "instance %d: runs=%d ticks=%d\n",
				e, f.Completions(), f.Ticks())
		}
	}

	if runErr != nil {
		if errors.Is(runErr, context.Canceled) {
			return 130
		}
		_, _ = fmt.Fprintln(stderr, runErr)
		return 2
	}
	if e := outw.Flush(); e != nil && !writers.IsBrokenPipe(e) {
		_, _ = fmt.Fprintln(stderr, e)
		return 3
	}
	if werr != nil && !writers.IsBrokenPipe(werr) {
		_, _ = fmt.Fprintln(stderr, werr)
		return 3
	}
	return 0
}

// Run is RunContext with a background context.
func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

func gatherJobs(opts cli.Options) ([]pipeline.Job, error) {
	var jobs []pipeline.Job
	for _, t := range opts.Texts {
		jobs = append(jobs, pipeline.Job{Index: len(jobs), Name: t, Data: []byte(t)})
	}
	for _, f := range opts.Files {
		var (
			data []byte
			err  error
		)
		if f == "-" {
			data, err = io.ReadAll(os.Stdin)
		} else {
			data, err = os.ReadFile(f)
		}
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, pipeline.Job{Index: len(jobs), Name: f, Data: data})
	}
	return jobs, nil
}
