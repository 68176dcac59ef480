// internal/writers/writers.go

// Package writers turns digest results into serialized outputs. Writers own
// all presentation knowledge; the pipeline stays orchestration-only and the
// core stays domain-only. JSON goes through pkg/api for a stable wire
// format.
package writers

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"syscall"

	"shaccel/internal/pipeline"
	"shaccel/pkg/api"
)

// IsBrokenPipe reports whether an error is a broken pipe / closed pipe.
// Useful when downstream consumers (like `head`) close early.
func IsBrokenPipe(err error) bool {
	return err != nil && (errors.Is(err, syscall.EPIPE) || errors.Is(err, io.ErrClosedPipe))
}

// ToAPIReport converts a pipeline result to the stable wire schema (v1).
func ToAPIReport(r pipeline.Result) api.ReportV1 {
	return api.ReportV1{
		Name:   r.Name,
		Digest: hex.EncodeToString(r.Digest[:]),
		Bytes:  r.Bytes,
		Blocks: r.Blocks,
		Engine: r.Engine,
	}
}

// StartReportWriter spins up a writer goroutine for digest results. Close
// the returned channel to finish; the error channel delivers the first
// write error.
func StartReportWriter(out io.Writer, format string, header bool, bufSize int) (chan<- pipeline.Result, <-chan error) {
	if bufSize <= 0 {
		bufSize = 64
	}
	in := make(chan pipeline.Result, bufSize)
	errCh := make(chan error, 1)

	go func() {
		var err error
		switch format {
		case "json":
			var buf []api.ReportV1
			for r := range in {
				buf = append(buf, ToAPIReport(r))
			}
			err = writeJSON(out, buf)

		case "text":
			if header {
				_, err = fmt.Fprintln(out, "digest\tname")
			}
			for r := range in {
				if err != nil {
					continue
				}
				_, err = fmt.Fprintf(out, "%x\t%s\n", r.Digest, r.Name)
			}

		default:
			err = fmt.Errorf("unsupported output %q", format)
		}
		errCh <- err
	}()

	return in, errCh
}

func writeJSON(w io.Writer, list []api.ReportV1) error {
	if list == nil {
		list = []api.ReportV1{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(list)
}
