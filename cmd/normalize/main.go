// Command normalize converts newline-delimited NMEA field records into
// normalized fixes without Kafka. It runs the same domain code as the
// service, so it doubles as a fixture generator and a debugging aid.
//
// Usage:
//
//	go run ./cmd/normalize \
//	  -in internal/pipeline/testdata/fields.jsonl \
//	  -speed-unit knots -distance-unit nm \
//	  -now 2026-10-19T08:09:10Z
//
// Each output line is one NavFix as JSON. Lines that are not valid JSON are
// reported on stderr and skipped, and the command exits 1.
package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/navfield-etl/internal/domain"
	"github.com/couchcryptid/navfield-etl/internal/navfield"
)

// maxLine bounds a single input record.
const maxLine = 1 << 20

var errBadLines = errors.New("some lines could not be normalized")

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		log.SetFlags(0)
		log.Fatal(err)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("normalize", flag.ContinueOnError)
	fs.SetOutput(stderr)
	in := fs.String("in", "", "input file of JSON field records, one per line (default stdin)")
	speedUnit := fs.String("speed-unit", domain.DefaultOutputUnits.Speed, "output speed unit: knots, mph, kph or ms")
	distanceUnit := fs.String("distance-unit", domain.DefaultOutputUnits.Distance, "output distance unit: km or nm")
	now := fs.String("now", "", "fixed RFC3339 time for blank time/date fields and processed_at")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if !navfield.IsSpeedUnit(*speedUnit) {
		return fmt.Errorf("invalid -speed-unit %q", *speedUnit)
	}
	if !navfield.IsDistanceUnit(*distanceUnit) {
		return fmt.Errorf("invalid -distance-unit %q", *distanceUnit)
	}

	if *now != "" {
		t, err := time.Parse(time.RFC3339, *now)
		if err != nil {
			return fmt.Errorf("invalid -now: %w", err)
		}
		domain.SetClock(clockwork.NewFakeClockAt(t))
		defer domain.SetClock(nil)
	}

	src := stdin
	if *in != "" {
		f, err := os.Open(*in)
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		src = f
	}

	units := domain.OutputUnits{Speed: *speedUnit, Distance: *distanceUnit}
	return normalizeLines(src, stdout, stderr, units)
}

func normalizeLines(src io.Reader, stdout, stderr io.Writer, units domain.OutputUnits) error {
	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLine)

	out := bufio.NewWriter(stdout)
	defer out.Flush()
	enc := json.NewEncoder(out)

	var lineNo, failed int
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		fix, err := domain.ParseRawEvent(domain.RawEvent{Value: line}, units)
		if err != nil {
			failed++
			fmt.Fprintf(stderr, "line %d: %v\n", lineNo, err)
			continue
		}
		if err := enc.Encode(domain.EnrichNavFix(fix)); err != nil {
			return fmt.Errorf("write line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", errBadLines, failed, lineNo)
	}
	return nil
}
