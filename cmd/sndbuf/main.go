// Command sndbuf inspects sound files and generates wavetable files.
//
// Usage:
//
//	sndbuf info file.wav [file.wav ...]
//	sndbuf gen [flags] -o table.wav
//
// Examples:
//
//	sndbuf info kick.wav hat.wav
//	sndbuf gen -type sine1 -partials 1,0.5,0.25 -frames 1024 -o table.wav
//	sndbuf gen -type sine2 -freqs 1,3.5 -amps 1,0.5 -normalize -o table.wav
//	sndbuf gen -type cheby -coeffs 0,1,0,0.3 -frames 513 -o shaper.wav
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/cwbudde/algo-sndbuf/dispatch"
	"github.com/cwbudde/algo-sndbuf/sndfile"
	"github.com/cwbudde/algo-sndbuf/table"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "info":
		err = runInfo(os.Args[2:])
	case "gen":
		err = runGen(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "sndbuf: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: sndbuf info file.wav [file.wav ...]")
	fmt.Fprintln(os.Stderr, "       sndbuf gen [flags] -o table.wav (see sndbuf gen -h)")
}

func runInfo(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("info: no files given")
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FILE\tFRAMES\tCHANNELS\tRATE\tDURATION")
	for _, path := range args {
		info, err := sndfile.ReadInfo(path)
		if err != nil {
			return err
		}
		duration := "-"
		if info.SampleRate > 0 {
			duration = fmt.Sprintf("%.3fs", float64(info.Frames)/float64(info.SampleRate))
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%s\n", path, info.Frames, info.Channels, info.SampleRate, duration)
	}
	return w.Flush()
}

func runGen(args []string) error {
	fs := flag.NewFlagSet("gen", flag.ExitOnError)
	genType := fs.String("type", "sine1", "table type: sine1, sine2 or cheby")
	partials := fs.String("partials", "1", "sine1: comma-separated harmonic amplitudes")
	freqs := fs.String("freqs", "", "sine2: comma-separated frequencies in cycles per table")
	amps := fs.String("amps", "", "sine2: comma-separated partial amplitudes")
	coeffs := fs.String("coeffs", "", "cheby: comma-separated Chebyshev coefficients")
	frames := fs.Int("frames", 1024, "table length in frames")
	channels := fs.Int("channels", 1, "channel count")
	rate := fs.Int("rate", 44100, "sample rate stamped on the output file")
	format := fs.String("format", sndfile.SampleFloat32, "sample format: int16, int24 or float32")
	normalize := fs.Bool("normalize", false, "scale the table to unit peak")
	out := fs.String("o", "", "output file (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *out == "" {
		return fmt.Errorf("gen: -o is required")
	}

	tbl := table.New(1, table.WithSampleRate(*rate))
	engine := dispatch.New(tbl)
	defer engine.Close()

	if err := engine.Allocate(0, *frames, *channels); err != nil {
		return err
	}

	var err error
	switch *genType {
	case "sine1":
		var p []float64
		if p, err = parseFloats(*partials); err == nil {
			err = engine.GenSine1(0, p, *normalize)
		}
	case "sine2":
		var f, a []float64
		if f, err = parseFloats(*freqs); err != nil {
			return err
		}
		if a, err = parseFloats(*amps); err == nil {
			err = engine.GenSine2(0, f, a, *normalize)
		}
	case "cheby":
		var c []float64
		if c, err = parseFloats(*coeffs); err == nil {
			err = engine.GenCheby(0, c, *normalize)
		}
	default:
		err = fmt.Errorf("gen: unknown table type %q", *genType)
	}
	if err != nil {
		return err
	}

	return engine.Write(0, *out, sndfile.FormatWAV, *format, 0, 0)
}

func parseFloats(list string) ([]float64, error) {
	if list == "" {
		return nil, nil
	}
	parts := strings.Split(list, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("gen: bad value %q", p)
		}
		out = append(out, v)
	}
	return out, nil
}
