// Command ifsx lists, inspects and extracts image entries of IFS archives.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"

	"github.com/woozymasta/bcn"
	"github.com/woozymasta/ifs"
)

const usage = `Usage:
  ifsx list    [-v] <archive>
  ifsx sizes   [-v] <archive> <entry>
  ifsx export  [-v] [-format png|dds|raw] [-codec none|lz4|zstd] [-candidate N] [-guesses file] [-o out] <archive> <entry>
  ifsx extract [-v] [-format png|dds|raw] [-codec none|lz4|zstd] [-guesses file] [-workers N] [-dedup] <archive> <outdir>
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var err error
	switch os.Args[1] {
	case "list":
		err = runList(os.Args[2:])
	case "sizes":
		err = runSizes(os.Args[2:])
	case "export":
		err = runExport(os.Args[2:])
	case "extract":
		err = runExtract(ctx, os.Args[2:])
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if err != nil {
		slog.Error("ifsx failed", "command", os.Args[1], "err", err)
		os.Exit(1)
	}
}

// commonFlags are shared by every subcommand.
type commonFlags struct {
	verbose bool
	format  string
	codec   string
	guesses string
}

func newFlagSet(name string, c *commonFlags, output bool) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	fs.BoolVar(&c.verbose, "v", false, "debug logging")
	if output {
		fs.StringVar(&c.format, "format", "png", "output format: png, dds or raw")
		fs.StringVar(&c.codec, "codec", "none", "raw dump codec: none, lz4 or zstd")
		fs.StringVar(&c.guesses, "guesses", defaultGuessesPath(), "candidate memo file")
	}
	return fs
}

func setupLogger(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// defaultGuessesPath places the memo next to the executable.
func defaultGuessesPath() string {
	exe, err := os.Executable()
	if err != nil {
		return "index_guesses.txt"
	}
	return filepath.Join(filepath.Dir(exe), "index_guesses.txt")
}

func openArchive(path string) (*ifs.Archive, error) {
	a, err := ifs.Open(path, nil)
	if err != nil {
		return nil, err
	}
	slog.Debug("archive scanned", "path", path, "size", a.Size(), "entries", a.Len())
	return a, nil
}

func parseEntry(s string) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("entry %q: %w", s, err)
	}
	return i, nil
}

func runList(args []string) error {
	var c commonFlags
	fs := newFlagSet("list", &c, false)
	_ = fs.Parse(args)
	setupLogger(c.verbose)
	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(2)
	}

	a, err := openArchive(fs.Arg(0))
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	w := os.Stdout
	fmt.Fprintf(w, "%6s %10s %10s %16s\n", "#", "OFFSET", "SIZE", "XXH64")
	for i, e := range a.Entries() {
		sum, err := a.Fingerprint(i)
		if err != nil {
			slog.Warn("entry unreadable", "entry", e.Seq, "offset", e.Offset, "size", e.Size, "err", err)
			fmt.Fprintf(w, "%6d %10d %10d %16s\n", e.Seq, e.Offset, e.Size, "-")
			continue
		}
		fmt.Fprintf(w, "%6d %10d %10d %016x\n", e.Seq, e.Offset, e.Size, sum)
	}

	return nil
}

func runSizes(args []string) error {
	var c commonFlags
	fs := newFlagSet("sizes", &c, false)
	_ = fs.Parse(args)
	setupLogger(c.verbose)
	if fs.NArg() != 2 {
		fs.Usage()
		os.Exit(2)
	}

	a, err := openArchive(fs.Arg(0))
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	i, err := parseEntry(fs.Arg(1))
	if err != nil {
		return err
	}
	raw, err := a.Decode(i)
	if err != nil {
		return err
	}

	e, _ := a.Entry(i)
	fmt.Printf("#%d: %d bytes decompresses to %d bytes (header %d, %d samples)\n",
		e.Seq, e.Size, raw.Len(), raw.HeaderOffset(), raw.Samples())
	for k := range raw.CandidateCount() {
		size, _ := raw.Size(k)
		fmt.Printf("%4d %6d x %d\n", k, size.X, size.Y)
	}

	return nil
}

func runExport(args []string) error {
	var c commonFlags
	fs := newFlagSet("export", &c, true)
	candidate := fs.Int("candidate", -1, "candidate index, -1 uses the memo or the middle one")
	out := fs.String("o", "", "output file (default <entry>.<format>, - for stdout)")
	_ = fs.Parse(args)
	setupLogger(c.verbose)
	if fs.NArg() != 2 {
		fs.Usage()
		os.Exit(2)
	}

	format, err := ifs.ParseExportFormat(c.format)
	if err != nil {
		return err
	}
	codec, err := ifs.ParseCodec(c.codec)
	if err != nil {
		return err
	}
	guesses, err := ifs.LoadGuesses(c.guesses)
	if err != nil {
		return err
	}

	a, err := openArchive(fs.Arg(0))
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	i, err := parseEntry(fs.Arg(1))
	if err != nil {
		return err
	}

	path := *out
	if path == "" {
		ext := "." + format.String()
		if format == ifs.ExportRaw {
			ext = codec.Ext()
		}
		path = fmt.Sprintf("%05d%s", i, ext)
	}

	var write func(w io.Writer) error
	if format == ifs.ExportRaw {
		data, err := a.Decompress(i)
		if err != nil {
			return err
		}
		write = func(w io.Writer) error { return ifs.WriteDump(w, data, codec) }
	} else {
		raw, err := a.Decode(i)
		if err != nil {
			return err
		}

		index := *candidate
		if index < 0 {
			index = guesses.Pick(raw)
		} else {
			if err := guesses.Choose(raw, index); err != nil {
				return err
			}
			if err := guesses.Save(c.guesses); err != nil {
				slog.Warn("guesses not saved", "path", c.guesses, "err", err)
			}
		}

		size, err := raw.Size(index)
		if err != nil {
			return err
		}
		slog.Info("exporting", "entry", i, "candidate", index, "width", size.X, "height", size.Y, "out", path)

		dds := &ifs.DDSOptions{Format: bcn.FormatBGRA8, MaxMipMaps: 1}
		write = func(w io.Writer) error { return ifs.WriteImage(w, raw, index, format, dds) }
	}

	if path == "-" {
		return write(os.Stdout)
	}
	return ifs.WriteFile(path, write)
}

func runExtract(ctx context.Context, args []string) error {
	var c commonFlags
	fs := newFlagSet("extract", &c, true)
	workers := fs.Int("workers", 0, "parallel entries, 0 = all CPUs")
	dedup := fs.Bool("dedup", false, "skip entries with identical compressed bytes")
	_ = fs.Parse(args)
	setupLogger(c.verbose)
	if fs.NArg() != 2 {
		fs.Usage()
		os.Exit(2)
	}

	format, err := ifs.ParseExportFormat(c.format)
	if err != nil {
		return err
	}
	codec, err := ifs.ParseCodec(c.codec)
	if err != nil {
		return err
	}
	guesses, err := ifs.LoadGuesses(c.guesses)
	if err != nil {
		return err
	}

	a, err := openArchive(fs.Arg(0))
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	results, err := a.Extract(ctx, fs.Arg(1), &ifs.ExtractOptions{
		Format:         format,
		Codec:          codec,
		Guesses:        guesses,
		Workers:        *workers,
		SkipDuplicates: *dedup,
	})

	var written, failed, dups int
	for _, r := range results {
		switch {
		case r.Duplicate:
			dups++
		case r.Err != nil:
			failed++
			slog.Warn("entry failed", "entry", r.Entry.Seq, "offset", r.Entry.Offset, "size", r.Entry.Size, "err", r.Err)
		case r.Path != "":
			written++
			slog.Debug("entry written", "entry", r.Entry.Seq, "candidate", r.Candidate, "path", r.Path)
		}
	}
	slog.Info("extract done", "written", written, "failed", failed, "duplicates", dups)

	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("interrupted: %w", err)
	}
	return err
}
