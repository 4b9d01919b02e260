// Command palettegen converts the WLED gradient palette header into the packed-token
// Berry module and the DSL palette file used by the animation framework.
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"runtime/debug"

	"github.com/hellflame/argparse"
	"github.com/jwalton/go-supportscolor"
	"github.com/pkg/errors"

	"github.com/lixenwraith/palettegen/config"
	"github.com/lixenwraith/palettegen/emit"
	"github.com/lixenwraith/palettegen/pipeline"
	"github.com/lixenwraith/palettegen/preview"
)

// Exit codes
const (
	exitOK       = 0
	exitFailure  = 1
	exitUsage    = 2
	exitOutdated = 3
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "\nPALETTEGEN CRASHED: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\n%s\n", debug.Stack())
			os.Exit(exitFailure)
		}
	}()

	color := supportscolor.SupportsColor(os.Stdout.Fd(), supportscolor.SniffFlagsOption(true)).SupportsColor
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, color))
}

// options holds the parsed command line
type options struct {
	input     string
	packedOut string
	tupleOut  string
	check     bool
	preview   bool
	debug     bool
	noColor   bool
}

func parseArgs(args []string) (options, error) {
	parser := argparse.NewParser(
		"palettegen",
		"Convert WLED gradient palettes into Berry packed-token and DSL tuple artifacts",
		&argparse.ParserConfig{
			DisableDefaultShowHelp: true,
		},
	)
	input := parser.String("i", "input", &argparse.Option{
		Help:    "WLED palette header to read",
		Default: config.DefaultInputPath,
	})
	packedOut := parser.String("", "packed-out", &argparse.Option{
		Help:    "Berry module to write",
		Default: config.DefaultPackedOutPath,
	})
	tupleOut := parser.String("", "tuple-out", &argparse.Option{
		Help:    "DSL palette file to write",
		Default: config.DefaultTupleOutPath,
	})
	check := parser.Flag("c", "check", &argparse.Option{
		Help: "Render in memory and fail if the committed artifacts differ",
	})
	showPreview := parser.Flag("p", "preview", &argparse.Option{
		Help: "Print gradient swatches of converted palettes",
	})
	debugLog := parser.Flag("d", "debug", &argparse.Option{
		Help: "Write a debug log to logs/palettegen.log",
	})
	noColor := parser.Flag("", "no-color", &argparse.Option{
		Help: "Disable styled output",
	})

	if err := parser.Parse(args); err != nil {
		return options{}, err
	}
	return options{
		input:     *input,
		packedOut: *packedOut,
		tupleOut:  *tupleOut,
		check:     *check,
		preview:   *showPreview,
		debug:     *debugLog,
		noColor:   *noColor,
	}, nil
}

// run executes one invocation and returns the exit code
func run(args []string, stdout, stderr io.Writer, color bool) int {
	opts, err := parseArgs(args)
	if err != nil {
		if errors.Is(err, argparse.BreakAfterHelpError) {
			return exitOK
		}
		fmt.Fprintf(stderr, "%v\n", err)
		return exitUsage
	}

	if logFile := setupLogging(opts.debug); logFile != nil {
		defer logFile.Close()
	}

	prt := newPrinter(stdout, stderr, color && !opts.noColor)
	cfg := config.Default().WithPaths(opts.input, opts.packedOut, opts.tupleOut)
	log.Printf("Config: input=%s packed=%s tuple=%s check=%v", cfg.InputPath, cfg.PackedOutPath, cfg.TupleOutPath, opts.check)

	art, report, err := pipeline.Generate(emit.FileSource{Path: cfg.InputPath}, cfg)
	if report != nil {
		prt.warnings(report.Warnings)
		prt.summary(report)
	}
	if err != nil {
		switch {
		case errors.Is(err, pipeline.ErrMissingSource):
			prt.errorf("input not found: %s", cfg.InputPath)
		case errors.Is(err, pipeline.ErrZeroPalettes):
			prt.errorf("no palettes converted, outputs left untouched")
		default:
			prt.errorf("%v", err)
		}
		return exitFailure
	}

	if opts.preview {
		if err := preview.Render(stdout, art.Palettes, preview.Options{Color: prt.color}); err != nil {
			prt.errorf("preview: %v", err)
			return exitFailure
		}
	}

	if opts.check {
		err := pipeline.Check(art,
			emit.FileSource{Path: cfg.PackedOutPath},
			emit.FileSource{Path: cfg.TupleOutPath})
		if err != nil {
			if errors.Is(err, pipeline.ErrOutOfDate) {
				prt.errorf("%v", err)
				return exitOutdated
			}
			prt.errorf("check: %v", err)
			return exitFailure
		}
		prt.upToDate()
		return exitOK
	}

	packed := emit.FileSink{Path: cfg.PackedOutPath}
	tuple := emit.FileSink{Path: cfg.TupleOutPath}
	if err := pipeline.Commit(art, packed, tuple); err != nil {
		prt.errorf("%v", err)
		return exitFailure
	}
	prt.wrote(packed.Name())
	prt.wrote(tuple.Name())
	return exitOK
}
