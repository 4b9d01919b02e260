// Package pipeline runs one conversion: read the header, parse both tables, resolve
// names, encode and render the two artifacts.
//
// Generate does all the work in memory. Commit writes a finished run to its sinks and
// Check compares it against what is already on disk, so nothing touches the filesystem
// until every palette has been parsed and encoded.
package pipeline

import (
	"bytes"
	"io/fs"
	"log"
	"strings"

	"github.com/pkg/errors"

	"github.com/lixenwraith/palettegen/config"
	"github.com/lixenwraith/palettegen/csource"
	"github.com/lixenwraith/palettegen/emit"
	"github.com/lixenwraith/palettegen/encode"
	"github.com/lixenwraith/palettegen/palette"
	"github.com/lixenwraith/palettegen/resolve"
)

var (
	// ErrMissingSource means the header could not be found; nothing is written
	ErrMissingSource = errors.New("source header not found")
	// ErrZeroPalettes means no palette survived parsing and resolution; nothing is written
	ErrZeroPalettes = errors.New("no palettes converted")
	// ErrOutOfDate means committed artifacts differ from a fresh render
	ErrOutOfDate = errors.New("generated artifacts are out of date")
)

// Report summarizes one run
type Report struct {
	Source       string
	Found        int // palette declarations seen in the source
	Converted    int // palettes emitted to both artifacts
	Skipped      int // Found - Converted
	IndexEntries int
	Warnings     []palette.Warning
}

// Artifacts is the rendered output of a run
type Artifacts struct {
	Palettes []encode.Encoded // index order
	Packed   []byte
	Tuple    []byte
}

// Generate parses src and renders both artifacts
// The report is returned with ErrZeroPalettes so callers can still show the warnings
func Generate(src emit.Source, cfg config.Config) (*Artifacts, *Report, error) {
	report := &Report{Source: src.Name()}

	data, err := src.Read()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, errors.Wrapf(ErrMissingSource, "%s", src.Name())
		}
		return nil, nil, errors.Wrap(err, "load source")
	}
	text := string(data)
	log.Printf("Loaded %s (%d bytes)", src.Name(), len(data))

	index, indexWarnings := csource.ParseIndex(text, cfg.Dialect)
	report.IndexEntries = index.Len()
	report.Warnings = append(report.Warnings, indexWarnings...)

	scan := csource.ParseDefinitions(text, cfg.Dialect)
	report.Found = scan.Declarations
	report.Warnings = append(report.Warnings, scan.Warnings...)

	joined := resolve.Join(scan.Definitions, index, cfg.Naming)
	report.Warnings = append(report.Warnings, joined.Warnings()...)

	art := &Artifacts{}
	packed := emit.NewPackedBuilder(src.Name())
	tuple := emit.NewTupleBuilder(src.Name())
	for _, def := range joined.Matched {
		enc := encode.Encode(def, cfg.Naming)
		if err := encode.Verify(enc); err != nil {
			report.Warnings = append(report.Warnings, palette.Warning{
				Kind:       palette.WarnInconsistent,
				Identifier: def.RawIdentifier,
				Line:       def.Line,
				Message:    err.Error(),
			})
			log.Printf("Dropping %s: %v", def.RawIdentifier, err)
			continue
		}
		art.Palettes = append(art.Palettes, enc)
		packed.Add(enc)
		tuple.Add(enc)
	}

	report.Converted = len(art.Palettes)
	report.Skipped = report.Found - report.Converted
	log.Printf("Converted %d of %d palettes, %d warnings", report.Converted, report.Found, len(report.Warnings))

	if report.Converted == 0 {
		return nil, report, errors.Wrapf(ErrZeroPalettes, "%s", src.Name())
	}

	art.Packed = packed.Bytes()
	art.Tuple = tuple.Bytes()
	return art, report, nil
}

// Commit stages both artifacts before replacing either
// A staging failure leaves both targets untouched
func Commit(art *Artifacts, packed, tuple emit.Sink) error {
	pendingPacked, err := packed.Stage(art.Packed)
	if err != nil {
		return errors.Wrapf(err, "write %s", packed.Name())
	}
	pendingTuple, err := tuple.Stage(art.Tuple)
	if err != nil {
		pendingPacked.Discard()
		return errors.Wrapf(err, "write %s", tuple.Name())
	}

	if err := pendingPacked.Commit(); err != nil {
		pendingTuple.Discard()
		return errors.Wrapf(err, "write %s", packed.Name())
	}
	if err := pendingTuple.Commit(); err != nil {
		return errors.Wrapf(err, "write %s; %s was already replaced", tuple.Name(), packed.Name())
	}
	return nil
}

// Check compares the rendered artifacts with the committed ones
// A missing committed artifact counts as out of date
func Check(art *Artifacts, packed, tuple emit.Source) error {
	var stale []string
	for _, c := range []struct {
		src  emit.Source
		want []byte
	}{
		{packed, art.Packed},
		{tuple, art.Tuple},
	} {
		got, err := c.src.Read()
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return errors.Wrap(err, "load committed artifact")
			}
			stale = append(stale, c.src.Name()+" (missing)")
			continue
		}
		if !bytes.Equal(got, c.want) {
			stale = append(stale, c.src.Name())
		}
	}

	if len(stale) > 0 {
		return errors.Wrap(ErrOutOfDate, strings.Join(stale, ", "))
	}
	return nil
}
