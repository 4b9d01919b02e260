package pipeline

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"

	"github.com/lixenwraith/palettegen/config"
	"github.com/lixenwraith/palettegen/emit"
	"github.com/lixenwraith/palettegen/palette"
)

const julHeader = `// Gradient palette "ib_jul01_gp"
const byte ib_jul01_gp[] PROGMEM = {
    0, 226,   6,  12,
   94,  26,  96,  78,
  132, 130, 189,  94,
  255, 177,   3,   9};

const uint8_t* const gGradientPalettes[] PROGMEM = {
  ib_jul01_gp                   //31-18 Jul
};
`

const malformedHeader = `const uint8_t lava_gp[] PROGMEM = {
    0,   0,   0,   0,
   46,  18,   0,   0,
   96, 113,   0,   0,
  108, 142,   3,   1,
  119};

const uint8_t fire_gp[] PROGMEM = {
    0,   0,   0,   0,
  255, 255, 200,   0};

const uint8_t* const gGradientPalettes[] PROGMEM = {
  lava_gp,                      //00 Lava
  fire_gp                       //01 Fire
};
`

func source(text string) *emit.MemorySource {
	return &emit.MemorySource{Label: "mem/wled_palettes.h", Data: []byte(text)}
}

func hasWarning(warnings []palette.Warning, kind palette.WarningKind, ident string) bool {
	for _, w := range warnings {
		if w.Kind == kind && w.Identifier == ident {
			return true
		}
	}
	return false
}

func TestGenerate_Jul(t *testing.T) {
	art, report, err := Generate(source(julHeader), config.Default())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if report.Found != 1 || report.Converted != 1 || report.Skipped != 0 || report.IndexEntries != 1 {
		t.Errorf("Unexpected report %+v", report)
	}
	if len(report.Warnings) != 0 {
		t.Errorf("Expected no warnings, got %v", report.Warnings)
	}

	wantTuple := strings.Join([]string{
		"# WLED Palettes converted to DSL format",
		"# Auto-generated from mem/wled_palettes.h",
		"# Total palettes: 1",
		"",
		"# Gradient palette \"ib_jul01_gp\"",
		"palette JUL = [",
		"  (0, 0xE2060C)    # 0.0% rgb(226,6,12) (start)",
		"  (94, 0x1A604E)    # 36.9% rgb(26,96,78)",
		"  (132, 0x82BD5E)    # 51.8% rgb(130,189,94)",
		"  (255, 0xB10309)    # 100.0% rgb(177,3,9) (end)",
		"]",
		"",
	}, "\n")
	if string(art.Tuple) != wantTuple {
		t.Errorf("Tuple artifact mismatch:\n%s\nwant:\n%s", art.Tuple, wantTuple)
	}

	for _, want := range []string{
		"var PALETTE_JUL_ = bytes(",
		`"00E2060C"`, `"5E1A604E"`, `"8482BD5E"`, `"FFB10309"`,
		`"Jul": PALETTE_JUL_`,
	} {
		if !strings.Contains(string(art.Packed), want) {
			t.Errorf("Packed artifact missing %q", want)
		}
	}
}

func TestGenerate_MalformedLengthSkipped(t *testing.T) {
	art, report, err := Generate(source(malformedHeader), config.Default())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if report.Found != 2 || report.Converted != 1 || report.Skipped != 1 {
		t.Errorf("Unexpected counts %+v", report)
	}
	if !hasWarning(report.Warnings, palette.WarnMalformedLength, "lava_gp") {
		t.Errorf("Expected malformed-length warning for lava_gp, got %v", report.Warnings)
	}
	if !hasWarning(report.Warnings, palette.WarnUnusedIndexEntry, "lava_gp") {
		t.Errorf("Expected unused-index-entry warning for lava_gp, got %v", report.Warnings)
	}
	if len(art.Palettes) != 1 || art.Palettes[0].Definition.DisplayName != "Fire" {
		t.Fatalf("Expected only Fire, got %d palettes", len(art.Palettes))
	}
	if strings.Contains(string(art.Packed), "LAVA") || strings.Contains(string(art.Tuple), "LAVA") {
		t.Error("Malformed palette leaked into output")
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	first, _, err := Generate(source(malformedHeader+julHeader), config.Default())
	if err != nil {
		t.Fatalf("First run failed: %v", err)
	}
	second, _, err := Generate(source(malformedHeader+julHeader), config.Default())
	if err != nil {
		t.Fatalf("Second run failed: %v", err)
	}
	if string(first.Packed) != string(second.Packed) || string(first.Tuple) != string(second.Tuple) {
		t.Error("Two runs over the same input differ")
	}
}

func TestGenerate_MissingSource(t *testing.T) {
	src := &emit.MemorySource{Label: "absent.h", Missing: true}
	_, _, err := Generate(src, config.Default())
	if !errors.Is(err, ErrMissingSource) {
		t.Errorf("Expected ErrMissingSource, got %v", err)
	}
}

func TestGenerate_ZeroPalettes(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty file", ""},
		{"no index table", "const uint8_t a_gp[] PROGMEM = {0,1,2,3};\n"},
		{"all malformed", "const uint8_t a_gp[] PROGMEM = {0,1,2};\nconst uint8_t* const gGradientPalettes[] PROGMEM = {\n  a_gp //00 A\n};\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			art, report, err := Generate(source(tt.input), config.Default())
			if !errors.Is(err, ErrZeroPalettes) {
				t.Fatalf("Expected ErrZeroPalettes, got %v", err)
			}
			if art != nil {
				t.Error("Expected no artifacts")
			}
			if report == nil || report.Converted != 0 {
				t.Errorf("Expected report with zero converted, got %+v", report)
			}
		})
	}
}

func TestCommit(t *testing.T) {
	art, _, err := Generate(source(julHeader), config.Default())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	packed := &emit.MemorySink{Label: "out.be"}
	tuple := &emit.MemorySink{Label: "out.anim"}
	if err := Commit(art, packed, tuple); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	if packed.Writes != 1 || tuple.Writes != 1 {
		t.Errorf("Expected one write per sink, got %d and %d", packed.Writes, tuple.Writes)
	}
	if string(packed.Data) != string(art.Packed) || string(tuple.Data) != string(art.Tuple) {
		t.Error("Sinks received different bytes than rendered")
	}
}

func TestCommit_SinkFailure(t *testing.T) {
	art, _, err := Generate(source(julHeader), config.Default())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	diskFull := errors.New("disk full")
	packed := &emit.MemorySink{Label: "out.be", Fail: diskFull}
	tuple := &emit.MemorySink{Label: "out.anim"}
	err = Commit(art, packed, tuple)
	if !errors.Is(err, diskFull) {
		t.Fatalf("Expected sink error, got %v", err)
	}
	if tuple.Writes != 0 {
		t.Error("Tuple artifact written after packed write failed")
	}
}

func TestCommit_TupleStageFailureKeepsPacked(t *testing.T) {
	art, _, err := Generate(source(julHeader), config.Default())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	readOnly := errors.New("read-only file system")
	packed := &emit.MemorySink{Label: "out.be"}
	tuple := &emit.MemorySink{Label: "out.anim", Fail: readOnly}
	if err := Commit(art, packed, tuple); !errors.Is(err, readOnly) {
		t.Fatalf("Expected staging error, got %v", err)
	}
	if packed.Writes != 0 {
		t.Error("Packed artifact replaced although tuple staging failed")
	}
	if packed.Staged != 0 {
		t.Error("Packed staging not discarded")
	}
}

func TestCommit_FilesUntouchedOnFailure(t *testing.T) {
	art, _, err := Generate(source(julHeader), config.Default())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	dir := t.TempDir()
	packedPath := filepath.Join(dir, "all_wled_palettes.be")
	if err := os.WriteFile(packedPath, []byte("previous\n"), 0644); err != nil {
		t.Fatal(err)
	}
	// A regular file where the tuple directory should be makes staging fail
	blocker := filepath.Join(dir, "blocked")
	if err := os.WriteFile(blocker, nil, 0644); err != nil {
		t.Fatal(err)
	}

	err = Commit(art,
		emit.FileSink{Path: packedPath},
		emit.FileSink{Path: filepath.Join(blocker, "all_wled_palettes.anim")})
	if err == nil {
		t.Fatal("Expected commit to fail")
	}

	data, err := os.ReadFile(packedPath)
	if err != nil || string(data) != "previous\n" {
		t.Errorf("Packed artifact modified: %q %v", data, err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("Temp files left behind: %v", names)
	}
}

func TestCheck(t *testing.T) {
	art, _, err := Generate(source(julHeader), config.Default())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	current := func(data []byte) *emit.MemorySource {
		return &emit.MemorySource{Label: "committed", Data: data}
	}

	if err := Check(art, current(art.Packed), current(art.Tuple)); err != nil {
		t.Errorf("Expected up to date, got %v", err)
	}

	stale := append([]byte(nil), art.Tuple...)
	stale[len(stale)-2] = 'x'
	if err := Check(art, current(art.Packed), current(stale)); !errors.Is(err, ErrOutOfDate) {
		t.Errorf("Expected ErrOutOfDate for modified artifact, got %v", err)
	}

	missing := &emit.MemorySource{Label: "gone", Missing: true}
	if err := Check(art, missing, current(art.Tuple)); !errors.Is(err, ErrOutOfDate) {
		t.Errorf("Expected ErrOutOfDate for missing artifact, got %v", err)
	}
}

// Emitted palettes always come from a value list whose length is a multiple of 4
func TestGenerate_OnlyWholeStopsEmitted(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	var decl, index strings.Builder
	index.WriteString("const uint8_t* const gGradientPalettes[] PROGMEM = {\n")
	wantCounts := make(map[string]int)
	for i := 0; i < 40; i++ {
		name := fmt.Sprintf("p%02d_gp", i)
		n := 1 + rng.Intn(24)
		values := make([]string, n)
		for j := range values {
			values[j] = fmt.Sprint(rng.Intn(256))
		}
		fmt.Fprintf(&decl, "const uint8_t %s[] PROGMEM = {\n  %s};\n", name, strings.Join(values, ", "))
		fmt.Fprintf(&index, "  %s, //%02d Sample %d\n", name, i, i)
		if n%4 == 0 {
			wantCounts[fmt.Sprintf("Sample %d", i)] = n / 4
		}
	}
	index.WriteString("};\n")

	art, report, err := Generate(source(decl.String()+index.String()), config.Default())
	if len(wantCounts) == 0 {
		t.Skip("Seed produced no valid palettes")
	}
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if report.Converted != len(wantCounts) {
		t.Errorf("Expected %d converted, got %d", len(wantCounts), report.Converted)
	}
	for _, enc := range art.Palettes {
		want, ok := wantCounts[enc.Definition.DisplayName]
		if !ok {
			t.Errorf("%s emitted but its value count is not a multiple of 4", enc.Definition.DisplayName)
			continue
		}
		if len(enc.Packed.Tokens) != want || len(enc.Tuples.Entries) != want {
			t.Errorf("%s: expected %d stops, got %d tokens and %d tuples",
				enc.Definition.DisplayName, want, len(enc.Packed.Tokens), len(enc.Tuples.Entries))
		}
	}
}
