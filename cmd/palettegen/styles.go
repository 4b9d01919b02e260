package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/lixenwraith/palettegen/palette"
	"github.com/lixenwraith/palettegen/pipeline"
)

type styles struct {
	heading lipgloss.Style
	count   lipgloss.Style
	path    lipgloss.Style
	warn    lipgloss.Style
	err     lipgloss.Style
	ok      lipgloss.Style
}

// ANSI colors: 1 red, 2 green, 3 yellow, 6 cyan, 7 white
func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		heading: r.NewStyle().Bold(true),
		count:   r.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(6)),
		path:    r.NewStyle().Foreground(lipgloss.ANSIColor(6)),
		warn:    r.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(3)),
		err:     r.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(7)).Background(lipgloss.ANSIColor(1)),
		ok:      r.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(2)),
	}
}

// printer writes the summary to out and diagnostics to errOut
type printer struct {
	out    io.Writer
	errOut io.Writer
	color  bool
	styles styles
}

func newPrinter(out, errOut io.Writer, color bool) *printer {
	r := lipgloss.NewRenderer(out)
	if color {
		r.SetColorProfile(termenv.ANSI)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}
	return &printer{out: out, errOut: errOut, color: color, styles: newStyles(r)}
}

func (p *printer) summary(report *pipeline.Report) {
	fmt.Fprintf(p.out, "%s %s\n", p.styles.heading.Render("Source:"), p.styles.path.Render(report.Source))
	fmt.Fprintf(p.out, "  found      %s\n", p.styles.count.Render(fmt.Sprint(report.Found)))
	fmt.Fprintf(p.out, "  converted  %s\n", p.styles.count.Render(fmt.Sprint(report.Converted)))
	fmt.Fprintf(p.out, "  skipped    %s\n", p.styles.count.Render(fmt.Sprint(report.Skipped)))
	if len(report.Warnings) > 0 {
		fmt.Fprintf(p.out, "  warnings   %s\n", p.styles.warn.Render(fmt.Sprint(len(report.Warnings))))
	}
}

func (p *printer) wrote(path string) {
	fmt.Fprintf(p.out, "%s %s\n", p.styles.ok.Render("Wrote"), p.styles.path.Render(path))
}

func (p *printer) upToDate() {
	fmt.Fprintln(p.out, p.styles.ok.Render("Artifacts are up to date"))
}

func (p *printer) warnings(ws []palette.Warning) {
	for _, w := range ws {
		fmt.Fprintf(p.errOut, "%s %s\n", p.styles.warn.Render("warning:"), w)
	}
}

func (p *printer) errorf(format string, args ...any) {
	fmt.Fprintf(p.errOut, "%s %s\n", p.styles.err.Render("error:"), fmt.Sprintf(format, args...))
}
