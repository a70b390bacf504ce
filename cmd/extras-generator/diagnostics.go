package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"extras-generator/internal/diagnostic"
)

// palette colors the severity labels of diagnostics.
type palette struct {
	err, warn, info, bold *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:  color.New(color.FgRed, color.Bold),
		warn: color.New(color.FgYellow, color.Bold),
		info: color.New(color.FgCyan),
		bold: color.New(color.Bold),
	}

	for _, c := range []*color.Color{p.err, p.warn, p.info, p.bold} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	return p
}

func (p palette) severity(s diagnostic.DiagnosticSeverity) *color.Color {
	switch s {
	case diagnostic.DiagnosticError:
		return p.err
	case diagnostic.DiagnosticWarning:
		return p.warn
	default:
		return p.info
	}
}

// printDiagnostics writes one line per diagnostic, most severe first:
//
//	checkout.go:12:2: error[structural] example/shop.Checkout: message
func printDiagnostics(w io.Writer, diags diagnostic.Diagnostics, colored bool) {
	p := newPalette(colored)

	for _, d := range diags.All() {
		if d.Pos.IsValid() {
			fmt.Fprintf(w, "%s: ", d.Pos)
		}

		p.severity(d.Severity).Fprintf(w, "%s[%s]", d.Severity, d.Code)

		subject := d.Model
		if d.Field != "" {
			subject += "." + d.Field
		}

		if subject != "" {
			fmt.Fprint(w, " ")
			p.bold.Fprint(w, subject)
			fmt.Fprint(w, ":")
		}

		fmt.Fprintf(w, " %s\n", d.Message)
	}
}

// printSummary writes the diagnostic counts when there is anything to count.
func printSummary(w io.Writer, diags diagnostic.Diagnostics, colored bool) {
	if diags.Len() == 0 {
		return
	}

	p := newPalette(colored)

	fmt.Fprint(w, "\n")
	p.err.Fprintf(w, "%d error(s)", len(diags.Errors))
	fmt.Fprint(w, ", ")
	p.warn.Fprintf(w, "%d warning(s)", len(diags.Warnings))
	fmt.Fprint(w, "\n")
}

func printError(w io.Writer, err error, colored bool) {
	p := newPalette(colored)

	p.err.Fprint(w, "error")
	fmt.Fprintf(w, ": %v\n", err)
}

// errDiagnostics is returned by commands that reported error diagnostics.
type errDiagnostics struct {
	count int
}

func (e *errDiagnostics) Error() string {
	return fmt.Sprintf("%d model(s) rejected", e.count)
}

// rejected returns an error when diags holds error diagnostics.
func rejected(diags diagnostic.Diagnostics) error {
	if !diags.HasErrors() {
		return nil
	}

	models := make(map[string]struct{})
	for _, d := range diags.Errors {
		models[d.Model] = struct{}{}
	}

	return &errDiagnostics{count: len(models)}
}
