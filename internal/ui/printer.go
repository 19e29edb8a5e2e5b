// Package ui renders devrun's console output: banners, step headers, echoed
// commands, status lines and the discovery spinner.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/fastcmsdomain/szybkafucha/internal/device"
)

const (
	ruleWidth  = 55
	labelWidth = 10
)

// Printer writes styled, line-oriented output
type Printer struct {
	w           io.Writer
	s           styles
	interactive bool
}

// NewPrinter creates a printer for w. Output is interactive (spinner
// enabled) only when w is a terminal.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{
		w:           w,
		s:           newStyles(lipgloss.NewRenderer(w)),
		interactive: IsTerminal(w),
	}
}

// IsTerminal reports whether w is a terminal file
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Interactive reports whether the printer targets a terminal
func (p *Printer) Interactive() bool { return p.interactive }

func (p *Printer) println(s string) {
	fmt.Fprintln(p.w, s)
}

// Banner prints a title framed by rules
func (p *Printer) Banner(title string) {
	rule := p.s.rule.Render(strings.Repeat("=", ruleWidth))
	p.println(rule)
	p.println("  " + p.s.title.Render(title))
	p.println(rule)
}

// Field prints an aligned "label : value" line under the banner
func (p *Printer) Field(label, value string) {
	label = fmt.Sprintf("%-*s", labelWidth, label)
	p.println("  " + p.s.label.Render(label) + " : " + p.s.value.Render(value))
}

// Heading prints a plain section heading preceded by a blank line
func (p *Printer) Heading(title string) {
	p.println("")
	p.println(p.s.title.Render(title))
}

// Rule prints a closing rule
func (p *Printer) Rule() {
	p.println(p.s.rule.Render(strings.Repeat("=", ruleWidth)))
}

// Step prints a numbered step header such as "[1/4] Cleaning Flutter build..."
func (p *Printer) Step(n, total int, msg string) {
	p.println("")
	p.println(p.s.step.Render(fmt.Sprintf("[%d/%d]", n, total)) + " " + msg)
}

// Section prints a tagged header such as "[--no-clean] ..."
func (p *Printer) Section(tag, msg string) {
	p.println("")
	p.println(p.s.step.Render("["+tag+"]") + " " + msg)
}

// Command echoes a command line before it runs
func (p *Printer) Command(argv []string) {
	p.println("")
	p.println(p.s.command.Render("→ " + FormatCommand(argv)))
}

// Info prints an indented plain line
func (p *Printer) Info(format string, args ...interface{}) {
	p.println("  " + fmt.Sprintf(format, args...))
}

// Muted prints an indented de-emphasised line
func (p *Printer) Muted(format string, args ...interface{}) {
	p.println("  " + p.s.muted.Render(fmt.Sprintf(format, args...)))
}

// Tone selects the color of a marked line
type Tone int

const (
	ToneOK Tone = iota
	ToneWarn
	ToneFail
)

// Mark prints a line prefixed by icon, colored by tone
func (p *Printer) Mark(tone Tone, icon, format string, args ...interface{}) {
	style := p.s.success
	switch tone {
	case ToneWarn:
		style = p.s.warn
	case ToneFail:
		style = p.s.failed
	}
	p.println(style.Render(icon) + " " + fmt.Sprintf(format, args...))
}

// Success prints a green check line
func (p *Printer) Success(format string, args ...interface{}) {
	p.Mark(ToneOK, "✓", format, args...)
}

// Warn prints a yellow warning line
func (p *Printer) Warn(format string, args ...interface{}) {
	p.Mark(ToneWarn, "!", format, args...)
}

// Fail prints a red failure line
func (p *Printer) Fail(format string, args ...interface{}) {
	p.Mark(ToneFail, "✗", format, args...)
}

// StepDone prints the outcome of a finished step with its duration
func (p *Printer) StepDone(icon, name string, ok bool, elapsed time.Duration) {
	style := p.s.success
	if !ok {
		style = p.s.failed
	}
	p.println(style.Render(icon) + " " + name + " " + p.s.muted.Render(elapsed.Round(10*time.Millisecond).String()))
}

// Checklist prints a title followed by numbered items
func (p *Printer) Checklist(title string, items []string) {
	p.println("")
	p.println(p.s.failed.Render(title))
	for i, item := range items {
		p.println(fmt.Sprintf("  %d. %s", i+1, item))
	}
}

// Devices prints a device table: id, name, platform, kind
func (p *Printer) Devices(devices []device.Device) {
	idWidth, nameWidth := len("ID"), len("NAME")
	for _, d := range devices {
		idWidth = max(idWidth, len(d.ID))
		nameWidth = max(nameWidth, len(d.Name))
	}

	p.println(p.s.label.Render(fmt.Sprintf("%-*s  %-*s  %s", idWidth, "ID", nameWidth, "NAME", "PLATFORM")))
	for _, d := range devices {
		kind := p.s.success.Render("physical")
		if d.IsEmulator {
			kind = p.s.muted.Render("emulator")
		}
		p.println(fmt.Sprintf("%-*s  %-*s  %s %s", idWidth, d.ID, nameWidth, d.Name, p.s.platformBadge(d.Platform), kind))
	}
}

// FormatCommand joins argv into a copy-pasteable command line, quoting
// arguments that contain spaces.
func FormatCommand(argv []string) string {
	var b strings.Builder
	for i, arg := range argv {
		if i > 0 {
			b.WriteByte(' ')
		}
		if strings.ContainsAny(arg, " \t") {
			b.WriteString(fmt.Sprintf("%q", arg))
		} else {
			b.WriteString(arg)
		}
	}
	return b.String()
}
