package clip

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/dzonerzy/go-clip/internal/pool"
	clipio "github.com/dzonerzy/go-clip/io"
)

const (
	helpIndent    = 2
	helpGap       = 3
	helpMinColumn = 24
)

// helpPrinter renders help for one command. A nil io disables color and
// wraps at 80 columns.
type helpPrinter struct {
	w        io.Writer
	io       *clipio.IOManager
	style    Style
	width    int
	withHelp bool
}

func newHelpPrinter(w io.Writer, m *clipio.IOManager, style Style, withHelp bool) *helpPrinter {
	width := 80
	if m != nil {
		width = m.Width()
	}
	if style == nil {
		style = PosixStyle{}
	}
	return &helpPrinter{w: w, io: m, style: style, width: width, withHelp: withHelp}
}

// Help writes the full help text of cmd: description, usage line,
// arguments, options and sub-commands. Hidden options and commands are
// left out.
func Help(w io.Writer, cmd *Command, style Style) error {
	return newHelpPrinter(w, nil, style, false).command(cmd)
}

// Synopsis returns the one-line usage line of cmd.
func Synopsis(cmd *Command, style Style) string {
	return newHelpPrinter(nil, nil, style, false).synopsis(cmd)
}

func (h *helpPrinter) heading(s string) string {
	if h.io == nil {
		return s
	}
	return h.io.Paint(s, color.Bold, color.FgCyan)
}

func (h *helpPrinter) command(cmd *Command) error {
	var b strings.Builder

	if d := cmd.Description(); d != "" {
		b.WriteString(d)
		b.WriteString("\n\n")
	}

	b.WriteString(h.heading("Usage:"))
	b.WriteString("\n  ")
	b.WriteString(h.synopsis(cmd))
	b.WriteByte('\n')

	if t := cmd.LongHelp(); t != "" {
		b.WriteByte('\n')
		b.WriteString(t)
		b.WriteByte('\n')
	}

	if rows := h.argumentRows(cmd); len(rows) > 0 {
		h.section(&b, "Arguments:", rows)
	}
	if rows := h.optionRows(cmd); len(rows) > 0 {
		h.section(&b, "Options:", rows)
	}
	if rows := h.commandRows(cmd); len(rows) > 0 {
		h.section(&b, "Commands:", rows)
		fmt.Fprintf(&b, "\nUse \"%s <command> %s\" for more information about a command.\n",
			strings.Join(h.invocation(cmd), " "), h.helpToken())
	}

	_, err := io.WriteString(h.w, b.String())
	return err
}

func (h *helpPrinter) helpToken() string {
	if _, ok := h.style.(WindowsStyle); ok {
		return "/?"
	}
	return "--help"
}

// invocation is the command path as typed, with "<root>" for an unnamed
// root.
func (h *helpPrinter) invocation(cmd *Command) []string {
	path := cmd.Path()
	if cmd.Root().Name() == "" {
		path = append([]string{"<root>"}, path...)
	}
	return path
}

func (h *helpPrinter) synopsis(cmd *Command) string {
	parts := h.invocation(cmd)
	if len(visibleOptions(cmd)) > 0 || h.withHelp {
		parts = append(parts, "[options]")
	}
	for _, a := range cmd.arguments.All() {
		parts = append(parts, argumentSynopsis(a))
	}
	if len(visibleCommands(cmd)) > 0 {
		parts = append(parts, "<command>")
	}
	return strings.Join(parts, " ")
}

func argumentSynopsis(a *Argument) string {
	s := "<" + a.Name + ">"
	if a.Repeats() {
		s += "..."
	}
	if a.Optional() {
		s = "[" + s + "]"
	}
	return s
}

type helpRow struct {
	label       string
	description string
}

func (h *helpPrinter) argumentRows(cmd *Command) []helpRow {
	rows := make([]helpRow, 0, cmd.arguments.Len())
	for _, a := range cmd.arguments.All() {
		rows = append(rows, helpRow{
			label:       argumentSynopsis(a),
			description: annotate(a.Description, a.DefaultText, a.EnvVars),
		})
	}
	return rows
}

func (h *helpPrinter) optionRows(cmd *Command) []helpRow {
	options := visibleOptions(cmd)
	rows := make([]helpRow, 0, len(options)+1)
	for _, o := range options {
		desc := o.Description
		if o.usage.Required() {
			desc = strings.TrimSpace(desc + " (required)")
		}
		rows = append(rows, helpRow{
			label:       h.optionLabel(o),
			description: annotate(desc, o.DefaultText, o.EnvVars),
		})
	}
	if h.withHelp {
		rows = append(rows, helpRow{label: h.helpLabel(), description: "Show help"})
	}
	return rows
}

func (h *helpPrinter) helpLabel() string {
	if _, ok := h.style.(WindowsStyle); ok {
		return "/?, /help"
	}
	return "-h, --help"
}

func (h *helpPrinter) optionLabel(o *Option) string {
	names := pool.GetStrings()
	defer pool.PutStrings(names)
	for _, n := range o.Names {
		*names = append(*names, h.optionToken(n.Value))
	}
	label := strings.Join(*names, ", ")

	u := o.usage
	if u.MaxParameters == 0 {
		return label
	}
	placeholder := o.ValueName
	if placeholder == "" {
		placeholder = "value"
	}
	value := "<" + placeholder + ">"
	if u.MaxParameters > 1 {
		value += "..."
	}
	if u.MinParameters == 0 {
		value = "[" + value + "]"
	}
	return label + " " + value
}

func (h *helpPrinter) optionToken(name string) string {
	if _, ok := h.style.(WindowsStyle); ok {
		return "/" + name
	}
	if utf8.RuneCountInString(name) == 1 {
		return "-" + name
	}
	return "--" + name
}

func (h *helpPrinter) commandRows(cmd *Command) []helpRow {
	cmds := visibleCommands(cmd)
	rows := make([]helpRow, 0, len(cmds))
	for _, c := range cmds {
		label := c.Name()
		if names := c.Names.Values(); len(names) > 1 {
			label += " (" + strings.Join(names[1:], ", ") + ")"
		}
		rows = append(rows, helpRow{label: label, description: c.Description()})
	}
	return rows
}

func annotate(desc, def string, env []string) string {
	if def != "" {
		desc = strings.TrimSpace(desc + " (default: " + def + ")")
	}
	if len(env) > 0 {
		desc = strings.TrimSpace(desc + " [env: " + strings.Join(env, ", ") + "]")
	}
	return desc
}

// section writes aligned two-column rows; descriptions wrap at the
// printer width and labels wider than the column get their own line.
func (h *helpPrinter) section(b *strings.Builder, title string, rows []helpRow) {
	b.WriteByte('\n')
	b.WriteString(h.heading(title))
	b.WriteByte('\n')

	column := 0
	for _, r := range rows {
		if w := runewidth.StringWidth(r.label); w > column {
			column = w
		}
	}
	column = min(column, helpMinColumn) + helpIndent + helpGap
	if maxColumn := h.width / 2; column > maxColumn {
		column = maxColumn
	}

	pad := strings.Repeat(" ", column)
	for _, r := range rows {
		b.WriteString(strings.Repeat(" ", helpIndent))
		b.WriteString(r.label)
		lw := helpIndent + runewidth.StringWidth(r.label)
		if r.description == "" {
			b.WriteByte('\n')
			continue
		}
		if lw+helpGap > column {
			b.WriteByte('\n')
			b.WriteString(pad)
		} else {
			b.WriteString(strings.Repeat(" ", column-lw))
		}
		for i, line := range wrap(r.description, h.width-column) {
			if i > 0 {
				b.WriteString(pad)
			}
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}
}

// wrap splits text into lines no wider than width display cells. Words
// wider than width are kept whole.
func wrap(text string, width int) []string {
	if width < 10 {
		width = 10
	}
	var lines []string
	var line strings.Builder
	lineWidth := 0
	for _, word := range strings.Fields(text) {
		ww := runewidth.StringWidth(word)
		if lineWidth > 0 && lineWidth+1+ww > width {
			lines = append(lines, line.String())
			line.Reset()
			lineWidth = 0
		}
		if lineWidth > 0 {
			line.WriteByte(' ')
			lineWidth++
		}
		line.WriteString(word)
		lineWidth += ww
	}
	if lineWidth > 0 {
		lines = append(lines, line.String())
	}
	return lines
}

func visibleOptions(cmd *Command) []*Option {
	out := make([]*Option, 0, len(cmd.options))
	for _, o := range cmd.options {
		if !o.Hidden {
			out = append(out, o)
		}
	}
	return out
}

func visibleCommands(cmd *Command) []*Command {
	out := make([]*Command, 0, len(cmd.commands))
	for _, c := range cmd.commands {
		if !c.hidden {
			out = append(out, c)
		}
	}
	return out
}
