package clip

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func helpFixture() *Command {
	root := New("tool", "Builds things").
		Option("v", "verbose").Describe("Verbose output").Back().
		Option("o", "output").Usage(SingleUsage).Required().Placeholder("file").Describe("Output file").Back().
		Option("level").Usage(SingleUsage).Int().Default(3).FromEnv("TOOL_LEVEL").Describe("Log level").Back().
		Option("secret").Hidden().Back().
		Argument("src").Describe("Source file").Back().
		Argument("dst").Default("out").Describe("Destination").Back()
	root.Command("sub", "Sub command", "s")
	root.Command("internal", "").Hidden()
	return root
}

func TestHelp_Layout(t *testing.T) {
	var buf bytes.Buffer
	if err := Help(&buf, helpFixture(), PosixStyle{}); err != nil {
		t.Fatal(err)
	}
	want := `Builds things

Usage:
  tool [options] <src> [<dst>] <command>

Arguments:
  <src>     Source file
  [<dst>]   Destination (default: out)

Options:
  -v, --verbose         Verbose output
  -o, --output <file>   Output file (required)
  --level <value>       Log level (default: 3) [env: TOOL_LEVEL]

Commands:
  sub (s)   Sub command

Use "tool <command> --help" for more information about a command.
`
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Fatalf("help mismatch (-want +got):\n%s", diff)
	}
}

func TestHelp_WindowsLabels(t *testing.T) {
	var buf bytes.Buffer
	if err := Help(&buf, helpFixture(), WindowsStyle{}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"/v, /verbose", "/o, /output <file>", `Use "tool <command> /?"`} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestSynopsis(t *testing.T) {
	tests := []struct {
		name  string
		build func() *Command
		want  string
	}{
		{
			name:  "bare",
			build: func() *Command { return New("app", "") },
			want:  "app",
		},
		{
			name: "repeating optional tail",
			build: func() *Command {
				return New("cp", "").Argument("src").Back().Argument("more").Optional().Repeat(Unbounded).Back()
			},
			want: "cp <src> [<more>...]",
		},
		{
			name: "unnamed root",
			build: func() *Command {
				return New("", "").Option("x").Back()
			},
			want: "<root> [options]",
		},
		{
			name: "nested",
			build: func() *Command {
				return New("git", "").Command("remote", "").Command("add", "").Argument("name").Back()
			},
			want: "git remote add <name>",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Synopsis(tt.build(), PosixStyle{}); got != tt.want {
				t.Fatalf("Synopsis = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHelp_OptionLabels(t *testing.T) {
	h := newHelpPrinter(nil, nil, PosixStyle{}, false)
	tests := []struct {
		name  string
		usage Usage
		want  string
	}{
		{"flag", FlagUsage, "-f, --files"},
		{"single", SingleUsage, "-f, --files <value>"},
		{"optional parameter", Usage{MaxOccurrences: 1, MaxParameters: 1}, "-f, --files [<value>]"},
		{"list", ListUsage, "-f, --files <value>..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, _ := NewOption("f", "files")
			if err := o.SetUsage(tt.usage); err != nil {
				t.Fatal(err)
			}
			if got := h.optionLabel(o); got != tt.want {
				t.Fatalf("label = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	got := wrap("alpha beta gamma delta", 12)
	want := []string{"alpha beta", "gamma delta"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("wrap mismatch (-want +got):\n%s", diff)
	}
	// wide runes count as two cells
	got = wrap("日本語 日本語", 10)
	if len(got) != 2 {
		t.Fatalf("wide text wrapped into %q", got)
	}
	if wrap("", 20) != nil {
		t.Fatal("empty text should produce no lines")
	}
}
