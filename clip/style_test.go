package clip

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestWindowsStyle_Forms(t *testing.T) {
	root := New("robocopy", "").
		Option("mt").Usage(SingleUsage).Int().Back().
		Option("xf").Usage(ListUsage).Back().
		Option("s").Back().
		Option("log").Usage(SingleUsage).Back().
		Argument("src").Back().
		Argument("dst").Optional().Back()

	tests := []struct {
		name   string
		tokens []string
		mt     int
		log    string
		xf     []string
		args   []string
	}{
		{"colon", []string{"/mt:8", "in"}, 8, "", []string{}, []string{"in"}},
		{"equals", []string{"/mt=4", "in"}, 4, "", []string{}, []string{"in"}},
		{"separate", []string{"/mt", "2", "in"}, 2, "", []string{}, []string{"in"}},
		{"dash prefix", []string{"-mt:3", "-log", "x.txt", "in"}, 3, "x.txt", []string{}, []string{"in"}},
		{"path stays positional", []string{"/s", "/data/in", "/data/out"}, 0, "", []string{}, []string{"/data/in", "/data/out"}},
		{"negative number positional", []string{"-5", "-6"}, 0, "", []string{}, []string{"-5", "-6"}},
		{"value with colon", []string{`/log:C:\tmp\log.txt`, "in"}, 0, `C:\tmp\log.txt`, []string{}, []string{"in"}},
		{"list then terminator", []string{"/xf", "a", "b", "--", "/in"}, 0, "", []string{"a", "b"}, []string{"/in"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := mustParse(t, root, tt.tokens, WithStyle(WindowsStyle{}))
			mt, _ := res.Int("mt")
			log, _ := res.String("log")
			xf, _ := res.Strings("xf")
			if mt != tt.mt || log != tt.log {
				t.Errorf("mt=%d log=%q, want %d %q", mt, log, tt.mt, tt.log)
			}
			if diff := cmp.Diff(tt.xf, xf); diff != "" {
				t.Errorf("xf mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.args, res.Arguments()); diff != "" {
				t.Errorf("arguments mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestWindowsStyle_NoCombining(t *testing.T) {
	root := New("app", "").Option("a").Back().Option("b").Back()
	_, err := Parse(root, []string{"/ab"}, WithStyle(WindowsStyle{}))
	var pe *ParseError
	if !errors.As(err, &pe) || pe.Code != CodeUnrecognizedOption {
		t.Fatalf("got %v", err)
	}
}

func TestStyles_IncompatibleNames(t *testing.T) {
	tests := []struct {
		name    string
		style   Style
		opt     string
		direct  bool // assigned to Option.Names, bypassing name checks
		posixOK bool
	}{
		{"windows digits", WindowsStyle{}, "42", false, true},
		{"windows single digit", WindowsStyle{}, "1", false, true},
		{"windows question prefix", WindowsStyle{}, "?x", false, true},
		{"windows colon", WindowsStyle{}, "a:b", true, true},
		{"posix equals", PosixStyle{}, "a=b", true, false},
		{"posix space", PosixStyle{}, "a b", true, false},
		{"posix leading dash", PosixStyle{}, "-x", true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New("app", "").Option("x")
			root := b.Back()
			if tt.direct {
				b.Option().Names = Names{{Value: tt.opt, CaseSensitive: true}}
			} else {
				root = New("app", "").Option(tt.opt).Back()
			}
			if root.Err() != nil {
				t.Fatalf("name should be valid: %v", root.Err())
			}
			if _, err := Parse(root, nil, WithStyle(tt.style)); !errors.Is(err, ErrStyleIncompatible) {
				t.Fatalf("got %v", err)
			}
			if _, err := Parse(root, nil); (err == nil) != tt.posixOK {
				t.Fatalf("posix on %q: %v", tt.opt, err)
			}
		})
	}
}

func TestWindowsStyle_QuestionMarkName(t *testing.T) {
	root := New("app", "").Option("?").Back()
	if _, err := Parse(root, nil, WithStyle(WindowsStyle{})); err != nil {
		t.Fatalf("literal '?' should be accepted: %v", err)
	}
}

func TestStyles_NonDecimalDashTokens(t *testing.T) {
	root := New("app", "").
		Option("v").Back().
		Argument("a").Optional().Back()

	for _, style := range []Style{PosixStyle{}, WindowsStyle{}} {
		for _, tok := range []string{"-inf", "-nan", "-infinity", "-Inf", "-0x10"} {
			if _, err := Parse(root, []string{tok}, WithStyle(style)); !errors.Is(err, ErrUnrecognizedOption) {
				t.Errorf("%s %q: got %v, want unrecognized option", style.Name(), tok, err)
			}
		}
		for _, tok := range []string{"-5", "-0.5", "-.5", "-1e3"} {
			res, err := Parse(root, []string{tok}, WithStyle(style))
			if err != nil {
				t.Errorf("%s %q: %v", style.Name(), tok, err)
				continue
			}
			if got, _ := res.String("a"); got != tok {
				t.Errorf("%s %q: a=%q", style.Name(), tok, got)
			}
		}
	}
}

func TestPosixStyle_CombinedWithValue(t *testing.T) {
	root := New("tar", "").
		Option("x").Back().
		Option("z").Back().
		Option("f").Usage(SingleUsage).Back()

	for _, tokens := range [][]string{
		{"-xzf", "a.tgz"},
		{"-xzfa.tgz"},
		{"-xzf=a.tgz"},
		{"-x", "-z", "--f", "a.tgz"},
	} {
		res := mustParse(t, root, tokens)
		f, _ := res.String("f")
		if !res.Flag("x") || !res.Flag("z") || f != "a.tgz" {
			t.Errorf("%q: x=%v z=%v f=%q", tokens, res.Flag("x"), res.Flag("z"), f)
		}
	}

	_, err := Parse(root, []string{"-xq"})
	var pe *ParseError
	if !errors.As(err, &pe) || pe.Token != "-q" {
		t.Fatalf("unknown rune in a combined token: %v", err)
	}
}

func TestGroupingString(t *testing.T) {
	got := []string{GroupingAny.String(), GroupingOptionsFirst.String(), GroupingArgumentsFirst.String()}
	if diff := cmp.Diff([]string{"any", "options-first", "arguments-first"}, got); diff != "" {
		t.Fatal(diff)
	}
}
