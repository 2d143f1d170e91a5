package field

import (
	"testing"

	"github.com/FocuswithJustin/inkwell/core/errors"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Instruction
	}{
		{
			name:  "bare keyword",
			input: "PAGE",
			want:  Instruction{Name: "PAGE"},
		},
		{
			name:  "keyword with argument",
			input: "MERGEFIELD LastName",
			want:  Instruction{Name: "MERGEFIELD", Args: []string{"LastName"}},
		},
		{
			name:  "format switch",
			input: `MERGEFIELD Name \* Upper`,
			want: Instruction{
				Name:     "MERGEFIELD",
				Args:     []string{"Name"},
				Switches: []Switch{{Flag: "*", Arg: "Upper"}},
			},
		},
		{
			name:  "quoted switch argument",
			input: `MERGEFIELD Name \b "Dear "`,
			want: Instruction{
				Name:     "MERGEFIELD",
				Args:     []string{"Name"},
				Switches: []Switch{{Flag: "b", Arg: "Dear "}},
			},
		},
		{
			name:  "date picture",
			input: `DATE \@ "yyyy-MM-dd"`,
			want: Instruction{
				Name:     "DATE",
				Switches: []Switch{{Flag: "@", Arg: "yyyy-MM-dd"}},
			},
		},
		{
			name:  "quoted positional argument",
			input: `HYPERLINK "https://example.com/a b"`,
			want: Instruction{
				Name: "HYPERLINK",
				Args: []string{"https://example.com/a b"},
			},
		},
		{
			name:  "escaped quote in string",
			input: `QUOTE "say \"hi\""`,
			want: Instruction{
				Name: "QUOTE",
				Args: []string{`say "hi"`},
			},
		},
		{
			name:  "surrounding whitespace",
			input: "  PAGE  ",
			want:  Instruction{Name: "PAGE"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.input, err)
			}
			if got.Name != tt.want.Name {
				t.Errorf("Name = %q, want %q", got.Name, tt.want.Name)
			}
			if len(got.Args) != len(tt.want.Args) {
				t.Fatalf("Args = %q, want %q", got.Args, tt.want.Args)
			}
			for i := range tt.want.Args {
				if got.Args[i] != tt.want.Args[i] {
					t.Errorf("Args[%d] = %q, want %q", i, got.Args[i], tt.want.Args[i])
				}
			}
			if len(got.Switches) != len(tt.want.Switches) {
				t.Fatalf("Switches = %v, want %v", got.Switches, tt.want.Switches)
			}
			for i := range tt.want.Switches {
				if got.Switches[i] != tt.want.Switches[i] {
					t.Errorf("Switches[%d] = %v, want %v", i, got.Switches[i], tt.want.Switches[i])
				}
			}
		})
	}
}

func TestParseEmpty(t *testing.T) {
	for _, input := range []string{"", "   "} {
		if _, err := Parse(input); !errors.Is(err, errors.ErrInvalidArgument) {
			t.Errorf("Parse(%q) error = %v, want ErrInvalidArgument", input, err)
		}
	}
}

func TestParseAll(t *testing.T) {
	instrs, err := ParseAll([]string{"PAGE", "MERGEFIELD Name"})
	if err != nil {
		t.Fatalf("ParseAll: %v", err)
	}
	if len(instrs) != 2 || instrs[0].Name != "PAGE" || instrs[1].Name != "MERGEFIELD" {
		t.Errorf("ParseAll = %v", instrs)
	}

	if _, err := ParseAll([]string{"PAGE", "  "}); err == nil {
		t.Error("ParseAll with an empty instruction must fail")
	}
}

func TestSwitchLookup(t *testing.T) {
	instr, err := Parse(`MERGEFIELD Name \* Upper \b "pre"`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if arg, ok := instr.Switch("*"); !ok || arg != "Upper" {
		t.Errorf(`Switch("*") = %q, %v`, arg, ok)
	}
	if arg, ok := instr.Switch("b"); !ok || arg != "pre" {
		t.Errorf(`Switch("b") = %q, %v`, arg, ok)
	}
	if _, ok := instr.Switch("f"); ok {
		t.Error(`Switch("f") found, want absent`)
	}
}

func TestStringRoundTrip(t *testing.T) {
	inputs := []string{
		"PAGE",
		"MERGEFIELD LastName",
		`MERGEFIELD Name \* Upper`,
		`DATE \@ "yyyy-MM-dd HH:mm"`,
	}
	for _, input := range inputs {
		first, err := Parse(input)
		if err != nil {
			t.Fatalf("Parse(%q): %v", input, err)
		}
		second, err := Parse(first.String())
		if err != nil {
			t.Fatalf("reparse of %q: %v", first.String(), err)
		}
		if first.String() != second.String() {
			t.Errorf("round trip of %q: %q != %q", input, first.String(), second.String())
		}
	}
}
