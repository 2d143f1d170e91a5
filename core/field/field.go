// Package field parses field instruction strings, the mini-language found
// in simple field attributes and instruction text atoms (for example
// `MERGEFIELD LastName \* Upper \b "Dear "`). Parsing is read-only; field
// evaluation belongs to the document layer.
package field

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/FocuswithJustin/inkwell/core/errors"
)

// Instruction is one parsed field instruction.
type Instruction struct {
	// Name is the field keyword (MERGEFIELD, PAGE, DATE, ...).
	Name string

	// Args are the positional arguments before the first switch.
	Args []string

	// Switches are the backslash switches with their optional arguments,
	// in source order.
	Switches []Switch
}

// Switch is one backslash switch, such as `\* Upper` or `\b "Dear "`.
type Switch struct {
	Flag string
	Arg  string
}

//nolint:govet // participle grammar tags are not standard struct tags
type instrGrammar struct {
	Name  string       `parser:"@Word"`
	Parts []*instrPart `parser:"@@*"`
}

//nolint:govet // participle grammar tags are not standard struct tags
type instrPart struct {
	Switch *switchPart `parser:"  @@"`
	Word   *string     `parser:"| @Word"`
	Quoted *string     `parser:"| @String"`
}

//nolint:govet // participle grammar tags are not standard struct tags
type switchPart struct {
	Flag string  `parser:"@Switch"`
	Word *string `parser:"( @Word"`
	Str  *string `parser:"| @String )?"`
}

var instrLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "String", Pattern: `"(\\.|[^"\\])*"`},
	{Name: "Switch", Pattern: `\\[^\s\\"]`},
	{Name: "Word", Pattern: `[^\s\\"]+`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var instrParser = participle.MustBuild[instrGrammar](
	participle.Lexer(instrLexer),
	participle.Elide("Whitespace"),
)

// Parse parses a raw field instruction string.
func Parse(s string) (*Instruction, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errors.NewArgument("instruction", "must not be empty")
	}

	parsed, err := instrParser.ParseString("", s)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid field instruction %q", s)
	}

	instr := &Instruction{Name: parsed.Name}
	for _, part := range parsed.Parts {
		switch {
		case part.Switch != nil:
			sw := Switch{Flag: strings.TrimPrefix(part.Switch.Flag, `\`)}
			if part.Switch.Word != nil {
				sw.Arg = *part.Switch.Word
			}
			if part.Switch.Str != nil {
				sw.Arg = unquote(*part.Switch.Str)
			}
			instr.Switches = append(instr.Switches, sw)
		case part.Word != nil:
			instr.Args = append(instr.Args, *part.Word)
		case part.Quoted != nil:
			instr.Args = append(instr.Args, unquote(*part.Quoted))
		}
	}
	return instr, nil
}

// ParseAll parses every instruction in a slice, as produced by a
// paragraph's field scan. Parse failures abort with the offending
// instruction identified.
func ParseAll(raw []string) ([]*Instruction, error) {
	out := make([]*Instruction, 0, len(raw))
	for _, s := range raw {
		instr, err := Parse(s)
		if err != nil {
			return nil, err
		}
		out = append(out, instr)
	}
	return out, nil
}

// Switch returns the argument of the first switch with the given flag.
func (i *Instruction) Switch(flag string) (string, bool) {
	for _, sw := range i.Switches {
		if sw.Flag == flag {
			return sw.Arg, true
		}
	}
	return "", false
}

// String reassembles the instruction in canonical form: name, arguments,
// then switches, with arguments quoted when they contain whitespace.
func (i *Instruction) String() string {
	var sb strings.Builder
	sb.WriteString(i.Name)
	for _, a := range i.Args {
		sb.WriteByte(' ')
		sb.WriteString(quoteIfNeeded(a))
	}
	for _, sw := range i.Switches {
		sb.WriteString(` \`)
		sb.WriteString(sw.Flag)
		if sw.Arg != "" {
			sb.WriteByte(' ')
			sb.WriteString(quoteIfNeeded(sw.Arg))
		}
	}
	return sb.String()
}

func unquote(s string) string {
	s = strings.TrimPrefix(s, `"`)
	s = strings.TrimSuffix(s, `"`)
	var sb strings.Builder
	escaped := false
	for _, r := range s {
		if escaped {
			sb.WriteRune(r)
			escaped = false
			continue
		}
		if r == '\\' {
			escaped = true
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func quoteIfNeeded(s string) string {
	if !strings.ContainsAny(s, " \t\"") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}
