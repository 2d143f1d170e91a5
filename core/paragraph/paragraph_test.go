package paragraph

import (
	"testing"

	"github.com/FocuswithJustin/inkwell/core/errors"
	"github.com/FocuswithJustin/inkwell/core/markup"
)

// parsePara parses a paragraph fragment into a Paragraph.
func parsePara(t *testing.T, fragment string) *Paragraph {
	t.Helper()
	doc, err := markup.Parse([]byte(`<w:body xmlns:w="` + markup.NamespaceW + `">` + fragment + `</w:body>`))
	if err != nil {
		t.Fatalf("parsing fragment: %v", err)
	}
	paras := doc.Paragraphs()
	if len(paras) == 0 {
		t.Fatal("no paragraph element in fragment")
	}
	p, err := Wrap(paras[0])
	if err != nil {
		t.Fatalf("Wrap: %v", err)
	}
	return p
}

const plainPara = `<w:p>` +
	`<w:pPr><w:jc w:val="left"/></w:pPr>` +
	`<w:r><w:t xml:space="preserve">This </w:t></w:r>` +
	`<w:r><w:t xml:space="preserve">is a </w:t></w:r>` +
	`<w:r><w:t>test.</w:t></w:r>` +
	`</w:p>`

func TestWrapRejectsNonParagraph(t *testing.T) {
	if _, err := Wrap(markup.NewElement(markup.TagRun)); !errors.Is(err, errors.ErrInvalidArgument) {
		t.Errorf("Wrap(run) error = %v, want ErrInvalidArgument", err)
	}
}

func TestTextAndLength(t *testing.T) {
	p := parsePara(t, plainPara)
	if got := p.Text(); got != "This is a test." {
		t.Errorf("Text() = %q", got)
	}
	if got := p.Length(); got != 15 {
		t.Errorf("Length() = %d, want 15", got)
	}
	if got := p.WalkLength(); got != 15 {
		t.Errorf("WalkLength() = %d, want 15", got)
	}
}

func TestTextSkipsDeletions(t *testing.T) {
	p := parsePara(t, `<w:p>`+
		`<w:r><w:t xml:space="preserve">kept </w:t></w:r>`+
		`<w:del w:id="1"><w:r><w:delText>gone</w:delText></w:r></w:del>`+
		`<w:ins w:id="2"><w:r><w:t>new</w:t></w:r></w:ins>`+
		`</w:p>`)
	if got := p.Text(); got != "kept new" {
		t.Errorf("Text() = %q, want %q", got, "kept new")
	}
	if got, want := p.Length(), 8; got != want {
		t.Errorf("Length() = %d, want %d", got, want)
	}
	if got, want := p.WalkLength(), 12; got != want {
		t.Errorf("WalkLength() = %d, want %d", got, want)
	}
}

func TestSpecialCharsRenderInText(t *testing.T) {
	p := parsePara(t, `<w:p><w:r><w:t>a</w:t><w:tab/><w:t>b</w:t><w:br/><w:t>c</w:t></w:r></w:p>`)
	if got := p.Text(); got != "a\tb\nc" {
		t.Errorf("Text() = %q, want %q", got, "a\tb\nc")
	}
}

func TestRunsCarryOffsets(t *testing.T) {
	p := parsePara(t, plainPara)
	runs := p.Runs()
	if len(runs) != 3 {
		t.Fatalf("run count = %d, want 3", len(runs))
	}
	wantStarts := []int{0, 5, 10}
	for i, r := range runs {
		if r.StartOffset() != wantStarts[i] {
			t.Errorf("run %d start = %d, want %d", i, r.StartOffset(), wantStarts[i])
		}
	}
}

func TestIsEmpty(t *testing.T) {
	if p := parsePara(t, `<w:p><w:pPr/></w:p>`); !p.IsEmpty() {
		t.Error("properties-only paragraph should be empty")
	}
	if p := parsePara(t, plainPara); p.IsEmpty() {
		t.Error("paragraph with text should not be empty")
	}
	// A drawing has zero length but is still content.
	if p := parsePara(t, `<w:p><w:r><w:drawing/></w:r></w:p>`); p.IsEmpty() {
		t.Error("paragraph with a drawing should not be empty")
	}
}

func TestFingerprint(t *testing.T) {
	a := parsePara(t, plainPara)
	// Same visible text, different run structure.
	b := parsePara(t, `<w:p><w:r><w:t>This is a test.</w:t></w:r></w:p>`)
	c := parsePara(t, `<w:p><w:r><w:t>Another text.</w:t></w:r></w:p>`)

	if a.Fingerprint() != b.Fingerprint() {
		t.Error("equal visible text must fingerprint equally")
	}
	if a.Fingerprint() == c.Fingerprint() {
		t.Error("different visible text must fingerprint differently")
	}
	if len(a.Fingerprint()) != 64 {
		t.Errorf("fingerprint length = %d, want 64 hex digits", len(a.Fingerprint()))
	}
}

func TestFieldInstructions(t *testing.T) {
	p := parsePara(t, `<w:p>`+
		`<w:fldSimple w:instr="MERGEFIELD Name"><w:r><w:t>Alice</w:t></w:r></w:fldSimple>`+
		`<w:r><w:fldChar w:fldCharType="begin"/></w:r>`+
		`<w:r><w:instrText xml:space="preserve"> PAGE </w:instrText></w:r>`+
		`<w:r><w:fldChar w:fldCharType="end"/></w:r>`+
		`</w:p>`)
	got := p.FieldInstructions()
	want := []string{"MERGEFIELD Name", " PAGE "}
	if len(got) != len(want) {
		t.Fatalf("FieldInstructions() = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("instruction %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestLocateInsertMode(t *testing.T) {
	p := parsePara(t, plainPara)

	tests := []struct {
		index     int
		wantStart int
	}{
		{0, 0},
		{3, 0},
		{5, 5}, // boundary resolves to the run the next character belongs to
		{6, 5},
		{10, 10},
		{14, 10},
		{15, 10}, // append point
	}
	for _, tt := range tests {
		r, err := p.Locate(tt.index, ModeInsert)
		if err != nil {
			t.Errorf("Locate(%d, insert): %v", tt.index, err)
			continue
		}
		if r.StartOffset() != tt.wantStart {
			t.Errorf("Locate(%d, insert) start = %d, want %d", tt.index, r.StartOffset(), tt.wantStart)
		}
	}

	if _, err := p.Locate(16, ModeInsert); !errors.Is(err, errors.ErrIndexOutOfRange) {
		t.Errorf("Locate(16, insert) error = %v, want ErrIndexOutOfRange", err)
	}
	if _, err := p.Locate(-1, ModeInsert); !errors.Is(err, errors.ErrIndexOutOfRange) {
		t.Errorf("Locate(-1, insert) error = %v, want ErrIndexOutOfRange", err)
	}
}

func TestLocateDeleteMode(t *testing.T) {
	p := parsePara(t, plainPara)

	r, err := p.Locate(5, ModeDelete)
	if err != nil {
		t.Fatalf("Locate(5, delete): %v", err)
	}
	if r.StartOffset() != 5 {
		t.Errorf("start = %d, want 5", r.StartOffset())
	}

	// Offset equal to the total has no character to delete.
	if _, err := p.Locate(15, ModeDelete); !errors.Is(err, errors.ErrIndexOutOfRange) {
		t.Errorf("Locate(15, delete) error = %v, want ErrIndexOutOfRange", err)
	}
}

func TestLocateModesDivergeOverDeletions(t *testing.T) {
	p := parsePara(t, `<w:p>`+
		`<w:r><w:t>ab</w:t></w:r>`+
		`<w:del w:id="1"><w:r><w:delText>XY</w:delText></w:r></w:del>`+
		`<w:r><w:t>cd</w:t></w:r>`+
		`</w:p>`)

	// Insert mode never lands inside the deletion: offset 2 belongs to the
	// visible run after the deleted span.
	r, err := p.Locate(2, ModeInsert)
	if err != nil {
		t.Fatalf("Locate(2, insert): %v", err)
	}
	if got := r.Text(); got != "cd" {
		t.Errorf("insert-mode run at 2 = %q, want %q", got, "cd")
	}

	// Delete mode addresses the deleted characters.
	r, err = p.Locate(2, ModeDelete)
	if err != nil {
		t.Fatalf("Locate(2, delete): %v", err)
	}
	if got := r.Text(); got != "XY" {
		t.Errorf("delete-mode run at 2 = %q, want %q", got, "XY")
	}
}
