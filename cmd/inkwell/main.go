// Command inkwell is the CLI for the inkwell document editing library.
// It loads a markup document, applies paragraph-level edits, and writes the
// result back, plus bookmark, field, and document store operations.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/antchfx/xmlquery"

	"github.com/FocuswithJustin/inkwell/core/anchor"
	"github.com/FocuswithJustin/inkwell/core/errors"
	"github.com/FocuswithJustin/inkwell/core/field"
	"github.com/FocuswithJustin/inkwell/core/markup"
	"github.com/FocuswithJustin/inkwell/core/paragraph"
	"github.com/FocuswithJustin/inkwell/core/run"
	"github.com/FocuswithJustin/inkwell/core/store"
	"github.com/FocuswithJustin/inkwell/internal/logging"
)

const version = "0.1.0"

// CLI defines the command-line interface for inkwell.
var CLI struct {
	// Global flags
	LogLevel  string `name:"log-level" default:"warn" enum:"debug,info,warn,error" help:"Log level"`
	LogFormat string `name:"log-format" default:"text" enum:"text,json" help:"Log output format"`

	Text     TextCmd       `cmd:"" help:"Print a paragraph's visible text"`
	Show     ShowCmd       `cmd:"" help:"Print the document markup"`
	Insert   InsertCmd     `cmd:"" help:"Insert text into a paragraph"`
	Remove   RemoveCmd     `cmd:"" help:"Remove a character range from a paragraph"`
	Replace  ReplaceCmd    `cmd:"" help:"Find and replace text in a paragraph"`
	Optimize OptimizeCmd   `cmd:"" help:"Merge mergeable adjacent runs"`
	Split    SplitCmd      `cmd:"" help:"Split a paragraph in two"`
	Bookmark BookmarkGroup `cmd:"" help:"Bookmark operations"`
	Fields   FieldsCmd     `cmd:"" help:"List parsed field instructions"`
	Store    StoreGroup    `cmd:"" help:"Document store operations"`
	Version  VersionCmd    `cmd:"" help:"Print version information"`
}

// docArgs is the flag set shared by document-editing commands.
type docArgs struct {
	Path      string `arg:"" help:"Path to the document (.xml or .xml.xz)" type:"existingfile"`
	Paragraph int    `name:"paragraph" short:"n" default:"0" help:"Paragraph index"`
	Output    string `name:"output" short:"o" help:"Output path (default: in place)" type:"path"`
}

// editArgs extends docArgs with revision tracking flags.
type editArgs struct {
	docArgs
	Track  bool   `name:"track" help:"Record the edit as a tracked change"`
	Author string `name:"author" help:"Author name for tracked changes"`
}

func (a *docArgs) load() (*markup.Document, *paragraph.Paragraph, error) {
	doc, err := markup.ParseFile(a.Path)
	if err != nil {
		return nil, nil, err
	}
	paras := doc.Paragraphs()
	if a.Paragraph < 0 || a.Paragraph >= len(paras) {
		return nil, nil, errors.NewIndex("paragraph", a.Paragraph, len(paras))
	}
	p, err := paragraph.Wrap(paras[a.Paragraph])
	if err != nil {
		return nil, nil, err
	}
	return doc, p, nil
}

func (a *docArgs) save(doc *markup.Document) error {
	out := a.Output
	if out == "" {
		out = a.Path
	}
	return doc.Save(out)
}

func (a *editArgs) editor() *paragraph.Editor {
	return paragraph.NewEditor(paragraph.Options{
		TrackChanges: a.Track,
		Author:       a.Author,
	})
}

// TextCmd prints a paragraph's visible text.
type TextCmd struct {
	docArgs
}

func (c *TextCmd) Run() error {
	_, p, err := c.load()
	if err != nil {
		return err
	}
	fmt.Println(p.Text())
	return nil
}

// ShowCmd prints the document markup.
type ShowCmd struct {
	Path   string `arg:"" help:"Path to the document" type:"existingfile"`
	Pretty bool   `name:"pretty" help:"Indent the output"`
}

func (c *ShowCmd) Run() error {
	doc, err := markup.ParseFile(c.Path)
	if err != nil {
		return err
	}
	if c.Pretty {
		os.Stdout.Write(doc.Format(markup.FormatOptions{Indent: "  "}))
		return nil
	}
	os.Stdout.Write(doc.Serialize())
	fmt.Println()
	return nil
}

// InsertCmd inserts text at a character offset.
type InsertCmd struct {
	editArgs
	At   int    `name:"at" required:"" help:"Character offset"`
	Text string `arg:"" help:"Text to insert"`
}

func (c *InsertCmd) Run() error {
	doc, p, err := c.load()
	if err != nil {
		return err
	}
	if err := c.editor().InsertText(p, c.At, c.Text, nil); err != nil {
		return err
	}
	logging.EditOp("insert", p.Fingerprint(), "at", c.At, "chars", len(c.Text))
	return c.save(doc)
}

// RemoveCmd removes a character range.
type RemoveCmd struct {
	editArgs
	At    int `name:"at" required:"" help:"Character offset"`
	Count int `name:"count" required:"" help:"Number of characters to remove"`
}

func (c *RemoveCmd) Run() error {
	doc, p, err := c.load()
	if err != nil {
		return err
	}
	if err := c.editor().RemoveText(p, c.At, c.Count); err != nil {
		return err
	}
	logging.EditOp("remove", p.Fingerprint(), "at", c.At, "count", c.Count)
	return c.save(doc)
}

// ReplaceCmd finds and replaces text.
type ReplaceCmd struct {
	editArgs
	Find       string `arg:"" help:"Text to find"`
	With       string `arg:"" help:"Replacement text"`
	IgnoreCase bool   `name:"ignore-case" short:"i" help:"Case-insensitive matching"`
}

func (c *ReplaceCmd) Run() error {
	doc, p, err := c.load()
	if err != nil {
		return err
	}
	cmp := paragraph.MatchExact
	if c.IgnoreCase {
		cmp = paragraph.MatchIgnoreCase
	}
	replaced, err := c.editor().FindReplace(p, c.Find, c.With, cmp)
	if err != nil {
		return err
	}
	if !replaced {
		fmt.Println("no match")
		return nil
	}
	logging.EditOp("replace", p.Fingerprint(), "find", c.Find)
	return c.save(doc)
}

// OptimizeCmd merges mergeable adjacent runs.
type OptimizeCmd struct {
	docArgs
}

func (c *OptimizeCmd) Run() error {
	doc, p, err := c.load()
	if err != nil {
		return err
	}
	before := len(p.Runs())
	paragraph.NewEditor(paragraph.Options{}).OptimizeRuns(p)
	fmt.Printf("runs: %d -> %d\n", before, len(p.Runs()))
	return c.save(doc)
}

// SplitCmd splits a paragraph at a character offset.
type SplitCmd struct {
	editArgs
	At int `name:"at" required:"" help:"Character offset"`
}

func (c *SplitCmd) Run() error {
	doc, p, err := c.load()
	if err != nil {
		return err
	}
	left, right, err := c.editor().Split(p, c.At)
	if err != nil {
		return err
	}
	var repl []*xmlquery.Node
	for _, frag := range []*paragraph.Paragraph{left, right} {
		if frag != nil {
			repl = append(repl, frag.Node())
		}
	}
	markup.Replace(p.Node(), repl...)
	return c.save(doc)
}

// BookmarkGroup contains bookmark operations.
type BookmarkGroup struct {
	Set    BookmarkSetCmd    `cmd:"" help:"Create a bookmark over a run range"`
	Text   BookmarkTextCmd   `cmd:"" help:"Print a bookmark's text"`
	List   BookmarkListCmd   `cmd:"" help:"List bookmarks"`
	Remove BookmarkRemoveCmd `cmd:"" help:"Remove a bookmark"`
}

// BookmarkSetCmd creates a bookmark spanning a run range.
type BookmarkSetCmd struct {
	docArgs
	Name     string `arg:"" help:"Bookmark name"`
	StartRun int    `name:"start-run" required:"" help:"Index of the first run"`
	EndRun   int    `name:"end-run" required:"" help:"Index of the last run"`
}

func (c *BookmarkSetCmd) Run() error {
	doc, p, err := c.load()
	if err != nil {
		return err
	}
	runs := p.Runs()
	start, err := runAt(runs, c.StartRun)
	if err != nil {
		return err
	}
	end, err := runAt(runs, c.EndRun)
	if err != nil {
		return err
	}
	if err := anchor.New(p.Node()).SetBookmark(c.Name, start, end); err != nil {
		return err
	}
	return c.save(doc)
}

func runAt(runs []*run.Run, i int) (*run.Run, error) {
	if i < 0 || i >= len(runs) {
		return nil, errors.NewIndex("run", i, len(runs))
	}
	return runs[i], nil
}

// BookmarkTextCmd prints a bookmark's text.
type BookmarkTextCmd struct {
	docArgs
	Name string `arg:"" help:"Bookmark name"`
}

func (c *BookmarkTextCmd) Run() error {
	_, p, err := c.load()
	if err != nil {
		return err
	}
	text, err := anchor.New(p.Node()).BookmarkText(c.Name)
	if err != nil {
		return err
	}
	fmt.Println(text)
	return nil
}

// BookmarkListCmd lists bookmarks.
type BookmarkListCmd struct {
	docArgs
}

func (c *BookmarkListCmd) Run() error {
	_, p, err := c.load()
	if err != nil {
		return err
	}
	for _, b := range anchor.New(p.Node()).Bookmarks() {
		fmt.Printf("%s\t%s\n", b.Name, b.ID)
	}
	return nil
}

// BookmarkRemoveCmd removes a bookmark.
type BookmarkRemoveCmd struct {
	docArgs
	Name string `arg:"" help:"Bookmark name"`
}

func (c *BookmarkRemoveCmd) Run() error {
	doc, p, err := c.load()
	if err != nil {
		return err
	}
	if err := anchor.New(p.Node()).RemoveBookmark(c.Name); err != nil {
		return err
	}
	return c.save(doc)
}

// FieldsCmd lists the parsed field instructions of a paragraph.
type FieldsCmd struct {
	docArgs
}

func (c *FieldsCmd) Run() error {
	_, p, err := c.load()
	if err != nil {
		return err
	}
	instrs, err := field.ParseAll(p.FieldInstructions())
	if err != nil {
		return err
	}
	for _, instr := range instrs {
		fmt.Println(instr.String())
	}
	return nil
}

// StoreGroup contains document store operations.
type StoreGroup struct {
	Put    StorePutCmd    `cmd:"" help:"Store a document"`
	Get    StoreGetCmd    `cmd:"" help:"Export a stored document"`
	List   StoreListCmd   `cmd:"" help:"List stored documents"`
	Delete StoreDeleteCmd `cmd:"" help:"Delete a stored document"`
}

// storeArgs is the flag set shared by store commands.
type storeArgs struct {
	DB string `name:"db" default:"inkwell.db" help:"Store database path" type:"path"`
}

func (a *storeArgs) open() (*store.Store, error) {
	return store.Open(a.DB)
}

// StorePutCmd stores a document file.
type StorePutCmd struct {
	storeArgs
	ID    string `arg:"" help:"Document id"`
	Path  string `arg:"" help:"Path to the document" type:"existingfile"`
	Title string `name:"title" help:"Document title"`
}

func (c *StorePutCmd) Run() error {
	s, err := c.open()
	if err != nil {
		return err
	}
	defer s.Close()

	doc, err := markup.ParseFile(c.Path)
	if err != nil {
		return err
	}
	title := c.Title
	if title == "" {
		title = c.ID
	}
	return s.Put(context.Background(), c.ID, title, doc.Serialize())
}

// StoreGetCmd exports a stored document.
type StoreGetCmd struct {
	storeArgs
	ID     string `arg:"" help:"Document id"`
	Output string `name:"output" short:"o" help:"Output path (default: stdout)" type:"path"`
}

func (c *StoreGetCmd) Run() error {
	s, err := c.open()
	if err != nil {
		return err
	}
	defer s.Close()

	doc, err := s.Get(context.Background(), c.ID)
	if err != nil {
		return err
	}
	if c.Output == "" {
		os.Stdout.Write(doc.Body)
		return nil
	}
	return os.WriteFile(c.Output, doc.Body, 0o644)
}

// StoreListCmd lists stored documents.
type StoreListCmd struct {
	storeArgs
}

func (c *StoreListCmd) Run() error {
	s, err := c.open()
	if err != nil {
		return err
	}
	defer s.Close()

	docs, err := s.List(context.Background())
	if err != nil {
		return err
	}
	for _, d := range docs {
		fmt.Printf("%s\t%s\t%s\t%s\n", d.ID, d.Title, d.Fingerprint[:12], d.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

// StoreDeleteCmd deletes a stored document.
type StoreDeleteCmd struct {
	storeArgs
	ID string `arg:"" help:"Document id"`
}

func (c *StoreDeleteCmd) Run() error {
	s, err := c.open()
	if err != nil {
		return err
	}
	defer s.Close()
	return s.Delete(context.Background(), c.ID)
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("inkwell %s\n", version)
	return nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("inkwell"),
		kong.Description("inkwell - structured document text editing"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	logging.InitLogger(logging.ParseLevel(CLI.LogLevel), logging.ParseFormat(CLI.LogFormat))
	err := ctx.Run(ctx)
	ctx.FatalIfErrorf(err)
}
