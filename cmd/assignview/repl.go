package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vcrobe/assignview/dom"
	"github.com/vcrobe/assignview/panel"
)

const replHelp = `commands:
  click <id>         click the element with id (e.g. assignExampleBtn)
  set <id> <value>   type value into a form field (empty value clears it)
  submit             submit the edit form
  html               print the mounted markup
  text               print the visible text
  state              print the current ViewState as YAML
  ids                list clickable element ids present
  help               show this text
  quit               leave
`

// repl reads one command per line. Confirmation prompts read from the same
// reader, so a click that asks for confirmation consumes the next line.
type repl struct {
	panel *panel.Panel
	doc   *dom.Headless
	in    *bufio.Reader
	out   io.Writer
}

func newREPL(p *panel.Panel, doc *dom.Headless, in *bufio.Reader, out io.Writer) *repl {
	return &repl{panel: p, doc: doc, in: in, out: out}
}

func (r *repl) run(ctx context.Context) error {
	fmt.Fprintln(r.out, `type "help" for commands`)
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		line, err := r.in.ReadString('\n')
		if line = strings.TrimSpace(line); line != "" {
			if quit := r.exec(line); quit {
				return nil
			}
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}
	}
}

// exec runs one command line and reports whether the session should end.
func (r *repl) exec(line string) bool {
	name, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch name {
	case "quit", "exit":
		return true
	case "help":
		fmt.Fprint(r.out, replHelp)
	case "click":
		if !r.doc.Click(rest) {
			fmt.Fprintf(r.out, "! nothing to click at %q\n", rest)
		}
	case "set":
		id, value, _ := strings.Cut(rest, " ")
		if !r.doc.SetValue(id, value) {
			fmt.Fprintf(r.out, "! no field %q\n", id)
		}
	case "submit":
		if !r.doc.Submit(panel.IDForm) {
			fmt.Fprintln(r.out, "! form not submitted (missing form or required field empty)")
		}
	case "html":
		fmt.Fprintln(r.out, r.doc.HTML())
	case "text":
		fmt.Fprintln(r.out, r.doc.Text())
	case "state":
		raw, err := yaml.Marshal(r.panel.State())
		if err != nil {
			fmt.Fprintf(r.out, "! %v\n", err)
			return false
		}
		fmt.Fprint(r.out, string(raw))
	case "ids":
		var present []string
		for _, id := range clickable {
			if r.doc.Has(id) {
				present = append(present, id)
			}
		}
		fmt.Fprintln(r.out, strings.Join(present, " "))
	default:
		fmt.Fprintf(r.out, "! unknown command %q, try help\n", name)
	}
	return false
}

var clickable = []string{
	panel.IDSubmit,
	panel.IDRefresh,
	panel.IDAssignExample,
	panel.IDUnassignExample,
	panel.IDViewSubmissions,
	panel.IDOpenGitLab,
	panel.IDDeploy,
	panel.IDCreateChild,
	panel.IDDelete,
}
