package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	blockfactory "github.com/Edusharks/block-ide-vite-sub001"
	"github.com/Edusharks/block-ide-vite-sub001/internal/presentation/svg"
	"github.com/Edusharks/block-ide-vite-sub001/internal/presentation/tui"
	"github.com/Edusharks/block-ide-vite-sub001/pkg/domain"
	"github.com/spf13/cast"
)

const replHelp = `Commands:
  show                          render the block summary
  json                          print the exported artifact
  set <field> [value]           change a field (name, tooltip, color, style, inputsInline,
                                pythonTemplate, output, outputType, previous, next)
  add <kind>                    append an input (field_input, field_number, field_dropdown,
                                field_checkbox, field_colour, field_angle, input_value, input_statement)
  rm <id>                       remove an input
  update <id> <key> [value]     set an input property (name, type, default, options, check)
  svg <path>                    write the preview as SVG
  export [json|yaml]            write <type>.<ext> to the export directory
  help                          show this help
  quit                          leave the editor
Values may use \n for line breaks, e.g. update 0 options red,RED\nblue,BLUE`

var unescape = strings.NewReplacer(`\n`, "\n", `\t`, "\t")

// ErrQuit is returned by Exec for the quit command.
var ErrQuit = errors.New("quit")

// REPL is the line-oriented editor behind `blockfactory edit`.
type REPL struct {
	factory   *blockfactory.Factory
	sessionID string
	in        io.Reader
	out       io.Writer

	render       func(string) (string, error)
	prompt       bool
	exportDir    string
	exportFormat string
}

// REPLOption configures a REPL.
type REPLOption func(*REPL)

// WithRenderer replaces the markdown renderer used by show.
func WithRenderer(render func(string) (string, error)) REPLOption {
	return func(r *REPL) {
		r.render = render
	}
}

// WithPrompt toggles the "> " prompt, normally only shown on a terminal.
func WithPrompt(on bool) REPLOption {
	return func(r *REPL) {
		r.prompt = on
	}
}

// WithExport sets the default export directory and format.
func WithExport(dir, format string) REPLOption {
	return func(r *REPL) {
		r.exportDir = dir
		r.exportFormat = format
	}
}

// NewREPL creates an editor loop for an existing session.
func NewREPL(f *blockfactory.Factory, sessionID string, in io.Reader, out io.Writer, opts ...REPLOption) *REPL {
	r := &REPL{
		factory:      f,
		sessionID:    sessionID,
		in:           in,
		out:          out,
		exportDir:    ".",
		exportFormat: "json",
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.render == nil {
		r.render = tui.NewRenderer()
	}
	return r
}

// Run reads commands until quit, EOF or cancellation. Rejected commands are
// reported and the loop continues.
func (r *REPL) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(r.in)
	scanner.Buffer(make([]byte, 64*1024), 1<<20)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if r.prompt {
			fmt.Fprint(r.out, "> ")
		}
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("input error: %w", err)
			}
			return io.EOF
		}

		err := r.Exec(ctx, scanner.Text())
		if errors.Is(err, ErrQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintf(r.out, "error: %v\n", err)
		}
	}
}

// Exec runs one command line.
func (r *REPL) Exec(ctx context.Context, line string) error {
	cmd, rest := cut(strings.TrimSpace(line))
	switch cmd {
	case "":
		return nil
	case "help", "?":
		fmt.Fprintln(r.out, replHelp)
		return nil
	case "quit", "exit":
		return ErrQuit
	case "show":
		return r.show(ctx)
	case "json":
		snap, err := r.factory.Open(ctx, r.sessionID)
		if err != nil {
			return err
		}
		fmt.Fprintln(r.out, snap.Serialized)
		return nil
	case "set":
		field, value := cut(rest)
		if field == "" {
			return errors.New("usage: set <field> [value]")
		}
		return r.apply(ctx, domain.SetField(domain.Field(field), unescape.Replace(value)))
	case "add":
		if rest == "" {
			return errors.New("usage: add <kind>")
		}
		return r.apply(ctx, domain.AddInput(domain.InputKind(rest)))
	case "rm":
		id, err := cast.ToIntE(rest)
		if err != nil {
			return fmt.Errorf("usage: rm <id>: %w", err)
		}
		return r.apply(ctx, domain.RemoveInput(id))
	case "update":
		rawID, tail := cut(rest)
		key, value := cut(tail)
		id, err := cast.ToIntE(rawID)
		if err != nil || key == "" {
			return errors.New("usage: update <id> <key> [value]")
		}
		return r.apply(ctx, domain.UpdateInput(id, key, unescape.Replace(value)))
	case "svg":
		if rest == "" {
			return errors.New("usage: svg <path>")
		}
		return r.writeSVG(ctx, rest)
	case "export":
		format := r.exportFormat
		if rest != "" {
			format = rest
		}
		path, err := r.factory.ExportFile(ctx, r.sessionID, r.exportDir, format)
		if err != nil {
			return err
		}
		printSystemMessage(r.out, "Exported %s", path)
		return nil
	}
	return fmt.Errorf("unknown command %q (try help)", cmd)
}

func (r *REPL) apply(ctx context.Context, ev domain.Event) error {
	snap, err := r.factory.Apply(ctx, r.sessionID, ev)
	if err != nil {
		return err
	}
	blockType := snap.Definition.Type
	if blockType == "" {
		blockType = "(no type)"
	}
	fmt.Fprintf(r.out, "%s: %s (%d inputs)\n", blockType, snap.Definition.Name, len(snap.Inputs))
	return nil
}

func (r *REPL) show(ctx context.Context) error {
	snap, err := r.factory.Open(ctx, r.sessionID)
	if err != nil {
		return err
	}
	out, err := r.render(tui.Markdown(snap))
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	fmt.Fprint(r.out, out)
	return nil
}

func (r *REPL) writeSVG(ctx context.Context, path string) error {
	snap, err := r.factory.Open(ctx, r.sessionID)
	if err != nil {
		return err
	}
	doc := svg.Render(snap.Geometry, svg.DefaultStyle().WithFill(snap.Definition.Color))
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		return fmt.Errorf("failed to write preview: %w", err)
	}
	printSystemMessage(r.out, "Wrote %s", path)
	return nil
}

// cut splits off the first whitespace-delimited word.
func cut(s string) (string, string) {
	s = strings.TrimLeft(s, " \t")
	i := strings.IndexAny(s, " \t")
	if i < 0 {
		return s, ""
	}
	return s[:i], strings.TrimLeft(s[i+1:], " \t")
}
