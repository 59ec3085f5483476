// Package main drives an editor over an HTML file with a line-based script
// read from stdin.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/dannyswat/vcedit"
)

type options struct {
	in         string
	selector   string
	configPath string
	sanitize   bool
	minify     bool
	verbose    bool
}

// linkField holds the URL given by the last href line.
type linkField struct {
	value string
}

func (f *linkField) Value() string { return f.value }
func (f *linkField) Open()         {}
func (f *linkField) Close()        { f.value = "" }

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg := vcedit.DefaultConfig()
	if opts.configPath != "" {
		var err error
		cfg, err = vcedit.LoadConfig(opts.configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to load config: %v\n", err)
			return 1
		}
	}

	data, err := os.ReadFile(opts.in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to read document: %v\n", err)
		return 1
	}
	doc, err := vcedit.NewDocument(string(data))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	field := &linkField{}
	ed, err := vcedit.New(doc, opts.selector, cfg,
		vcedit.WithLinkField(field),
		vcedit.WithLogger(logger),
		vcedit.WithChangeListener(func(d vcedit.Delta) {
			logger.Debug("surface changed", "surface", d.Surface, "command", d.Command, "ops", len(d.Operations))
		}),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to attach editor: %v\n", err)
		return 1
	}

	r := &runner{doc: doc, ed: ed, field: field, out: os.Stdout, render: vcedit.RenderOptions{
		Sanitize: opts.sanitize,
		Minify:   opts.minify,
	}}
	if err := r.run(os.Stdin); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	out, err := vcedit.RenderNode(doc.Root())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to render document: %v\n", err)
		return 1
	}
	fmt.Fprintln(os.Stdout, out)
	return 0
}

func parseFlags() options {
	var opts options
	flag.StringVar(&opts.in, "in", "", "HTML document to edit")
	flag.StringVar(&opts.selector, "select", "//*[@contenteditable]", "XPath selector for editable surfaces")
	flag.StringVar(&opts.configPath, "config", "", "Path to a TOML or YAML configuration file")
	flag.BoolVar(&opts.sanitize, "sanitize", false, "Sanitize surfaces on print")
	flag.BoolVar(&opts.minify, "minify", false, "Minify surfaces on print")
	flag.BoolVar(&opts.verbose, "v", false, "Enable debug logging")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "vcedit - scripted rich-text editing of HTML documents\n\n")
		fmt.Fprintf(os.Stderr, "Usage: vcedit -in doc.html [options] < script\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nScript lines:\n")
		fmt.Fprintf(os.Stderr, "  select <surface> <start> <end>   select characters of a surface\n")
		fmt.Fprintf(os.Stderr, "  caret <surface> <path> <offset>  place the caret at a node path (e.g. 0.1)\n")
		fmt.Fprintf(os.Stderr, "  exec <command>                   b, i, h1..h6, blockquote, ul, ol, a\n")
		fmt.Fprintf(os.Stderr, "  key enter|backspace|delete|other\n")
		fmt.Fprintf(os.Stderr, "  href <url>                       confirm the pending link\n")
		fmt.Fprintf(os.Stderr, "  cancel                           abandon the pending link\n")
		fmt.Fprintf(os.Stderr, "  blur                             clean up the active surface\n")
		fmt.Fprintf(os.Stderr, "  print                            print the active surface\n")
	}

	flag.Parse()

	if opts.in == "" {
		flag.Usage()
		os.Exit(2)
	}
	return opts
}

type runner struct {
	doc    *vcedit.Document
	ed     *vcedit.Editor
	field  *linkField
	out    io.Writer
	render vcedit.RenderOptions
}

func (r *runner) run(in io.Reader) error {
	sc := bufio.NewScanner(in)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		if err := r.step(strings.Fields(text)); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
	}
	return sc.Err()
}

var errUsage = errors.New("malformed script line")

func (r *runner) step(args []string) error {
	switch args[0] {
	case "select":
		if len(args) != 4 {
			return errUsage
		}
		s, err := r.surface(args[1])
		if err != nil {
			return err
		}
		start, err1 := strconv.Atoi(args[2])
		end, err2 := strconv.Atoi(args[3])
		if err := errors.Join(err1, err2); err != nil {
			return err
		}
		if !vcedit.Restore(s.Root(), vcedit.Serialized{Start: start, End: end}, r.doc) {
			return fmt.Errorf("offsets %d-%d are outside surface %s", start, end, args[1])
		}
		s.SelectionChanged()
		return nil

	case "caret":
		if len(args) != 4 {
			return errUsage
		}
		s, err := r.surface(args[1])
		if err != nil {
			return err
		}
		path, err := parsePath(args[2])
		if err != nil {
			return err
		}
		off, err := strconv.Atoi(args[3])
		if err != nil {
			return err
		}
		n, err := vcedit.GetNode(s.Root(), path)
		if err != nil {
			return err
		}
		r.doc.SetActiveRange(vcedit.Caret(vcedit.Point{Node: n, Offset: off}))
		s.SelectionChanged()
		return nil
	}

	s := r.ed.Active()
	if s == nil {
		return vcedit.ErrNoSelection
	}
	switch args[0] {
	case "exec":
		if len(args) != 2 {
			return errUsage
		}
		cmd, err := vcedit.ParseCommand(args[1])
		if err != nil {
			return err
		}
		return s.Execute(cmd)
	case "key":
		if len(args) != 2 {
			return errUsage
		}
		k, err := vcedit.ParseKey(args[1])
		if err != nil {
			return err
		}
		_, err = s.HandleKey(k)
		return err
	case "href":
		r.field.value = strings.Join(args[1:], " ")
		return s.AddHref()
	case "cancel":
		return s.CancelLink()
	case "blur":
		s.Blur()
		return nil
	case "print":
		out, err := s.HTML(r.render)
		if err != nil {
			return err
		}
		fmt.Fprintln(r.out, out)
		return nil
	}
	return fmt.Errorf("%w: unknown verb %q", errUsage, args[0])
}

func (r *runner) surface(arg string) (*vcedit.Session, error) {
	i, err := strconv.Atoi(arg)
	if err != nil {
		return nil, err
	}
	s := r.ed.Session(i)
	if s == nil {
		return nil, fmt.Errorf("no surface %d", i)
	}
	return s, nil
}

func parsePath(s string) (vcedit.NodePath, error) {
	if s == "" || s == "." {
		return vcedit.NodePath{}, nil
	}
	var path vcedit.NodePath
	for _, part := range strings.Split(s, ".") {
		i, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid path %q: %w", s, err)
		}
		path = append(path, i)
	}
	return path, nil
}
