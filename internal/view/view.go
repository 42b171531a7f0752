package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strconv"
	"time"

	"github.com/CristiGvl/picoCPUMon/internal/cpu"
)

//go:embed templates/*.html
var templateFS embed.FS

// Kind selects what Render produces
type Kind int

const (
	// FullPage is the whole HTML document with the initial rows inside
	FullPage Kind = iota
	// Fragment is just the rows, for repeated delivery
	Fragment
)

func (k Kind) String() string {
	switch k {
	case FullPage:
		return "page"
	case Fragment:
		return "fragment"
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Options control the page scaffolding. They do not affect fragments
type Options struct {
	// Push makes the page open a websocket on Endpoint; otherwise it polls
	Push bool
	// Endpoint serves fragments
	Endpoint string
	// PollEvery is the polling period when Push is false
	PollEvery time.Duration
}

// Renderer turns snapshots into HTML
type Renderer struct {
	tmpl *template.Template
	opts Options
}

type pageData struct {
	Cores       cpu.Snapshot
	Push        bool
	Endpoint    string
	PollSeconds string
}

// FormatUsage formats a usage percentage the way every view shows it
func FormatUsage(usage float64) string {
	return strconv.FormatFloat(usage, 'f', 1, 64)
}

// New parses the embedded templates
func New(opts Options) (*Renderer, error) {
	if opts.Endpoint == "" {
		opts.Endpoint = "/cpu-usage"
	}
	if opts.PollEvery <= 0 {
		opts.PollEvery = time.Second
	}

	tmpl, err := template.New("view").
		Funcs(template.FuncMap{"usage": FormatUsage}).
		ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl, opts: opts}, nil
}

// Render produces the HTML for kind. The output depends only on kind and snap
func (r *Renderer) Render(kind Kind, snap cpu.Snapshot) ([]byte, error) {
	var name string
	switch kind {
	case FullPage:
		name = "page"
	case Fragment:
		name = "fragment"
	default:
		return nil, fmt.Errorf("unknown view kind %s", kind)
	}

	data := pageData{
		Cores:       snap,
		Push:        r.opts.Push,
		Endpoint:    r.opts.Endpoint,
		PollSeconds: strconv.FormatFloat(r.opts.PollEvery.Seconds(), 'f', -1, 64),
	}

	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("render %s: %w", kind, err)
	}
	return buf.Bytes(), nil
}
