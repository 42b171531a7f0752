package view

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/CristiGvl/picoCPUMon/internal/cpu"
)

func newRenderer(t *testing.T, opts Options) *Renderer {
	t.Helper()
	r, err := New(opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return r
}

func TestFragmentRows(t *testing.T) {
	tests := []struct {
		name string
		snap cpu.Snapshot
		want []string
	}{
		{
			name: "no cores",
			snap: cpu.Snapshot{},
		},
		{
			name: "nil snapshot",
			snap: nil,
		},
		{
			name: "one decimal place",
			snap: cpu.Snapshot{{ID: 1, Usage: 0}, {ID: 2, Usage: 12.345}, {ID: 3, Usage: 100}},
			want: []string{"CPU 1</span><span class=\"core-usage\">0.0%", "CPU 2</span><span class=\"core-usage\">12.3%", "CPU 3</span><span class=\"core-usage\">100.0%"},
		},
	}

	r := newRenderer(t, Options{Push: true})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := r.Render(Fragment, tt.snap)
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			html := string(out)

			if n := strings.Count(html, `class="core"`); n != len(tt.snap) {
				t.Fatalf("fragment has %d rows, want %d:\n%s", n, len(tt.snap), html)
			}
			if !strings.Contains(html, `id="cpu-usage"`) {
				t.Errorf("fragment lacks the swap target id:\n%s", html)
			}
			if strings.Contains(html, "<html") {
				t.Errorf("fragment contains page scaffolding")
			}

			last := -1
			for _, w := range tt.want {
				i := strings.Index(html, w)
				if i < 0 {
					t.Fatalf("fragment missing %q:\n%s", w, html)
				}
				if i < last {
					t.Fatalf("row %q out of order", w)
				}
				last = i
			}
		})
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	r := newRenderer(t, Options{Push: true})
	snap := cpu.Snapshot{{ID: 1, Usage: 3.14}, {ID: 2, Usage: 99.95}}

	for _, kind := range []Kind{FullPage, Fragment} {
		a, err := r.Render(kind, snap)
		if err != nil {
			t.Fatalf("Render(%s) error = %v", kind, err)
		}
		b, err := r.Render(kind, snap.Clone())
		if err != nil {
			t.Fatalf("Render(%s) error = %v", kind, err)
		}
		if !bytes.Equal(a, b) {
			t.Errorf("Render(%s) differs between identical calls", kind)
		}
	}
}

func TestFullPageWrapsFragment(t *testing.T) {
	snap := cpu.Snapshot{{ID: 1, Usage: 50}, {ID: 2, Usage: 25}}

	tests := []struct {
		name    string
		opts    Options
		want    []string
		notWant []string
	}{
		{
			name:    "push",
			opts:    Options{Push: true},
			want:    []string{`ws-connect="/cpu-usage"`, `hx-ext="ws"`},
			notWant: []string{"hx-trigger"},
		},
		{
			name:    "pull",
			opts:    Options{Push: false, PollEvery: 2 * time.Second},
			want:    []string{`hx-get="/cpu-usage"`, `hx-trigger="every 2s"`},
			notWant: []string{"ws-connect"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRenderer(t, tt.opts)
			page, err := r.Render(FullPage, snap)
			if err != nil {
				t.Fatalf("Render(FullPage) error = %v", err)
			}
			fragment, err := r.Render(Fragment, snap)
			if err != nil {
				t.Fatalf("Render(Fragment) error = %v", err)
			}

			html := string(page)
			if !strings.Contains(html, "<title>CPU Usage</title>") {
				t.Errorf("page has no title")
			}
			if !strings.Contains(html, string(fragment)) {
				t.Errorf("page does not embed the fragment")
			}
			for _, w := range tt.want {
				if !strings.Contains(html, w) {
					t.Errorf("page missing %q", w)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(html, w) {
					t.Errorf("page unexpectedly contains %q", w)
				}
			}
		})
	}
}

func TestRenderUnknownKind(t *testing.T) {
	r := newRenderer(t, Options{})
	if _, err := r.Render(Kind(7), nil); err == nil {
		t.Fatal("Render() with unknown kind succeeded")
	}
}

func TestFormatUsage(t *testing.T) {
	tests := map[float64]string{
		0:      "0.0",
		7.24:   "7.2",
		7.26:   "7.3",
		99.99:  "100.0",
		100:    "100.0",
		33.333: "33.3",
	}
	for in, want := range tests {
		if got := FormatUsage(in); got != want {
			t.Errorf("FormatUsage(%v) = %q, want %q", in, got, want)
		}
	}
}
