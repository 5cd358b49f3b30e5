package tui

import (
	"context"
	"math"
	"slices"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"terraview/internal/browser"
	"terraview/internal/noise"
)

type sineFetcher struct{}

func (sineFetcher) Fetch(_ context.Context, p noise.Params) (*noise.Result, error) {
	values := make([]float64, p.SampleCount())
	for i := range values {
		values[i] = math.Sin(float64(i) / 5)
	}
	return &noise.Result{Params: p, Values: values}, nil
}

func newTestModel(t *testing.T, page string) Model {
	t.Helper()
	m := New(context.Background(), Options{Fetcher: sineFetcher{}, Page: page, FrameInterval: time.Hour})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return next.(Model)
}

func press(t *testing.T, m Model, k tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(k)
	return next.(Model), cmd
}

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
)

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

// deliver answers the latest request of the open browser.
func deliver(t *testing.T, m Model) Model {
	t.Helper()
	p := m.br.ctrl.Params()
	res, _ := sineFetcher{}.Fetch(context.Background(), p)
	next, _ := m.Update(fetchedMsg{gen: m.gen, outcome: browser.Outcome{Seq: m.br.ctrl.Seq(), Params: p, Result: res}})
	return next.(Model)
}

func TestCatalogItems(t *testing.T) {
	if got := len(newTestModel(t, "").items); got != 12 {
		t.Errorf("catalog items = %d, want 12", got)
	}
	m := newTestModel(t, "Lattice 2D")
	if len(m.items) != 1 || m.l.Title != "Lattice 2D" {
		t.Errorf("lattice page = %d items titled %q", len(m.items), m.l.Title)
	}
	if !strings.Contains(m.View(), "Raw Perlin Noise") {
		t.Error("catalog view does not list Raw Perlin Noise")
	}
}

func TestOpenLineBrowser(t *testing.T) {
	m := newTestModel(t, "spectral1d")
	m, cmd := press(t, m, keyEnter)
	if m.screen != screenBrowser || m.br == nil || cmd == nil {
		t.Fatal("enter should open a browser and start a fetch")
	}
	if m.br.entry.NoiseFunction != "red" || m.br.session != nil {
		t.Fatalf("opened %+v", m.br.entry)
	}
	if !m.br.ctrl.Loading() {
		t.Error("first fetch should be in flight")
	}

	m = deliver(t, m)
	if m.br.ctrl.Result() == nil {
		t.Fatal("result was not applied")
	}
	if !strings.Contains(m.status, "200 values") {
		t.Errorf("status = %q", m.status)
	}
	view := m.View()
	if !strings.ContainsFunc(view, func(r rune) bool { return r > 0x2800 && r <= 0x28ff }) {
		t.Error("line plot has no braille dots")
	}

	m, _ = press(t, m, keyEsc)
	if m.screen != screenCatalog || m.br != nil {
		t.Error("esc should return to the catalog")
	}
}

func TestStaleFetchIgnoredAfterClose(t *testing.T) {
	m := newTestModel(t, "spectral1d")
	m, _ = press(t, m, keyEnter)
	gen, p := m.gen, m.br.ctrl.Params()
	m, _ = press(t, m, keyEsc)
	m, _ = press(t, m, keyEnter)

	res, _ := sineFetcher{}.Fetch(context.Background(), p)
	next, _ := m.Update(fetchedMsg{gen: gen, outcome: browser.Outcome{Seq: 1, Params: p, Result: res}})
	m = next.(Model)
	if m.br.ctrl.Result() != nil {
		t.Error("response for a closed browser reached the new one")
	}
}

func TestEditFields(t *testing.T) {
	m := newTestModel(t, "spectral1d")
	m, _ = press(t, m, keyEnter)
	m = deliver(t, m)

	m, _ = press(t, m, keyTab)
	if m.br.focus != fieldFrom {
		t.Fatalf("focus = %d, want from", m.br.focus)
	}
	m.br.inputs[fieldFrom].SetValue("x")
	m, cmd := press(t, m, keyEnter)
	if cmd != nil || !strings.HasPrefix(m.status, "from:") {
		t.Errorf("invalid from: cmd=%v status=%q", cmd != nil, m.status)
	}

	m.br.inputs[fieldFrom].SetValue("2")
	m, cmd = press(t, m, keyEnter)
	if cmd == nil {
		t.Fatal("changed from should refetch")
	}
	if got := m.br.ctrl.Params().From; !slices.Equal(got, []int{2}) {
		t.Errorf("from = %v, want [2]", got)
	}

	// typed keys go to the field, not to the global bindings
	m, _ = press(t, m, runes("q"))
	if m.br == nil || !strings.Contains(m.br.inputs[fieldFrom].Value(), "q") {
		t.Error("q should be typed into the focused field")
	}
	m, _ = press(t, m, keyEsc)
	if m.br.focus != -1 {
		t.Error("esc should leave the field")
	}
}

func TestMeshBrowserLifecycle(t *testing.T) {
	m := newTestModel(t, "lattice2d")
	m, _ = press(t, m, keyEnter)
	if m.br == nil || m.br.session == nil {
		t.Fatal("2D entry should own a render session")
	}
	session := m.br.session
	t.Cleanup(session.Dispose)
	if !session.Running() {
		t.Error("redraw loop should run while the browser is open")
	}

	m = deliver(t, m)
	if m.br.meshErr != nil {
		t.Fatalf("mesh error: %v", m.br.meshErr)
	}
	if st := session.Stats(); st.Faces != 99*39*2 || st.Drawn == 0 {
		t.Errorf("stats = %+v", st)
	}
	if !strings.Contains(m.View(), "▀") {
		t.Error("mesh view has no half blocks")
	}

	m, _ = press(t, m, runes("w"))
	if !session.Wireframe() {
		t.Error("w should switch to wireframe")
	}
	m, _ = press(t, m, runes("a"))
	if !m.br.showAttrs || len(m.br.tbl.Rows()) == 0 {
		t.Error("a should show the stats table")
	}
	m, _ = press(t, m, keyEsc)
	if m.br == nil || m.br.showAttrs {
		t.Fatal("esc should first close the stats table")
	}

	m, _ = press(t, m, keyEsc)
	if m.br != nil {
		t.Fatal("second esc should close the browser")
	}
	if session.Running() {
		t.Error("closing the browser should stop the redraw loop")
	}
}

func TestQuitDisposesSession(t *testing.T) {
	m := newTestModel(t, "lattice2d")
	m, _ = press(t, m, keyEnter)
	session := m.br.session
	_, cmd := press(t, m, runes("q"))
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should return tea.Quit")
	}
	if session.Running() {
		t.Error("quitting should stop the redraw loop")
	}
}
