package tui

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	table "github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"terraview/internal/browser"
	"terraview/internal/dataset"
	"terraview/internal/errors"
	"terraview/internal/noise"
	"terraview/internal/plot"
	"terraview/internal/render"
)

// fetchedMsg carries a finished request back to the UI goroutine.
type fetchedMsg struct {
	gen     int
	outcome browser.Outcome
}

// frameMsg reports that the redraw loop painted a new mesh frame.
type frameMsg struct{ gen int }

// savedMsg reports the end of a snapshot write.
type savedMsg struct {
	path string
	err  error
}

// openBrowser replaces the current screen with a browser for it and starts
// the first fetch.
func (m *Model) openBrowser(it catalogItem) tea.Cmd {
	if m.br != nil {
		m.br.close()
	}
	m.gen++
	logger := m.opts.Logger.With("browser", it.entry.NoiseFunction, "dim", it.entry.Dimension)

	br := &browserState{
		page:    it.page,
		entry:   it.entry,
		ctrl:    browser.New(it.entry.Dimension, it.entry.NoiseFunction, m.opts.Fetcher, logger),
		focus:   -1,
		spin:    spinner.New(spinner.WithSpinner(spinner.Dot)),
		line:    plot.NewLineRenderer(),
		braille: render.NewBraille(0, 0),
		tbl:     table.New(table.WithFocused(false)),
	}
	p := br.ctrl.Params()
	values := []string{noise.JoinInts(p.From), noise.JoinInts(p.To), fmt.Sprint(p.Resolution), ""}
	for i := range fieldLabels {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 32
		ti.SetValue(values[i])
		br.inputs = append(br.inputs, ti)
	}
	br.inputs[fieldSeed].Placeholder = "random"

	cmds := []tea.Cmd{}
	if it.entry.Dimension == 2 {
		br.raster = render.NewRaster(0, 0, plot.Background)
		mesh := plot.NewMeshRenderer(
			plot.WithTexture(m.opts.Texture),
			plot.WithSpin(m.opts.Spin),
			plot.WithWireframe(m.opts.Wireframe),
			plot.WithMeshLogger(logger),
		)
		br.session = plot.NewSession(mesh, br.raster, logger)
		br.frames = make(chan struct{}, 1)
		frames := br.frames
		br.session.Start(m.ctx, m.opts.FrameInterval, func() {
			select {
			case frames <- struct{}{}:
			default:
			}
		})
		cmds = append(cmds, waitForFrame(frames, m.gen))
	}

	m.br = br
	m.screen = screenBrowser
	m.status = it.entry.DisplayName
	m.layout()
	cmds = append(cmds, m.fetch())
	return tea.Batch(cmds...)
}

// closeBrowser returns to the catalog.
func (m *Model) closeBrowser() {
	if m.br == nil {
		return
	}
	m.br.close()
	m.br = nil
	m.gen++
	m.screen = screenCatalog
	m.status = "terraview ready"
}

// close stops the in-flight request and the redraw loop.
func (b *browserState) close() {
	b.ctrl.Cancel()
	if b.session != nil {
		b.session.Dispose()
	}
	// the loop has exited, so nothing sends on frames any more
	if b.frames != nil {
		close(b.frames)
		b.frames = nil
	}
}

// fetch dispatches a request for the current parameters.
func (m *Model) fetch() tea.Cmd {
	req, err := m.br.ctrl.Dispatch(m.ctx)
	if err != nil {
		m.status = "invalid parameters: " + errors.UserMessage(err)
		return nil
	}
	gen := m.gen
	return tea.Batch(
		func() tea.Msg { return fetchedMsg{gen: gen, outcome: req.Do()} },
		m.br.spin.Tick,
	)
}

func waitForFrame(frames <-chan struct{}, gen int) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-frames; !ok {
			return nil
		}
		return frameMsg{gen: gen}
	}
}

// applyOutcome hands a finished request to the controller and redraws when
// it was accepted.
func (m *Model) applyOutcome(o browser.Outcome) {
	br := m.br
	if !br.ctrl.Resolve(o) {
		return
	}
	if o.Err != nil {
		m.status = "fetch failed: " + errors.UserMessage(o.Err)
		return
	}
	res := o.Result
	cached := ""
	if res.Cached {
		cached = " (cached)"
	}
	m.status = fmt.Sprintf("%d values in %s%s", len(res.Values), o.Elapsed.Round(time.Millisecond), cached)

	if br.session != nil {
		grid, err := res.Grid()
		if err == nil {
			err = br.session.Update(grid)
		}
		br.meshErr = err
		if err != nil && !errors.IsWarning(err) {
			m.status = "cannot draw mesh: " + errors.UserMessage(err)
		}
	}
	if br.showAttrs {
		m.refreshAttrsFromCurrent()
	}
}

// applyField validates the focused field and refetches when it changed.
func (m *Model) applyField() tea.Cmd {
	br := m.br
	if br.focus < 0 {
		return m.fetch()
	}
	text := br.inputs[br.focus].Value()
	var changed bool
	var err error
	switch br.focus {
	case fieldFrom:
		changed, err = br.ctrl.SetFrom(text)
	case fieldTo:
		changed, err = br.ctrl.SetTo(text)
	case fieldResolution:
		changed, err = br.ctrl.SetResolution(text)
	case fieldSeed:
		changed, err = br.ctrl.SetSeed(text)
	}
	if err != nil {
		m.status = fieldLabels[br.focus] + ": " + errors.UserMessage(err)
		return nil
	}
	if !changed {
		m.status = "unchanged"
		return nil
	}
	return m.fetch()
}

// focusNext moves focus through the fields and then off the form.
func (b *browserState) focusNext() {
	if b.focus >= 0 {
		b.inputs[b.focus].Blur()
	}
	b.focus++
	if b.focus >= len(b.inputs) {
		b.focus = -1
		return
	}
	b.inputs[b.focus].Focus()
}

func (b *browserState) blur() {
	if b.focus >= 0 {
		b.inputs[b.focus].Blur()
	}
	b.focus = -1
}

// save writes the current result as a snapshot.
func (m *Model) save() tea.Cmd {
	res := m.br.ctrl.Result()
	if res == nil {
		m.status = "nothing to save yet"
		return nil
	}
	now := time.Now()
	path := filepath.Join(m.opts.SnapshotDir, dataset.FileName(res.Params, now))
	return func() tea.Msg {
		return savedMsg{path: path, err: dataset.Save(path, dataset.FromResult(res, now))}
	}
}
