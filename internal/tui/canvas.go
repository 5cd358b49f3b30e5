package tui

import (
	"github.com/charmbracelet/lipgloss"

	"terraview/internal/errors"
	"terraview/internal/render"
)

// layout sizes the list, the canvas surfaces and the stats table to the
// window.
func (m *Model) layout() {
	contentW, contentH := m.contentSize()
	m.l.SetSize(contentW, contentH)
	m.help.Width = contentW
	if m.br == nil {
		return
	}
	cols, rows := m.canvasSize()
	m.br.braille.SetCells(cols, rows)
	if m.br.session != nil {
		// two pixels per cell, stacked
		m.br.session.Resize(cols, rows*2)
	}
	m.br.tbl.SetHeight(min(contentH-2, 20))
}

func (m Model) contentSize() (int, int) {
	headerHeight := 1
	footerHeight := 2
	return max(10, m.width), max(4, m.height-headerHeight-footerHeight)
}

func (m Model) canvasSize() (int, int) {
	w, h := m.contentSize()
	return max(10, w-sidebarWidth-1), h
}

// renderCanvas draws the current data into cols x rows terminal cells.
func (m Model) renderCanvas(cols, rows int) string {
	br := m.br
	placeholder := func(s string) string {
		return lipgloss.Place(cols, rows, lipgloss.Center, lipgloss.Center, dimStyle.Render(s))
	}
	res := br.ctrl.Result()
	if res == nil {
		if br.ctrl.Loading() {
			return placeholder(br.spin.View() + " fetching noise")
		}
		return placeholder("no data")
	}

	if br.session == nil {
		br.braille.SetCells(cols, rows)
		br.plotErr = br.line.Render(br.braille, res.Series())
		if br.plotErr != nil && !errors.IsWarning(br.plotErr) {
			return placeholder(errors.UserMessage(br.plotErr))
		}
		return br.braille.String()
	}

	var out string
	br.session.Inspect(func(render.Surface) {
		out = render.HalfBlocks(br.raster.Image(), cols, rows)
	})
	if out == "" {
		return placeholder(br.spin.View() + " drawing")
	}
	return out
}
