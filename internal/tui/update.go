package tui

import (
	"github.com/charmbracelet/bubbles/key"
	list "github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"terraview/internal/errors"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil

	case fetchedMsg:
		if m.br == nil || msg.gen != m.gen {
			return m, nil
		}
		m.applyOutcome(msg.outcome)
		return m, nil

	case frameMsg:
		if m.br == nil || msg.gen != m.gen || m.br.frames == nil {
			return m, nil
		}
		return m, waitForFrame(m.br.frames, m.gen)

	case savedMsg:
		if msg.err != nil {
			m.status = "save failed: " + errors.UserMessage(msg.err)
		} else {
			m.status = "saved " + msg.path
		}
		return m, nil

	case spinner.TickMsg:
		if m.br == nil || !m.br.ctrl.Loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.br.spin, cmd = m.br.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.screen == screenBrowser {
			return m.updateBrowser(msg)
		}
		return m.updateCatalog(msg)
	}

	if m.screen == screenCatalog {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateCatalog(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// While filtering, keys belong to the list.
	if m.l.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		return m, cmd
	}
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.helpVisible = !m.helpVisible
		return m, nil
	case key.Matches(msg, m.keys.Open):
		if it, ok := m.l.SelectedItem().(catalogItem); ok {
			cmd := m.openBrowser(it)
			return m, cmd
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.l, cmd = m.l.Update(msg)
	return m, cmd
}

func (m Model) updateBrowser(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	br := m.br
	if msg.String() == "ctrl+c" {
		m.closeBrowser()
		return m, tea.Quit
	}

	// A focused field takes every key except the form controls.
	if br.focus >= 0 {
		switch {
		case key.Matches(msg, m.keys.Next):
			br.focusNext()
			return m, nil
		case key.Matches(msg, m.keys.Back):
			br.blur()
			return m, nil
		case key.Matches(msg, m.keys.Open):
			cmd := m.applyField()
			return m, cmd
		}
		var cmd tea.Cmd
		br.inputs[br.focus], cmd = br.inputs[br.focus].Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.closeBrowser()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Back):
		if br.showAttrs {
			br.showAttrs = false
			return m, nil
		}
		m.closeBrowser()
		return m, nil
	case key.Matches(msg, m.keys.Next):
		br.focusNext()
	case key.Matches(msg, m.keys.Open), key.Matches(msg, m.keys.Refetch):
		cmd := m.fetch()
		return m, cmd
	case key.Matches(msg, m.keys.Stats):
		br.showAttrs = !br.showAttrs
		if br.showAttrs {
			m.refreshAttrsFromCurrent()
		}
	case key.Matches(msg, m.keys.Wireframe):
		if br.session == nil {
			m.status = "wireframe needs a 2D browser"
			return m, nil
		}
		on := !br.session.Wireframe()
		br.session.SetWireframe(on)
		br.session.Draw()
		if on {
			m.status = "wireframe on"
		} else {
			m.status = "wireframe off"
		}
	case key.Matches(msg, m.keys.Save):
		cmd := m.save()
		return m, cmd
	case key.Matches(msg, m.keys.Help):
		m.helpVisible = !m.helpVisible
	}
	return m, nil
}
