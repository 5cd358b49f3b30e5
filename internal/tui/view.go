package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"terraview/internal/errors"
)

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	contentWidth, contentHeight := m.contentSize()

	header := titleStyle.Render(" terraview ─ noise browser ")
	if m.br != nil {
		header += dimStyle.Render(" " + m.br.page.Title + " / " + m.br.entry.DisplayName)
	}
	header = lipgloss.NewStyle().Width(contentWidth).MaxHeight(1).Render(header)

	var body string
	if m.screen == screenCatalog || m.br == nil {
		body = lipgloss.NewStyle().Width(contentWidth).Height(contentHeight).Render(m.l.View())
	} else {
		body = m.browserView(contentHeight)
	}

	status := dimStyle.Render(" " + m.status + " ")
	footer := lipgloss.NewStyle().Width(contentWidth).Render(status + "\n" + m.renderHelp())

	ui := lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
	return appStyle.Width(contentWidth).Height(m.height).Render(ui)
}

func (m Model) browserView(contentHeight int) string {
	br := m.br
	cols, rows := m.canvasSize()

	var canvas string
	if br.showAttrs {
		box := boxStyle.Render(br.tbl.View())
		canvas = lipgloss.Place(cols, rows, lipgloss.Center, lipgloss.Center, box)
	} else {
		canvas = lipgloss.NewStyle().Width(cols).Height(rows).MaxHeight(rows).Render(m.renderCanvas(cols, rows))
	}

	sidebar := sidebarStyle.Width(sidebarWidth).Height(contentHeight).Render(m.renderForm())
	return lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " ", canvas)
}

// renderForm shows the page description, the parameter fields and the
// error line.
func (m Model) renderForm() string {
	br := m.br
	inner := sidebarWidth - 2
	var b strings.Builder

	b.WriteString(titleStyle.Render(br.entry.DisplayName) + "\n")
	b.WriteString(dimStyle.Width(inner).Render(br.page.Description) + "\n\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("generator   %s", br.page.Generator)) + "\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("synthesizer %s", br.page.Synthesizer)) + "\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("transformer %s", br.page.Transformer)) + "\n\n")

	for i, label := range fieldLabels {
		style := labelStyle
		if i == br.focus {
			style = focusStyle
		}
		br.inputs[i].Width = inner - 13
		b.WriteString(style.Render(label) + " " + br.inputs[i].View() + "\n")
	}
	b.WriteString("\n")

	if br.ctrl.Loading() {
		b.WriteString(br.spin.View() + " loading\n")
	}
	if err := br.ctrl.Err(); err != nil {
		b.WriteString(errorStyle.Width(inner).Render(errors.UserMessage(err)) + "\n")
	}
	if err := br.plotErr; err != nil && br.session == nil {
		b.WriteString(warnStyle.Width(inner).Render(errors.UserMessage(err)) + "\n")
	}
	if err := br.meshErr; err != nil {
		b.WriteString(warnStyle.Width(inner).Render(errors.UserMessage(err)) + "\n")
	}
	return b.String()
}

func (m Model) renderHelp() string {
	if !m.helpVisible {
		return ""
	}
	if m.screen == screenBrowser {
		return m.help.View(browserKeys(m.keys))
	}
	return m.help.View(catalogKeys(m.keys))
}
