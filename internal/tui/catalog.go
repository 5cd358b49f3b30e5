package tui

import (
	"fmt"

	list "github.com/charmbracelet/bubbles/list"

	"terraview/internal/noise"
)

type catalogItem struct {
	page  noise.Page
	entry noise.Entry
}

func (c catalogItem) Title() string { return c.entry.DisplayName }
func (c catalogItem) Description() string {
	return fmt.Sprintf("%s · %dD · %s", c.page.Title, c.entry.Dimension, c.entry.NoiseFunction)
}
func (c catalogItem) FilterValue() string { return c.page.Title + " " + c.entry.DisplayName }

// refreshCatalog lists the entries of every page, or of opts.Page only when
// it names one.
func (m *Model) refreshCatalog() {
	pages := noise.Catalog()
	if m.opts.Page != "" {
		p, ok := noise.FindPage(m.opts.Page)
		if ok {
			pages = []noise.Page{p}
			m.l.Title = p.Title
		} else {
			m.status = "unknown page: " + m.opts.Page
		}
	}
	var items []list.Item
	for _, p := range pages {
		for _, e := range p.Entries {
			items = append(items, catalogItem{page: p, entry: e})
		}
	}
	m.items = items
	m.l.SetItems(items)
}
