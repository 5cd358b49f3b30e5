package tui

import (
	"fmt"

	table "github.com/charmbracelet/bubbles/table"

	"terraview/internal/dataset"
	"terraview/internal/noise"
)

// refreshAttrsFromCurrent rebuilds the stats table from the current result.
func (m *Model) refreshAttrsFromCurrent() {
	cols, rows := m.buildAttributes()
	if len(rows) == 0 {
		m.br.showAttrs = false
		m.status = "no data yet"
		return
	}
	tcols := make([]table.Column, 0, len(cols))
	for i, c := range cols {
		w := 14
		if i == 0 {
			w = 12
		}
		tcols = append(tcols, table.Column{Title: c, Width: w})
	}
	trows := make([]table.Row, 0, len(rows))
	for _, r := range rows {
		trows = append(trows, table.Row(r))
	}
	// Avoid transient mismatch: clear rows, set columns, then set rows
	m.br.tbl.SetRows(nil)
	m.br.tbl.SetColumns(tcols)
	m.br.tbl.SetRows(trows)
}

// buildAttributes describes the current result as (columns, rows).
func (m *Model) buildAttributes() ([]string, [][]string) {
	cols := []string{"field", "value"}
	res := m.br.ctrl.Result()
	if res == nil {
		return cols, nil
	}
	p := res.Params
	st := dataset.Stats(res.Values)
	seed := "random"
	if p.Seed != nil {
		seed = fmt.Sprint(*p.Seed)
	}
	rows := [][]string{
		{"function", p.NoiseFunction},
		{"from", noise.JoinInts(p.From)},
		{"to", noise.JoinInts(p.To)},
		{"resolution", fmt.Sprint(p.Resolution)},
		{"seed", seed},
		{"shape", fmt.Sprint(p.Shape())},
		{"count", fmt.Sprint(st.Count)},
		{"min", fmt.Sprintf("%.5g", st.Min)},
		{"max", fmt.Sprintf("%.5g", st.Max)},
		{"mean", fmt.Sprintf("%.5g", st.Mean)},
		{"max |v|", fmt.Sprintf("%.5g", st.MaxAbs)},
		{"non-finite", fmt.Sprint(st.NonFinite)},
		{"cached", fmt.Sprint(res.Cached)},
	}
	if s := m.br.session; s != nil {
		stats := s.Stats()
		rows = append(rows,
			[]string{"faces", fmt.Sprint(stats.Faces)},
			[]string{"drawn", fmt.Sprint(stats.Drawn)},
			[]string{"frames", fmt.Sprint(s.Frames())},
		)
	}
	return cols, rows
}
