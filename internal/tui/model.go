// Package tui is the terminal front end: a catalog of noise browsers and a
// browser screen that fetches samples and draws them.
package tui

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/help"
	list "github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	table "github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"terraview/internal/browser"
	"terraview/internal/noise"
	"terraview/internal/plot"
	"terraview/internal/render"
)

// Options configures the TUI.
type Options struct {
	Fetcher browser.Fetcher
	Logger  *log.Logger
	// Page preselects a catalog page by key or title.
	Page string
	// SnapshotDir is where "s" writes snapshots. Empty means the working
	// directory.
	SnapshotDir string

	FrameInterval time.Duration
	Spin          float64
	Texture       string
	Wireframe     bool
}

type screen int

const (
	screenCatalog screen = iota
	screenBrowser
)

const sidebarWidth = 34

type Model struct {
	width  int
	height int

	screen      screen
	helpVisible bool
	status      string

	ctx  context.Context
	opts Options

	keys keyMap
	help help.Model

	// catalog
	l     list.Model
	items []list.Item

	// open browser, nil on the catalog screen
	br *browserState
	// generation of the open browser; messages from closed ones are dropped
	gen int
}

// browserState is everything owned by one open browser screen.
type browserState struct {
	page  noise.Page
	entry noise.Entry
	ctrl  *browser.Controller

	inputs []textinput.Model
	focus  int // -1 when no field has focus
	spin   spinner.Model

	// 1D
	line    *plot.LineRenderer
	braille *render.Braille
	plotErr error

	// 2D
	session *plot.Session
	raster  *render.Raster
	frames  chan struct{}
	meshErr error

	// stats table
	showAttrs bool
	tbl       table.Model
}

const (
	fieldFrom = iota
	fieldTo
	fieldResolution
	fieldSeed
)

var fieldLabels = []string{"from", "to", "resolution", "seed"}

// New creates the catalog screen.
func New(ctx context.Context, opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = plot.DefaultFrameInterval
	}
	m := Model{
		ctx:         ctx,
		opts:        opts,
		helpVisible: true,
		status:      "terraview ready",
		keys:        newKeyMap(),
		help:        help.New(),
	}
	d := list.NewDefaultDelegate()
	m.l = list.New(nil, d, 0, 0)
	m.l.Title = "Noise browsers"
	m.l.SetShowHelp(false)
	m.l.SetShowStatusBar(false)
	m.l.SetFilteringEnabled(true)
	m.refreshCatalog()
	return m
}

func (m Model) Init() tea.Cmd { return nil }

// Close releases the open browser, if any. Call it after the program exits.
func (m Model) Close() {
	if m.br != nil {
		m.br.close()
	}
}
