package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"terraview/internal/noise"
	"terraview/internal/tui"
)

type browseOpts struct {
	logFile   string
	snapshots string
	spin      float64
	texture   string
	wireframe bool
}

// browseCommand creates the "browse" command.
func (c *CLI) browseCommand() *cobra.Command {
	var opts browseOpts

	cmd := &cobra.Command{
		Use:   "browse [page]",
		Short: "Open the terminal noise browser",
		Long: `Open the terminal noise browser.

Pages: spectral1d, spectral2d, lattice2d. Without a page every browser is listed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			page := ""
			if len(args) == 1 {
				page = args[0]
			}
			return c.runBrowse(cmd, page, opts)
		},
	}

	cmd.Flags().StringVar(&opts.logFile, "log-file", "", "write logs to this file while the UI runs")
	cmd.Flags().StringVar(&opts.snapshots, "snapshots", "", "directory for saved snapshots (default: current directory)")
	cmd.Flags().Float64Var(&opts.spin, "spin", -1, "mesh spin in rad/s (default from config)")
	cmd.Flags().StringVar(&opts.texture, "texture", "", "mesh texture image (default from config)")
	cmd.Flags().BoolVar(&opts.wireframe, "wireframe", false, "start meshes in wireframe mode")

	return cmd
}

func (c *CLI) runBrowse(cmd *cobra.Command, page string, opts browseOpts) error {
	ctx := cmd.Context()
	if page != "" {
		if _, ok := noise.FindPage(page); !ok {
			return fmt.Errorf("unknown page %q (want spectral1d, spectral2d or lattice2d)", page)
		}
	}

	// The UI owns the terminal, so logs go to a file or nowhere.
	var w io.Writer = io.Discard
	if opts.logFile != "" {
		f, err := os.OpenFile(opts.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	logger := newLogger(w, c.Logger.GetLevel())
	ctx = withLogger(ctx, logger)

	client, store := c.newClient(ctx)
	defer store.Close()

	render := c.cfg.Render
	if cmd.Flags().Changed("spin") {
		render.Spin = opts.spin
	}
	if opts.texture != "" {
		render.Texture = opts.texture
	}
	if opts.wireframe {
		render.Wireframe = true
	}

	m := tui.New(ctx, tui.Options{
		Fetcher:       client,
		Logger:        logger,
		Page:          page,
		SnapshotDir:   opts.snapshots,
		FrameInterval: render.FrameInterval.Duration,
		Spin:          render.Spin,
		Texture:       render.Texture,
		Wireframe:     render.Wireframe,
	})
	final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if fm, ok := final.(tui.Model); ok {
		fm.Close()
	} else {
		m.Close()
	}
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}
