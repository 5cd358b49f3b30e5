package cli

import (
	"context"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"terraview/internal/dataset"
	"terraview/internal/errors"
	"terraview/internal/noise"
	"terraview/internal/plot"
	"terraview/internal/render"
)

// Output formats accepted by "plot --format".
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatJSON = "json"
	FormatText = "text"
)

type plotOpts struct {
	function   string
	dimension  int
	from       string
	to         string
	resolution string
	seed       string

	input    string
	format   string
	output   string
	width    int
	height   int
	cols     int
	rows     int
	csvOut   string
	snapshot string

	texture   string
	wireframe bool
}

// plotCommand creates the "plot" command.
func (c *CLI) plotCommand() *cobra.Command {
	var opts plotOpts

	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Render noise to SVG, PNG, JSON or terminal text",
		Long: `Fetch noise (or load a snapshot/CSV with --input) and render it once.

1D data becomes a line plot, 2D data a lit height mesh.

Examples:
  terraview plot --function pink --format text
  terraview plot --function rawPerlin --dim 2 --to 5,2 --format png -o terrain.png
  terraview plot --input pink-1d.json --format svg`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPlot(cmd.Context(), opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.function, "function", "", "noise function (red, pink, white, blue, violet, rawPerlin)")
	f.IntVar(&opts.dimension, "dim", 0, "dimension, 1 or 2 (default from the catalog, else 1)")
	f.StringVar(&opts.from, "from", "", "range start, comma-separated integers")
	f.StringVar(&opts.to, "to", "", "range end, comma-separated integers")
	f.StringVar(&opts.resolution, "resolution", "", "samples per unit")
	f.StringVar(&opts.seed, "seed", "", "seed (default: chosen by the service)")
	f.StringVarP(&opts.input, "input", "i", "", "render a snapshot (.json) or CSV series (.csv) instead of fetching")
	f.StringVarP(&opts.format, "format", "f", FormatText, "output format: svg, png, json, text")
	f.StringVarP(&opts.output, "output", "o", "", "output file, - for stdout (default: stdout for text/json, <function>-<dim>d.<format> otherwise)")
	f.IntVar(&opts.width, "width", 600, "image width in pixels")
	f.IntVar(&opts.height, "height", 0, "image height in pixels (default: width/2 for 1D, width for 2D)")
	f.IntVar(&opts.cols, "cols", 80, "text width in terminal cells")
	f.IntVar(&opts.rows, "rows", 20, "text height in terminal cells")
	f.StringVar(&opts.csvOut, "csv", "", "also export the samples as CSV to this file")
	f.StringVar(&opts.snapshot, "snapshot", "", "also save a JSON snapshot to this file")
	f.StringVar(&opts.texture, "texture", "", "mesh texture image (default from config)")
	f.BoolVar(&opts.wireframe, "wireframe", false, "draw mesh edges only")

	return cmd
}

func (c *CLI) runPlot(ctx context.Context, opts plotOpts) error {
	logger := loggerFromContext(ctx)
	switch opts.format {
	case FormatSVG, FormatPNG, FormatJSON, FormatText:
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unknown format %q", opts.format)
	}

	data, err := c.plotData(ctx, opts)
	if err != nil {
		return err
	}
	if !toStdout(opts) && data.result != nil {
		printFetchStats(len(data.result.Values), data.result.Params.Shape(), data.result.Cached)
	}

	if opts.snapshot != "" {
		if data.result == nil {
			return errors.New(errors.ErrCodeInvalidParams, "--snapshot needs fetched or snapshot data")
		}
		if err := dataset.Save(opts.snapshot, dataset.FromResult(data.result, time.Now())); err != nil {
			return err
		}
		logger.Info("snapshot saved", "path", opts.snapshot)
	}
	if opts.csvOut != "" {
		if err := writeCSV(opts.csvOut, data); err != nil {
			return err
		}
		logger.Info("csv written", "path", opts.csvOut)
	}

	surface := newSurface(opts, data.dimension)
	if data.dimension == 1 {
		err = plot.NewLineRenderer().Render(surface, data.series)
	} else {
		err = c.renderMesh(ctx, surface, data.grid, opts)
	}
	if err != nil {
		if !errors.IsWarning(err) {
			return err
		}
		logger.Warn("rendered with warnings", "err", errors.UserMessage(err))
	}

	return writeSurface(surface, opts, data)
}

// plotInput is the data behind one plot run.
type plotInput struct {
	dimension int
	name      string
	result    *noise.Result // nil for CSV input
	series    plot.Series
	grid      plot.Grid
}

func (c *CLI) plotData(ctx context.Context, opts plotOpts) (*plotInput, error) {
	if opts.input != "" {
		if strings.EqualFold(filepath.Ext(opts.input), ".csv") {
			s, err := dataset.LoadCSV(opts.input)
			if err != nil {
				return nil, err
			}
			name := strings.TrimSuffix(filepath.Base(opts.input), filepath.Ext(opts.input))
			return &plotInput{dimension: 1, name: name, series: s}, nil
		}
		res, err := dataset.Load(opts.input)
		if err != nil {
			return nil, err
		}
		return fromResult(res)
	}

	p, err := plotParams(opts)
	if err != nil {
		return nil, err
	}
	client, store := c.newClient(ctx)
	defer store.Close()

	fetch := startStep(loggerFromContext(ctx), "Fetched %s", p)
	res, err := client.Fetch(ctx, p)
	if err != nil {
		return nil, err
	}
	fetch.done()
	return fromResult(res)
}

func fromResult(res *noise.Result) (*plotInput, error) {
	in := &plotInput{
		dimension: res.Params.Dimension,
		name:      fmt.Sprintf("%s-%dd", res.Params.NoiseFunction, res.Params.Dimension),
		result:    res,
	}
	if in.dimension == 1 {
		in.series = res.Series()
		return in, nil
	}
	g, err := res.Grid()
	if err != nil {
		return nil, err
	}
	in.grid = g
	return in, nil
}

// plotParams builds request parameters from flags on top of the defaults.
func plotParams(opts plotOpts) (noise.Params, error) {
	if opts.function == "" {
		return noise.Params{}, errors.New(errors.ErrCodeInvalidParams, "--function is required without --input")
	}
	dim := opts.dimension
	if dim == 0 {
		dim = catalogDimension(opts.function)
	}
	p := noise.DefaultParams(dim, opts.function)
	var err error
	if opts.from != "" {
		if p.From, err = noise.ParseInts(opts.from, dim); err != nil {
			return p, err
		}
	}
	if opts.to != "" {
		if p.To, err = noise.ParseInts(opts.to, dim); err != nil {
			return p, err
		}
	}
	if opts.resolution != "" {
		if p.Resolution, err = noise.ParseResolution(opts.resolution); err != nil {
			return p, err
		}
	}
	if p.Seed, err = noise.ParseSeed(opts.seed); err != nil {
		return p, err
	}
	return p, p.Validate()
}

// catalogDimension is the lowest dimension any catalog entry offers fn in.
func catalogDimension(fn string) int {
	dim := 0
	for _, page := range noise.Catalog() {
		if e, ok := page.FindEntry(fn); ok && (dim == 0 || e.Dimension < dim) {
			dim = e.Dimension
		}
	}
	if dim == 0 {
		return 1
	}
	return dim
}

func newSurface(opts plotOpts, dimension int) render.Surface {
	w, h := opts.width, opts.height
	if h <= 0 {
		h = w
		if dimension == 1 {
			h = w / 2
		}
	}
	white := color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	switch opts.format {
	case FormatSVG:
		return render.NewSVG(w, h, white)
	case FormatPNG:
		return render.NewRaster(w, h, white)
	case FormatJSON:
		return render.NewRecorder(w, h)
	default:
		return render.NewBraille(opts.cols, opts.rows)
	}
}

func (c *CLI) renderMesh(ctx context.Context, s render.Surface, g plot.Grid, opts plotOpts) error {
	texture := c.cfg.Render.Texture
	if opts.texture != "" {
		texture = opts.texture
	}
	mopts := []plot.MeshOption{
		plot.WithTexture(texture),
		plot.WithWireframe(opts.wireframe || c.cfg.Render.Wireframe),
		plot.WithMeshLogger(loggerFromContext(ctx)),
	}
	if opts.format == FormatText {
		// braille dots are lit where faces are bright; a light background
		// would fill every cell
		mopts = append(mopts, plot.WithBackground(color.RGBA{}))
	}
	m := plot.NewMeshRenderer(mopts...)
	err := m.Update(g)
	if err != nil && !errors.IsWarning(err) {
		return err
	}
	stats := m.Render(s, 0)
	loggerFromContext(ctx).Debug("mesh rendered", "faces", stats.Faces, "culled", stats.Culled, "drawn", stats.Drawn)
	return err
}

// toStdout reports whether the rendered output goes to standard output.
func toStdout(opts plotOpts) bool {
	return outputPath(opts, "") == ""
}

// outputPath resolves --output; "" means stdout.
func outputPath(opts plotOpts, name string) string {
	switch {
	case opts.output == "-":
		return ""
	case opts.output != "":
		return opts.output
	case opts.format == FormatSVG || opts.format == FormatPNG:
		if name == "" {
			name = "plot"
		}
		return name + "." + opts.format
	}
	return ""
}

func writeSurface(s render.Surface, opts plotOpts, data *plotInput) error {
	path := outputPath(opts, data.name)
	if path == "" {
		return encodeSurface(os.Stdout, s)
	}
	if err := writeFile(path, func(w io.Writer) error { return encodeSurface(w, s) }); err != nil {
		return err
	}
	printSuccess("Rendered %s", opts.format)
	printFile(path)
	return nil
}

func encodeSurface(w io.Writer, s render.Surface) error {
	var err error
	switch v := s.(type) {
	case *render.SVG:
		_, err = v.WriteTo(w)
	case *render.Raster:
		err = v.EncodePNG(w)
	case *render.Recorder:
		err = v.WriteJSON(w)
	case *render.Braille:
		_, err = fmt.Fprintln(w, v.String())
	}
	return err
}

func writeCSV(path string, data *plotInput) error {
	return writeFile(path, func(w io.Writer) error {
		if data.result != nil {
			return dataset.WriteResultCSV(w, data.result)
		}
		return dataset.WriteCSV(w, data.series)
	})
}

// writeFile creates path and fills it with write. A failed Close is
// reported, since buffered data may not have reached the disk.
func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer closeFile(f, &err)
	return write(f)
}

// closeFile closes c and stores its error in *err unless one is already set.
func closeFile(c io.Closer, err *error) {
	if cerr := c.Close(); cerr != nil && *err == nil {
		*err = cerr
	}
}
