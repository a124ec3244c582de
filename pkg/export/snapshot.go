// Package export renders static image snapshots (PNG via gg, SVG via svgo)
// of the dashboard views. Export failures are reported to the caller and
// never affect dashboard state.
package export

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"git.sr.ht/~sbinet/gg"
	svg "github.com/ajstarks/svgo"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/sync/errgroup"

	"github.com/mvdleeuw/geoscope/pkg/analysis"
	"github.com/mvdleeuw/geoscope/pkg/geo"
)

// Canvas dimensions shared by both views.
const (
	canvasWidth  = 800
	headerHeight = 56
	marginX      = 24
)

// Palette: one set per theme.
var (
	lightBackdrop = color.RGBA{0xFA, 0xFA, 0xF7, 0xFF}
	lightText     = color.RGBA{0x28, 0x2A, 0x36, 0xFF}
	lightSubtle   = color.RGBA{0x62, 0x72, 0xA4, 0xFF}
	lightBar      = color.RGBA{0x6B, 0x47, 0xD9, 0xFF}
	lightPoint    = color.RGBA{0xCC, 0x00, 0x00, 0xFF}
	lightFrame    = color.RGBA{0xAA, 0xAA, 0xAA, 0xFF}

	darkBackdrop = color.RGBA{0x28, 0x2A, 0x36, 0xFF}
	darkText     = color.RGBA{0xF8, 0xF8, 0xF2, 0xFF}
	darkSubtle   = color.RGBA{0x62, 0x72, 0xA4, 0xFF}
	darkBar      = color.RGBA{0xBD, 0x93, 0xF9, 0xFF}
	darkPoint    = color.RGBA{0xFF, 0x55, 0x55, 0xFF}
	darkFrame    = color.RGBA{0x44, 0x47, 0x5A, 0xFF}
)

type palette struct {
	backdrop, text, subtle, bar, point, frame color.RGBA
}

func themePalette(dark bool) palette {
	if dark {
		return palette{darkBackdrop, darkText, darkSubtle, darkBar, darkPoint, darkFrame}
	}
	return palette{lightBackdrop, lightText, lightSubtle, lightBar, lightPoint, lightFrame}
}

// css renders a color as a CSS hex literal for svgo styles.
func css(c color.RGBA) string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// SnapshotOptions controls snapshot export behaviour.
type SnapshotOptions struct {
	Path     string // Output path; format inferred from extension when Format empty
	Format   string // "png", "svg" or "both" (case-insensitive)
	Title    string // Rendered in the header block
	DarkMode bool   // Palette selection
}

// resolve normalizes format and path, inferring one from the other.
func (o *SnapshotOptions) resolve() error {
	if o.Path == "" {
		return fmt.Errorf("output path is required")
	}
	o.Format = strings.ToLower(strings.TrimPrefix(o.Format, "."))
	if o.Format == "" {
		switch strings.ToLower(filepath.Ext(o.Path)) {
		case ".png":
			o.Format = "png"
		case ".svg":
			o.Format = "svg"
		default:
			o.Format = "svg" // safe default
			if filepath.Ext(o.Path) == "" {
				o.Path += ".svg"
			}
		}
	}
	if o.Format != "png" && o.Format != "svg" && o.Format != "both" {
		return fmt.Errorf("unsupported format %q (want png, svg or both)", o.Format)
	}
	if dir := filepath.Dir(o.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create parent dir: %w", err)
		}
	}
	return nil
}

// withExt swaps the path extension.
func withExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}

// render dispatches one resolved snapshot to the per-format renderers. The
// "both" format writes sibling .png and .svg files concurrently.
func render(opts SnapshotOptions, png func(path string) error, svgFn func(path string) error) error {
	switch opts.Format {
	case "png":
		return png(withExt(opts.Path, ".png"))
	case "svg":
		return svgFn(withExt(opts.Path, ".svg"))
	case "both":
		var g errgroup.Group
		g.Go(func() error { return png(withExt(opts.Path, ".png")) })
		g.Go(func() error { return svgFn(withExt(opts.Path, ".svg")) })
		return g.Wait()
	default:
		return fmt.Errorf("unhandled format %q", opts.Format)
	}
}

// --- categorical chart -------------------------------------------------------

const (
	barRowHeight = 28
	barMaxWidth  = canvasWidth - 2*marginX - 200
	labelWidth   = 160
)

// SaveChartSnapshot renders the categorical view: one magnitude-encoded bar
// per region, sorted as given (callers pass analysis.GroupByRegion output).
func SaveChartSnapshot(opts SnapshotOptions, groups []analysis.RegionCount) error {
	if len(groups) == 0 {
		return fmt.Errorf("no groups to export")
	}
	if err := opts.resolve(); err != nil {
		return err
	}

	height := headerHeight + len(groups)*barRowHeight + marginX
	pal := themePalette(opts.DarkMode)
	maxCount := groups[0].Count
	for _, g := range groups {
		if g.Count > maxCount {
			maxCount = g.Count
		}
	}
	stats := analysis.Summarize(groups)

	renderPNG := func(path string) error {
		dc := gg.NewContext(canvasWidth, height)
		dc.SetColor(pal.backdrop)
		dc.Clear()
		dc.SetFontFace(basicfont.Face7x13)

		dc.SetColor(pal.text)
		dc.DrawString(headerLine(opts.Title, "regions"), marginX, 24)
		dc.SetColor(pal.subtle)
		dc.DrawString(statsLine(stats), marginX, 40)

		for i, g := range groups {
			y := float64(headerHeight + i*barRowHeight)
			w := barLength(g.Count, maxCount)

			dc.SetColor(pal.text)
			dc.DrawString(g.Region, marginX, y+16)
			dc.SetColor(pal.bar)
			dc.DrawRectangle(marginX+labelWidth, y+4, float64(w), barRowHeight-10)
			dc.Fill()
			dc.SetColor(pal.subtle)
			dc.DrawString(fmt.Sprintf("%d", g.Count), marginX+labelWidth+float64(w)+8, y+16)
		}

		return dc.SavePNG(path)
	}

	renderSVG := func(path string) error {
		file, err := os.Create(path)
		if err != nil {
			return err
		}
		defer file.Close()
		return chartSVG(file, opts, pal, groups, maxCount, stats, height)
	}

	return render(opts, renderPNG, renderSVG)
}

func chartSVG(w io.Writer, opts SnapshotOptions, pal palette, groups []analysis.RegionCount, maxCount int, stats analysis.GroupStats, height int) error {
	canvas := svg.New(w)
	canvas.Start(canvasWidth, height)
	canvas.Rect(0, 0, canvasWidth, height, fmt.Sprintf("fill:%s", css(pal.backdrop)))

	canvas.Text(marginX, 24, headerLine(opts.Title, "regions"),
		fmt.Sprintf("fill:%s;font-size:14px;font-family:monospace;font-weight:bold", css(pal.text)))
	canvas.Text(marginX, 40, statsLine(stats),
		fmt.Sprintf("fill:%s;font-size:12px;font-family:monospace", css(pal.subtle)))

	for i, g := range groups {
		y := headerHeight + i*barRowHeight
		w := barLength(g.Count, maxCount)

		canvas.Text(marginX, y+16, g.Region,
			fmt.Sprintf("fill:%s;font-size:13px;font-family:monospace", css(pal.text)))
		canvas.Rect(marginX+labelWidth, y+4, w, barRowHeight-10,
			fmt.Sprintf("fill:%s", css(pal.bar)))
		canvas.Text(marginX+labelWidth+w+8, y+16, fmt.Sprintf("%d", g.Count),
			fmt.Sprintf("fill:%s;font-size:12px;font-family:monospace", css(pal.subtle)))
	}

	canvas.End()
	return nil
}

func barLength(count, maxCount int) int {
	if maxCount <= 0 {
		return 0
	}
	w := barMaxWidth * count / maxCount
	if w < 2 && count > 0 {
		w = 2
	}
	return w
}

// --- map ---------------------------------------------------------------------

const mapCanvasHeight = 500

// MapPoint is one plotted record.
type MapPoint struct {
	Name  string
	Point geo.Point
}

// SaveMapSnapshot renders the map view: the given points inside their
// framing viewport. Labels are drawn when the set is small enough to stay
// legible.
func SaveMapSnapshot(opts SnapshotOptions, points []MapPoint, vp geo.Viewport) error {
	if len(points) == 0 {
		return fmt.Errorf("no mappable records to export")
	}
	if err := opts.resolve(); err != nil {
		return err
	}

	pal := themePalette(opts.DarkMode)
	innerW := canvasWidth - 2*marginX
	innerH := mapCanvasHeight - headerHeight - marginX
	labeled := len(points) <= 12

	project := func(p geo.Point) (int, int, bool) {
		x, y, ok := vp.Project(p, innerW, innerH)
		return marginX + x, headerHeight + y, ok
	}

	renderPNG := func(path string) error {
		dc := gg.NewContext(canvasWidth, mapCanvasHeight)
		dc.SetColor(pal.backdrop)
		dc.Clear()
		dc.SetFontFace(basicfont.Face7x13)

		dc.SetColor(pal.text)
		dc.DrawString(headerLine(opts.Title, "map"), marginX, 24)
		center := vp.Center()
		dc.SetColor(pal.subtle)
		dc.DrawString(fmt.Sprintf("%d points · center %.2f, %.2f", len(points), center.Lat, center.Lng), marginX, 40)

		dc.SetColor(pal.frame)
		dc.SetLineWidth(1)
		dc.DrawRectangle(marginX, headerHeight, float64(innerW), float64(innerH))
		dc.Stroke()

		for _, mp := range points {
			x, y, ok := project(mp.Point)
			if !ok {
				continue
			}
			dc.SetColor(pal.point)
			dc.DrawCircle(float64(x), float64(y), 4)
			dc.Fill()
			if labeled {
				dc.SetColor(pal.text)
				dc.DrawString(mp.Name, float64(x)+7, float64(y)+4)
			}
		}

		return dc.SavePNG(path)
	}

	renderSVG := func(path string) error {
		file, err := os.Create(path)
		if err != nil {
			return err
		}
		defer file.Close()

		canvas := svg.New(file)
		canvas.Start(canvasWidth, mapCanvasHeight)
		canvas.Rect(0, 0, canvasWidth, mapCanvasHeight, fmt.Sprintf("fill:%s", css(pal.backdrop)))
		canvas.Text(marginX, 24, headerLine(opts.Title, "map"),
			fmt.Sprintf("fill:%s;font-size:14px;font-family:monospace;font-weight:bold", css(pal.text)))
		center := vp.Center()
		canvas.Text(marginX, 40, fmt.Sprintf("%d points · center %.2f, %.2f", len(points), center.Lat, center.Lng),
			fmt.Sprintf("fill:%s;font-size:12px;font-family:monospace", css(pal.subtle)))
		canvas.Rect(marginX, headerHeight, innerW, innerH,
			fmt.Sprintf("fill:none;stroke:%s;stroke-width:1", css(pal.frame)))

		for _, mp := range points {
			x, y, ok := project(mp.Point)
			if !ok {
				continue
			}
			canvas.Circle(x, y, 4, fmt.Sprintf("fill:%s", css(pal.point)))
			if labeled {
				canvas.Text(x+7, y+4, mp.Name,
					fmt.Sprintf("fill:%s;font-size:12px;font-family:monospace", css(pal.text)))
			}
		}

		canvas.End()
		return nil
	}

	return render(opts, renderPNG, renderSVG)
}

func headerLine(title, kind string) string {
	if title == "" {
		return "geoscope " + kind + " snapshot"
	}
	return title
}

func statsLine(s analysis.GroupStats) string {
	return fmt.Sprintf("%d regions · %d records · mean %.1f · σ %.1f", s.Groups, s.Total, s.Mean, s.StdDev)
}
