package plot

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/scoreplot-cli/internal/utils"
	gplot "gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// ErrEmptySeries is returned when a series has nothing to draw.
var ErrEmptySeries = errors.New("empty series")

// Page sets the physical size and raster resolution of an image.
type Page struct {
	WidthIn  float64
	HeightIn float64
	DPI      int
}

// DefaultPage is an 8x6 inch canvas at 300 dpi.
func DefaultPage() Page { return Page{WidthIn: 8, HeightIn: 6, DPI: 300} }

func (p Page) withDefaults() Page {
	d := DefaultPage()
	if p.WidthIn <= 0 {
		p.WidthIn = d.WidthIn
	}
	if p.HeightIn <= 0 {
		p.HeightIn = d.HeightIn
	}
	if p.DPI <= 0 {
		p.DPI = d.DPI
	}
	return p
}

// tab10 colours, in matplotlib's default cycle order.
var palette = []color.NRGBA{
	{R: 31, G: 119, B: 180, A: 255},
	{R: 255, G: 127, B: 14, A: 255},
	{R: 44, G: 160, B: 44, A: 255},
	{R: 214, G: 39, B: 40, A: 255},
	{R: 148, G: 103, B: 189, A: 255},
}

func seriesColor(i int, alpha float64) color.NRGBA {
	c := palette[i%len(palette)]
	c.A = uint8(alpha*255 + 0.5)
	return c
}

// save renders p to path. PNG (or no extension) is rasterized at page.DPI
// and written atomically; other extensions are left to gonum/plot.
func save(p *gplot.Plot, page Page, path string) error {
	if path == "" {
		return errors.New("output path is empty")
	}
	page = page.withDefaults()
	if err := utils.EnsureParentDir(path); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	w := vg.Length(page.WidthIn) * vg.Inch
	h := vg.Length(page.HeightIn) * vg.Inch

	ext := strings.ToLower(filepath.Ext(path))
	if ext != "" && ext != ".png" {
		if err := p.Save(w, h, path); err != nil {
			return fmt.Errorf("save plot: %w", err)
		}
		return nil
	}

	c := vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(page.DPI))
	p.Draw(draw.New(c))
	var buf bytes.Buffer
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(&buf); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return utils.SafeWriteFile(path, buf.Bytes())
}
