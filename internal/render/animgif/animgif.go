// Package animgif renders a wheel spin as an animated GIF, used by the
// web layer to preview a spin result without a terminal attached.
package animgif

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"io"
	"math"
	"sync"
	"time"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/M-I-N/fortunewheel/internal/debug"
	"github.com/M-I-N/fortunewheel/internal/render/layer"
	"github.com/M-I-N/fortunewheel/internal/wheel"
	"github.com/M-I-N/fortunewheel/internal/wheel/geometry"
)

var (
	colorOutline = color.RGBA{32, 34, 37, 255}
	colorHub     = color.RGBA{230, 230, 230, 255}
	colorPin     = color.RGBA{237, 66, 69, 255}
)

// Options controls the rendered animation. Zero values take the
// defaults noted per field.
type Options struct {
	Size          int           // image edge in pixels, default 400
	FPS           int           // default 20
	FullRotations int           // default animator.DefaultFullRotations semantics: 13
	Duration      time.Duration // spin length, default 5s
	Linger        time.Duration // hold on the result, default 1s
}

func (o *Options) defaults() {
	if o.Size <= 0 {
		o.Size = 400
	}
	if o.FPS <= 0 {
		o.FPS = 20
	}
	if o.FullRotations <= 0 {
		o.FullRotations = 13
	}
	if o.Duration <= 0 {
		o.Duration = 5 * time.Second
	}
	if o.Linger < 0 {
		o.Linger = 0
	} else if o.Linger == 0 {
		o.Linger = time.Second
	}
}

// Render writes an animated GIF of a spin that decelerates onto
// targetIndex, using the same full-rotation accumulation and ease-out
// curve the live wheel uses.
func Render(w io.Writer, slices []wheel.Slice, targetIndex int, opts Options) error {
	if len(slices) == 0 {
		return fmt.Errorf("cannot render a wheel with no slices")
	}
	opts.defaults()

	resolver := geometry.NewResolver()
	target := resolver.RotationToIndex(targetIndex, len(slices))
	final := float64(opts.FullRotations)*geometry.FullCircleDegree + target

	spinning := int(float64(opts.FPS) * opts.Duration.Seconds())
	if spinning < 2 {
		spinning = 2
	}
	lingering := int(float64(opts.FPS) * opts.Linger.Seconds())
	frames := spinning + lingering

	debug.Verbose("Rendering %d GIF frames (%dx%d, target %d)", frames, opts.Size, opts.Size, targetIndex)

	rendered := make([]image.Image, frames)
	var wg sync.WaitGroup
	wg.Add(frames)
	for frame := 0; frame < frames; frame++ {
		go func(frame int) {
			defer wg.Done()

			progress := float64(frame) / float64(spinning-1)
			if frame >= spinning {
				progress = 1
			}
			rotation := final * layer.EaseOutCubic(progress)

			dc := gg.NewContext(opts.Size, opts.Size)
			drawFrame(dc, slices, rotation, opts.Size)
			rendered[frame] = dc.Image()
		}(frame)
	}
	wg.Wait()

	palette := buildPalette(slices)
	delay := 100 / opts.FPS

	out := &gif.GIF{
		Image: make([]*image.Paletted, frames),
		Delay: make([]int, frames),
	}
	for i, img := range rendered {
		bounds := img.Bounds()
		paletted := image.NewPaletted(bounds, palette)
		draw.Draw(paletted, bounds, img, bounds.Min, draw.Src)
		out.Image[i] = paletted
		out.Delay[i] = delay
	}
	return gif.EncodeAll(w, out)
}

// drawFrame paints one wheel position. rotation is the clockwise model
// angle in degrees; slice 0 starts under the pin when rotation is 0.
func drawFrame(dc *gg.Context, slices []wheel.Slice, rotation float64, size int) {
	cx, cy := float64(size)/2, float64(size)/2
	outer := float64(size)/2 - 8
	inner := outer * 0.95

	dc.SetColor(colorOutline)
	dc.DrawCircle(cx, cy, outer)
	dc.Fill()

	regular, err := truetype.Parse(goregular.TTF)
	if err == nil {
		dc.SetFontFace(truetype.NewFace(regular, &truetype.Options{
			Size:    float64(size) / 28,
			Hinting: font.HintingFull,
		}))
	}

	// gg angles grow clockwise on screen (y points down); 12 o'clock is
	// -90°. Slice i starts at i*sector clockwise from 12 o'clock, then
	// the whole wheel is turned by rotation.
	sector := geometry.FullCircleDegree / float64(len(slices)) * math.Pi / 180
	base := (rotation - 90) * math.Pi / 180

	for i, sl := range slices {
		start := base + sector*float64(i)
		end := start + sector

		dc.MoveTo(cx, cy)
		dc.DrawArc(cx, cy, inner, start, end)
		dc.ClosePath()
		dc.SetColor(sliceColor(sl.Color, i))
		dc.Fill()

		mid := (start + end) / 2
		labelX := cx + math.Cos(mid)*inner*0.62
		labelY := cy + math.Sin(mid)*inner*0.62

		dc.Push()
		dc.Translate(labelX, labelY)
		dc.Rotate(mid + math.Pi/2)
		dc.SetColor(color.Black)
		dc.DrawStringAnchored(sl.Label, 1, 1, 0.5, 0.5)
		dc.SetColor(color.White)
		dc.DrawStringAnchored(sl.Label, 0, 0, 0.5, 0.5)
		dc.Pop()
	}

	dc.SetLineWidth(2)
	dc.SetColor(colorOutline)
	for i := range slices {
		angle := base + sector*float64(i)
		dc.MoveTo(cx, cy)
		dc.LineTo(cx+math.Cos(angle)*inner, cy+math.Sin(angle)*inner)
		dc.Stroke()
	}

	hub := outer * 0.14
	dc.SetColor(colorHub)
	dc.DrawCircle(cx, cy, hub)
	dc.Fill()
	dc.SetLineWidth(2)
	dc.SetColor(colorOutline)
	dc.DrawCircle(cx, cy, hub)
	dc.Stroke()

	drawPin(dc, cx, cy, outer)
}

func drawPin(dc *gg.Context, cx, cy, outer float64) {
	size := outer * 0.15
	tipY := cy - outer + size

	dc.NewSubPath()
	dc.MoveTo(cx, tipY)
	dc.LineTo(cx-size/2, tipY-size)
	dc.LineTo(cx+size/2, tipY-size)
	dc.ClosePath()
	dc.SetColor(colorPin)
	dc.FillPreserve()
	dc.SetLineWidth(2)
	dc.SetColor(colorOutline)
	dc.Stroke()
}

func buildPalette(slices []wheel.Slice) []color.Color {
	palette := []color.Color{
		color.Transparent,
		color.Black,
		color.White,
		colorOutline,
		colorHub,
		colorPin,
	}
	for i, sl := range slices {
		palette = append(palette, sliceColor(sl.Color, i))
	}
	// GIF palettes cap at 256 entries
	if len(palette) > 256 {
		palette = palette[:256]
	}
	return palette
}

// namedColors covers the names the config accepts; anything else falls
// back to a rotating default so adjacent slices stay distinguishable.
var namedColors = map[string]color.RGBA{
	"red":    {237, 66, 69, 255},
	"blue":   {88, 101, 242, 255},
	"green":  {87, 242, 135, 255},
	"yellow": {254, 231, 92, 255},
	"purple": {155, 89, 182, 255},
	"teal":   {26, 188, 156, 255},
	"orange": {230, 126, 34, 255},
	"white":  {255, 255, 255, 255},
	"gray":   {149, 165, 166, 255},
	"maroon": {128, 0, 0, 255},
	"navy":   {0, 0, 128, 255},
}

var fallbackColors = []color.RGBA{
	{237, 66, 69, 255}, {88, 101, 242, 255}, {87, 242, 135, 255},
	{254, 231, 92, 255}, {155, 89, 182, 255}, {26, 188, 156, 255},
}

func sliceColor(name string, index int) color.RGBA {
	if c, ok := namedColors[name]; ok {
		return c
	}
	if len(name) == 7 && name[0] == '#' {
		var r, g, b uint8
		if _, err := fmt.Sscanf(name[1:], "%02x%02x%02x", &r, &g, &b); err == nil {
			return color.RGBA{r, g, b, 255}
		}
	}
	return fallbackColors[index%len(fallbackColors)]
}
