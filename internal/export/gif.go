package export

import (
	"errors"
	"image"
	"image/color"
	"image/gif"
	"io"
	"os"

	"github.com/san-kum/lifelab/internal/render"
	"github.com/san-kum/lifelab/internal/view"
)

var ErrNoFrames = errors.New("export: no frames recorded")

// Recorder collects rendered frames for an animated GIF. Frames are
// quantized to the palette's eight colors.
type Recorder struct {
	Width, Height int
	// Delay between frames in hundredths of a second.
	Delay   int
	palette render.Palette
	colors  color.Palette
	frames  []*image.Paletted
}

func NewRecorder(width, height int, p render.Palette) *Recorder {
	colors := color.Palette{p.Background, p.Dead}
	for _, c := range p.Live {
		colors = append(colors, c)
	}
	return &Recorder{
		Width:   width,
		Height:  height,
		Delay:   4,
		palette: p,
		colors:  colors,
	}
}

// Capture renders f under st and appends it.
func (r *Recorder) Capture(f render.Frame, st view.State) {
	src := render.Image(r.Width, r.Height, f, st, r.palette)
	img := image.NewPaletted(src.Bounds(), r.colors)
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			img.Set(x, y, src.RGBAAt(x, y))
		}
	}
	r.frames = append(r.frames, img)
}

func (r *Recorder) Frames() int { return len(r.frames) }
func (r *Recorder) Reset()      { r.frames = nil }

func (r *Recorder) Encode(w io.Writer) error {
	if len(r.frames) == 0 {
		return ErrNoFrames
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range r.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, r.Delay)
	}
	return gif.EncodeAll(w, &anim)
}

func (r *Recorder) Save(path string) error {
	if len(r.frames) == 0 {
		return ErrNoFrames
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return r.Encode(f)
}
