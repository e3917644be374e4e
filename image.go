package wfc

import (
	"image"
	"image/color"
	"image/png"
	"io"
)

// ImageRGB is a decoded 8-bit RGB pixel buffer in row-major order, with
// alpha discarded — the loader contract spec.md §6 asks for.
type ImageRGB struct {
	Width, Height int
	Pixels        []RGB
}

// NewImageRGB allocates a black Width x Height buffer.
func NewImageRGB(width, height int) *ImageRGB {
	return &ImageRGB{Width: width, Height: height, Pixels: make([]RGB, width*height)}
}

func (img *ImageRGB) idx(x, y int) int {
	return y*img.Width + x
}

// At returns the pixel at (x, y).
func (img *ImageRGB) At(x, y int) RGB {
	return img.Pixels[img.idx(x, y)]
}

// Set writes the pixel at (x, y).
func (img *ImageRGB) Set(x, y int, c RGB) {
	img.Pixels[img.idx(x, y)] = c
}

// extract reads the NxN pattern whose top-left pixel is (x,y), wrapping
// toroidally around the exemplar's dimensions (spec.md §4.1).
func (img *ImageRGB) extract(x, y, n int) Pattern {
	p := newPattern(n)
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			sx := (x + i) % img.Width
			sy := (y + j) % img.Height
			p.Pixels[j*n+i] = img.At(sx, sy)
		}
	}
	return p
}

// LoadImage decodes r into an ImageRGB, discarding alpha.
func LoadImage(r io.Reader) (*ImageRGB, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}

	bounds := src.Bounds()
	out := NewImageRGB(bounds.Dx(), bounds.Dy())
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			cr, cg, cb, _ := src.At(x, y).RGBA()
			out.Set(x-bounds.Min.X, y-bounds.Min.Y, RGB{uint8(cr >> 8), uint8(cg >> 8), uint8(cb >> 8)})
		}
	}
	return out, nil
}

// SaveImage maps a fully-collapsed tile grid to its top-left pixels and
// writes the result as an 8-bit RGB PNG, dimensions exactly
// grid.Width x grid.Height.
func SaveImage(w io.Writer, model *Model, grid Grid[TileIndex]) error {
	img := image.NewRGBA(image.Rect(0, 0, grid.Width, grid.Height))
	for idx, tile := range grid.Data {
		pos, _ := grid.ToCoord(idx)
		var px RGB
		if tile >= 0 {
			px = model.Patterns[tile].Pixels[0]
		}
		img.Set(pos.X, pos.Y, color.RGBA{R: px[0], G: px[1], B: px[2], A: 255})
	}
	return png.Encode(w, img)
}
