package renderer

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/df07/go-halide/pkg/core"
)

// displayRange is the clamp applied before scaling a channel to 8 bits
var displayRange = core.NewInterval(0.000, 0.999)

// Frame holds averaged linear RGB per pixel in row-major order, row 0 at the top
type Frame struct {
	width, height int
	pixels        []core.Vec3
}

// NewFrame allocates a black frame
func NewFrame(width, height int) *Frame {
	return &Frame{
		width:  width,
		height: height,
		pixels: make([]core.Vec3, width*height),
	}
}

// Width returns the frame width in pixels
func (f *Frame) Width() int {
	return f.width
}

// Height returns the frame height in pixels
func (f *Frame) Height() int {
	return f.height
}

// At returns the linear color of pixel (x, y)
func (f *Frame) At(x, y int) core.Vec3 {
	return f.pixels[y*f.width+x]
}

// Set stores the linear color of pixel (x, y)
func (f *Frame) Set(x, y int, c core.Vec3) {
	f.pixels[y*f.width+x] = c
}

// Row returns the pixels of row y; writes go straight into the frame
func (f *Frame) Row(y int) []core.Vec3 {
	return f.pixels[y*f.width : (y+1)*f.width]
}

// toByte maps a display-space channel to 0..255
func toByte(c float64) uint8 {
	return uint8(256 * displayRange.Clamp(c))
}

// encode converts a linear color to display space
func encode(c core.Vec3, gamma bool) core.Vec3 {
	if gamma {
		return c.LinearToGamma()
	}
	return c
}

// ToRGBA converts the frame to an 8-bit image, applying sqrt gamma when gamma is set
func (f *Frame) ToRGBA(gamma bool) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.width, f.height))
	for y := 0; y < f.height; y++ {
		for x := 0; x < f.width; x++ {
			c := encode(f.At(x, y), gamma)
			img.SetRGBA(x, y, color.RGBA{
				R: toByte(c.X),
				G: toByte(c.Y),
				B: toByte(c.Z),
				A: 255,
			})
		}
	}
	return img
}

// WritePPM writes the frame as a plain-text P3 PPM image
func (f *Frame) WritePPM(w io.Writer, gamma bool) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "P3\n%d %d\n255\n", f.width, f.height); err != nil {
		return fmt.Errorf("failed to write PPM header: %w", err)
	}
	for y := 0; y < f.height; y++ {
		for x := 0; x < f.width; x++ {
			c := encode(f.At(x, y), gamma)
			if _, err := fmt.Fprintf(bw, "%d %d %d\n", toByte(c.X), toByte(c.Y), toByte(c.Z)); err != nil {
				return fmt.Errorf("failed to write PPM pixel: %w", err)
			}
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to flush PPM: %w", err)
	}
	return nil
}

// CalculateAverageLuminance returns the mean luminance of an image in [0, 1]
func CalculateAverageLuminance(img image.Image) float64 {
	bounds := img.Bounds()
	count := bounds.Dx() * bounds.Dy()
	if count == 0 {
		return 0
	}

	total := 0.0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			c := core.NewVec3(float64(r)/0xffff, float64(g)/0xffff, float64(b)/0xffff)
			total += c.Luminance()
		}
	}
	return total / float64(count)
}
