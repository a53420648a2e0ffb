package asset

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
)

// Size limits for uploaded signature images, in pixels
const (
	MinWidth  = 50
	MinHeight = 20
	MaxWidth  = 4000
	MaxHeight = 4000

	// Output bounds the processed artwork is scaled into
	TargetMaxWidth  = 400
	TargetMaxHeight = 150
)

// Luminance thresholds for background removal. At or above the white
// threshold a pixel is fully transparent; between the fade threshold and
// the white threshold opacity ramps down linearly.
const (
	whiteThreshold = 240
	fadeThreshold  = 200
)

// Decode parses PNG or JPEG image bytes
func Decode(data []byte) (image.Image, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding signature image: %w", err)
	}
	if format != "png" && format != "jpeg" {
		return nil, fmt.Errorf("unsupported image format %q", format)
	}
	return img, nil
}

// Validate rejects images outside the accepted dimension range
func Validate(img image.Image) error {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w < MinWidth || h < MinHeight {
		return fmt.Errorf("image %dx%d below minimum %dx%d", w, h, MinWidth, MinHeight)
	}
	if w > MaxWidth || h > MaxHeight {
		return fmt.Errorf("image %dx%d above maximum %dx%d", w, h, MaxWidth, MaxHeight)
	}
	return nil
}

// Process turns a raw upload into overlay artwork: the near-white
// background becomes transparent, fully transparent margins are trimmed,
// and the result is scaled to fit the target bounds.
func Process(img image.Image) (*image.NRGBA, error) {
	if err := Validate(img); err != nil {
		return nil, err
	}

	cleared := removeBackground(img)

	trimmed := trim(cleared)
	if trimmed.Bounds().Empty() {
		return nil, fmt.Errorf("image is entirely background")
	}

	return scaleToFit(trimmed, TargetMaxWidth, TargetMaxHeight), nil
}

// EncodePNG renders processed artwork back to PNG bytes for storage
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding artwork: %w", err)
	}
	return buf.Bytes(), nil
}

// removeBackground maps luminance to alpha so ink stays opaque while paper
// fades out.
func removeBackground(img image.Image) *image.NRGBA {
	b := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, a := img.At(x, y).RGBA()
			r8, g8, b8 := uint8(r>>8), uint8(g>>8), uint8(bl>>8)
			a8 := uint8(a >> 8)

			lum := luminance(r8, g8, b8)
			switch {
			case lum >= whiteThreshold:
				a8 = 0
			case lum >= fadeThreshold:
				scale := float64(whiteThreshold-lum) / float64(whiteThreshold-fadeThreshold)
				a8 = uint8(float64(a8) * scale)
			}

			out.SetNRGBA(x-b.Min.X, y-b.Min.Y, color.NRGBA{R: r8, G: g8, B: b8, A: a8})
		}
	}
	return out
}

func luminance(r, g, b uint8) int {
	return (299*int(r) + 587*int(g) + 114*int(b)) / 1000
}

// trim crops fully transparent margins
func trim(img *image.NRGBA) *image.NRGBA {
	b := img.Bounds()
	minX, minY := b.Max.X, b.Max.Y
	maxX, maxY := b.Min.X-1, b.Min.Y-1

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.NRGBAAt(x, y).A == 0 {
				continue
			}
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}
		}
	}

	if maxX < minX || maxY < minY {
		return image.NewNRGBA(image.Rect(0, 0, 0, 0))
	}
	return img.SubImage(image.Rect(minX, minY, maxX+1, maxY+1)).(*image.NRGBA)
}

// scaleToFit downscales to the bounds preserving aspect ratio. Images
// already inside the bounds pass through at a normalized origin.
func scaleToFit(img *image.NRGBA, maxW, maxH int) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	if w <= maxW && h <= maxH {
		out := image.NewNRGBA(image.Rect(0, 0, w, h))
		draw.Copy(out, image.Point{}, img, b, draw.Src, nil)
		return out
	}

	scale := float64(maxW) / float64(w)
	if s := float64(maxH) / float64(h); s < scale {
		scale = s
	}
	outW := int(float64(w) * scale)
	outH := int(float64(h) * scale)
	if outW < 1 {
		outW = 1
	}
	if outH < 1 {
		outH = 1
	}

	out := image.NewNRGBA(image.Rect(0, 0, outW, outH))
	draw.CatmullRom.Scale(out, out.Bounds(), img, b, draw.Src, nil)
	return out
}
