package overlay

import (
	"fmt"
	"image"

	"github.com/tsawler/sigil/core"
	"github.com/tsawler/sigil/internal/filters"
)

// ImageRef identifies a registered image XObject and carries the pixel
// dimensions the compositor needs for aspect-correct scaling.
type ImageRef struct {
	Name   string
	Width  int
	Height int
}

// NewImageXObject encodes an image as a FlateDecode DeviceRGB image XObject
// stream. When the image carries alpha, a DeviceGray soft mask stream is
// returned alongside; the assembler wires it into the image dictionary's
// SMask entry when registering both objects.
func NewImageXObject(img image.Image) (*core.Stream, *core.Stream, error) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return nil, nil, fmt.Errorf("image has no pixels")
	}

	rgb := make([]byte, 0, w*h*3)
	alpha := make([]byte, 0, w*h)
	hasAlpha := false

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := img.At(x, y).RGBA()
			if a > 0 {
				// Undo alpha premultiplication
				r = r * 0xffff / a
				g = g * 0xffff / a
				b = b * 0xffff / a
			}
			rgb = append(rgb, byte(r>>8), byte(g>>8), byte(b>>8))
			alpha = append(alpha, byte(a>>8))
			if a>>8 != 0xff {
				hasAlpha = true
			}
		}
	}

	imgStream, err := imageStream(rgb, w, h, core.Name("DeviceRGB"))
	if err != nil {
		return nil, nil, err
	}

	if !hasAlpha {
		return imgStream, nil, nil
	}

	mask, err := imageStream(alpha, w, h, core.Name("DeviceGray"))
	if err != nil {
		return nil, nil, err
	}
	return imgStream, mask, nil
}

func imageStream(samples []byte, w, h int, colorSpace core.Name) (*core.Stream, error) {
	compressed, err := filters.FlateEncode(samples)
	if err != nil {
		return nil, fmt.Errorf("compressing image samples: %w", err)
	}
	return &core.Stream{
		Dict: core.Dict{
			"Type":             core.Name("XObject"),
			"Subtype":          core.Name("Image"),
			"Width":            core.Int(w),
			"Height":           core.Int(h),
			"ColorSpace":       colorSpace,
			"BitsPerComponent": core.Int(8),
			"Filter":           core.Name("FlateDecode"),
		},
		Data: compressed,
	}, nil
}

// FitWithin scales (imgW, imgH) to fit inside (boxW, boxH) preserving the
// aspect ratio, and centers the result horizontally. Returns the draw
// offset within the box and the scaled size.
func FitWithin(imgW, imgH int, boxW, boxH float64) (dx float64, drawW, drawH float64) {
	if imgW <= 0 || imgH <= 0 {
		return 0, boxW, boxH
	}
	scale := boxW / float64(imgW)
	if s := boxH / float64(imgH); s < scale {
		scale = s
	}
	drawW = float64(imgW) * scale
	drawH = float64(imgH) * scale
	dx = (boxW - drawW) / 2
	return dx, drawW, drawH
}
