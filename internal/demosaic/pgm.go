package demosaic

import (
	"fmt"
	"image/color"
	"io"

	"github.com/spakin/netpbm"
)

// Raw is an undemosaiced single-channel capture. Pix holds the samples
// rescaled from MaxVal to the full 16-bit range.
type Raw struct {
	Width  int
	Height int
	MaxVal int // maxval of the file
	Pix    []uint16
}

// ReadPGM decodes a PGM (P5 or P2) mosaic. Plain bitmaps and colour files
// are rejected.
func ReadPGM(r io.Reader) (Raw, error) {
	img, err := netpbm.Decode(r, &netpbm.DecodeOptions{Target: netpbm.PGM, Exact: true})
	if err != nil {
		return Raw{}, fmt.Errorf("demosaic: pgm: %w", err)
	}
	if img.Format() != netpbm.PGM {
		return Raw{}, fmt.Errorf("demosaic: pgm: got %v", img.Format())
	}

	b := img.Bounds()
	raw := Raw{
		Width:  b.Dx(),
		Height: b.Dy(),
		MaxVal: int(img.MaxValue()),
		Pix:    make([]uint16, b.Dx()*b.Dy()),
	}
	for y := 0; y < raw.Height; y++ {
		for x := 0; x < raw.Width; x++ {
			g := color.Gray16Model.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray16)
			raw.Pix[y*raw.Width+x] = g.Y
		}
	}
	return raw, nil
}
