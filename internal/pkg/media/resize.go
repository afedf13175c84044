package media

import (
	"bytes"
	"image"
	"math"

	"github.com/disintegration/imaging"
	"github.com/kolesa-team/go-webp/decoder"
	"github.com/kolesa-team/go-webp/encoder"
	"github.com/kolesa-team/go-webp/webp"
	"github.com/rwcarlsen/goexif/exif"

	"github.com/sochai/sochai-web/internal/pkg/apperr"
)

// Resize scales f to fit maxWidth then maxHeight, never enlarging it, and
// re-encodes it in its own format. quality runs from 0 to 1 and applies to
// JPEG and WebP.
func Resize(f File, maxWidth, maxHeight int, quality float64) (File, error) {
	mt := canonicalMime(f.ContentType)

	img, err := decode(f.Data, mt)
	if err != nil {
		return File{}, apperr.Wrap(apperr.KindDecode, "Failed to load image", err)
	}
	if mt == "image/jpeg" {
		img = applyOrientation(img, orientation(f.Data))
	}

	b := img.Bounds()
	w, h := fitDimensions(b.Dx(), b.Dy(), maxWidth, maxHeight)
	if w != b.Dx() || h != b.Dy() {
		img = imaging.Resize(img, w, h, imaging.Lanczos)
	}

	out := &bytes.Buffer{}
	q := encoderQuality(quality)
	switch mt {
	case "image/png":
		err = imaging.Encode(out, img, imaging.PNG)
	case "image/webp":
		var opts *encoder.Options
		opts, err = encoder.NewLossyEncoderOptions(encoder.PresetDefault, float32(q))
		if err == nil {
			err = webp.Encode(out, img, opts)
		}
	default:
		err = imaging.Encode(out, img, imaging.JPEG, imaging.JPEGQuality(q))
	}
	if err != nil {
		return File{}, apperr.Wrap(apperr.KindDecode, "Failed to resize image", err)
	}

	return File{Name: f.Name, ContentType: f.ContentType, Data: out.Bytes()}, nil
}

func decode(data []byte, mt string) (image.Image, error) {
	if mt == "image/webp" {
		return webp.Decode(bytes.NewReader(data), &decoder.Options{})
	}
	return imaging.Decode(bytes.NewReader(data))
}

// fitDimensions bounds the width first and the height second, so a wide and
// tall image ends up fitting both.
func fitDimensions(width, height, maxWidth, maxHeight int) (int, int) {
	w, h := float64(width), float64(height)
	if maxWidth > 0 && w > float64(maxWidth) {
		h = h * float64(maxWidth) / w
		w = float64(maxWidth)
	}
	if maxHeight > 0 && h > float64(maxHeight) {
		w = w * float64(maxHeight) / h
		h = float64(maxHeight)
	}
	return max(1, int(w)), max(1, int(h))
}

func encoderQuality(q float64) int {
	v := int(math.Round(q * 100))
	if v < 1 {
		return 1
	}
	if v > 100 {
		return 100
	}
	return v
}

// orientation reads the EXIF orientation tag, 1 when absent.
func orientation(data []byte) int {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	v, err := tag.Int(0)
	if err != nil {
		return 1
	}
	return v
}

func applyOrientation(img image.Image, o int) image.Image {
	switch o {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.Transpose(img)
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.Transverse(img)
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}
