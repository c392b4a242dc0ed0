package util

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	_ "image/gif" // регистрируем декодеры
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	MaxImageWidth = 800
	jpegQuality   = 85
)

// ToJPEG декодирует картинку (jpeg/png/gif/webp), ужимает по ширине до maxWidth
// и перекодирует в JPEG. Gemini получает байты с тем MIME, который мы объявляем.
func ToJPEG(data []byte, maxWidth int) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("unsupported image: %w", err)
	}

	b := img.Bounds()
	if maxWidth > 0 && b.Dx() > maxWidth {
		h := b.Dy() * maxWidth / b.Dx()
		if h < 1 {
			h = 1
		}
		dst := image.NewRGBA(image.Rect(0, 0, maxWidth, h))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
		img = dst
	} else if format == "jpeg" {
		return data, nil
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("jpeg encode: %w", err)
	}
	return buf.Bytes(), nil
}
