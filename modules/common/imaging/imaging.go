// Package imaging holds the small image-processing helpers shared by the
// studio: decoding generated stills and producing compact WebP thumbnails
// for history listings.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"math"

	"github.com/gen2brain/webp"
)

const (
	// ThumbnailMaxDim bounds the longest edge of a history thumbnail.
	ThumbnailMaxDim = 256

	thumbnailQuality = 80
)

// Thumbnail decodes a PNG or JPEG payload, scales it to fit within
// ThumbnailMaxDim and re-encodes it as lossy WebP.
func Thumbnail(data []byte) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() > ThumbnailMaxDim || bounds.Dy() > ThumbnailMaxDim {
		img = resizeToFit(img, ThumbnailMaxDim, ThumbnailMaxDim)
	}

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, webp.Options{Quality: thumbnailQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode WebP: %w", err)
	}

	log.Printf("🔄 Thumbnail built from %s: %d bytes → %d bytes", format, len(data), buf.Len())
	return buf.Bytes(), nil
}

// resizeToFit scales src down so both edges fit the target box, keeping
// the aspect ratio. Nearest neighbor is good enough for preview sizes.
func resizeToFit(src image.Image, targetWidth, targetHeight int) image.Image {
	srcBounds := src.Bounds()
	srcWidth := srcBounds.Dx()
	srcHeight := srcBounds.Dy()

	scaleX := float64(targetWidth) / float64(srcWidth)
	scaleY := float64(targetHeight) / float64(srcHeight)
	scale := math.Min(scaleX, scaleY)

	newWidth := int(float64(srcWidth) * scale)
	newHeight := int(float64(srcHeight) * scale)
	if newWidth < 1 {
		newWidth = 1
	}
	if newHeight < 1 {
		newHeight = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	for y := 0; y < newHeight; y++ {
		for x := 0; x < newWidth; x++ {
			srcX := srcBounds.Min.X + int(float64(x)/scale)
			srcY := srcBounds.Min.Y + int(float64(y)/scale)
			dst.Set(x, y, src.At(srcX, srcY))
		}
	}

	return dst
}
