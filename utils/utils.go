package utils

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"github.com/nfnt/resize"
)

// BlobToImage decodes a raw size x size x 3 BGR pixel block (the face store
// format, row-major) into an image.
func BlobToImage(blob []byte, size int) (*image.RGBA, error) {
	if len(blob) != size*size*3 {
		return nil, fmt.Errorf("face blob is %d bytes, expected %d", len(blob), size*size*3)
	}
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			offset := (y*size + x) * 3
			img.SetRGBA(x, y, color.RGBA{
				B: blob[offset+0],
				G: blob[offset+1],
				R: blob[offset+2],
				A: 255,
			})
		}
	}
	return img, nil
}

// FaceThumbnail renders a stored face blob as a PNG scaled to the given edge
// length.
func FaceThumbnail(blob []byte, blobSize int, thumbSize uint) ([]byte, error) {
	img, err := BlobToImage(blob, blobSize)
	if err != nil {
		return nil, err
	}
	thumb := resize.Resize(thumbSize, thumbSize, img, resize.Lanczos3)
	var buf bytes.Buffer
	if err = png.Encode(&buf, thumb); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
