// Package loaders ships the stock loader implementations for the asset
// pipeline. Every loader here consumes bytes through the load context
// and produces one resources value; none of them may reach back into the
// pipeline's queues or stores.
package loaders

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"

	// Decoders dispatched through image.Decode.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/vesper-engine/vesper/engine/assets"
	"github.com/vesper-engine/vesper/engine/core"
	"github.com/vesper-engine/vesper/engine/resources"
)

// TextureLoader decodes png, jpeg, bmp and tiff images into RGBA8
// textures.
type TextureLoader struct {
	// FlipY flips the image vertically during conversion, for backends
	// with a bottom-left origin.
	FlipY bool
}

func (tl *TextureLoader) Load(ctx *assets.LoadContext, src assets.Source) (resources.Texture, error) {
	data, err := ctx.ReadSource(src)
	if err != nil {
		return resources.Texture{}, err
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return resources.Texture{}, fmt.Errorf("%w: %s: %v", core.ErrDecodeFailed, src.Describe(), err)
	}

	bounds := img.Bounds()
	rgba := image.NewRGBA(bounds)
	draw.Draw(rgba, bounds, img, bounds.Min, draw.Src)

	width := bounds.Dx()
	height := bounds.Dy()
	pixels := rgba.Pix
	if tl.FlipY {
		pixels = flipVertically(pixels, width, height)
	}

	core.LogDebug("texture loader: decoded %s (%s, %dx%d)", src.Describe(), format, width, height)

	return resources.Texture{
		Name:         src.Describe(),
		Width:        uint32(width),
		Height:       uint32(height),
		ChannelCount: 4,
		Pixels:       pixels,
	}, nil
}

func flipVertically(pixels []byte, width, height int) []byte {
	stride := width * 4
	out := make([]byte, len(pixels))
	for y := 0; y < height; y++ {
		src := y * stride
		dst := (height - 1 - y) * stride
		copy(out[dst:dst+stride], pixels[src:src+stride])
	}
	return out
}
