package loaders

import (
	"bytes"
	"fmt"

	"github.com/fzipp/bmfont"

	"github.com/vesper-engine/vesper/engine/assets"
	"github.com/vesper-engine/vesper/engine/core"
	"github.com/vesper-engine/vesper/engine/resources"
)

// BitmapFontLoader parses AngelCode .fnt descriptors. Page images are
// ordinary textures and load through the texture queue.
type BitmapFontLoader struct{}

func (fl *BitmapFontLoader) Load(ctx *assets.LoadContext, src assets.Source) (resources.BitmapFont, error) {
	data, err := ctx.ReadSource(src)
	if err != nil {
		return resources.BitmapFont{}, err
	}

	desc, err := bmfont.ReadDescriptor(bytes.NewReader(data))
	if err != nil {
		return resources.BitmapFont{}, fmt.Errorf("%w: %s: %v", core.ErrDecodeFailed, src.Describe(), err)
	}

	font := resources.BitmapFont{
		Face:       desc.Info.Face,
		Size:       uint32(desc.Info.Size),
		LineHeight: int32(desc.Common.LineHeight),
		Baseline:   int32(desc.Common.Base),
		AtlasSizeX: int32(desc.Common.ScaleW),
		AtlasSizeY: int32(desc.Common.ScaleH),
		Glyphs:     make([]resources.Glyph, 0, len(desc.Chars)),
		Kernings:   make([]resources.Kerning, 0, len(desc.Kerning)),
		Pages:      make([]resources.FontPage, 0, len(desc.Pages)),
	}

	for _, p := range desc.Pages {
		font.Pages = append(font.Pages, resources.FontPage{
			ID:   int8(p.ID),
			File: p.File,
		})
	}
	for _, g := range desc.Chars {
		font.Glyphs = append(font.Glyphs, resources.Glyph{
			Codepoint: g.ID,
			X:         uint16(g.X),
			Y:         uint16(g.Y),
			Width:     uint16(g.Width),
			Height:    uint16(g.Height),
			XOffset:   int16(g.XOffset),
			YOffset:   int16(g.YOffset),
			XAdvance:  int16(g.XAdvance),
			PageID:    uint8(g.Page),
		})
	}
	for pair, k := range desc.Kerning {
		font.Kernings = append(font.Kernings, resources.Kerning{
			Codepoint0: pair.First,
			Codepoint1: pair.Second,
			Amount:     int16(k.Amount),
		})
	}

	return font, nil
}
