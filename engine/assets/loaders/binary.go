package loaders

import (
	"github.com/vesper-engine/vesper/engine/assets"
	"github.com/vesper-engine/vesper/engine/resources"
)

// BinaryLoader passes bytes through untouched, for shader binaries and
// other opaque payloads.
type BinaryLoader struct{}

func (bl *BinaryLoader) Load(ctx *assets.LoadContext, src assets.Source) (resources.Blob, error) {
	data, err := ctx.ReadSource(src)
	if err != nil {
		return resources.Blob{}, err
	}
	return resources.Blob{Name: src.Describe(), Data: data}, nil
}
