package loaders

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"

	"github.com/vesper-engine/vesper/engine/assets"
	"github.com/vesper-engine/vesper/engine/core"
	"github.com/vesper-engine/vesper/engine/resources"
)

// materialFile is the on-disk TOML shape of a .material definition.
type materialFile struct {
	Name         string     `toml:"name"`
	DiffuseColor [4]float32 `toml:"diffuse_color"`
	Shininess    float32    `toml:"shininess"`
	DiffuseMap   string     `toml:"diffuse_map"`
	SpecularMap  string     `toml:"specular_map"`
	NormalMap    string     `toml:"normal_map"`
}

// MaterialLoader parses TOML material definitions. Texture map fields
// stay paths; resolving them against loaded textures happens after the
// texture drain, which is why material drains are scheduled behind
// texture drains.
type MaterialLoader struct{}

func (ml *MaterialLoader) Load(ctx *assets.LoadContext, src assets.Source) (resources.Material, error) {
	data, err := ctx.ReadSource(src)
	if err != nil {
		return resources.Material{}, err
	}

	var def materialFile
	if err := toml.Unmarshal(data, &def); err != nil {
		return resources.Material{}, fmt.Errorf("%w: %s: %v", core.ErrDecodeFailed, src.Describe(), err)
	}
	if def.Name == "" {
		return resources.Material{}, fmt.Errorf("%w: %s: material has no name", core.ErrDecodeFailed, src.Describe())
	}

	return resources.Material{
		Name:         def.Name,
		DiffuseColor: def.DiffuseColor,
		Shininess:    def.Shininess,
		DiffuseMap:   def.DiffuseMap,
		SpecularMap:  def.SpecularMap,
		NormalMap:    def.NormalMap,
	}, nil
}
