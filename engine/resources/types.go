// Package resources holds the engine-owned value types the asset
// pipeline produces. GPU upload of these values is the renderer's
// business and happens elsewhere.
package resources

// Texture is a decoded image, always RGBA8.
type Texture struct {
	Name         string
	Width        uint32
	Height       uint32
	ChannelCount uint8
	Pixels       []byte
}

// Material describes surface shading inputs. Texture references are
// virtual filesystem paths; binding them to loaded texture handles is
// the material system's job, after the texture drain has run.
type Material struct {
	Name         string
	DiffuseColor [4]float32
	Shininess    float32
	DiffuseMap   string
	SpecularMap  string
	NormalMap    string
}

// Mesh is indexed triangle geometry. Positions/Normals are xyz triples,
// UVs are uv pairs, all flattened.
type Mesh struct {
	Name      string
	Positions []float32
	Normals   []float32
	UVs       []float32
	Indices   []uint32
}

// VertexCount returns the number of vertices in the mesh.
func (m *Mesh) VertexCount() int {
	return len(m.Positions) / 3
}

// Glyph is one character of a bitmap font atlas.
type Glyph struct {
	Codepoint rune
	X, Y      uint16
	Width     uint16
	Height    uint16
	XOffset   int16
	YOffset   int16
	XAdvance  int16
	PageID    uint8
}

// Kerning adjusts spacing for one codepoint pair.
type Kerning struct {
	Codepoint0 rune
	Codepoint1 rune
	Amount     int16
}

// FontPage names one atlas image of a bitmap font.
type FontPage struct {
	ID   int8
	File string
}

// BitmapFont is a parsed AngelCode .fnt descriptor.
type BitmapFont struct {
	Face       string
	Size       uint32
	LineHeight int32
	Baseline   int32
	AtlasSizeX int32
	AtlasSizeY int32
	Glyphs     []Glyph
	Kernings   []Kerning
	Pages      []FontPage
}

// Blob is an opaque byte resource (shader binaries, lookup tables).
type Blob struct {
	Name string
	Data []byte
}
