package loaders

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vesper-engine/vesper/engine/assets"
	"github.com/vesper-engine/vesper/engine/core"
)

func loadCtx() *assets.LoadContext {
	return assets.NewLoadContext(nil)
}

func pngBytes(t *testing.T, width, height int, fill func(x, y int) color.RGBA) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, fill(x, y))
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestTextureLoader_DecodePNG(t *testing.T) {
	data := pngBytes(t, 3, 2, func(x, y int) color.RGBA {
		return color.RGBA{R: uint8(10*x + y), A: 255}
	})

	tl := &TextureLoader{}
	tex, err := tl.Load(loadCtx(), assets.FromBytes("tiny.png", data))
	require.NoError(t, err)

	assert.Equal(t, uint32(3), tex.Width)
	assert.Equal(t, uint32(2), tex.Height)
	assert.Equal(t, uint8(4), tex.ChannelCount)
	require.Len(t, tex.Pixels, 3*2*4)
	// Pixel (1,0): R = 10*1+0.
	assert.Equal(t, byte(10), tex.Pixels[1*4])
}

func TestTextureLoader_FlipY(t *testing.T) {
	data := pngBytes(t, 1, 2, func(_, y int) color.RGBA {
		return color.RGBA{R: uint8(100 * (y + 1)), A: 255}
	})

	plain, err := (&TextureLoader{}).Load(loadCtx(), assets.FromBytes("rows.png", data))
	require.NoError(t, err)
	flipped, err := (&TextureLoader{FlipY: true}).Load(loadCtx(), assets.FromBytes("rows.png", data))
	require.NoError(t, err)

	assert.Equal(t, byte(100), plain.Pixels[0])
	assert.Equal(t, byte(200), flipped.Pixels[0], "bottom row first after flip")
}

func TestTextureLoader_GarbageFails(t *testing.T) {
	tl := &TextureLoader{}
	_, err := tl.Load(loadCtx(), assets.FromBytes("noise.png", []byte("not an image")))
	assert.ErrorIs(t, err, core.ErrDecodeFailed)
}

func TestMaterialLoader_Parse(t *testing.T) {
	def := []byte(`
name = "stone_wall"
diffuse_color = [1.0, 0.9, 0.8, 1.0]
shininess = 32.0
diffuse_map = "textures/stone.png"
normal_map = "textures/stone_n.png"
`)

	ml := &MaterialLoader{}
	mat, err := ml.Load(loadCtx(), assets.FromBytes("stone.material", def))
	require.NoError(t, err)

	assert.Equal(t, "stone_wall", mat.Name)
	assert.Equal(t, [4]float32{1, 0.9, 0.8, 1}, mat.DiffuseColor)
	assert.Equal(t, float32(32), mat.Shininess)
	assert.Equal(t, "textures/stone.png", mat.DiffuseMap)
	assert.Equal(t, "textures/stone_n.png", mat.NormalMap)
	assert.Empty(t, mat.SpecularMap)
}

func TestMaterialLoader_Invalid(t *testing.T) {
	ml := &MaterialLoader{}

	_, err := ml.Load(loadCtx(), assets.FromBytes("broken.material", []byte("name = [unclosed")))
	assert.ErrorIs(t, err, core.ErrDecodeFailed)

	_, err = ml.Load(loadCtx(), assets.FromBytes("anon.material", []byte(`shininess = 1.0`)))
	assert.ErrorIs(t, err, core.ErrDecodeFailed, "a material must be named")
}

func TestMeshLoader_Triangle(t *testing.T) {
	obj := []byte(`
# a single triangle
v 0 0 0
v 1 0 0
v 0 1 0
vt 0 0
vt 1 0
vt 0 1
vn 0 0 1
f 1/1/1 2/2/1 3/3/1
`)

	ml := &MeshLoader{}
	mesh, err := ml.Load(loadCtx(), assets.FromBytes("tri.obj", obj))
	require.NoError(t, err)

	assert.Equal(t, 3, mesh.VertexCount())
	assert.Equal(t, []uint32{0, 1, 2}, mesh.Indices)
	assert.Equal(t, []float32{0, 0, 0, 1, 0, 0, 0, 1, 0}, mesh.Positions)
	assert.Equal(t, []float32{0, 0, 1, 0, 0, 1}, mesh.UVs)
	assert.Equal(t, []float32{0, 0, 1, 0, 0, 1, 0, 0, 1}, mesh.Normals)
}

func TestMeshLoader_QuadFanTriangulation(t *testing.T) {
	obj := []byte(`
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
f 1 2 3 4
`)

	ml := &MeshLoader{}
	mesh, err := ml.Load(loadCtx(), assets.FromBytes("quad.obj", obj))
	require.NoError(t, err)

	assert.Equal(t, 4, mesh.VertexCount())
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, mesh.Indices)
}

func TestMeshLoader_SharedVerticesDeduplicated(t *testing.T) {
	obj := []byte(`
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
f 1 2 3
f 1 3 4
`)

	ml := &MeshLoader{}
	mesh, err := ml.Load(loadCtx(), assets.FromBytes("quad2.obj", obj))
	require.NoError(t, err)

	assert.Equal(t, 4, mesh.VertexCount(), "shared corners emit one vertex")
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, mesh.Indices)
}

func TestMeshLoader_Invalid(t *testing.T) {
	ml := &MeshLoader{}

	_, err := ml.Load(loadCtx(), assets.FromBytes("empty.obj", []byte("v 0 0 0\n")))
	assert.ErrorIs(t, err, core.ErrDecodeFailed, "no faces")

	_, err = ml.Load(loadCtx(), assets.FromBytes("oob.obj", []byte("v 0 0 0\nf 1 2 3\n")))
	assert.ErrorIs(t, err, core.ErrDecodeFailed, "face index out of range")

	_, err = ml.Load(loadCtx(), assets.FromBytes("badv.obj", []byte("v 0 zero 0\n")))
	assert.ErrorIs(t, err, core.ErrDecodeFailed)
}

func TestBitmapFontLoader_Parse(t *testing.T) {
	fnt := []byte(`info face="Ubuntu Mono" size=21 bold=0 italic=0 charset="" unicode=1 stretchH=100 smooth=1 aa=1 padding=0,0,0,0 spacing=1,1 outline=0
common lineHeight=21 base=17 scaleW=256 scaleH=128 pages=1 packed=0 alphaChnl=1 redChnl=0 greenChnl=0 blueChnl=0
page id=0 file="ubuntu_mono_0.png"
chars count=2
char id=65   x=2     y=2     width=11    height=15    xoffset=0     yoffset=4     xadvance=11    page=0  chnl=15
char id=66   x=15    y=2     width=10    height=15    xoffset=1     yoffset=4     xadvance=11    page=0  chnl=15
kernings count=1
kerning first=65  second=66  amount=-1
`)

	fl := &BitmapFontLoader{}
	font, err := fl.Load(loadCtx(), assets.FromBytes("ubuntu_mono.fnt", fnt))
	require.NoError(t, err)

	assert.Equal(t, "Ubuntu Mono", font.Face)
	assert.Equal(t, uint32(21), font.Size)
	assert.Equal(t, int32(21), font.LineHeight)
	assert.Equal(t, int32(17), font.Baseline)
	assert.Equal(t, int32(256), font.AtlasSizeX)
	assert.Equal(t, int32(128), font.AtlasSizeY)

	require.Len(t, font.Pages, 1)
	assert.Equal(t, "ubuntu_mono_0.png", font.Pages[0].File)

	require.Len(t, font.Glyphs, 2)
	byCodepoint := map[rune]uint16{}
	for _, g := range font.Glyphs {
		byCodepoint[g.Codepoint] = g.X
	}
	assert.Equal(t, uint16(2), byCodepoint['A'])
	assert.Equal(t, uint16(15), byCodepoint['B'])

	require.Len(t, font.Kernings, 1)
	assert.Equal(t, 'A', font.Kernings[0].Codepoint0)
	assert.Equal(t, 'B', font.Kernings[0].Codepoint1)
	assert.Equal(t, int16(-1), font.Kernings[0].Amount)
}

func TestBitmapFontLoader_Garbage(t *testing.T) {
	fl := &BitmapFontLoader{}
	_, err := fl.Load(loadCtx(), assets.FromBytes("bad.fnt", []byte("not a font descriptor")))
	assert.ErrorIs(t, err, core.ErrDecodeFailed)
}

func TestBinaryLoader_Passthrough(t *testing.T) {
	payload := []byte{0x03, 0x02, 0x23, 0x07}

	bl := &BinaryLoader{}
	blob, err := bl.Load(loadCtx(), assets.FromBytes("shader.spv", payload))
	require.NoError(t, err)

	assert.Equal(t, payload, blob.Data)
	assert.Contains(t, blob.Name, "shader.spv")
}

func TestLoaders_PathWithoutFilesystem(t *testing.T) {
	bl := &BinaryLoader{}
	_, err := bl.Load(loadCtx(), assets.FromPath("missing.bin"))
	assert.ErrorIs(t, err, core.ErrSourceNotFound)
}
