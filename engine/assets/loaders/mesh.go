package loaders

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/vesper-engine/vesper/engine/assets"
	"github.com/vesper-engine/vesper/engine/core"
	"github.com/vesper-engine/vesper/engine/resources"
)

// MeshLoader parses Wavefront OBJ geometry: v/vt/vn/f records, faces
// triangulated with a fan. Anything else in the file (materials, groups,
// smoothing) is skipped.
type MeshLoader struct{}

type objIndex struct {
	v, vt, vn int
}

func (ml *MeshLoader) Load(ctx *assets.LoadContext, src assets.Source) (resources.Mesh, error) {
	data, err := ctx.ReadSource(src)
	if err != nil {
		return resources.Mesh{}, err
	}

	var (
		positions [][3]float32
		uvs       [][2]float32
		normals   [][3]float32

		mesh     resources.Mesh
		vertices = make(map[objIndex]uint32)
	)
	mesh.Name = src.Describe()

	emit := func(idx objIndex) (uint32, error) {
		if i, ok := vertices[idx]; ok {
			return i, nil
		}
		if idx.v < 1 || idx.v > len(positions) {
			return 0, fmt.Errorf("vertex index %d out of range", idx.v)
		}
		p := positions[idx.v-1]
		mesh.Positions = append(mesh.Positions, p[0], p[1], p[2])
		if idx.vt >= 1 && idx.vt <= len(uvs) {
			t := uvs[idx.vt-1]
			mesh.UVs = append(mesh.UVs, t[0], t[1])
		}
		if idx.vn >= 1 && idx.vn <= len(normals) {
			n := normals[idx.vn-1]
			mesh.Normals = append(mesh.Normals, n[0], n[1], n[2])
		}
		i := uint32(len(vertices))
		vertices[idx] = i
		return i, nil
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		switch fields[0] {
		case "v":
			p, err := parseFloats3(fields[1:])
			if err != nil {
				return resources.Mesh{}, objErr(src, line, err)
			}
			positions = append(positions, p)
		case "vn":
			n, err := parseFloats3(fields[1:])
			if err != nil {
				return resources.Mesh{}, objErr(src, line, err)
			}
			normals = append(normals, n)
		case "vt":
			if len(fields) < 3 {
				return resources.Mesh{}, objErr(src, line, fmt.Errorf("vt needs 2 components"))
			}
			u, err1 := strconv.ParseFloat(fields[1], 32)
			v, err2 := strconv.ParseFloat(fields[2], 32)
			if err1 != nil || err2 != nil {
				return resources.Mesh{}, objErr(src, line, fmt.Errorf("bad vt record"))
			}
			uvs = append(uvs, [2]float32{float32(u), float32(v)})
		case "f":
			if len(fields) < 4 {
				return resources.Mesh{}, objErr(src, line, fmt.Errorf("face needs at least 3 vertices"))
			}
			corners := make([]uint32, 0, len(fields)-1)
			for _, f := range fields[1:] {
				idx, err := parseObjIndex(f)
				if err != nil {
					return resources.Mesh{}, objErr(src, line, err)
				}
				i, err := emit(idx)
				if err != nil {
					return resources.Mesh{}, objErr(src, line, err)
				}
				corners = append(corners, i)
			}
			// Fan triangulation.
			for i := 1; i+1 < len(corners); i++ {
				mesh.Indices = append(mesh.Indices, corners[0], corners[i], corners[i+1])
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return resources.Mesh{}, objErr(src, line, err)
	}
	if len(mesh.Indices) == 0 {
		return resources.Mesh{}, fmt.Errorf("%w: %s: no faces", core.ErrDecodeFailed, src.Describe())
	}
	return mesh, nil
}

func objErr(src assets.Source, line int, err error) error {
	return fmt.Errorf("%w: %s line %d: %v", core.ErrDecodeFailed, src.Describe(), line, err)
}

func parseFloats3(fields []string) ([3]float32, error) {
	var out [3]float32
	if len(fields) < 3 {
		return out, fmt.Errorf("need 3 components, got %d", len(fields))
	}
	for i := 0; i < 3; i++ {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return out, fmt.Errorf("bad float %q", fields[i])
		}
		out[i] = float32(f)
	}
	return out, nil
}

// parseObjIndex parses v, v/vt, v//vn and v/vt/vn forms. Negative
// (relative) indices are not supported.
func parseObjIndex(s string) (objIndex, error) {
	parts := strings.Split(s, "/")
	var idx objIndex
	var err error
	idx.v, err = strconv.Atoi(parts[0])
	if err != nil || idx.v < 1 {
		return idx, fmt.Errorf("bad face index %q", s)
	}
	if len(parts) > 1 && parts[1] != "" {
		if idx.vt, err = strconv.Atoi(parts[1]); err != nil {
			return idx, fmt.Errorf("bad face index %q", s)
		}
	}
	if len(parts) > 2 && parts[2] != "" {
		if idx.vn, err = strconv.Atoi(parts[2]); err != nil {
			return idx, fmt.Errorf("bad face index %q", s)
		}
	}
	return idx, nil
}
