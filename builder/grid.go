package builder

// GenerateGrid returns a flat cols x rows grid of square cells in the z=0
// plane, two counter-clockwise triangles per cell. Cells for which skip
// returns true are left out; skip may be nil.
func GenerateGrid(cols, rows int, cellSize float32, skip func(x, y int) bool) ([]float32, []uint32) {
	if cols <= 0 || rows <= 0 {
		return nil, nil
	}
	vertices := make([]float32, 0, (cols+1)*(rows+1)*3)
	for y := 0; y <= rows; y++ {
		for x := 0; x <= cols; x++ {
			vertices = append(vertices, float32(x)*cellSize, float32(y)*cellSize, 0)
		}
	}

	stride := uint32(cols + 1)
	indices := make([]uint32, 0, cols*rows*6)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			if skip != nil && skip(x, y) {
				continue
			}
			v00 := uint32(y)*stride + uint32(x)
			v10 := v00 + 1
			v01 := v00 + stride
			v11 := v01 + 1
			indices = append(indices, v00, v10, v11, v00, v11, v01)
		}
	}
	return vertices, indices
}
