package pattern

var (
	catalog      = map[string]Pattern{}
	catalogOrder []string
)

func register(name, label, description string, alternatives ...[]int) {
	if _, dup := catalog[name]; dup {
		panic("pattern: duplicate catalog entry " + name)
	}
	catalog[name] = validate(Pattern{
		Name:         name,
		Label:        label,
		Description:  description,
		Alternatives: alternatives,
	})
	catalogOrder = append(catalogOrder, name)
}

func init() {
	// Basics
	register("line", "LÍNEA", "Any complete horizontal, vertical, or diagonal line", anyLine()...)
	register("full", "CARTÓN LLENO", "Complete blackout - all numbers marked", fullCard())

	// Geometric shapes
	register("corners", "4 ESQUINAS", "Four corners of the card", shape(
		"X...X",
		".....",
		".....",
		".....",
		"X...X",
	))
	register("corners_center", "ESQUINAS + CENTRO", "Four corners plus center", shape(
		"X...X",
		".....",
		"..X..",
		".....",
		"X...X",
	))
	frame := shape(
		"XXXXX",
		"X...X",
		"X...X",
		"X...X",
		"XXXXX",
	)
	register("frame", "MARCO", "Outer frame of the card", frame)
	register("perimeter", "PERÍMETRO", "Complete perimeter", frame)
	innerFrame := shape(
		".....",
		".XXX.",
		".X.X.",
		".XXX.",
		".....",
	)
	register("inner_frame", "MARCO INTERIOR", "Inner frame", innerFrame)
	register("inner_perimeter", "PERÍMETRO INTERIOR", "Inner perimeter", innerFrame)
	register("diamond", "DIAMANTE", "Diamond shape", shape(
		"..X..",
		".X.X.",
		"X...X",
		".X.X.",
		"..X..",
	))
	register("cross", "CRUZ", "Cross through center", shape(
		"..X..",
		"..X..",
		"XXXXX",
		"..X..",
		"..X..",
	))
	smallPlus := shape(
		".....",
		"..X..",
		".XXX.",
		"..X..",
		".....",
	)
	register("plus", "PLUS", "Plus sign", smallPlus)
	register("cross_center", "CRUZ CENTRAL", "Small cross around center", smallPlus)
	register("star", "ESTRELLA", "Star shape", shape(
		"..X..",
		".XXX.",
		"XXXXX",
		".XXX.",
		"..X..",
	))
	register("heart", "CORAZÓN", "Heart shape", shape(
		".X.X.",
		"XXXXX",
		"XXXXX",
		".XXX.",
		"..X..",
	))
	register("arrow", "FLECHA", "Arrow pointing up", shape(
		"..X..",
		".XXX.",
		"XXXXX",
		"..X..",
		"..X..",
	))
	register("zigzag", "ZIGZAG", "Alternating cells", shape(
		"X.X.X",
		".X.X.",
		"X.X.X",
		".X.X.",
		"X.X.X",
	))
	register("pyramid", "PIRÁMIDE", "Pyramid shape", shape(
		"..X..",
		".XXX.",
		"XXXXX",
		".....",
		".....",
	))
	register("small_square", "CUADRADO PEQUEÑO", "Small 2x2 square", shape(
		"XX...",
		"XX...",
		".....",
		".....",
		".....",
	))

	// Rows, columns and diagonals as standalone shapes
	register("horizontal_1", "FILA 1", "First horizontal row", row(0))
	register("horizontal_2", "FILA 2", "Second horizontal row", row(1))
	register("horizontal_3", "FILA 3", "Third horizontal row", row(2))
	register("horizontal_4", "FILA 4", "Fourth horizontal row", row(3))
	register("horizontal_5", "FILA 5", "Fifth horizontal row", row(4))
	register("vertical_b", "COLUMNA B", "B column", column(0))
	register("vertical_i", "COLUMNA I", "I column", column(1))
	register("vertical_n", "COLUMNA N", "N column", column(2))
	register("vertical_g", "COLUMNA G", "G column", column(3))
	register("vertical_o", "COLUMNA O", "O column", column(4))
	diags := diagonals()
	register("diagonal_main", "DIAGONAL PRINCIPAL", "Main diagonal", diags[0])
	register("diagonal_secondary", "DIAGONAL SECUNDARIA", "Secondary diagonal", diags[1])

	// Letters
	register("letter_x", "LETRA X", "X shape", shape(
		"X...X",
		".X.X.",
		"..X..",
		".X.X.",
		"X...X",
	))
	register("letter_t", "LETRA T", "T shape", shape(
		"XXXXX",
		"..X..",
		"..X..",
		"..X..",
		"..X..",
	))
	register("letter_h", "LETRA H", "H shape", shape(
		"X...X",
		"X...X",
		"XXXXX",
		"X...X",
		"X...X",
	))
	register("letter_o", "LETRA O", "O shape", shape(
		".XXX.",
		"X...X",
		"X...X",
		"X...X",
		".XXX.",
	))
	register("letter_l", "LETRA L", "L shape", shape(
		"X....",
		"X....",
		"X....",
		"X....",
		"XXXXX",
	))
	register("letter_c", "LETRA C", "C shape", shape(
		".XXXX",
		"X....",
		"X....",
		"X....",
		".XXXX",
	))
	register("letter_s", "LETRA S", "S shape", shape(
		".XXXX",
		"X....",
		".XXX.",
		"....X",
		"XXXX.",
	))
	register("letter_z", "LETRA Z", "Z shape", shape(
		"XXXXX",
		"...X.",
		"..X..",
		".X...",
		"XXXXX",
	))
	register("letter_u", "LETRA U", "U shape", shape(
		"X...X",
		"X...X",
		"X...X",
		"X...X",
		".XXX.",
	))
	register("letter_v", "LETRA V", "V shape", shape(
		"X...X",
		"X...X",
		"X...X",
		".X.X.",
		"..X..",
	))
	register("letter_w", "LETRA W", "W shape", shape(
		"X...X",
		"X...X",
		"X.X.X",
		"X.X.X",
		".X.X.",
	))
	register("letter_m", "LETRA M", "M shape", shape(
		"X...X",
		"XX.XX",
		"X.X.X",
		"X...X",
		"X...X",
	))
	register("letter_n", "LETRA N", "N shape", shape(
		"X...X",
		"XX..X",
		"X.X.X",
		"X..XX",
		"X...X",
	))
	register("letter_p", "LETRA P", "P shape", shape(
		"XXXX.",
		"X...X",
		"XXXX.",
		"X....",
		"X....",
	))
	register("letter_e", "LETRA E", "E shape", shape(
		"XXXXX",
		"X....",
		"XXXX.",
		"X....",
		"XXXXX",
	))
	register("letter_f", "LETRA F", "F shape", shape(
		"XXXXX",
		"X....",
		"XXXX.",
		"X....",
		"X....",
	))
	register("letter_d", "LETRA D", "D shape", shape(
		"XXXX.",
		"X...X",
		"X...X",
		"X...X",
		"XXXX.",
	))
	register("letter_r", "LETRA R", "R shape", shape(
		"XXXX.",
		"X...X",
		"XXXX.",
		"X..X.",
		"X...X",
	))
	register("letter_k", "LETRA K", "K shape", shape(
		"X...X",
		"X..X.",
		"XXX..",
		"X..X.",
		"X...X",
	))
	register("letter_y", "LETRA Y", "Y shape", shape(
		"X...X",
		".X.X.",
		"..X..",
		"..X..",
		"..X..",
	))
}
