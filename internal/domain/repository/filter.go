package repository

// ListFilter búsqueda y paginación comunes a los listados de datos maestros y productos.
type ListFilter struct {
	Search string // subcadena sobre nombre (y SKU/descripción en productos); vacío = sin filtro
	Limit  int
	Offset int
}
