package dto

// Paginación de los listados de stock.
const (
	DefaultPageLimit = 50
	MaxPageLimit     = 500
)

// PageRequest ?limit=&offset= de un listado.
type PageRequest struct {
	Limit  int
	Offset int
}

// Clamp deja la página dentro de los límites del listado: limit <= 0 toma def,
// limit > max queda en max y un offset negativo vuelve a 0.
func (p PageRequest) Clamp(def, max int) PageRequest {
	switch {
	case p.Limit <= 0:
		p.Limit = def
	case p.Limit > max:
		p.Limit = max
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// PageResponse página efectivamente aplicada.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
