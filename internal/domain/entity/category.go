package entity

import "time"

// Category representa una categoría del catálogo. Se crea automáticamente
// la primera vez que un producto usa una etiqueta nueva.
type Category struct {
	ID        string
	Name      string
	Slug      string // único
	Image     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
