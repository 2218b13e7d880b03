package catalog_test

import (
	"testing"

	"github.com/jhoicas/storefront-api/internal/domain/catalog"
	"github.com/stretchr/testify/assert"
)

func TestSlug(t *testing.T) {
	cases := map[string]string{
		"Electrónica":        "electronica",
		"  Hogar y Cocina ":  "hogar-y-cocina",
		"Niños & Bebés":      "ninos-bebes",
		"Audio -- Pro":       "audio-pro",
		"snake_case":         "snake_case",
		"Año 2026!":          "ano-2026",
		"":                   "",
	}
	for in, want := range cases {
		assert.Equal(t, want, catalog.Slug(in), "slug de %q", in)
	}
}
