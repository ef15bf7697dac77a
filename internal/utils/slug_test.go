package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Papier Kraft", "papier-kraft"},
		{"trim et casse", "  Reliure Spirale  ", "reliure-spirale"},
		{"caracteres speciaux", "Reliure Spirale / A4", "reliure-spirale-a4"},
		{"tirets repetes", "papier -- kraft", "papier-kraft"},
		{"deja un slug", "papier-kraft", "papier-kraft"},
		{"tirets en bordure", "-papier-", "papier"},
		{"que des symboles", "!!!", ""},
		{"vide", "", ""},
		{"chiffres", "Enveloppes C5 x100", "enveloppes-c5-x100"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Slugify(tc.in))
		})
	}
}

func TestSlugifyIdempotent(t *testing.T) {
	inputs := []string{"Papier Kraft", "  Reliure / Spirale  ", "etiquettes-a4", "x -- y"}
	for _, in := range inputs {
		once := Slugify(in)
		assert.Equal(t, once, Slugify(once), "Slugify doit être idempotent pour %q", in)
	}
}
