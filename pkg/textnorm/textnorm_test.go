package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Cirugía", "cirugia"},
		{"  Pérez  Soto ", "perez soto"},
		{"APÉNDICE", "apendice"},
		{"Clínica Ñuñoa", "clinica nunoa"},
		{"", ""},
		{"   ", ""},
		{"sin-acentos", "sin-acentos"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Normalize(tc.in), "input %q", tc.in)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"Cirugía Mayor", " FONASA ", "Dr. Hernán Núñez", "x"}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once))
	}
}
