package domain

import (
	"testing"

	"github.com/sistemascrenat/liquidaciones-sub000/internal/tariff"
	"github.com/stretchr/testify/assert"
)

func TestTypeSetCannotBeEmptied(t *testing.T) {
	set := TypesFrom([]string{"fonasa"})
	assert.Equal(t, []string{tariff.PatientFonasa}, set.Enabled())

	// Disabling the last enabled type is refused.
	set = set.Toggle("fonasa")
	assert.Equal(t, []string{tariff.PatientFonasa}, set.Enabled())

	set = set.Toggle("isapre")
	assert.ElementsMatch(t, []string{tariff.PatientFonasa, tariff.PatientParticularIsapre}, set.Enabled())

	set = set.Toggle("fonasa")
	assert.Equal(t, []string{tariff.PatientParticularIsapre}, set.Enabled())
}

func TestTypesFromFallsBackToAll(t *testing.T) {
	assert.Len(t, TypesFrom(nil).Enabled(), 3)
	assert.Len(t, TypesFrom([]string{"desconocido"}).Enabled(), 3)
}

func TestTypeSetAllowsUnclassified(t *testing.T) {
	set := TypesFrom([]string{"mle"})
	assert.True(t, set.Allows("MLE"))
	assert.False(t, set.Allows("fonasa"))
	// Dirty data without a recognizable category is never hidden.
	assert.True(t, set.Allows(""))
	assert.True(t, set.Allows("???"))
}
