package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchesEmptyQuery(t *testing.T) {
	assert.True(t, Matches([]string{"anything"}, ""))
	assert.True(t, Matches(nil, "   "))
}

func TestMatchesAndOrGrammar(t *testing.T) {
	row := []string{"Apéndice", "Dr. Cirujano Pérez", "fonasa"}
	other := []string{"Apéndice", "Enfermera López", "fonasa"}

	// "apendice" AND ("cirujano" OR "anestesista")
	q := "apendice, cirujano-anestesista"
	assert.True(t, Matches(row, q))
	assert.False(t, Matches(other, q))
}

func TestMatchesNormalizesTokens(t *testing.T) {
	assert.True(t, Matches([]string{"Clínica Ñuñoa"}, "nunoa"))
	assert.True(t, Matches([]string{"clinica nunoa"}, "ÑUÑOA"))
}

func TestMatchesDropsEmptyGroups(t *testing.T) {
	// A trailing comma or a group of only separators must not force a miss.
	assert.True(t, Matches([]string{"apendice"}, "apendice,"))
	assert.True(t, Matches([]string{"apendice"}, "apendice, - "))
	assert.False(t, Matches([]string{"hernia"}, "apendice,"))
}

func TestMatchesAllGroupsRequired(t *testing.T) {
	row := []string{"hernia inguinal", "Clínica Alemana"}
	assert.True(t, Matches(row, "hernia, alemana"))
	assert.False(t, Matches(row, "hernia, santiago"))
}
