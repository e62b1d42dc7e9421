package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testSnapshot() (*Snapshot, []NameCollision) {
	clinics := []*Clinic{
		{ID: "cl-1", Name: "Clínica Ñuñoa", ShortCode: "CNU"},
		{ID: "cl-2", Name: "Clínica Alemana"},
	}
	professionals := []*Professional{
		{ID: "pro-1", Name: "Dr. Pérez"},
		{ID: "pro-2", Name: "Dra. Soto"},
	}
	procedures := []*Procedure{
		{ID: "proc-1", Code: "AP-01", Name: "Apendicectomía"},
		{ID: "proc-2", Name: "Colecistectomía"},
	}
	return NewSnapshot(nil, clinics, professionals, procedures)
}

func TestResolvePrefersID(t *testing.T) {
	s, _ := testSnapshot()

	// The name points at cl-1 but the explicit id wins.
	got := s.ResolveClinic("cl-2", "Clínica Ñuñoa")
	assert.Equal(t, "cl-2", got.ID)
}

func TestResolveFallsBackToNormalizedName(t *testing.T) {
	s, _ := testSnapshot()

	assert.Equal(t, "cl-1", s.ResolveClinic("", "clinica nunoa").ID)
	assert.Equal(t, "pro-1", s.ResolveProfessional("", "DR. PÉREZ").ID)
	assert.Equal(t, "proc-1", s.ResolveProcedure("", "apendicectomia").ID)
}

func TestResolveUnknownIDStillTriesName(t *testing.T) {
	s, _ := testSnapshot()

	// Stale ids from old imports should not hide a clean name match.
	got := s.ResolveClinic("cl-gone", "Clínica Alemana")
	assert.Equal(t, "cl-2", got.ID)
}

func TestResolveProcedureByCode(t *testing.T) {
	s, _ := testSnapshot()

	assert.Equal(t, "proc-1", s.ResolveProcedure("", "ap-01").ID)
}

func TestResolveMissReturnsNil(t *testing.T) {
	s, _ := testSnapshot()

	assert.Nil(t, s.ResolveClinic("", "hospital inexistente"))
	assert.Nil(t, s.ResolveProcedure("nope", ""))
}

func TestSnapshotCollisionFirstEntryWins(t *testing.T) {
	clinics := []*Clinic{
		{ID: "cl-1", Name: "Clínica Ñuñoa"},
		{ID: "cl-2", Name: "clinica nunoa"},
	}
	s, collisions := NewSnapshot(nil, clinics, nil, nil)

	assert.Equal(t, "cl-1", s.ResolveClinic("", "Clínica Ñuñoa").ID)
	if assert.Len(t, collisions, 1) {
		assert.Equal(t, "cl-1", collisions[0].KeptID)
		assert.Equal(t, "cl-2", collisions[0].LostID)
	}
}
