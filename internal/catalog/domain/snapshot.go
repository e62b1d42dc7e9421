package domain

import (
	"github.com/sistemascrenat/liquidaciones-sub000/pkg/textnorm"
)

// Index holds the dual lookup maps of one catalog kind: by stable id and by
// normalized display name. Name lookups are a fallback for free-text
// references in production records; id lookups always win.
type Index[T any] struct {
	Entries []*T
	ByID    map[string]*T
	ByName  map[string]*T
}

// NameCollision records two entries that normalize to the same name. The
// first entry keeps the slot; catalogs are operator-curated, so collisions
// are surfaced in logs rather than corrected silently.
type NameCollision struct {
	Key     string
	KeptID  string
	LostID  string
}

func buildIndex[T any](entries []*T, id func(*T) string, names func(*T) []string) (Index[T], []NameCollision) {
	idx := Index[T]{
		Entries: entries,
		ByID:    make(map[string]*T, len(entries)),
		ByName:  make(map[string]*T, len(entries)),
	}
	var collisions []NameCollision
	for _, e := range entries {
		idx.ByID[id(e)] = e
		for _, raw := range names(e) {
			key := textnorm.Normalize(raw)
			if key == "" {
				continue
			}
			if kept, ok := idx.ByName[key]; ok {
				if id(kept) != id(e) {
					collisions = append(collisions, NameCollision{Key: key, KeptID: id(kept), LostID: id(e)})
				}
				continue
			}
			idx.ByName[key] = e
		}
	}
	return idx, collisions
}

// Snapshot is the transient, rebuildable in-memory projection of all four
// catalogs, rebuilt wholesale per recalculation. It is passed explicitly
// into every pipeline stage; nothing here is a shared singleton.
type Snapshot struct {
	Roles         Index[Role]
	Clinics       Index[Clinic]
	Professionals Index[Professional]
	Procedures    Index[Procedure]
}

// NewSnapshot indexes the loaded catalogs. Procedures are name-indexed by
// both display name and code so either can resolve a free-text reference.
func NewSnapshot(roles []*Role, clinics []*Clinic, professionals []*Professional, procedures []*Procedure) (*Snapshot, []NameCollision) {
	var all []NameCollision

	s := &Snapshot{}
	var c []NameCollision
	s.Roles, c = buildIndex(roles,
		func(r *Role) string { return r.ID },
		func(r *Role) []string { return []string{r.Name} })
	all = append(all, c...)

	s.Clinics, c = buildIndex(clinics,
		func(cl *Clinic) string { return cl.ID },
		func(cl *Clinic) []string { return []string{cl.Name, cl.ShortCode} })
	all = append(all, c...)

	s.Professionals, c = buildIndex(professionals,
		func(p *Professional) string { return p.ID },
		func(p *Professional) []string { return []string{p.Name} })
	all = append(all, c...)

	s.Procedures, c = buildIndex(procedures,
		func(p *Procedure) string { return p.ID },
		func(p *Procedure) []string { return []string{p.Name, p.Code} })
	all = append(all, c...)

	return s, all
}

// ResolveClinic prefers an explicit id and falls back to normalized name.
func (s *Snapshot) ResolveClinic(id, name string) *Clinic {
	if id != "" {
		if c, ok := s.Clinics.ByID[id]; ok {
			return c
		}
	}
	if key := textnorm.Normalize(name); key != "" {
		return s.Clinics.ByName[key]
	}
	return nil
}

// ResolveProcedure prefers an explicit id and falls back to normalized
// name or code.
func (s *Snapshot) ResolveProcedure(id, name string) *Procedure {
	if id != "" {
		if p, ok := s.Procedures.ByID[id]; ok {
			return p
		}
	}
	if key := textnorm.Normalize(name); key != "" {
		return s.Procedures.ByName[key]
	}
	return nil
}

// ResolveProfessional prefers an explicit id and falls back to normalized
// name.
func (s *Snapshot) ResolveProfessional(id, name string) *Professional {
	if id != "" {
		if p, ok := s.Professionals.ByID[id]; ok {
			return p
		}
	}
	if key := textnorm.Normalize(name); key != "" {
		return s.Professionals.ByName[key]
	}
	return nil
}
