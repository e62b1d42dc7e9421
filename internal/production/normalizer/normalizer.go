// Package normalizer maps heterogeneous raw production payloads into the
// canonical line-item shape the settlement and statistics pipelines consume.
// Field resolution is data-driven: each canonical field owns an ordered list
// of source-field synonyms and the first non-empty value wins.
package normalizer

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateField is one date synonym with the layout its values arrive in.
type DateField struct {
	Key    string `mapstructure:"key" json:"key"`
	Layout string `mapstructure:"layout" json:"layout"`
}

// RoleSlot names one occupiable position in a case and the catalog role it
// pays as. Slot order is fixed; settlement lines are emitted in this order.
type RoleSlot struct {
	Slot   string `mapstructure:"slot" json:"slot"`
	RoleID string `mapstructure:"role_id" json:"role_id"`
}

// Rules is the declarative synonym table. It is loaded from the settlement
// config file and falls back to the compiled-in defaults below.
type Rules struct {
	DateFields      []DateField `mapstructure:"date_fields" json:"date_fields"`
	ClinicIDs       []string    `mapstructure:"clinic_ids" json:"clinic_ids"`
	ClinicNames     []string    `mapstructure:"clinic_names" json:"clinic_names"`
	ProcedureIDs    []string    `mapstructure:"procedure_ids" json:"procedure_ids"`
	ProcedureNames  []string    `mapstructure:"procedure_names" json:"procedure_names"`
	PatientTypes    []string    `mapstructure:"patient_types" json:"patient_types"`
	VoidedFields    []string    `mapstructure:"voided_fields" json:"voided_fields"`
	Slots           []RoleSlot  `mapstructure:"slots" json:"slots"`
}

const isoLayout = "2006-01-02"

// DefaultRules covers the field spellings observed across historical
// production imports.
func DefaultRules() Rules {
	return Rules{
		DateFields: []DateField{
			{Key: "fechaISO", Layout: isoLayout},
			{Key: "fecha", Layout: "02/01/2006"},
		},
		ClinicIDs:      []string{"clinicaId"},
		ClinicNames:    []string{"clinica"},
		ProcedureIDs:   []string{"procedimientoId"},
		ProcedureNames: []string{"procedimiento", "cirugia"},
		PatientTypes:   []string{"tipoPaciente", "prevision"},
		VoidedFields:   []string{"anulada"},
		Slots: []RoleSlot{
			{Slot: "cirujano", RoleID: "cirujano"},
			{Slot: "anestesista", RoleID: "anestesista"},
			{Slot: "ayudante1", RoleID: "ayudante1"},
			{Slot: "ayudante2", RoleID: "ayudante2"},
			{Slot: "arsenalera", RoleID: "arsenalera"},
		},
	}
}

// Occupant is one filled role slot of a case, identified by professional id
// and/or free-text name; at least one of the two is non-empty.
type Occupant struct {
	RoleID         string
	ProfessionalID string
	Name           string
}

// Item is the canonical form of one production record.
type Item struct {
	RecordID      string
	DateISO       string
	ClinicID      string
	ClinicName    string
	ProcedureID   string
	ProcedureName string
	PatientType   string
	Voided        bool
	Occupants     []Occupant
}

// Normalize extracts the canonical fields of one raw payload. Absent role
// slots emit no occupant; that is expected sheet shape, not an error.
func (r Rules) Normalize(recordID string, payload map[string]any) Item {
	item := Item{
		RecordID:      recordID,
		DateISO:       r.resolveDate(payload),
		ClinicID:      firstNonEmpty(payload, r.ClinicIDs),
		ClinicName:    firstNonEmpty(payload, r.ClinicNames),
		ProcedureID:   firstNonEmpty(payload, r.ProcedureIDs),
		ProcedureName: firstNonEmpty(payload, r.ProcedureNames),
		PatientType:   firstNonEmpty(payload, r.PatientTypes),
		Voided:        anyTrue(payload, r.VoidedFields),
	}
	for _, slot := range r.Slots {
		if occ, ok := extractOccupant(payload, slot); ok {
			item.Occupants = append(item.Occupants, occ)
		}
	}
	return item
}

func (r Rules) resolveDate(payload map[string]any) string {
	for _, f := range r.DateFields {
		raw := asString(payload[f.Key])
		if raw == "" {
			continue
		}
		if t, err := time.Parse(f.Layout, raw); err == nil {
			return t.Format(isoLayout)
		}
	}
	return ""
}

// extractOccupant tries, in order: a nested map keyed by the slot name, a
// parallel "<slot>Id" field, and the legacy flat name field.
func extractOccupant(payload map[string]any, slot RoleSlot) (Occupant, bool) {
	occ := Occupant{RoleID: slot.RoleID}

	switch v := payload[slot.Slot].(type) {
	case map[string]any:
		occ.ProfessionalID = firstNonEmpty(v, []string{"id", "profesionalId"})
		occ.Name = firstNonEmpty(v, []string{"nombre", "name"})
	default:
		occ.Name = asString(v)
	}
	if occ.ProfessionalID == "" {
		occ.ProfessionalID = asString(payload[slot.Slot+"Id"])
	}

	if occ.ProfessionalID == "" && occ.Name == "" {
		return Occupant{}, false
	}
	return occ, true
}

func firstNonEmpty(payload map[string]any, keys []string) string {
	for _, key := range keys {
		if v := asString(payload[key]); v != "" {
			return v
		}
	}
	return ""
}

func anyTrue(payload map[string]any, keys []string) bool {
	for _, key := range keys {
		if asBool(payload[key]) {
			return true
		}
	}
	return false
}

func asString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		// JSON numbers decode as float64; ids and amounts are integral.
		return strconv.FormatInt(int64(t), 10)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}

func asBool(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "si", "sí", "1":
			return true
		}
	case float64:
		return t != 0
	}
	return false
}

// AsInt64 coerces a payload value to an integer amount. Malformed input is
// treated as absent and becomes 0, consistent with the zero-means-missing
// convention used throughout the tariff data.
func AsInt64(v any) int64 {
	switch t := v.(type) {
	case float64:
		return int64(t)
	case int:
		return int64(t)
	case int64:
		return t
	case string:
		cleaned := strings.ReplaceAll(strings.TrimSpace(t), ".", "")
		n, err := strconv.ParseInt(cleaned, 10, 64)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}
