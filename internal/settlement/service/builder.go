package service

import (
	"fmt"
	"sort"

	catalogdomain "github.com/sistemascrenat/liquidaciones-sub000/internal/catalog/domain"
	"github.com/sistemascrenat/liquidaciones-sub000/internal/production/normalizer"
	"github.com/sistemascrenat/liquidaciones-sub000/internal/settlement/domain"
	"github.com/sistemascrenat/liquidaciones-sub000/internal/tariff"
	"github.com/sistemascrenat/liquidaciones-sub000/pkg/textnorm"
)

const reasonPatientTypeEmpty = "tipo de paciente vacio"

// Build resolves every occupied role slot of every canonical item into a
// settlement line. Resolution failures become pending reasons on the line,
// never errors: a batch is computed in full no matter how dirty the input.
func Build(items []normalizer.Item, snap *catalogdomain.Snapshot) []domain.Line {
	var lines []domain.Line
	for _, item := range items {
		if item.Voided {
			continue
		}
		for _, occ := range item.Occupants {
			lines = append(lines, buildLine(item, occ, snap))
		}
	}
	return lines
}

func buildLine(item normalizer.Item, occ normalizer.Occupant, snap *catalogdomain.Snapshot) domain.Line {
	line := domain.Line{
		RecordID:    item.RecordID,
		DateISO:     item.DateISO,
		ClinicName:  item.ClinicName,
		PatientType: tariff.NormalizePatientType(item.PatientType),
		RoleID:      occ.RoleID,
	}
	var reasons []string

	clinic := snap.ResolveClinic(item.ClinicID, item.ClinicName)
	if clinic != nil {
		line.ClinicID = clinic.ID
		line.ClinicName = clinic.Name
	} else {
		reasons = append(reasons, fmt.Sprintf("clinica no mapeada: %s", rawRef(item.ClinicID, item.ClinicName)))
	}

	procedure := snap.ResolveProcedure(item.ProcedureID, item.ProcedureName)
	if procedure != nil {
		line.ProcedureID = procedure.ID
		line.ProcedureName = procedure.Name
	} else {
		line.ProcedureName = item.ProcedureName
		reasons = append(reasons, fmt.Sprintf("procedimiento no mapeado: %s", rawRef(item.ProcedureID, item.ProcedureName)))
	}

	if item.PatientType == "" {
		reasons = append(reasons, reasonPatientTypeEmpty)
	}

	if clinic != nil && procedure != nil && item.PatientType != "" {
		res := tariff.LookupHonorarium(procedure.TariffTable(), clinic.ID, item.PatientType, occ.RoleID)
		if res.Found {
			line.Amount = res.Amount
		} else {
			reasons = append(reasons, res.Reason)
		}
	}

	professional := snap.ResolveProfessional(occ.ProfessionalID, occ.Name)
	if professional != nil {
		line.ProfessionalID = professional.ID
		line.ProfessionalName = professional.Name
		line.Key = professional.ID
	} else {
		// Payout is still tracked for an unmatched identity: the raw name
		// (or id) becomes the placeholder aggregation key.
		line.ProfessionalName = occ.Name
		if line.Key = textnorm.Normalize(occ.Name); line.Key == "" {
			line.Key = occ.ProfessionalID
			line.ProfessionalName = occ.ProfessionalID
		}
		reasons = append(reasons, fmt.Sprintf("profesional no esta en catalogo: %s", rawRef(occ.ProfessionalID, occ.Name)))
	}

	line.PendingReasons = reasons
	line.Pending = len(reasons) > 0
	return line
}

// Aggregate groups lines by professional key and orders the result: ok
// aggregates first by total descending, then pending ones likewise, key as
// the final tiebreak so output is deterministic.
func Aggregate(lines []domain.Line) []domain.Aggregate {
	byKey := make(map[string]*domain.Aggregate)
	order := make([]string, 0)
	for _, line := range lines {
		agg, ok := byKey[line.Key]
		if !ok {
			agg = &domain.Aggregate{
				Key:              line.Key,
				ProfessionalID:   line.ProfessionalID,
				ProfessionalName: line.ProfessionalName,
			}
			byKey[line.Key] = agg
			order = append(order, line.Key)
		}
		agg.Lines = append(agg.Lines, line)
		agg.Casos++
		agg.Total += line.Amount
		if line.Pending {
			agg.PendientesCount++
		}
	}

	aggregates := make([]domain.Aggregate, 0, len(order))
	for _, key := range order {
		agg := byKey[key]
		if agg.PendientesCount > 0 {
			agg.Status = domain.StatusPending
		} else {
			agg.Status = domain.StatusOK
		}
		aggregates = append(aggregates, *agg)
	}

	sort.SliceStable(aggregates, func(i, j int) bool {
		a, b := aggregates[i], aggregates[j]
		if a.Status != b.Status {
			return a.Status == domain.StatusOK
		}
		if a.Total != b.Total {
			return a.Total > b.Total
		}
		return a.Key < b.Key
	})
	return aggregates
}

func rawRef(id, name string) string {
	if name != "" {
		return name
	}
	if id != "" {
		return id
	}
	return "(vacio)"
}
