package service

import (
	"sort"

	catalogdomain "github.com/sistemascrenat/liquidaciones-sub000/internal/catalog/domain"
	"github.com/sistemascrenat/liquidaciones-sub000/internal/production/normalizer"
	"github.com/sistemascrenat/liquidaciones-sub000/internal/profitability/domain"
	"github.com/sistemascrenat/liquidaciones-sub000/internal/search"
	"github.com/sistemascrenat/liquidaciones-sub000/internal/tariff"
)

const unmappedLabel = "(sin mapear)"

// BuildFacts computes the tariff economics of every non-voided case. A fact
// is emitted per record regardless of how many role slots are occupied;
// profitability is a per-case view, not a per-payout one.
func BuildFacts(items []normalizer.Item, snap *catalogdomain.Snapshot) []domain.Fact {
	facts := make([]domain.Fact, 0, len(items))
	for _, item := range items {
		if item.Voided {
			continue
		}
		facts = append(facts, buildFact(item, snap))
	}
	return facts
}

func buildFact(item normalizer.Item, snap *catalogdomain.Snapshot) domain.Fact {
	fact := domain.Fact{
		RecordID:      item.RecordID,
		DateISO:       item.DateISO,
		ClinicName:    item.ClinicName,
		ProcedureName: item.ProcedureName,
		PatientType:   tariff.NormalizePatientType(item.PatientType),
	}

	clinic := snap.ResolveClinic(item.ClinicID, item.ClinicName)
	if clinic != nil {
		fact.ClinicID = clinic.ID
		fact.ClinicName = clinic.Name
	}
	procedure := snap.ResolveProcedure(item.ProcedureID, item.ProcedureName)
	if procedure != nil {
		fact.ProcedureID = procedure.ID
		fact.ProcedureName = procedure.Name
	}

	if clinic != nil && procedure != nil {
		if entry, ok := tariff.FindEntry(procedure.TariffTable(), clinic.ID, item.PatientType); ok {
			fact.Revenue = entry.Price
			fact.Cost = tariff.EntryCost(entry)
		}
	}

	fact.Profit = fact.Revenue - fact.Cost
	fact.Margin = marginOf(fact.Profit, fact.Revenue)
	fact.TariffIncomplete = fact.Revenue <= 0 && fact.Cost <= 0
	return fact
}

// Filter narrows facts before aggregation: inclusive ISO date bounds, the
// patient-type allow-set and the shared AND/OR query grammar.
func Filter(facts []domain.Fact, filters domain.Filters) []domain.Fact {
	kept := make([]domain.Fact, 0, len(facts))
	for _, fact := range facts {
		if filters.FromISO != "" && fact.DateISO < filters.FromISO {
			continue
		}
		if filters.ToISO != "" && fact.DateISO > filters.ToISO {
			continue
		}
		if !filters.Types.Allows(fact.PatientType) {
			continue
		}
		if !search.Matches([]string{fact.ClinicName, fact.ProcedureName, fact.PatientType, fact.DateISO}, filters.Query) {
			continue
		}
		kept = append(kept, fact)
	}
	return kept
}

// Summarize rolls filtered facts up into KPIs, rankings and the patient
// type mix.
func Summarize(facts []domain.Fact) (domain.KPIs, []domain.RankingRow, []domain.RankingRow, []domain.MixRow) {
	var kpis domain.KPIs
	for _, fact := range facts {
		kpis.Casos++
		kpis.Revenue += fact.Revenue
		kpis.Cost += fact.Cost
		kpis.Profit += fact.Profit
		if fact.TariffIncomplete {
			kpis.TariffIncomplete++
		}
	}
	kpis.Margin = marginOf(kpis.Profit, kpis.Revenue)

	procedures := ranking(facts, func(f domain.Fact) string { return labelOr(f.ProcedureName) })
	clinics := ranking(facts, func(f domain.Fact) string { return labelOr(f.ClinicName) })
	return kpis, procedures, clinics, mix(facts)
}

func ranking(facts []domain.Fact, key func(domain.Fact) string) []domain.RankingRow {
	byName := make(map[string]*domain.RankingRow)
	order := make([]string, 0)
	for _, fact := range facts {
		name := key(fact)
		row, ok := byName[name]
		if !ok {
			row = &domain.RankingRow{Name: name}
			byName[name] = row
			order = append(order, name)
		}
		row.Casos++
		row.Revenue += fact.Revenue
		row.Cost += fact.Cost
		row.Profit += fact.Profit
	}

	rows := make([]domain.RankingRow, 0, len(order))
	for _, name := range order {
		row := byName[name]
		// Margin from the summed totals, not an average of fact margins.
		row.Margin = marginOf(row.Profit, row.Revenue)
		rows = append(rows, *row)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Profit != rows[j].Profit {
			return rows[i].Profit > rows[j].Profit
		}
		return rows[i].Name < rows[j].Name
	})
	return rows
}

func mix(facts []domain.Fact) []domain.MixRow {
	byType := make(map[string]*domain.MixRow)
	for _, fact := range facts {
		pt := fact.PatientType
		if pt == "" {
			pt = "sin clasificar"
		}
		row, ok := byType[pt]
		if !ok {
			row = &domain.MixRow{PatientType: pt}
			byType[pt] = row
		}
		row.Casos++
		row.Revenue += fact.Revenue
	}

	rows := make([]domain.MixRow, 0, len(byType))
	for _, row := range byType {
		rows = append(rows, *row)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Casos != rows[j].Casos {
			return rows[i].Casos > rows[j].Casos
		}
		return rows[i].PatientType < rows[j].PatientType
	})
	return rows
}

func marginOf(profit, revenue int64) *float64 {
	if revenue <= 0 {
		return nil
	}
	m := float64(profit) / float64(revenue) * 100
	return &m
}

func labelOr(name string) string {
	if name == "" {
		return unmappedLabel
	}
	return name
}
