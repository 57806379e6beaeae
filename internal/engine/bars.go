package engine

import "github.com/couchcryptid/hazard-dashboard/internal/domain"

// DeriveHazardTypeBar filters the hazard-type counts. Selecting a region
// narrows to it and switches the category axis to hazard type; selecting a
// hazard type filters independently of the region branch. Rows keep the
// table's order.
func DeriveHazardTypeBar(state domain.SelectionState, reg *domain.Registry) (HazardTypeBarResult, error) {
	result := HazardTypeBarResult{GroupBy: GroupByRegion, Rows: []domain.HazTypeCountRow{}}
	if state.Region.IsSet() {
		result.GroupBy = GroupByHazardType
	}

	for _, row := range reg.HazardTypeCounts() {
		if state.Region.IsSet() && row.Region != state.Region {
			continue
		}
		if state.HazardType.IsSet() && row.HazardType != state.HazardType {
			continue
		}
		result.Rows = append(result.Rows, row)
	}
	return result, nil
}

// DeriveBeneficiaries filters the beneficiary breakdown by region. Selecting
// a region switches the category axis to income classification.
func DeriveBeneficiaries(state domain.SelectionState, reg *domain.Registry) (BeneficiaryResult, error) {
	result := BeneficiaryResult{GroupBy: GroupByRegion, Rows: []domain.BeneficiaryRow{}}
	if state.Region.IsSet() {
		result.GroupBy = GroupByIncomeClassification
	}

	for _, row := range reg.Beneficiaries() {
		if state.Region.IsSet() && row.Region != state.Region {
			continue
		}
		result.Rows = append(result.Rows, row)
	}
	return result, nil
}
