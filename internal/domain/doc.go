// Package domain models the regional disaster, hazard, adaptability,
// population-density and beneficiary datasets behind the hazard dashboard.
//
// # Datasets
//
// Six tables and one geometry collection are loaded once at startup and
// frozen into a [Registry]:
//
//	disasters            Region + numeric metrics: "Total Disasters", one
//	                     column per hazard category and per hazard type.
//	population density   Region + "Population Density".
//	scores               Region, "Score Type", "Score". The "Adaptability
//	                     Score" type is bounded 0–5; all other score types
//	                     are indicators.
//	time series          one row per event: "adm1 code", "Date of Event
//	                     (start)", "Hazard Type", "Hazard Category".
//	beneficiaries        Region, "Income Classification", "Percentage".
//	hazard type counts   Region, "Hazard Type", "Count".
//	boundaries           GeoJSON features keyed by properties.Region,
//	                     optionally carrying the adm1 code.
//
// # Hazard hierarchy
//
// A hazard type belongs to exactly one hazard category. The hierarchy is
// derived from the time series only: a category that never appears there
// has no selectable types. Types are kept in first-seen order.
//
// # Country row
//
// The scores table carries a whole-country aggregate under a reserved region
// code ([DefaultCountryRegion] unless configured). It backs the adaptability
// gauge when no region is selected, so its absence is a load-time error.
//
// # Errors
//
// Load-time problems wrap [ErrDataShape]. Per-request lookups wrap
// [ErrLookupNotFound] or [ErrDataIntegrity]. An empty filtered result is
// never an error.
package domain
