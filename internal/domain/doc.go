// Package domain models pediatric transfer-center decision data.
//
// # Decision Inputs
//
// A transfer coordinator submits a [TransferRequest] naming a patient and the
// sending facility. The engine evaluates the request against a set of
// [HospitalCampus] candidates, each carrying a [BedCensus] snapshot and a set
// of [CampusExclusion] rules, under current [WeatherData] and a caller-supplied
// set of allowed transport modes.
//
// # Care Levels
//
// Required care is one of three categories: General, ICU (PICU counts as ICU
// for bed purposes), and NICU. When no explicit care level accompanies the
// request, the category is inferred from upstream condition signals with
// precedence ICU > NICU > General, because higher-acuity needs dominate. A
// pediatric-ICU flag resolves to the ICU category even for neonatal patients
// unless no ICU indicator is present at all.
//
// # Exclusion Rules
//
// Each campus rule can restrict by age range (years), weight range (kg),
// excluded care levels, keywords in the chief complaint or clinical history,
// and excluded condition phrases. Rules are evaluated independently; a rule
// whose inputs are unknown (missing age or weight) is skipped rather than
// treated as excluding. Condition phrases are split on commas, semicolons,
// and periods, and only fragments longer than five characters participate in
// substring matching, which keeps short tokens like "OR" or "flu," from
// producing spurious hits.
//
// # Transport
//
// Ground travel prefers a road-routing lookup (OSRM); on any failure the
// estimate falls back deterministically to great-circle distance at an
// average road speed. Air travel is gated by weather: any adverse-condition
// tag on the blocklist, visibility under 1.5 km, or wind over 70 kph makes
// air non-viable regardless of distance. Among viable modes the engine picks
// the minimum time; exact ties favor ground as the lower-variance mode.
//
// Distances use the Haversine great-circle formula with an Earth radius of
// 6371 km.
package domain
