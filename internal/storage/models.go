package storage

// EquivalencyRow is one community-college course satisfying one
// requirement category at one destination campus.
//
// MinimumRequired is free text from the articulation data: "all", a
// positive integer as a string, or empty when the category is not
// strictly required. SourceUnits is kept as text because the source data
// mixes numbers, strings, and blanks.
type EquivalencyRow struct {
	Category        string `json:"category"`
	MinimumRequired string `json:"minimum_required"`
	SourceCode      string `json:"source_code"`
	SourceTitle     string `json:"source_title"`
	SourceUnits     string `json:"source_units"`
}
