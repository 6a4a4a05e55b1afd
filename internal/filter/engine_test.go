package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dvc-advising/transferbot-go/internal/storage"
)

var sampleRows = []storage.EquivalencyRow{
	{Category: "Major Preparation", MinimumRequired: "all", SourceCode: "COMSC-110", SourceTitle: "Introduction to Programming", SourceUnits: "4"},
	{Category: "Major Preparation", MinimumRequired: "all", SourceCode: "COMSC-200", SourceTitle: "Data Structures", SourceUnits: "4"},
	{Category: "Mathematics", MinimumRequired: "2", SourceCode: "MATH-192", SourceTitle: "Calculus I", SourceUnits: "5"},
	{Category: "Mathematics", MinimumRequired: "", SourceCode: "MATH-292", SourceTitle: "Linear Algebra", SourceUnits: "3"},
	{Category: "Natural Science", MinimumRequired: "1", SourceCode: "PHYS-130", SourceTitle: "Physics for Engineers", SourceUnits: "4"},
	{Category: "General Education Area C", MinimumRequired: "", SourceCode: "ARTHS-193", SourceTitle: "Art History", SourceUnits: "3"},
}

func codesOf(rows []storage.EquivalencyRow) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.SourceCode)
	}
	return out
}

func TestApply(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		set  Set
		seed Seed
		want []string
	}{
		{
			name: "empty set keeps everything",
			want: []string{"COMSC-110", "COMSC-200", "MATH-192", "MATH-292", "PHYS-130", "ARTHS-193"},
		},
		{
			name: "completed course excluded",
			set:  Set{CompletedCourses: []string{"COMSC-110"}},
			want: []string{"COMSC-200", "MATH-192", "MATH-292", "PHYS-130", "ARTHS-193"},
		},
		{
			name: "completed course code is case insensitive",
			set:  Set{CompletedCourses: []string{"comsc-110"}},
			want: []string{"COMSC-200", "MATH-192", "MATH-292", "PHYS-130", "ARTHS-193"},
		},
		{
			name: "completed math domain excluded",
			set:  Set{CompletedDomains: []Domain{DomainMath}},
			want: []string{"COMSC-110", "COMSC-200", "PHYS-130", "ARTHS-193"},
		},
		{
			name: "math focus keeps only math rows",
			set:  Set{Focus: DomainMath},
			want: []string{"MATH-192", "MATH-292"},
		},
		{
			name: "focus all keeps everything",
			set:  Set{Focus: DomainAll},
			want: []string{"COMSC-110", "COMSC-200", "MATH-192", "MATH-292", "PHYS-130", "ARTHS-193"},
		},
		{
			name: "required only drops blank minimums",
			set:  Set{RequiredOnly: true},
			want: []string{"COMSC-110", "COMSC-200", "MATH-192", "PHYS-130"},
		},
		{
			name: "seed narrows when focus is unset",
			seed: Seed{Exclusive: DomainScience},
			want: []string{"PHYS-130"},
		},
		{
			name: "explicit focus overrides seed",
			set:  Set{Focus: DomainMath},
			seed: Seed{Exclusive: DomainCS},
			want: []string{"MATH-192", "MATH-292"},
		},
		{
			name: "category filter matches via alias",
			set:  Set{Categories: []string{"breadth"}},
			want: []string{"ARTHS-193"},
		},
		{
			name: "stacked exclusions",
			set: Set{
				RequiredOnly:     true,
				CompletedCourses: []string{"MATH-192"},
				CompletedDomains: []Domain{DomainScience},
			},
			want: []string{"COMSC-110", "COMSC-200"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Apply(sampleRows, tt.set, tt.seed)
			assert.Equal(t, tt.want, codesOf(got))
		})
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	rows := []storage.EquivalencyRow{sampleRows[0], sampleRows[2]}
	Apply(rows, Set{Focus: DomainMath}, Seed{})
	assert.Equal(t, "COMSC-110", rows[0].SourceCode)
	assert.Equal(t, "MATH-192", rows[1].SourceCode)
}

func TestRequirementIsStrict(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want bool
	}{
		{"all", true},
		{"ALL", true},
		{" All ", true},
		{"1", true},
		{"3", true},
		{"0", false},
		{"00", false},
		{"", false},
		{"none", false},
		{"2 of 3", false},
	}

	for _, tt := range tests {
		if got := requirementIsStrict(tt.in); got != tt.want {
			t.Errorf("requirementIsStrict(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
