package agreements

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleAgreement = `{
  "institution": "University of California, Davis",
  "majors": [
    {
      "name": "Computer Science B.S.",
      "requirements": [
        {
          "Category": "Major Preparation",
          "Minimum_Required": "all",
          "Courses": [
            {
              "UC": {"Course_Code": "ECS 036A", "Title": "Programming I"},
              "DVC": {"Course_Code": "COMSC-110", "Title": "Introduction to Programming", "Units": 4}
            },
            {
              "UC": {"Course_Code": "MAT 021A", "Title": "Calculus"},
              "DVC": [
                {"Course_Code": "MATH-192", "Title": "Calculus I", "Units": 5},
                {"Course_Code": "MATH-193", "Title": "Calculus II", "Units": 4.5}
              ]
            }
          ]
        },
        {
          "Category": "General Education",
          "Minimum_Required": 2,
          "Courses": [
            {
              "DVC": {"Code": "ARTHS-193", "Title": "Art History", "units": 3}
            },
            {
              "DVC": {"Course_Code": "COMSC-110", "Title": "Duplicate Listing", "Units": 4}
            }
          ]
        }
      ]
    }
  ]
}`

func TestFlatten(t *testing.T) {
	t.Parallel()

	rows, err := Flatten([]byte(sampleAgreement))
	require.NoError(t, err)

	byCode := make(map[string]Row, len(rows))
	for _, r := range rows {
		byCode[r.SourceCode] = r
	}
	require.Len(t, rows, 4)

	intro := byCode["COMSC-110"]
	assert.Equal(t, "Major Preparation", intro.Category)
	assert.Equal(t, "all", intro.MinimumRequired)
	assert.Equal(t, "Introduction to Programming", intro.SourceTitle)
	assert.Equal(t, "4", intro.SourceUnits)

	// A DVC list fans out to one row per course.
	assert.Equal(t, "Calculus I", byCode["MATH-192"].SourceTitle)
	assert.Equal(t, "5", byCode["MATH-192"].SourceUnits)
	assert.Equal(t, "4.5", byCode["MATH-193"].SourceUnits)

	// Alternate key spellings and numeric minimums.
	art := byCode["ARTHS-193"]
	assert.Equal(t, "General Education", art.Category)
	assert.Equal(t, "2", art.MinimumRequired)
	assert.Equal(t, "3", art.SourceUnits)
}

func TestFlattenFirstOccurrenceWins(t *testing.T) {
	t.Parallel()

	rows, err := Flatten([]byte(sampleAgreement))
	require.NoError(t, err)

	for _, r := range rows {
		if r.SourceCode == "COMSC-110" {
			assert.Equal(t, "Introduction to Programming", r.SourceTitle)
			return
		}
	}
	t.Fatal("COMSC-110 row missing")
}

func TestFlattenDocumentOrder(t *testing.T) {
	t.Parallel()

	// Requirement blocks sit under sibling object keys so the walk has
	// to traverse objects, not just arrays, to reach them in file order.
	const doc = `{
	  "prep": {
	    "Category": "Major Preparation",
	    "Minimum_Required": "all",
	    "Courses": [
	      {"DVC": {"Course_Code": "COMSC-110", "Title": "Introduction to Programming", "Units": 4}},
	      {"DVC": {"Course_Code": "MATH-192", "Title": "Calculus I", "Units": 5}}
	    ]
	  },
	  "ge": {
	    "Category": "General Education",
	    "Minimum_Required": 2,
	    "Courses": [
	      {"DVC": {"Course_Code": "ARTHS-193", "Title": "Art History", "Units": 3}},
	      {"DVC": {"Course_Code": "COMSC-110", "Title": "Duplicate Listing", "Units": 4}}
	    ]
	  }
	}`

	first, err := Flatten([]byte(doc))
	require.NoError(t, err)

	wantOrder := []string{"COMSC-110", "MATH-192", "ARTHS-193"}
	gotOrder := make([]string, len(first))
	for i, r := range first {
		gotOrder[i] = r.SourceCode
	}
	require.Equal(t, wantOrder, gotOrder)

	// The duplicate keeps the block it first appeared under.
	assert.Equal(t, "Major Preparation", first[0].Category)
	assert.Equal(t, "all", first[0].MinimumRequired)

	for range 50 {
		again, err := Flatten([]byte(doc))
		require.NoError(t, err)
		require.Equal(t, first, again)
	}
}

func TestFlattenInvalidJSON(t *testing.T) {
	t.Parallel()

	_, err := Flatten([]byte("{not json"))
	assert.Error(t, err)
}

func TestFlattenNoRequirementBlocks(t *testing.T) {
	t.Parallel()

	rows, err := Flatten([]byte(`{"institution": "UCB", "majors": []}`))
	require.NoError(t, err)
	assert.Empty(t, rows)
}
