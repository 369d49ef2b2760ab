package model

import (
	"encoding/json"
	"go/format"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestID_UnmarshalNumberAndString(t *testing.T) {
	var doc struct {
		A ID `json:"a"`
		B ID `json:"b"`
		C ID `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": 12, "b": "niro-genzarry", "c": null}`), &doc))
	assert.Equal(t, ID("12"), doc.A)
	assert.Equal(t, ID("niro-genzarry"), doc.B)
	assert.Equal(t, ID(""), doc.C)
}

func TestID_UnmarshalRejectsObjects(t *testing.T) {
	var id ID
	assert.Error(t, json.Unmarshal([]byte(`{"x":1}`), &id))
}

func TestID_MarshalKeepsNumbersNumeric(t *testing.T) {
	out, err := json.Marshal([]ID{"3", "007", "slug"})
	require.NoError(t, err)
	assert.JSONEq(t, `[3, "007", "slug"]`, string(out))
}

func TestEntry_DateStrings(t *testing.T) {
	tests := []struct {
		name  string
		entry Entry
		want  []string
	}{
		{"plural wins", Entry{Dates: []string{"2025-01-01", "2025-01-02"}, Date: "2024-01-01"}, []string{"2025-01-01", "2025-01-02"}},
		{"legacy fallback", Entry{Date: "2024-01-01"}, []string{"2024-01-01"}},
		{"empty plural falls back", Entry{Dates: []string{}, Date: "2024-01-01"}, []string{"2024-01-01"}},
		{"no dates", Entry{}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.entry.DateStrings())
		})
	}
}

func TestEventsDocument_AllMergesLegacyKeys(t *testing.T) {
	raw := `{
		"events": [{"id": 1, "title": "a"}],
		"projects": [{"id": 2, "title": "b"}],
		"upcomingEvents": [{"id": 3, "title": "c", "date": "2030-01-01"}],
		"pastEvents": [{"id": 4, "title": "d", "date": "2020-01-01"}]
	}`
	var doc EventsDocument
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))

	all := doc.All()
	require.Len(t, all, 4)
	ids := []ID{all[0].ID, all[1].ID, all[2].ID, all[3].ID}
	assert.Equal(t, []ID{"1", "2", "3", "4"}, ids)
}

func TestCompetitionConfig_DecodesSiteKeys(t *testing.T) {
	raw := `{"isAnnounced": true, "currentYear": 2025, "googleSheetLink": "https://forms.example/x",
		"announcementDate": "2025-03-01", "submissionDeadline": "2025-06-30", "resultsDate": "2025-08-15"}`
	var cfg CompetitionConfig
	require.NoError(t, json.Unmarshal([]byte(raw), &cfg))
	assert.True(t, cfg.IsAnnounced)
	assert.Equal(t, 2025, cfg.CurrentYear)
	assert.Equal(t, "https://forms.example/x", cfg.SubmissionLink)
	assert.Equal(t, "2025-06-30", cfg.SubmissionDeadline)
}

func TestSourceIsGofmted(t *testing.T) {
	src, err := os.ReadFile("model.go")
	require.NoError(t, err)
	formatted, err := format.Source(src)
	require.NoError(t, err)
	assert.Equal(t, string(formatted), string(src))
}
