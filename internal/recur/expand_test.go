package recur

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wildsl/internal/model"
)

var colombo = time.FixedZone("Asia/Colombo", 5*3600+30*60)

func TestExpand_MonthlyRule(t *testing.T) {
	in := []model.Entry{{ID: "walk", Dates: []string{"2025-01-04"}, Recurrence: "FREQ=MONTHLY;COUNT=3"}}

	res := Expand(in, Config{Location: colombo})

	require.Len(t, res.Entries, 1)
	assert.Equal(t, []string{"2025-01-04", "2025-02-04", "2025-03-04"}, res.Entries[0].Dates)
	assert.Empty(t, res.Truncated)
	// Input untouched.
	assert.Equal(t, []string{"2025-01-04"}, in[0].Dates)
}

func TestExpand_AcceptsRRulePrefixAndLegacyDate(t *testing.T) {
	in := []model.Entry{{ID: "w", Date: "2025-03-01", Recurrence: "RRULE:FREQ=WEEKLY;COUNT=2"}}
	res := Expand(in, Config{Location: colombo})
	assert.Equal(t, []string{"2025-03-01", "2025-03-08"}, res.Entries[0].Dates)
}

func TestExpand_HorizonBoundsOpenEndedRules(t *testing.T) {
	in := []model.Entry{{ID: "daily", Dates: []string{"2025-01-01"}, Recurrence: "FREQ=DAILY"}}
	res := Expand(in, Config{Location: colombo, HorizonDays: 6})
	assert.Len(t, res.Entries[0].Dates, 7)
	assert.Equal(t, "2025-01-07", res.Entries[0].Dates[6])
}

func TestExpand_CapTruncates(t *testing.T) {
	in := []model.Entry{{ID: "daily", Dates: []string{"2025-01-01"}, Recurrence: "FREQ=DAILY"}}
	res := Expand(in, Config{Location: colombo, HorizonDays: 30, MaxOccurrences: 5})
	assert.Len(t, res.Entries[0].Dates, 5)
	assert.Equal(t, []model.ID{"daily"}, res.Truncated)
}

func TestExpand_LeavesBrokenEntriesAlone(t *testing.T) {
	in := []model.Entry{
		{ID: "plain", Dates: []string{"2025-01-01"}},
		{ID: "bad-rule", Dates: []string{"2025-01-01"}, Recurrence: "FREQ=SOMETIMES"},
		{ID: "no-start", Recurrence: "FREQ=DAILY;COUNT=2"},
	}
	res := Expand(in, Config{Location: colombo})
	require.Len(t, res.Entries, 3)
	assert.Equal(t, in, res.Entries)
}
