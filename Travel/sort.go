package Travel

import (
	"sort"
	"time"

	"FuelLog/Models"
)

// Timestamps arrive in whatever layout the endpoint version felt like.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTimestamp(value string) (time.Time, error) {
	var t time.Time
	var err error
	for _, layout := range timestampLayouts {
		t, err = time.Parse(layout, value)
		if err == nil {
			return t, nil
		}
	}
	return t, err
}

// sortDescBy orders records newest-first by the given timestamp. Values that
// fail every layout fall back to lexicographic comparison, which still
// orders ISO strings correctly.
func sortDescBy(records []Models.TravelLogRecord, key func(Models.TravelLogRecord) string) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := key(records[i]), key(records[j])
		ta, errA := parseTimestamp(a)
		tb, errB := parseTimestamp(b)
		if errA == nil && errB == nil {
			return tb.Before(ta)
		}
		return a > b
	})
}
