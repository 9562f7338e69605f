package catalog

import "time"

// PubDateLayout is RFC 2822 with the zone always labelled GMT.
const PubDateLayout = "Mon, 02 Jan 2006 15:04:05 GMT"

// Schedule returns n publish dates one day apart, oldest first, with the
// last one equal to now.
func Schedule(n int, now time.Time) []time.Time {
	if n <= 0 {
		return nil
	}

	now = now.UTC()
	dates := make([]time.Time, n)
	for i := range dates {
		dates[i] = now.AddDate(0, 0, -(n - 1 - i))
	}
	return dates
}

// FormatPubDate renders t in UTC using PubDateLayout.
func FormatPubDate(t time.Time) string {
	return t.UTC().Format(PubDateLayout)
}
