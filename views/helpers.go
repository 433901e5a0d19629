package views

import "time"

// FormatDate turns a UTC RFC 3339 timestamp into a human-readable date like
// "March 1, 2024". Unparseable input is returned unchanged.
func FormatDate(isoDate string) string {
	t, err := time.Parse(time.RFC3339, isoDate)
	if err != nil {
		return isoDate
	}
	return t.Format("January 2, 2006")
}
