package representative

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// Initials returns the upper-cased first letters of the first two
// space-separated words of name, or "?" when there are none.
func Initials(name string) string {
	if name == "" {
		return "?"
	}
	words := strings.Split(name, " ")
	if len(words) > 2 {
		words = words[:2]
	}
	var sb strings.Builder
	for _, w := range words {
		if r, size := utf8.DecodeRuneInString(w); size > 0 {
			sb.WriteRune(r)
		}
	}
	if sb.Len() == 0 {
		return "?"
	}
	return strings.ToUpper(sb.String())
}

// TelHref returns a tel: link for phone with everything but digits and '+'
// removed, or "" when nothing remains, so placeholders like "-" get no link.
func TelHref(phone string) string {
	digits := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '+' {
			return r
		}
		return -1
	}, phone)
	if digits == "" {
		return ""
	}
	return "tel:" + digits
}

// MailtoHref returns a mailto: link for the trimmed address, or "" for a
// blank one.
func MailtoHref(email string) string {
	email = strings.TrimSpace(email)
	if email == "" {
		return ""
	}
	return "mailto:" + email
}

// PluralSuffix returns the ending that follows the stem "представител"
// for count: 1 → "ь", 2..4 → "я", otherwise "ей", with 11..14 always "ей".
func PluralSuffix(count int) string {
	mod10 := count % 10
	mod100 := count % 100
	switch {
	case mod100 >= 11 && mod100 <= 14:
		return "ей"
	case mod10 == 1:
		return "ь"
	case mod10 >= 2 && mod10 <= 4:
		return "я"
	default:
		return "ей"
	}
}

// ActivityStat is the number of representatives carrying one activity tag.
type ActivityStat struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// ActivitiesStats counts activity tags across reps, sorted by count
// descending.  Ties keep the order in which tags were first seen.
func ActivitiesStats(reps []Representative) []ActivityStat {
	index := map[string]int{}
	stats := make([]ActivityStat, 0)
	for _, rep := range reps {
		for _, a := range rep.Activities {
			if i, ok := index[a]; ok {
				stats[i].Count++
				continue
			}
			index[a] = len(stats)
			stats = append(stats, ActivityStat{Name: a, Count: 1})
		}
	}
	sort.SliceStable(stats, func(i, j int) bool { return stats[i].Count > stats[j].Count })
	return stats
}

//Personal.AI order the ending
