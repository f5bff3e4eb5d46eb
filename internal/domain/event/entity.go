// Package event defines the incident entity, the static category tables, and
// the pairwise similarity comparators that drive proximity-graph edge
// weighting.
package event

import (
	"strconv"
	"strings"
	"time"
)

// Event is a single geolocated criminal incident.  Events are addressed by
// their insertion index in the analysis run; the struct itself carries only
// the attributes that participate in similarity scoring and community
// description.
type Event struct {
	Latitude  float64
	Longitude float64

	// TimeOfDay is the offset from midnight at minute resolution, derived
	// from a 4-digit military time code.  Nil when the source code was
	// missing or unparseable.
	TimeOfDay *time.Duration

	// CrimeCategory is the semantic bucket of the primary crime code.
	CrimeCategory CrimeCategory

	// SecondaryCrimes holds the deduplicated categories of the secondary
	// crime codes (at most three in the source data).
	SecondaryCrimes []CrimeCategory

	// WeaponCategory is the semantic bucket of the weapon code.
	WeaponCategory WeaponCategory

	// BehaviorCodes is the set of modus-operandi tokens, with the configured
	// ubiquitous no-op code already removed.
	BehaviorCodes []string

	Victim VictimProfile

	AreaCode string
	AreaName string
	SubArea  string
}

// VictimProfile describes the victim of an incident.  Every attribute is
// optional; comparator logic branches explicitly on presence rather than on
// sentinel equality.
type VictimProfile struct {
	Age      *int
	Sex      *string
	Ancestry *string
}

// NewVictimProfile builds a VictimProfile from raw source fields.  An age of
// zero is the source's sentinel for "unknown" and maps to absent, as do empty
// or whitespace-only sex and ancestry strings.
func NewVictimProfile(age int, sex, ancestry string) VictimProfile {
	p := VictimProfile{}
	if age > 0 {
		p.Age = &age
	}
	if s := strings.TrimSpace(sex); s != "" {
		p.Sex = &s
	}
	if a := strings.TrimSpace(ancestry); a != "" {
		p.Ancestry = &a
	}
	return p
}

// ParseMilitaryTime converts a 4-digit military time code ("1430", "005",
// 45 → "0045") into an offset from midnight.  It returns nil for codes that
// are not parseable as a valid time of day; callers must treat nil as an
// absent attribute, never as an error.
func ParseMilitaryTime(code string) *time.Duration {
	s := strings.TrimSpace(code)
	if s == "" {
		return nil
	}
	// Left-pad to four digits, mirroring the source data convention where
	// leading zeros are dropped ("45" means 00:45).
	for len(s) < 4 {
		s = "0" + s
	}
	if len(s) != 4 {
		return nil
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return nil
		}
	}
	hours, _ := strconv.Atoi(s[:2])
	minutes, _ := strconv.Atoi(s[2:])
	if hours > 23 || minutes > 59 {
		return nil
	}
	d := time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute
	return &d
}

// NormalizeBehaviorCodes splits a whitespace-separated modus-operandi token
// string into a deduplicated set with the ubiquitous no-op code removed.
// The no-op code appears on nearly every incident and would otherwise inflate
// behavioral overlap scores.
func NormalizeBehaviorCodes(raw string, noOpCode string) []string {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(fields))
	out := make([]string, 0, len(fields))
	for _, tok := range fields {
		if tok == noOpCode {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
	}
	return out
}

// DayPeriod is one of the four time-of-day buckets used in community
// categorical distributions.
type DayPeriod string

const (
	PeriodMorning   DayPeriod = "Morning"   // 06:00–12:00
	PeriodAfternoon DayPeriod = "Afternoon" // 12:00–18:00
	PeriodEvening   DayPeriod = "Evening"   // 18:00–24:00
	PeriodNight     DayPeriod = "Night"     // 00:00–06:00
)

// PeriodOf buckets an offset from midnight into its day period.
func PeriodOf(t time.Duration) DayPeriod {
	switch h := t.Hours(); {
	case h >= 6 && h < 12:
		return PeriodMorning
	case h >= 12 && h < 18:
		return PeriodAfternoon
	case h >= 18:
		return PeriodEvening
	default:
		return PeriodNight
	}
}
