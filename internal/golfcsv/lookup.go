package golfcsv

// UnknownClub is the club name of a shot whose club id has no mapping.
const UnknownClub = "Unknown"

// CourseInfo is the course context of one round, taken from its summary.
type CourseInfo struct {
	CourseName string
	// single-digit pars indexed by hole number - 1, entries may be empty
	HolePars []string
}

// CourseInfoMap maps round id -> course context.
type CourseInfoMap map[string]CourseInfo

// RoundID returns the identifier of a round summary in its textual form.
func RoundID(summary Object) (string, bool) {
	id, ok := summary.Lookup("id")
	if !ok || id.String() == "" {
		return "", false
	}
	return id.String(), true
}

// NewCourseInfoMap indexes round summaries by id, summaries without an id are
// not indexed.
func NewCourseInfoMap(summaries []Object) CourseInfoMap {
	out := make(CourseInfoMap, len(summaries))
	for _, summary := range summaries {
		id, ok := RoundID(summary)
		if !ok {
			continue
		}
		info := CourseInfo{CourseName: summary.Get("courseName").String()}
		info.HolePars = parsOf(summary["holePars"])
		out[id] = info
	}
	return out
}

// parsOf reads holePars as either a digit string ("443") or an array of
// pars, any other shape has no pars.
func parsOf(raw any) []string {
	switch pars := raw.(type) {
	case string:
		return splitPars(pars)
	case []any:
		out := make([]string, len(pars))
		for i, par := range pars {
			out[i] = valueOf(par).String()
		}
		return out
	}
	return nil
}

func splitPars(pars string) []string {
	out := make([]string, 0, len(pars))
	for _, r := range pars {
		out = append(out, string(r))
	}
	return out
}

// Par returns the par of a hole from the pars array, holes are 1-indexed.
func (c CourseInfo) Par(hole int) (string, bool) {
	if hole < 1 || hole > len(c.HolePars) {
		return "", false
	}
	par := c.HolePars[hole-1]
	if par == "" {
		return "", false
	}
	return par, true
}

// ClubMapping maps a player-owned club id -> human-readable club type name.
type ClubMapping map[string]string

// NewClubMapping composes club types (id -> name) with player clubs
// (id -> club type id) into a single club id -> name table. A player club
// whose type is unknown maps to UnknownClub.
func NewClubMapping(clubTypes, playerClubs []Object) ClubMapping {
	typeNames := make(map[string]string, len(clubTypes))
	for _, t := range clubTypes {
		id, ok := t.Lookup("id")
		if !ok {
			continue
		}
		typeNames[id.String()] = t.Get("name").String()
	}

	out := make(ClubMapping, len(playerClubs))
	for _, club := range playerClubs {
		id, ok := club.Lookup("id")
		if !ok {
			continue
		}
		name := UnknownClub
		if typeID, ok := club.Lookup("clubTypeId"); ok {
			if n, ok := typeNames[typeID.String()]; ok && n != "" {
				name = n
			}
		}
		out[id.String()] = name
	}
	return out
}

// Name resolves a club id, unmapped or absent ids resolve to UnknownClub.
func (m ClubMapping) Name(clubID Value) string {
	if clubID.IsEmpty() {
		return UnknownClub
	}
	name, ok := m[clubID.String()]
	if !ok {
		return UnknownClub
	}
	return name
}

// HoleScores maps hole number -> strokes of one round, used to join the hole
// score onto shot rows.
type HoleScores map[int]Value

// NewHoleScores indexes the strokes of the holes of a round detail.
func NewHoleScores(holes []Object) HoleScores {
	out := make(HoleScores, len(holes))
	for _, hole := range holes {
		n, ok := hole.Get("number").Int()
		if !ok {
			continue
		}
		out[n] = hole.Get("strokes")
	}
	return out
}
