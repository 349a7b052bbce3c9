package teammatch

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize folds a team or club name into the form used for comparison:
// diacritics stripped, lower case, punctuation turned into spaces and
// whitespace collapsed.
func Normalize(name string) string {
	// transform chains keep state, so one is built per call.
	folder := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(folder, name)
	if err != nil {
		folded = name
	}

	folded = strings.ToLower(folded)
	folded = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return ' '
	}, folded)

	return strings.Join(strings.Fields(folded), " ")
}

// ParseTeamNumber extracts the trailing team number from a name such as
// "BC Gent 2" or "Smash 3H". It returns nil when the name carries none.
func ParseTeamNumber(name string) *int {
	fields := strings.Fields(Normalize(name))
	if len(fields) < 2 {
		return nil
	}

	last := fields[len(fields)-1]
	digits := strings.TrimRightFunc(last, unicode.IsLetter)
	if digits == "" || len(last)-len(digits) > 1 {
		return nil
	}
	value, err := strconv.Atoi(digits)
	if err != nil || value <= 0 {
		return nil
	}

	return &value
}

// TeamDesignator returns what tells teams of one club apart: the team
// number, or a single trailing letter as in "BC Gent B". number, when set,
// wins over the name. Empty when neither is present.
func TeamDesignator(name string, number *int) string {
	if number == nil {
		number = ParseTeamNumber(name)
	}
	if number != nil {
		return strconv.Itoa(*number)
	}

	fields := strings.Fields(Normalize(name))
	if len(fields) < 2 {
		return ""
	}
	last := fields[len(fields)-1]
	r, size := utf8.DecodeRuneInString(last)
	if size != len(last) || !unicode.IsLetter(r) {
		return ""
	}
	return last
}

const (
	GenderMen   = "M"
	GenderWomen = "F"
	GenderMixed = "MX"
)

// NormalizeGender maps the category spellings seen in external feeds onto
// M, F or MX. Unknown values return an empty string.
func NormalizeGender(raw string) string {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "M", "MEN", "MALE", "H", "HE", "HEREN":
		return GenderMen
	case "F", "W", "V", "D", "DA", "WOMEN", "FEMALE", "DAMES":
		return GenderWomen
	case "MX", "X", "MIXED", "GE", "GEMENGD":
		return GenderMixed
	default:
		return ""
	}
}

// GenderCompatible treats an unknown category as compatible with anything.
func GenderCompatible(left, right string) bool {
	left = NormalizeGender(left)
	right = NormalizeGender(right)
	if left == "" || right == "" {
		return true
	}
	return left == right
}
