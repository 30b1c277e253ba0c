package protocol

import (
	"regexp"
	"slices"
	"strconv"
	"strings"
)

var (
	survivalRe = regexp.MustCompile(`(?i)S:\s*([0-9,]+)`)
	birthRe    = regexp.MustCompile(`(?i)B:\s*([0-9,]+)`)

	targetSurvival = []int{2, 3}
	targetBirth    = []int{3}
)

// CalibrationClearance is granted by stating the laws correctly.
const CalibrationClearance = 2

// Laws is a parsed survival/birth rule.
type Laws struct {
	Survival []int
	Birth    []int
}

// ParseLaws reads "S:<set> B:<set>" in either order. ok is false when a label is missing.
func ParseLaws(line string) (Laws, bool) {
	s := survivalRe.FindStringSubmatch(line)
	b := birthRe.FindStringSubmatch(line)
	if s == nil || b == nil {
		return Laws{}, false
	}
	return Laws{Survival: intSet(s[1]), Birth: intSet(b[1])}, true
}

// Accepted compares the laws with the protocol's reference rule.
func (l Laws) Accepted() bool {
	return slices.Equal(l.Survival, targetSurvival) && slices.Equal(l.Birth, targetBirth)
}

// intSet parses a comma list into a sorted list without duplicates.
func intSet(list string) []int {
	var out []int
	for _, part := range strings.Split(list, ",") {
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			continue
		}
		out = append(out, n)
	}
	slices.Sort(out)
	return slices.Compact(out)
}
