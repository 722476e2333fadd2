package params

import (
	"strconv"
	"strings"
)

// CompareVersions compares two dotted version strings, segment by segment.
// Numeric segments compare as integers ("0.15" > "0.1"), others lexically.
// A missing segment counts as "0". The result is -1, 0 or +1.
func CompareVersions(a, b string) int {
	as, bs := strings.Split(a, "."), strings.Split(b, ".")
	for i := 0; i < len(as) || i < len(bs); i++ {
		x, y := "0", "0"
		if i < len(as) {
			x = as[i]
		}
		if i < len(bs) {
			y = bs[i]
		}

		xn, xerr := strconv.Atoi(x)
		yn, yerr := strconv.Atoi(y)
		if xerr == nil && yerr == nil {
			if xn != yn {
				if xn < yn {
					return -1
				}
				return 1
			}
			continue
		}

		if c := strings.Compare(x, y); c != 0 {
			return c
		}
	}
	return 0
}

// SplitRef splits a "name@version" reference. version is empty if the
// reference is just a name.
func SplitRef(ref string) (name, version string) {
	if i := strings.LastIndexByte(ref, '@'); i >= 0 {
		return ref[:i], ref[i+1:]
	}
	return ref, ""
}
