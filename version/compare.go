package version

import (
	"fmt"
	"strconv"
	"strings"
)

// Compare orders two release versions like "v0.4.1". Pre-release and build suffixes are ignored.
// It returns 1 when a is newer, -1 when b is newer and 0 when they are the same release.
func Compare(a, b string) (int, error) {
	av, err := parse(a)
	if err != nil {
		return 0, err
	}
	bv, err := parse(b)
	if err != nil {
		return 0, err
	}

	for i := range av {
		switch {
		case av[i] > bv[i]:
			return 1, nil
		case av[i] < bv[i]:
			return -1, nil
		}
	}
	return 0, nil
}

func parse(s string) (v [3]int, err error) {
	core, _, _ := strings.Cut(strings.TrimPrefix(s, "v"), "-")
	core, _, _ = strings.Cut(core, "+")

	parts := strings.Split(core, ".")
	if len(parts) != len(v) {
		return v, fmt.Errorf("malformed version %q", s)
	}
	for i, p := range parts {
		if v[i], err = strconv.Atoi(p); err != nil || v[i] < 0 {
			return v, fmt.Errorf("malformed version %q", s)
		}
	}
	return v, nil
}
