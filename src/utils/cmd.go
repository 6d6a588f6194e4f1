package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseSteps parses a comma separated list of positive step counts, e.g. "50,100,200".
func ParseSteps(steps string) ([]int, error) {
	stepsStr := strings.Split(steps, ",")
	out := make([]int, 0, len(stepsStr))

	for _, s := range stepsStr {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}

		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("error parsing step count: %v", err)
		}

		if n <= 0 {
			return nil, fmt.Errorf("step count must be positive, found %d", n)
		}

		out = append(out, n)
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("no step counts found in %q", steps)
	}

	return out, nil
}
