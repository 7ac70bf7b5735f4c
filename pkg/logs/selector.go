package logs

import (
	"strconv"
	"strings"
)

// LatestAttempt selects the application master container of the last attempt
const LatestAttempt = -1

// AMSelection picks application master containers by attempt position
type AMSelection struct {
	All bool
	// Indexes are 1-based positions in attempt order or LatestAttempt
	Indexes []int
}

// ParseAMSelection parse -am tokens: ALL, -1 or positive integers, comma separated values are split
func ParseAMSelection(tokens []string) (*AMSelection, error) {
	sel := &AMSelection{}
	for _, token := range tokens {
		for _, t := range strings.Split(token, ",") {
			t = strings.TrimSpace(t)
			if strings.EqualFold(t, allKeyword) {
				return &AMSelection{All: true}, nil
			}
			n, err := strconv.Atoi(t)
			if err != nil || (n != LatestAttempt && n <= 0) {
				return nil, validationErrorf("Invalid input for option -am. Valid inputs are 'ALL', -1 and any other integer which is larger than 0.")
			}
			sel.Indexes = append(sel.Indexes, n)
		}
	}
	if len(sel.Indexes) == 0 {
		return nil, validationErrorf("Invalid input for option -am. Valid inputs are 'ALL', -1 and any other integer which is larger than 0.")
	}
	return sel, nil
}

// Select resolve the selection against the attempt ordered containers, any index out of range fails the whole selection
func (s *AMSelection) Select(ams []AMContainer) ([]AMContainer, error) {
	if s.All {
		return append([]AMContainer{}, ams...), nil
	}
	selected := make([]AMContainer, 0, len(s.Indexes))
	for _, n := range s.Indexes {
		switch {
		case n == LatestAttempt && len(ams) > 0:
			selected = append(selected, ams[len(ams)-1])
		case n > 0 && n <= len(ams):
			selected = append(selected, ams[n-1])
		default:
			return nil, notFoundErrorf("Specified AM containerId (%d) exceeds the number of AM containers (%d).", n, len(ams))
		}
	}
	return selected, nil
}
