package plan

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ExtractJSONObject returns the first balanced {...} span of text. Braces inside JSON string
// literals do not count, so prose or markdown fences around the object are ignored.
func ExtractJSONObject(text string) (string, error) {
	start := strings.IndexByte(text, '{')
	if start == -1 {
		return "", ErrNoJSONObject
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		}
	}
	return "", ErrUnbalancedJSON
}

// Schedule is the document a vision model or a user supplies for one image or paste.
type Schedule struct {
	StartDate *string   `json:"startDate"`
	EndDate   *string   `json:"endDate"`
	Weeks     *int      `json:"weeks"`
	Workouts  []Workout `json:"workouts"`
}

// ParseSchedule extracts the first JSON object from text and decodes it as a Schedule.
func ParseSchedule(text string) (*Schedule, error) {
	raw, err := ExtractJSONObject(text)
	if err != nil {
		return nil, err
	}
	var s Schedule
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSchedule, err)
	}
	return &s, nil
}

func (s *Schedule) Source() Source {
	return Source{Workouts: s.Workouts}
}
