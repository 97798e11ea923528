package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/yigit/placement/internal/app/models"
)

// FlexFloat accepts either a JSON number or a numeric string, since form
// backed clients send "8.5" while API clients send 8.5.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		v, err := ParseFlexFloat(raw)
		if err != nil {
			return err
		}
		*f = v
		return nil
	}

	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("must be a number")
	}
	*f = FlexFloat(n)
	return nil
}

// ParseFlexFloat parses a numeric form value
func ParseFlexFloat(raw string) (FlexFloat, error) {
	n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("must be a number")
	}
	return FlexFloat(n), nil
}

// Float64 returns the value as float64
func (f *FlexFloat) Float64() float64 {
	if f == nil {
		return 0
	}
	return float64(*f)
}

// SkillList is a skills field that arrives as a JSON array, as a string holding
// a JSON array, or as a comma separated string. Provided is false when the
// field was null or blank, meaning "leave skills unchanged".
type SkillList struct {
	Names    []string
	Provided bool
}

func (s *SkillList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*s = SkillList{}
		return nil
	case len(data) > 0 && data[0] == '[':
		var names []string
		if err := json.Unmarshal(data, &names); err != nil {
			return fmt.Errorf("skills must be a list of strings")
		}
		*s = SkillList{Names: models.NormalizeSkills(names), Provided: true}
		return nil
	case len(data) > 0 && data[0] == '"':
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		*s = ParseSkillList(raw)
		return nil
	default:
		return fmt.Errorf("skills must be a list or a string")
	}
}

// MarshalJSON writes the canonical list form
func (s SkillList) MarshalJSON() ([]byte, error) {
	if s.Names == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.Names)
}

// ParseSkillList resolves the string forms of the skills field.
func ParseSkillList(raw string) SkillList {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return SkillList{}
	}

	if strings.HasPrefix(raw, "[") {
		var names []string
		if err := json.Unmarshal([]byte(raw), &names); err == nil {
			return SkillList{Names: models.NormalizeSkills(names), Provided: true}
		}
	}

	return SkillList{Names: models.NormalizeSkills(strings.Split(raw, ",")), Provided: true}
}
