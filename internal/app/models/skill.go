package models

import "strings"

// Skill is a named competency shared by students and postings
type Skill struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// NormalizeSkills trims names, drops blanks and removes exact duplicates while
// keeping the first occurrence order. Matching stays case-sensitive.
func NormalizeSkills(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}
