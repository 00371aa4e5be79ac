package domain

import "time"

// Employee models a worker eligible to receive task assignments.
// CurrentWorkload is server-authoritative and mutated only through the
// workload accountant; Version guards optimistic workload writes.
type Employee struct {
	ID               string
	Name             string
	Role             string
	Skills           []string
	Experience       int
	Availability     int
	CurrentWorkload  int
	PerformanceScore float64
	Version          int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// HasAnySkill reports whether the employee covers at least one required skill.
func (e *Employee) HasAnySkill(required []string) bool {
	return CountSkillOverlap(e.Skills, required) > 0
}

// CountSkillOverlap returns |a ∩ b| treating both slices as sets.
func CountSkillOverlap(a, b []string) int {
	set := make(map[string]struct{}, len(a))
	for _, s := range a {
		set[s] = struct{}{}
	}
	count := 0
	seen := make(map[string]struct{}, len(b))
	for _, s := range b {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		if _, ok := set[s]; ok {
			count++
		}
	}
	return count
}
