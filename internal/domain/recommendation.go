package domain

// Candidate pairs an employee with their computed fitness for a task.
type Candidate struct {
	Employee        Employee
	Score           float64
	SkillMatchRatio float64
}

// Recommendation is the ranked outcome of scoring all eligible employees
// for a task. Ranked is ordered best-first and always contains Best.
type Recommendation struct {
	TaskID string
	Best   Candidate
	Ranked []Candidate
}
