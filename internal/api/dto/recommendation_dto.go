package dto

// CandidateResponse pairs an employee with their fitness score.
type CandidateResponse struct {
	Employee        EmployeeResponse `json:"employee"`
	Score           float64          `json:"score"`
	SkillMatchRatio float64          `json:"skill_match_ratio"`
}

// RecommendationResponse response.
type RecommendationResponse struct {
	TaskID string              `json:"task_id"`
	Best   CandidateResponse   `json:"best"`
	Ranked []CandidateResponse `json:"ranked"`
}
