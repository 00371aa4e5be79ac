package dto

// CreateTaskRequest payload.
type CreateTaskRequest struct {
	ID             string   `json:"id"`
	Description    string   `json:"description"`
	RequiredSkills []string `json:"required_skills"`
	Priority       int      `json:"priority"`
	EstimatedTime  int      `json:"estimated_time"`
	Complexity     int      `json:"complexity"`
}

// TaskResponse response.
type TaskResponse struct {
	ID             string   `json:"id"`
	Description    string   `json:"description"`
	RequiredSkills []string `json:"required_skills"`
	Priority       int      `json:"priority"`
	EstimatedTime  int      `json:"estimated_time"`
	Complexity     int      `json:"complexity"`
}

// CreateEmployeeRequest payload.
type CreateEmployeeRequest struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Role             string   `json:"role"`
	Skills           []string `json:"skills"`
	Experience       int      `json:"experience"`
	Availability     int      `json:"availability"`
	CurrentWorkload  int      `json:"current_workload"`
	PerformanceScore float64  `json:"performance_score"`
}

// EmployeeResponse response. CurrentWorkload is the server-authoritative
// value; clients read it and never compute it locally.
type EmployeeResponse struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Role             string   `json:"role"`
	Skills           []string `json:"skills"`
	Experience       int      `json:"experience"`
	Availability     int      `json:"availability"`
	CurrentWorkload  int      `json:"current_workload"`
	PerformanceScore float64  `json:"performance_score"`
}
