package dto

// CollegeRequest creates or replaces a college
type CollegeRequest struct {
	CollegeCode string `json:"college_code" binding:"required" example:"CCS"`
	CollegeName string `json:"college_name" binding:"required" example:"College of Computer Studies"`
}

// ProgramRequest creates or replaces a program
type ProgramRequest struct {
	ProgramCode string `json:"program_code" binding:"required" example:"BSCS"`
	ProgramName string `json:"program_name" binding:"required" example:"Bachelor of Science in Computer Science"`
	College     string `json:"college" binding:"required" example:"CCS"`
}
