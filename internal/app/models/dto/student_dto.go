package dto

import "mime/multipart"

// StudentRequest carries the student columns sent by the client, either as
// multipart form fields or as a JSON body
type StudentRequest struct {
	StudentID string `json:"student_id" form:"student_id" example:"2023-0001"`
	FirstName string `json:"first_name" form:"first_name" example:"Maria"`
	LastName  string `json:"last_name" form:"last_name" example:"Santos"`
	Gender    string `json:"gender" form:"gender" example:"Female"`
	YearLevel string `json:"year_level" form:"year_level" example:"1st Year"`
	Course    string `json:"course" form:"course" example:"BSCS"`
}

// StudentFormRequest is the multipart variant with an optional profile image
type StudentFormRequest struct {
	StudentRequest
	ProfileImage *multipart.FileHeader `form:"profile_image" swaggerignore:"true"`
}
