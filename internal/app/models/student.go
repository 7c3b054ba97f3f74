package models

// Student defines the student model based on the 'students' table.
// College is not a column; it is resolved through the program the student is enrolled in.
type Student struct {
	ID           int64   `json:"id" db:"id"`
	StudentID    string  `json:"student_id" db:"student_id"`
	FirstName    string  `json:"first_name" db:"first_name"`
	LastName     string  `json:"last_name" db:"last_name"`
	Gender       string  `json:"gender" db:"gender"`
	YearLevel    string  `json:"year_level" db:"year_level"`
	Course       string  `json:"course" db:"course"`
	College      *string `json:"college" db:"college"`
	ProfileImage *string `json:"profile_image" db:"profile_image"`
}

// HasImage reports whether the student references a file in the asset store
func (s *Student) HasImage() bool {
	return s.ProfileImage != nil && *s.ProfileImage != ""
}
