package models

// College groups programs
type College struct {
	Code string `json:"college_code" db:"college_code"`
	Name string `json:"college_name" db:"college_name"`
}
