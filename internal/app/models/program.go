package models

// Program is a degree program offered by a college
type Program struct {
	Code    string `json:"program_code" db:"program_code"`
	Name    string `json:"program_name" db:"program_name"`
	College string `json:"college" db:"college"`
}
