package model

import "time"

// Teacher 教师表，对应 teachers
type Teacher struct {
	ID               int64      `gorm:"primaryKey;autoIncrement"       json:"id"`
	Name             string     `gorm:"type:varchar(100);not null"     json:"name"`
	DOB              *time.Time `gorm:"column:dob;type:date"           json:"dob,omitempty"`
	Gender           string     `gorm:"type:varchar(10);not null"      json:"gender"`
	Aadhaar          string     `gorm:"type:varchar(12);not null"      json:"aadhaar"`
	Phone            string     `gorm:"type:varchar(20);not null"      json:"phone"`
	AltPhone         string     `gorm:"type:varchar(20);not null"      json:"alt_phone"`
	Email            string     `gorm:"type:varchar(100);not null"     json:"email"`
	Address          string     `gorm:"type:varchar(500);not null"     json:"address"`
	EmployeeID       string     `gorm:"type:varchar(50);not null"      json:"employee_id"`
	Subject          string     `gorm:"type:varchar(100);not null"     json:"subject"`
	Qualification    string     `gorm:"type:varchar(200);not null"     json:"qualification"`
	Designation      string     `gorm:"type:varchar(100);not null"     json:"designation"`
	Department       string     `gorm:"type:varchar(100);not null"     json:"department"`
	JoiningDate      *time.Time `gorm:"type:date"                      json:"joining_date,omitempty"`
	Salary           *float64   `gorm:"type:numeric(12,2)"             json:"salary,omitempty"`
	ClassAssignment  string     `gorm:"type:varchar(100);not null"     json:"class_assignment"`
	Experience       string     `gorm:"type:varchar(100);not null"     json:"experience"`
	HealthInfo       string     `gorm:"type:varchar(500);not null"     json:"health_info"`
	EmergencyContact string     `gorm:"type:varchar(100);not null"     json:"emergency_contact"`
	BaseModel
}

// TableName 指定表名
func (Teacher) TableName() string { return "teachers" }
