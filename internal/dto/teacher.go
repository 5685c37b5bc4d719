package dto

// ── 教师模块 DTO ──

// CreateTeacherRequest 创建教师请求
type CreateTeacherRequest struct {
	Name             string   `json:"name"              binding:"required,max=100"`
	DOB              string   `json:"dob"               binding:"omitempty,datetime=2006-01-02"`
	Gender           string   `json:"gender"            binding:"omitempty,oneof=Male Female Other"`
	Aadhaar          string   `json:"aadhaar"           binding:"omitempty,uid12"`
	Phone            string   `json:"phone"             binding:"omitempty,max=20"`
	AltPhone         string   `json:"alt_phone"         binding:"omitempty,max=20"`
	Email            string   `json:"email"             binding:"omitempty,email,max=100"`
	Address          string   `json:"address"           binding:"omitempty,max=500"`
	EmployeeID       string   `json:"employee_id"       binding:"omitempty,max=50"`
	Subject          string   `json:"subject"           binding:"omitempty,max=100"`
	Qualification    string   `json:"qualification"     binding:"omitempty,max=200"`
	Designation      string   `json:"designation"       binding:"omitempty,max=100"`
	Department       string   `json:"department"        binding:"omitempty,max=100"`
	JoiningDate      string   `json:"joining_date"      binding:"omitempty,datetime=2006-01-02"`
	Salary           *float64 `json:"salary"            binding:"omitempty,min=0"`
	ClassAssignment  string   `json:"class_assignment"  binding:"omitempty,max=100"`
	Experience       string   `json:"experience"        binding:"omitempty,max=100"`
	HealthInfo       string   `json:"health_info"       binding:"omitempty,max=500"`
	EmergencyContact string   `json:"emergency_contact" binding:"omitempty,max=100"`
}

// UpdateTeacherRequest 更新教师请求，只有出现的字段会被更新
type UpdateTeacherRequest struct {
	Name             *string  `json:"name"              binding:"omitempty,min=1,max=100"`
	DOB              *string  `json:"dob"               binding:"omitempty,datetime=2006-01-02"`
	Gender           *string  `json:"gender"            binding:"omitempty,oneof=Male Female Other"`
	Aadhaar          *string  `json:"aadhaar"           binding:"omitempty,uid12"`
	Phone            *string  `json:"phone"             binding:"omitempty,max=20"`
	AltPhone         *string  `json:"alt_phone"         binding:"omitempty,max=20"`
	Email            *string  `json:"email"             binding:"omitempty,email,max=100"`
	Address          *string  `json:"address"           binding:"omitempty,max=500"`
	EmployeeID       *string  `json:"employee_id"       binding:"omitempty,max=50"`
	Subject          *string  `json:"subject"           binding:"omitempty,max=100"`
	Qualification    *string  `json:"qualification"     binding:"omitempty,max=200"`
	Designation      *string  `json:"designation"       binding:"omitempty,max=100"`
	Department       *string  `json:"department"        binding:"omitempty,max=100"`
	JoiningDate      *string  `json:"joining_date"      binding:"omitempty,datetime=2006-01-02"`
	Salary           *float64 `json:"salary"            binding:"omitempty,min=0"`
	ClassAssignment  *string  `json:"class_assignment"  binding:"omitempty,max=100"`
	Experience       *string  `json:"experience"        binding:"omitempty,max=100"`
	HealthInfo       *string  `json:"health_info"       binding:"omitempty,max=500"`
	EmergencyContact *string  `json:"emergency_contact" binding:"omitempty,max=100"`
}

// TeacherResponse 教师信息响应
type TeacherResponse struct {
	ID               int64    `json:"id"`
	Name             string   `json:"name"`
	DOB              string   `json:"dob,omitempty"`
	Gender           string   `json:"gender"`
	Aadhaar          string   `json:"aadhaar"`
	Phone            string   `json:"phone"`
	AltPhone         string   `json:"alt_phone"`
	Email            string   `json:"email"`
	Address          string   `json:"address"`
	EmployeeID       string   `json:"employee_id"`
	Subject          string   `json:"subject"`
	Qualification    string   `json:"qualification"`
	Designation      string   `json:"designation"`
	Department       string   `json:"department"`
	JoiningDate      string   `json:"joining_date,omitempty"`
	Salary           *float64 `json:"salary,omitempty"`
	ClassAssignment  string   `json:"class_assignment"`
	Experience       string   `json:"experience"`
	HealthInfo       string   `json:"health_info"`
	EmergencyContact string   `json:"emergency_contact"`
	CreatedAt        string   `json:"created_at"`
}
