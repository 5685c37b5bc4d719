package dto

// ── 学生模块 DTO ──

// CreateStudentRequest 创建学生请求（multipart 表单，photo 为可选文件）
type CreateStudentRequest struct {
	UID              string `form:"uid"               json:"uid"               binding:"required,uid12"`
	Name             string `form:"name"              json:"name"              binding:"required,max=100"`
	Gender           string `form:"gender"            json:"gender"            binding:"required,oneof=Male Female Other"`
	DOB              string `form:"dob"               json:"dob"               binding:"required,datetime=2006-01-02"`
	Address          string `form:"address"           json:"address"           binding:"required,max=500"`
	ClassName        string `form:"class_name"        json:"class_name"        binding:"required,max=50"`
	Section          string `form:"section"           json:"section"           binding:"required,max=10"`
	Roll             string `form:"roll"              json:"roll"              binding:"omitempty,max=10"`
	Father           string `form:"father"            json:"father"            binding:"omitempty,max=100"`
	Mother           string `form:"mother"            json:"mother"            binding:"omitempty,max=100"`
	Phone            string `form:"phone"             json:"phone"             binding:"omitempty,max=20"`
	Email            string `form:"email"             json:"email"             binding:"omitempty,email,max=100"`
	BloodGroup       string `form:"blood_group"       json:"blood_group"       binding:"omitempty,oneof=A+ A- B+ B- O+ O- AB+ AB-"`
	EmergencyContact string `form:"emergency_contact" json:"emergency_contact" binding:"omitempty,max=100"`
	HealthInfo       string `form:"health_info"       json:"health_info"       binding:"omitempty,max=500"`
	Caste            string `form:"caste"             json:"caste"             binding:"omitempty,max=20"`
	Religion         string `form:"religion"          json:"religion"          binding:"omitempty,max=50"`
	MotherTongue     string `form:"mother_tongue"     json:"mother_tongue"     binding:"omitempty,max=50"`
	Hobbies          string `form:"hobbies"           json:"hobbies"           binding:"omitempty,max=200"`
}

// UpdateStudentRequest 更新学生请求，只有出现的字段会被更新
// 入学编号不可修改
type UpdateStudentRequest struct {
	UID              *string `form:"uid"               json:"uid"               binding:"omitempty,uid12"`
	Name             *string `form:"name"              json:"name"              binding:"omitempty,min=1,max=100"`
	Gender           *string `form:"gender"            json:"gender"            binding:"omitempty,oneof=Male Female Other"`
	DOB              *string `form:"dob"               json:"dob"               binding:"omitempty,datetime=2006-01-02"`
	Address          *string `form:"address"           json:"address"           binding:"omitempty,min=1,max=500"`
	ClassName        *string `form:"class_name"        json:"class_name"        binding:"omitempty,min=1,max=50"`
	Section          *string `form:"section"           json:"section"           binding:"omitempty,min=1,max=10"`
	Roll             *string `form:"roll"              json:"roll"              binding:"omitempty,max=10"`
	Father           *string `form:"father"            json:"father"            binding:"omitempty,max=100"`
	Mother           *string `form:"mother"            json:"mother"            binding:"omitempty,max=100"`
	Phone            *string `form:"phone"             json:"phone"             binding:"omitempty,max=20"`
	Email            *string `form:"email"             json:"email"             binding:"omitempty,email,max=100"`
	BloodGroup       *string `form:"blood_group"       json:"blood_group"       binding:"omitempty,oneof=A+ A- B+ B- O+ O- AB+ AB-"`
	EmergencyContact *string `form:"emergency_contact" json:"emergency_contact" binding:"omitempty,max=100"`
	HealthInfo       *string `form:"health_info"       json:"health_info"       binding:"omitempty,max=500"`
	Caste            *string `form:"caste"             json:"caste"             binding:"omitempty,max=20"`
	Religion         *string `form:"religion"          json:"religion"          binding:"omitempty,max=50"`
	MotherTongue     *string `form:"mother_tongue"     json:"mother_tongue"     binding:"omitempty,max=50"`
	Hobbies          *string `form:"hobbies"           json:"hobbies"           binding:"omitempty,max=200"`
}

// StudentListRequest 学生列表查询参数
type StudentListRequest struct {
	ClassName string `form:"className"`
	Section   string `form:"section"`
}

// StudentResponse 学生信息响应
type StudentResponse struct {
	ID               int64  `json:"id"`
	UID              string `json:"uid"`
	AdmissionNo      string `json:"admission_no"`
	Name             string `json:"name"`
	Gender           string `json:"gender"`
	DOB              string `json:"dob,omitempty"`
	Address          string `json:"address"`
	ClassID          int64  `json:"class_id"`
	ClassName        string `json:"class_name"`
	Section          string `json:"section"`
	Roll             string `json:"roll"`
	Father           string `json:"father"`
	Mother           string `json:"mother"`
	Phone            string `json:"phone"`
	Email            string `json:"email"`
	BloodGroup       string `json:"blood_group"`
	EmergencyContact string `json:"emergency_contact"`
	HealthInfo       string `json:"health_info"`
	Caste            string `json:"caste"`
	Religion         string `json:"religion"`
	MotherTongue     string `json:"mother_tongue"`
	Hobbies          string `json:"hobbies"`
	Photo            string `json:"photo,omitempty"`
	PhotoURL         string `json:"photo_url,omitempty"`
	CreatedAt        string `json:"created_at"`
}

// CreateStudentResponse 创建学生响应
type CreateStudentResponse struct {
	Success     bool   `json:"success"`
	ID          int64  `json:"id"`
	AdmissionNo string `json:"admission_no"`
}

// CheckUIDResponse 身份号码查重响应
type CheckUIDResponse struct {
	Exists bool `json:"exists"`
}

// CheckUIDRequest 身份号码查重参数，路径 /check/:uid 与查询串 ?uid= 两种形式
type CheckUIDRequest struct {
	UID string `uri:"uid" form:"uid" binding:"required,uid12"`
}
