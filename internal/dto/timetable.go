package dto

// ── 课表模块 DTO ──

// CreatePeriodRequest 新增节次请求
type CreatePeriodRequest struct {
	ClassName string `json:"class_name" binding:"required,max=50"`
	Section   string `json:"section"    binding:"required,max=10"`
	Day       string `json:"day"        binding:"required,weekday"`
	StartTime string `json:"start_time" binding:"required,clock"`
	EndTime   string `json:"end_time"   binding:"required,clock"`
	SubjectID *int64 `json:"subject_id" binding:"omitempty,min=1"`
	TeacherID *int64 `json:"teacher_id" binding:"omitempty,min=1"`
}

// UpdatePeriodRequest 更新节次请求
// subject_id / teacher_id 传 0 表示清除关联
type UpdatePeriodRequest struct {
	Day       *string `json:"day"        binding:"omitempty,weekday"`
	StartTime *string `json:"start_time" binding:"omitempty,clock"`
	EndTime   *string `json:"end_time"   binding:"omitempty,clock"`
	SubjectID *int64  `json:"subject_id" binding:"omitempty,min=0"`
	TeacherID *int64  `json:"teacher_id" binding:"omitempty,min=0"`
}

// TimetableExportRequest 课表导出参数
type TimetableExportRequest struct {
	Format string `form:"format" binding:"omitempty,oneof=xlsx ics"`
	From   string `form:"from"   binding:"omitempty,datetime=2006-01-02"` // ICS 起始周，默认本周
}

// PeriodResponse 节次响应
type PeriodResponse struct {
	ID          int64  `json:"id"`
	ClassID     int64  `json:"class_id"`
	ClassName   string `json:"class_name"`
	Section     string `json:"section"`
	Day         string `json:"day"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	TimeLabel   string `json:"time_label"` // 12 小时制，如 9:00 AM - 9:45 AM
	SubjectID   *int64 `json:"subject_id,omitempty"`
	SubjectName string `json:"subject_name,omitempty"`
	TeacherID   *int64 `json:"teacher_id,omitempty"`
	TeacherName string `json:"teacher_name,omitempty"`
}
