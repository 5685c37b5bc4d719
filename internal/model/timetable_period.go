package model

// TimetablePeriod 课表节次，对应 timetable_periods
type TimetablePeriod struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"  json:"id"`
	ClassID   int64  `gorm:"not null;index"            json:"class_id"`
	Day       string `gorm:"type:varchar(10);not null" json:"day"` // Monday..Saturday
	StartTime string `gorm:"type:time;not null"        json:"start_time"`
	EndTime   string `gorm:"type:time;not null"        json:"end_time"`
	SubjectID *int64 `gorm:""                          json:"subject_id,omitempty"`
	TeacherID *int64 `gorm:""                          json:"teacher_id,omitempty"`
	BaseModel

	// 关联
	Class   *Class   `gorm:"foreignKey:ClassID"   json:"class,omitempty"`
	Subject *Subject `gorm:"foreignKey:SubjectID" json:"subject,omitempty"`
	Teacher *Teacher `gorm:"foreignKey:TeacherID" json:"teacher,omitempty"`
}

// TableName 指定表名
func (TimetablePeriod) TableName() string { return "timetable_periods" }
