package model

// Subject 科目表，对应 subjects
type Subject struct {
	ID      int64  `gorm:"primaryKey;autoIncrement"              json:"id"`
	Name    string `gorm:"type:varchar(100);not null"            json:"name"`
	Code    string `gorm:"type:varchar(30);not null;default:''"  json:"code"`
	ClassID int64  `gorm:"not null;index"                        json:"class_id"`
	Teacher string `gorm:"type:varchar(100);not null;default:''" json:"teacher"`
	BaseModel

	// 关联
	Class *Class `gorm:"foreignKey:ClassID" json:"class,omitempty"`
}

// TableName 指定表名
func (Subject) TableName() string { return "subjects" }
