package model

// School 学校信息表，对应 schools（单例，业务上只使用第一行）
type School struct {
	ID        int64   `gorm:"primaryKey;autoIncrement"    json:"id"`
	Name      string  `gorm:"type:varchar(200);not null"  json:"name"`
	Address   string  `gorm:"type:varchar(500);not null"  json:"address"`
	Phone     string  `gorm:"type:varchar(30);not null"   json:"phone"`
	Email     string  `gorm:"type:varchar(100);not null"  json:"email"`
	Principal string  `gorm:"type:varchar(100);not null"  json:"principal"`
	Logo      *string `gorm:"type:varchar(255)"           json:"logo,omitempty"`
	BaseModel
}

// TableName 指定表名
func (School) TableName() string { return "schools" }
