package model

// 动态列支持的数据类型
const (
	DataTypeString  = "string"
	DataTypeInteger = "integer"
	DataTypeDate    = "date"
	DataTypeBoolean = "boolean"
)

// ValidDataType 校验数据类型是否为四种枚举之一
func ValidDataType(t string) bool {
	switch t {
	case DataTypeString, DataTypeInteger, DataTypeDate, DataTypeBoolean:
		return true
	}
	return false
}

// DynamicColumn 管理员自定义的项目扩展列。停用只隐藏新值录入，不影响历史值
type DynamicColumn struct {
	Model
	Name     string `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	DataType string `gorm:"type:varchar(20);not null" json:"data_type"`
	IsActive bool   `gorm:"default:true;not null" json:"is_active"`
}
