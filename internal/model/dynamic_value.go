package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout 动态日期值与导入导出统一使用的日期格式
const DateLayout = "2006-01-02"

// ProjectDynamicValue 项目的动态列取值。四个类型槽并存，
// 只有与所属列当前 data_type 匹配的槽有意义。列被改类型后，
// 旧槽中的历史值成为孤儿数据，读不到也不清理（已知限制）。
type ProjectDynamicValue struct {
	Model
	ProjectID uint `gorm:"index;not null;uniqueIndex:idx_value_project_column,priority:1" json:"project_id"`
	ColumnID  uint `gorm:"not null;uniqueIndex:idx_value_project_column,priority:2" json:"column_id"`

	ValueString  *string    `gorm:"type:varchar(500)" json:"value_string,omitempty"`
	ValueInteger *int64     `json:"value_integer,omitempty"`
	ValueDate    *time.Time `gorm:"type:date" json:"value_date,omitempty"`
	ValueBoolean *bool      `json:"value_boolean,omitempty"`

	Column DynamicColumn `gorm:"foreignKey:ColumnID" json:"column,omitempty"`
}

// Value 按所属列的当前 data_type 读取对应槽，需先 Preload("Column")
func (v *ProjectDynamicValue) Value() interface{} {
	switch v.Column.DataType {
	case DataTypeString:
		if v.ValueString != nil {
			return *v.ValueString
		}
	case DataTypeInteger:
		if v.ValueInteger != nil {
			return *v.ValueInteger
		}
	case DataTypeDate:
		if v.ValueDate != nil {
			return v.ValueDate.Format(DateLayout)
		}
	case DataTypeBoolean:
		if v.ValueBoolean != nil {
			return *v.ValueBoolean
		}
	}
	return nil
}

// SetValue 按 dataType 写入对应槽，其余槽清空。
// 尽力强转：字符串化 / 整数解析 / 真值解释 / 日期解析；
// 转不动就存 null，动态列属于非关键字段，从不报错。
func (v *ProjectDynamicValue) SetValue(dataType string, raw interface{}) {
	v.ValueString = nil
	v.ValueInteger = nil
	v.ValueDate = nil
	v.ValueBoolean = nil

	if raw == nil {
		return
	}

	switch dataType {
	case DataTypeString:
		s := stringify(raw)
		v.ValueString = &s
	case DataTypeInteger:
		if n, ok := toInt64(raw); ok {
			v.ValueInteger = &n
		}
	case DataTypeDate:
		if t, ok := toDate(raw); ok {
			v.ValueDate = &t
		}
	case DataTypeBoolean:
		b := truthy(raw)
		v.ValueBoolean = &b
	}
}

func stringify(raw interface{}) string {
	if s, ok := raw.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", raw)
}

func toInt64(raw interface{}) (int64, bool) {
	switch n := raw.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		return int64(n), true
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i, true
		}
		// "12.0" 这类带小数点的整数也接受
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return int64(f), true
		}
	}
	return 0, false
}

func toDate(raw interface{}) (time.Time, bool) {
	switch d := raw.(type) {
	case time.Time:
		return d, true
	case string:
		s := strings.TrimSpace(d)
		if s == "" {
			return time.Time{}, false
		}
		if t, err := time.Parse(DateLayout, s); err == nil {
			return t, true
		}
		if t, err := time.Parse("2006/01/02", s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func truthy(raw interface{}) bool {
	switch b := raw.(type) {
	case bool:
		return b
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "", "0", "false", "no", "否":
			return false
		}
		return true
	case int:
		return b != 0
	case int64:
		return b != 0
	case float64:
		return b != 0
	}
	return true
}
