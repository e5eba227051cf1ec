package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSetValueString(t *testing.T) {
	var v ProjectDynamicValue
	v.SetValue(DataTypeString, "华东区机房改造")
	require.NotNil(t, v.ValueString)
	require.Equal(t, "华东区机房改造", *v.ValueString)
	require.Nil(t, v.ValueInteger)
	require.Nil(t, v.ValueDate)
	require.Nil(t, v.ValueBoolean)

	// 非字符串输入也字符串化
	v.SetValue(DataTypeString, 42)
	require.Equal(t, "42", *v.ValueString)
}

func TestSetValueInteger(t *testing.T) {
	tests := []struct {
		name string
		raw  interface{}
		want *int64
	}{
		{"整数字符串", "12", int64Ptr(12)},
		{"带小数点的整数", "12.0", int64Ptr(12)},
		{"json数字", float64(7), int64Ptr(7)},
		{"负数", "-3", int64Ptr(-3)},
		{"非数字存null", "abc", nil},
		{"空串存null", "  ", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v ProjectDynamicValue
			v.SetValue(DataTypeInteger, tt.raw)
			require.Equal(t, tt.want, v.ValueInteger)
		})
	}
}

func TestSetValueDate(t *testing.T) {
	var v ProjectDynamicValue
	v.SetValue(DataTypeDate, "2026-03-15")
	require.NotNil(t, v.ValueDate)
	require.Equal(t, "2026-03-15", v.ValueDate.Format(DateLayout))

	v.SetValue(DataTypeDate, "2026/03/15")
	require.NotNil(t, v.ValueDate)
	require.Equal(t, "2026-03-15", v.ValueDate.Format(DateLayout))

	v.SetValue(DataTypeDate, "不是日期")
	require.Nil(t, v.ValueDate)
}

func TestSetValueBoolean(t *testing.T) {
	falsy := []interface{}{false, "", "0", "false", "no", "否", 0}
	for _, raw := range falsy {
		var v ProjectDynamicValue
		v.SetValue(DataTypeBoolean, raw)
		require.NotNil(t, v.ValueBoolean)
		require.False(t, *v.ValueBoolean, "raw=%v", raw)
	}

	truthyValues := []interface{}{true, "1", "yes", "是", 3}
	for _, raw := range truthyValues {
		var v ProjectDynamicValue
		v.SetValue(DataTypeBoolean, raw)
		require.NotNil(t, v.ValueBoolean)
		require.True(t, *v.ValueBoolean, "raw=%v", raw)
	}
}

func TestSetValueClearsOtherSlots(t *testing.T) {
	var v ProjectDynamicValue
	v.SetValue(DataTypeInteger, 5)
	require.NotNil(t, v.ValueInteger)

	v.SetValue(DataTypeString, "改成文本")
	require.Nil(t, v.ValueInteger)
	require.NotNil(t, v.ValueString)

	// nil 输入清空全部槽
	v.SetValue(DataTypeString, nil)
	require.Nil(t, v.ValueString)
}

func TestValueDispatchesOnColumnType(t *testing.T) {
	n := int64(99)
	d := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	v := ProjectDynamicValue{
		ValueInteger: &n,
		ValueDate:    &d,
		Column:       DynamicColumn{DataType: DataTypeInteger},
	}
	require.Equal(t, int64(99), v.Value())

	// 列被改成日期类型后，读的是日期槽，整数槽成为孤儿
	v.Column.DataType = DataTypeDate
	require.Equal(t, "2026-01-02", v.Value())

	// 改成没有存量值的类型时读到 nil
	v.Column.DataType = DataTypeBoolean
	require.Nil(t, v.Value())
}

func int64Ptr(n int64) *int64 { return &n }
