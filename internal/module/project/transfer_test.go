package project

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseLooseDate(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantNil bool
		wantErr bool
	}{
		{"标准格式", "2026-03-15", "2026-03-15", false, false},
		{"斜杠格式", "2026/03/15", "2026-03-15", false, false},
		{"带时间", "2026-03-15 10:30:00", "2026-03-15", false, false},
		{"空白视为无值", "   ", "", true, false},
		{"空串视为无值", "", "", true, false},
		{"解析不了报错", "三月十五", "", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseLooseDate(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.wantNil {
				require.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			require.Equal(t, tt.want, got.Format("2006-01-02"))
		})
	}
}

func TestConvertImportRows(t *testing.T) {
	rows := []map[string]string{
		{"合同项目": "机房改造", "签订日期": "2026-01-10", "合同编号": "HT-001", "甲方": "甲", "乙方": "乙", "项目金额": "120000"},
		{"合同项目": "网络升级", "签订日期": "2026-02-01", "合同编号": "HT-002", "甲方": "甲", "乙方": "乙"},
		{"合同项目": "重复导入", "签订日期": "2026-03-01", "合同编号": "HT-001", "甲方": "甲", "乙方": "乙"},
	}
	pending, rowErrors, err := convertImportRows(rows, func(string) (bool, error) {
		return false, nil
	})
	require.NoError(t, err)

	// 三行中一行编号重复：成功 2、失败 1
	require.Len(t, pending, 2)
	require.Len(t, rowErrors, 1)
	// 数据行序号+2 为展示行号，表头占第 1 行
	require.Contains(t, rowErrors[0], "第4行")
	require.Contains(t, rowErrors[0], "HT-001")

	require.Equal(t, "HT-001", pending[0].ContractNumber)
	require.Equal(t, float64(120000), pending[0].ProjectAmount)
	require.Equal(t, "未开始", pending[1].ContractProgress)
}

func TestConvertImportRowsRowErrors(t *testing.T) {
	rows := []map[string]string{
		{"合同项目": "缺编号", "签订日期": "2026-01-10", "合同编号": "", "甲方": "甲", "乙方": "乙"},
		{"合同项目": "坏日期", "签订日期": "三月十五", "合同编号": "HT-010", "甲方": "甲", "乙方": "乙"},
		{"合同项目": "坏金额", "签订日期": "2026-01-10", "合同编号": "HT-011", "甲方": "甲", "乙方": "乙", "项目金额": "-5"},
		{"合同项目": "存量占用", "签订日期": "2026-01-10", "合同编号": "HT-012", "甲方": "甲", "乙方": "乙"},
	}
	pending, rowErrors, err := convertImportRows(rows, func(number string) (bool, error) {
		return number == "HT-012", nil
	})
	require.NoError(t, err)
	require.Empty(t, pending)
	require.Len(t, rowErrors, 4)
	for i, want := range []string{"第2行", "第3行", "第4行", "第5行"} {
		require.Contains(t, rowErrors[i], want)
	}
}

func TestFormatDate(t *testing.T) {
	require.Equal(t, "", formatDate(nil))
	d := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	require.Equal(t, "2026-09-01", formatDate(&d))
}
