package tools

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type excelRow struct {
	Name   string  `excel:"合同项目"`
	Number string  `excel:"合同编号"`
	Amount float64 `excel:"项目金额"`
}

func TestExportToExcelRoundtrip(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	rows := []excelRow{
		{Name: "机房改造", Number: "HT-2026-001", Amount: 120000},
		{Name: "网络升级", Number: "HT-2026-002", Amount: 58000.5},
	}
	require.NoError(t, ExportToExcel(f, "Sheet1", rows))

	headers, parsed, err := SheetToMaps(f, "Sheet1")
	require.NoError(t, err)
	require.Equal(t, []string{"合同项目", "合同编号", "项目金额"}, headers)
	require.Len(t, parsed, 2)
	require.Equal(t, "机房改造", parsed[0]["合同项目"])
	require.Equal(t, "HT-2026-002", parsed[1]["合同编号"])
	require.Equal(t, "58000.5", parsed[1]["项目金额"])
}

func TestSheetToMapsPadsShortRows(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetCellValue("Sheet1", "A1", "合同项目"))
	require.NoError(t, f.SetCellValue("Sheet1", "B1", "合同编号"))
	require.NoError(t, f.SetCellValue("Sheet1", "C1", "甲方"))
	// 第二行只填了第一列
	require.NoError(t, f.SetCellValue("Sheet1", "A2", "短行项目"))

	_, rows, err := SheetToMaps(f, "Sheet1")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "短行项目", rows[0]["合同项目"])
	require.Equal(t, "", rows[0]["合同编号"])
	require.Equal(t, "", rows[0]["甲方"])
}

func TestSheetToMapsEmptySheet(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	headers, rows, err := SheetToMaps(f, "Sheet1")
	require.NoError(t, err)
	require.Empty(t, headers)
	require.Empty(t, rows)
}
