package project

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"contract-tracking-system/internal/global/database"
	"contract-tracking-system/internal/global/jwt"
	"contract-tracking-system/internal/global/response"
	"contract-tracking-system/internal/global/sentry/tracing"
	"contract-tracking-system/internal/model"
	"contract-tracking-system/tools"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// 导入必需的表头
var requiredImportColumns = []string{"合同项目", "签订日期", "合同编号", "甲方", "乙方"}

// 导出的 15 列固定表头
var exportHeaders = []string{
	"合同项目", "签订日期", "合同编号", "合同进度", "甲方", "乙方", "丙方",
	"项目金额", "发票开具情况", "收款情况", "供货情况", "验收情况",
	"维保时间", "商务人员", "项目负责人",
}

// maxReportedErrors 响应里只带前 5 条错误，完整清单进日志
const maxReportedErrors = 5

// parseLooseDate 宽松解析导入单元格里的日期
func parseLooseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{
		model.DateLayout,
		"2006/01/02",
		"2006-01-02 15:04:05",
		"01-02-06", // excelize 对日期格单元格的默认短日期渲染
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("无法解析日期 %q", s)
}

// convertImportRows 逐行转换与校验导入数据。exists 回答编号在存量项目中
// 是否已占用，批内重复在本函数内去重。展示行号为数据行序号+2（表头占第 1 行）。
// 单行失败只记错误继续，不中断整批
func convertImportRows(rows []map[string]string, exists func(number string) (bool, error)) (pending []model.Project, rowErrors []string, err error) {
	seen := make(map[string]bool)

	for i, row := range rows {
		displayRow := i + 2

		number := strings.TrimSpace(row["合同编号"])
		if number == "" {
			rowErrors = append(rowErrors, fmt.Sprintf("第%d行: 合同编号不能为空", displayRow))
			continue
		}

		taken, err := exists(number)
		if err != nil {
			return nil, nil, err
		}
		if taken || seen[number] {
			rowErrors = append(rowErrors, fmt.Sprintf("第%d行: 合同编号 %s 已存在", displayRow, number))
			continue
		}

		signDate, err := parseLooseDate(row["签订日期"])
		if err != nil {
			rowErrors = append(rowErrors, fmt.Sprintf("第%d行: %s", displayRow, err))
			continue
		}
		maintenanceTime, err := parseLooseDate(row["维保时间"])
		if err != nil {
			rowErrors = append(rowErrors, fmt.Sprintf("第%d行: %s", displayRow, err))
			continue
		}

		amount := 0.0
		if s := strings.TrimSpace(row["项目金额"]); s != "" {
			amount, err = strconv.ParseFloat(s, 64)
			if err != nil {
				rowErrors = append(rowErrors, fmt.Sprintf("第%d行: 项目金额 %q 不是数字", displayRow, s))
				continue
			}
			if amount < 0 {
				rowErrors = append(rowErrors, fmt.Sprintf("第%d行: 项目金额不能为负数", displayRow))
				continue
			}
		}

		seen[number] = true
		pending = append(pending, model.Project{
			ContractName:     strings.TrimSpace(row["合同项目"]),
			SignDate:         signDate,
			ContractNumber:   number,
			ContractProgress: orDefault(row["合同进度"], model.DefaultContractProgress),
			PartyA:           strings.TrimSpace(row["甲方"]),
			PartyB:           strings.TrimSpace(row["乙方"]),
			PartyC:           strings.TrimSpace(row["丙方"]),
			ProjectAmount:    amount,
			InvoiceStatus:    orDefault(row["发票开具情况"], model.DefaultInvoiceStatus),
			PaymentStatus:    orDefault(row["收款情况"], model.DefaultPaymentStatus),
			SupplyStatus:     orDefault(row["供货情况"], model.DefaultSupplyStatus),
			AcceptanceStatus: orDefault(row["验收情况"], model.DefaultAcceptanceStatus),
			MaintenanceTime:  maintenanceTime,
			BusinessPerson:   strings.TrimSpace(row["商务人员"]),
			ProjectManager:   strings.TrimSpace(row["项目负责人"]),
		})
	}
	return pending, rowErrors, nil
}

// ImportExcel 批量导入项目。逐行尽力处理：重复编号与转换失败的行
// 跳过并记录，不影响其他行；全部扫描完后成功子集在一个事务内落库
func ImportExcel(c *gin.Context) {
	payload, exists := jwt.GetUserPayload(c)
	if !exists {
		response.Fail(c, response.ErrUnauthorized)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithTips("请选择文件"))
		return
	}
	lower := strings.ToLower(fileHeader.Filename)
	if !strings.HasSuffix(lower, ".xlsx") && !strings.HasSuffix(lower, ".xls") {
		response.Fail(c, response.ErrInvalidRequest.WithTips("请上传Excel文件 (.xlsx 或 .xls)"))
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		log.Error("读取上传文件失败", "error", err)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	defer src.Close()

	f, err := excelize.OpenReader(src)
	if err != nil {
		log.Error("解析Excel失败", "error", err)
		response.Fail(c, response.ErrInvalidRequest.WithTips("Excel文件解析失败").WithOrigin(err))
		return
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		response.Fail(c, response.ErrInvalidRequest.WithTips("Excel文件没有工作表"))
		return
	}

	headers, rows, err := tools.SheetToMaps(f, sheets[0])
	if err != nil {
		log.Error("读取工作表失败", "error", err)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	headerSet := make(map[string]bool, len(headers))
	for _, h := range headers {
		headerSet[strings.TrimSpace(h)] = true
	}
	var missing []string
	for _, col := range requiredImportColumns {
		if !headerSet[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		response.Fail(c, response.ErrInvalidRequest.WithTips(
			"Excel文件缺少必需列: "+strings.Join(missing, ", ")))
		return
	}

	pending, rowErrors, err := convertImportRows(rows, func(number string) (bool, error) {
		return contractNumberTaken(number, 0)
	})
	if err != nil {
		log.Error("数据库查询失败", "error", err)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	for i := range pending {
		pending[i].CreatedBy = payload.UserID
	}

	// 成功子集整体提交，任一行写库失败全部回滚
	if len(pending) > 0 {
		if tracing.IsEnabled() {
			span := tracing.StartSpan(c, "excel.import", fileHeader.Filename)
			defer span.Finish()
		}
		err = database.DB.WithContext(tracing.ContextWithSpan(c)).Transaction(func(tx *gorm.DB) error {
			for i := range pending {
				if err := tx.Create(&pending[i]).Error; err != nil {
					return err
				}
				steps := model.SeedSteps(pending[i].ID, payload.UserID)
				if err := tx.Create(&steps).Error; err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			log.Error("导入写库失败", "error", err)
			response.Fail(c, response.ErrDatabase.WithOrigin(err))
			return
		}
	}

	// 完整错误清单只进日志
	for _, e := range rowErrors {
		log.Warn("导入行跳过", "detail", e)
	}
	log.Info("Excel导入完成",
		"success_count", len(pending),
		"error_count", len(rowErrors),
		"imported_by", payload.UserID)

	reported := rowErrors
	if len(reported) > maxReportedErrors {
		reported = reported[:maxReportedErrors]
	}

	response.Success(c, map[string]interface{}{
		"success_count": len(pending),
		"error_count":   len(rowErrors),
		"errors":        reported,
	})
}

// exportRow 导出行，列头取自 excel tag
type exportRow struct {
	ContractName     string  `excel:"合同项目"`
	SignDate         string  `excel:"签订日期"`
	ContractNumber   string  `excel:"合同编号"`
	ContractProgress string  `excel:"合同进度"`
	PartyA           string  `excel:"甲方"`
	PartyB           string  `excel:"乙方"`
	PartyC           string  `excel:"丙方"`
	ProjectAmount    float64 `excel:"项目金额"`
	InvoiceStatus    string  `excel:"发票开具情况"`
	PaymentStatus    string  `excel:"收款情况"`
	SupplyStatus     string  `excel:"供货情况"`
	AcceptanceStatus string  `excel:"验收情况"`
	MaintenanceTime  string  `excel:"维保时间"`
	BusinessPerson   string  `excel:"商务人员"`
	ProjectManager   string  `excel:"项目负责人"`
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(model.DateLayout)
}

// ExportExcel 导出全部项目为 15 列固定表头的 Excel，
// 按创建时间倒序，日期格式 YYYY-MM-DD，空值输出空字符串
func ExportExcel(c *gin.Context) {
	var projects []model.Project
	if err := database.DB.WithContext(tracing.ContextWithSpan(c)).
		Order("created_at DESC").Find(&projects).Error; err != nil {
		log.Error("查询项目失败", "error", err)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	rows := make([]exportRow, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, exportRow{
			ContractName:     p.ContractName,
			SignDate:         formatDate(p.SignDate),
			ContractNumber:   p.ContractNumber,
			ContractProgress: p.ContractProgress,
			PartyA:           p.PartyA,
			PartyB:           p.PartyB,
			PartyC:           p.PartyC,
			ProjectAmount:    p.ProjectAmount,
			InvoiceStatus:    p.InvoiceStatus,
			PaymentStatus:    p.PaymentStatus,
			SupplyStatus:     p.SupplyStatus,
			AcceptanceStatus: p.AcceptanceStatus,
			MaintenanceTime:  formatDate(p.MaintenanceTime),
			BusinessPerson:   p.BusinessPerson,
			ProjectManager:   p.ProjectManager,
		})
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"
	if len(rows) > 0 {
		if err := tools.ExportToExcel(f, sheet, rows); err != nil {
			log.Error("生成Excel失败", "error", err)
			response.Fail(c, response.ErrInternal.WithOrigin(err))
			return
		}
	} else {
		// 空数据集也要带表头
		for i, h := range exportHeaders {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			if err := f.SetCellValue(sheet, cell, h); err != nil {
				log.Error("生成Excel失败", "error", err)
				response.Fail(c, response.ErrInternal.WithOrigin(err))
				return
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		log.Error("序列化Excel失败", "error", err)
		response.Fail(c, response.ErrInternal.WithOrigin(err))
		return
	}

	filename := fmt.Sprintf("项目数据_%s.xlsx", time.Now().Format("20060102_150405"))
	log.Info("Excel导出完成", "count", len(rows), "filename", filename)
	tools.SendAttachment(c, buf.Bytes(), filename, tools.ExcelContentType)
}
