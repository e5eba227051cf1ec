package project

import (
	"strings"
	"time"

	"contract-tracking-system/internal/global/database"
	"contract-tracking-system/internal/global/jwt"
	"contract-tracking-system/internal/global/response"
	"contract-tracking-system/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// 列表页固定每页 20 条
const pageSize = 20

// ProjectCreateReq 定义创建项目请求的结构体
type ProjectCreateReq struct {
	ContractName     string  `json:"contract_name" binding:"required"`   // 合同项目名称
	SignDate         string  `json:"sign_date"`                          // 签订日期，YYYY-MM-DD
	ContractNumber   string  `json:"contract_number" binding:"required"` // 合同编号
	ContractProgress string  `json:"contract_progress"`                  // 合同进度
	PartyA           string  `json:"party_a" binding:"required"`         // 甲方
	PartyB           string  `json:"party_b" binding:"required"`         // 乙方
	PartyC           string  `json:"party_c"`                            // 丙方
	ProjectAmount    float64 `json:"project_amount"`                     // 项目金额
	InvoiceStatus    string  `json:"invoice_status"`                     // 发票开具情况
	PaymentStatus    string  `json:"payment_status"`                     // 收款情况
	SupplyStatus     string  `json:"supply_status"`                      // 供货情况
	AcceptanceStatus string  `json:"acceptance_status"`                  // 验收情况
	MaintenanceTime  string  `json:"maintenance_time"`                   // 维保时间，YYYY-MM-DD
	BusinessPerson   string  `json:"business_person"`                    // 商务人员
	ProjectManager   string  `json:"project_manager"`                    // 项目负责人
}

// parseDate 解析 YYYY-MM-DD 日期，空串返回 nil
func parseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(model.DateLayout, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// contractNumberTaken 检查合同编号在未删除项目内是否已占用，excludeID 为编辑时排除自身
func contractNumberTaken(number string, excludeID uint) (bool, error) {
	query := database.DB.Model(&model.Project{}).Where("contract_number = ?", number)
	if excludeID > 0 {
		query = query.Where("id != ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateProject 创建项目并在同一事务内播种 3 个固定步骤，
// 步骤写入失败则整体回滚
func CreateProject(c *gin.Context) {
	payload, exists := jwt.GetUserPayload(c)
	if !exists {
		response.Fail(c, response.ErrUnauthorized)
		return
	}

	var req ProjectCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("绑定创建项目请求失败", "error", err)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	if req.ProjectAmount < 0 {
		response.Fail(c, response.ErrInvalidRequest.WithTips("项目金额不能为负数"))
		return
	}

	signDate, err := parseDate(req.SignDate)
	if err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithTips("签订日期格式应为 YYYY-MM-DD"))
		return
	}
	maintenanceTime, err := parseDate(req.MaintenanceTime)
	if err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithTips("维保时间格式应为 YYYY-MM-DD"))
		return
	}

	taken, err := contractNumberTaken(req.ContractNumber, 0)
	if err != nil {
		log.Error("数据库查询失败", "error", err, "contract_number", req.ContractNumber)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	if taken {
		log.Warn("合同编号已存在", "contract_number", req.ContractNumber)
		response.Fail(c, response.ErrAlreadyExists.WithTips("合同编号 "+req.ContractNumber+" 已存在"))
		return
	}

	project := model.Project{
		ContractName:     req.ContractName,
		SignDate:         signDate,
		ContractNumber:   req.ContractNumber,
		ContractProgress: orDefault(req.ContractProgress, model.DefaultContractProgress),
		PartyA:           req.PartyA,
		PartyB:           req.PartyB,
		PartyC:           req.PartyC,
		ProjectAmount:    req.ProjectAmount,
		InvoiceStatus:    orDefault(req.InvoiceStatus, model.DefaultInvoiceStatus),
		PaymentStatus:    orDefault(req.PaymentStatus, model.DefaultPaymentStatus),
		SupplyStatus:     orDefault(req.SupplyStatus, model.DefaultSupplyStatus),
		AcceptanceStatus: orDefault(req.AcceptanceStatus, model.DefaultAcceptanceStatus),
		MaintenanceTime:  maintenanceTime,
		BusinessPerson:   req.BusinessPerson,
		ProjectManager:   req.ProjectManager,
		CreatedBy:        payload.UserID,
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&project).Error; err != nil {
			return err
		}
		steps := model.SeedSteps(project.ID, payload.UserID)
		return tx.Create(&steps).Error
	})
	if err != nil {
		log.Error("创建项目失败", "error", err, "contract_number", req.ContractNumber)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	log.Info("项目创建成功",
		"id", project.ID,
		"contract_number", project.ContractNumber,
		"created_by", payload.UserID)

	response.Success(c, project)
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

// ProjectUpdateReq 定义更新项目请求的结构体，指针字段支持部分更新
type ProjectUpdateReq struct {
	ContractName     *string  `json:"contract_name"`
	SignDate         *string  `json:"sign_date"`
	ContractNumber   *string  `json:"contract_number"`
	ContractProgress *string  `json:"contract_progress"`
	PartyA           *string  `json:"party_a"`
	PartyB           *string  `json:"party_b"`
	PartyC           *string  `json:"party_c"`
	ProjectAmount    *float64 `json:"project_amount"`
	InvoiceStatus    *string  `json:"invoice_status"`
	PaymentStatus    *string  `json:"payment_status"`
	SupplyStatus     *string  `json:"supply_status"`
	AcceptanceStatus *string  `json:"acceptance_status"`
	MaintenanceTime  *string  `json:"maintenance_time"`
	BusinessPerson   *string  `json:"business_person"`
	ProjectManager   *string  `json:"project_manager"`
}

// UpdateProject 更新项目。合同编号变更时先做排除自身的唯一性校验，
// 冲突则不落任何字段
func UpdateProject(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.Fail(c, response.ErrInvalidRequest.WithTips("项目ID不能为空"))
		return
	}

	var req ProjectUpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("绑定更新项目请求失败", "error", err, "id", id)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	var project model.Project
	if err := database.DB.First(&project, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn("项目不存在", "id", id)
			response.Fail(c, response.ErrNotFound.WithTips("项目不存在"))
			return
		}
		log.Error("查询项目失败", "error", err, "id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	// 校验放在任何字段变更之前
	if req.ContractNumber != nil && *req.ContractNumber != project.ContractNumber {
		taken, err := contractNumberTaken(*req.ContractNumber, project.ID)
		if err != nil {
			log.Error("数据库查询失败", "error", err, "contract_number", *req.ContractNumber)
			response.Fail(c, response.ErrDatabase.WithOrigin(err))
			return
		}
		if taken {
			log.Warn("合同编号已存在", "contract_number", *req.ContractNumber)
			response.Fail(c, response.ErrAlreadyExists.WithTips("合同编号 "+*req.ContractNumber+" 已存在"))
			return
		}
	}
	if req.ProjectAmount != nil && *req.ProjectAmount < 0 {
		response.Fail(c, response.ErrInvalidRequest.WithTips("项目金额不能为负数"))
		return
	}

	var signDate, maintenanceTime *time.Time
	var err error
	if req.SignDate != nil {
		if signDate, err = parseDate(*req.SignDate); err != nil {
			response.Fail(c, response.ErrInvalidRequest.WithTips("签订日期格式应为 YYYY-MM-DD"))
			return
		}
	}
	if req.MaintenanceTime != nil {
		if maintenanceTime, err = parseDate(*req.MaintenanceTime); err != nil {
			response.Fail(c, response.ErrInvalidRequest.WithTips("维保时间格式应为 YYYY-MM-DD"))
			return
		}
	}

	if req.ContractName != nil {
		project.ContractName = *req.ContractName
	}
	if req.SignDate != nil {
		project.SignDate = signDate
	}
	if req.ContractNumber != nil {
		project.ContractNumber = *req.ContractNumber
	}
	if req.ContractProgress != nil {
		project.ContractProgress = *req.ContractProgress
	}
	if req.PartyA != nil {
		project.PartyA = *req.PartyA
	}
	if req.PartyB != nil {
		project.PartyB = *req.PartyB
	}
	if req.PartyC != nil {
		project.PartyC = *req.PartyC
	}
	if req.ProjectAmount != nil {
		project.ProjectAmount = *req.ProjectAmount
	}
	if req.InvoiceStatus != nil {
		project.InvoiceStatus = *req.InvoiceStatus
	}
	if req.PaymentStatus != nil {
		project.PaymentStatus = *req.PaymentStatus
	}
	if req.SupplyStatus != nil {
		project.SupplyStatus = *req.SupplyStatus
	}
	if req.AcceptanceStatus != nil {
		project.AcceptanceStatus = *req.AcceptanceStatus
	}
	if req.MaintenanceTime != nil {
		project.MaintenanceTime = maintenanceTime
	}
	if req.BusinessPerson != nil {
		project.BusinessPerson = *req.BusinessPerson
	}
	if req.ProjectManager != nil {
		project.ProjectManager = *req.ProjectManager
	}

	if err := database.DB.Save(&project).Error; err != nil {
		log.Error("更新项目失败", "error", err, "id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	log.Info("项目更新成功", "id", project.ID, "contract_number", project.ContractNumber)
	response.Success(c, project)
}

// DeleteProject 删除项目，要求管理员或项目创建者。
// 备注、步骤、动态值、附件记录在同一事务内级联清理；
// 附件字节先尽力删除，失败不阻断记录删除，失败路径随响应返回
func DeleteProject(c *gin.Context) {
	payload, exists := jwt.GetUserPayload(c)
	if !exists {
		response.Fail(c, response.ErrUnauthorized)
		return
	}

	id := c.Param("id")
	if id == "" {
		response.Fail(c, response.ErrInvalidRequest.WithTips("项目ID不能为空"))
		return
	}

	var project model.Project
	if err := database.DB.First(&project, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn("项目不存在", "id", id)
			response.Fail(c, response.ErrNotFound.WithTips("项目不存在"))
			return
		}
		log.Error("查询项目失败", "error", err, "id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	if payload.RoleID < model.RoleAdmin && project.CreatedBy != payload.UserID {
		log.Warn("无权限删除项目", "id", id, "created_by", project.CreatedBy, "user_id", payload.UserID)
		response.Fail(c, response.ErrUnauthorized.WithTips("无权删除他人项目"))
		return
	}

	var files []model.ProjectFile
	if err := database.DB.Where("project_id = ?", project.ID).Find(&files).Error; err != nil {
		log.Error("查询项目附件失败", "error", err, "id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	// 先删字节，失败只记录，不阻断后续记录删除
	var failedPaths []string
	for _, f := range files {
		if err := store.Delete(f.ProjectID, f.Filename); err != nil {
			log.Warn("删除附件字节失败", "path", f.FilePath, "error", err)
			failedPaths = append(failedPaths, f.FilePath)
		}
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", project.ID).Delete(&model.ProjectNote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", project.ID).Delete(&model.ProjectStep{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", project.ID).Delete(&model.ProjectDynamicValue{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", project.ID).Delete(&model.ProjectFile{}).Error; err != nil {
			return err
		}
		return tx.Delete(&project).Error
	})
	if err != nil {
		log.Error("删除项目失败", "error", err, "id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	log.Info("项目删除成功", "id", project.ID, "contract_name", project.ContractName)

	result := map[string]interface{}{
		"id": project.ID,
	}
	if len(failedPaths) > 0 {
		result["warning"] = "部分附件字节删除失败"
		result["failed_paths"] = failedPaths
	}
	response.Success(c, result)
}

// ListProjectsReq 定义项目列表的查询参数结构体
type ListProjectsReq struct {
	Page             int    `form:"page"`              // 页码，默认为1
	ContractName     string `form:"contract_name"`     // 合同名称模糊查询
	ContractProgress string `form:"contract_progress"` // 合同进度筛选
	BusinessPerson   string `form:"business_person"`   // 商务人员筛选
	ProjectManager   string `form:"project_manager"`   // 项目负责人筛选
}

// ListProjects 按创建时间倒序分页，每页固定 20 条
func ListProjects(c *gin.Context) {
	var req ListProjectsReq
	if err := c.ShouldBindQuery(&req); err != nil {
		log.Error("绑定查询参数失败", "error", err)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	if req.Page <= 0 {
		req.Page = 1
	}

	query := database.DB.Model(&model.Project{})
	if req.ContractName != "" {
		query = query.Where("contract_name LIKE ?", "%"+req.ContractName+"%")
	}
	if req.ContractProgress != "" {
		query = query.Where("contract_progress = ?", req.ContractProgress)
	}
	if req.BusinessPerson != "" {
		query = query.Where("business_person = ?", req.BusinessPerson)
	}
	if req.ProjectManager != "" {
		query = query.Where("project_manager = ?", req.ProjectManager)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		log.Error("获取项目总数失败", "error", err)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	var projects []model.Project
	offset := (req.Page - 1) * pageSize
	if err := query.Order("created_at DESC").
		Offset(offset).Limit(pageSize).Find(&projects).Error; err != nil {
		log.Error("获取项目列表失败", "error", err)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	response.Success(c, map[string]interface{}{
		"projects":    projects,
		"total":       total,
		"page":        req.Page,
		"page_size":   pageSize,
		"total_pages": (total + pageSize - 1) / pageSize,
	})
}

// GetProject 项目详情：备注倒序、附件按类型分组、激活列的动态值、实时进度
func GetProject(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.Fail(c, response.ErrInvalidRequest.WithTips("项目ID不能为空"))
		return
	}

	var project model.Project
	if err := database.DB.First(&project, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Fail(c, response.ErrNotFound.WithTips("项目不存在"))
			return
		}
		log.Error("查询项目失败", "error", err, "id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	var notes []model.ProjectNote
	if err := database.DB.Where("project_id = ?", project.ID).
		Order("created_at DESC").Find(&notes).Error; err != nil {
		log.Error("查询项目备注失败", "error", err, "id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	var files []model.ProjectFile
	if err := database.DB.Where("project_id = ?", project.ID).
		Order("created_at DESC").Find(&files).Error; err != nil {
		log.Error("查询项目附件失败", "error", err, "id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	grouped := groupFiles(files)

	var steps []model.ProjectStep
	if err := database.DB.Where("project_id = ?", project.ID).
		Order("sort_order ASC").Find(&steps).Error; err != nil {
		log.Error("查询项目步骤失败", "error", err, "id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	values, err := loadDynamicValues(project.ID)
	if err != nil {
		log.Error("查询动态值失败", "error", err, "id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	response.Success(c, map[string]interface{}{
		"project":        project,
		"notes":          notes,
		"files":          grouped,
		"steps":          steps,
		"progress":       model.StepProgress(steps),
		"dynamic_values": values,
	})
}

// DynamicValueView 动态值的展示形态，value 已按列当前类型解包
type DynamicValueView struct {
	ColumnID uint        `json:"column_id"`
	Name     string      `json:"name"`
	DataType string      `json:"data_type"`
	Value    interface{} `json:"value"`
}

// loadDynamicValues 取激活列的动态值，按列当前类型读取对应槽
func loadDynamicValues(projectID uint) ([]DynamicValueView, error) {
	var values []model.ProjectDynamicValue
	if err := database.DB.Preload("Column").
		Where("project_id = ?", projectID).Find(&values).Error; err != nil {
		return nil, err
	}

	views := make([]DynamicValueView, 0, len(values))
	for i := range values {
		v := &values[i]
		if !v.Column.IsActive {
			continue
		}
		views = append(views, DynamicValueView{
			ColumnID: v.ColumnID,
			Name:     v.Column.Name,
			DataType: v.Column.DataType,
			Value:    v.Value(),
		})
	}
	return views, nil
}

// SetDynamicValuesReq 定义批量写入动态值请求的结构体
type SetDynamicValuesReq struct {
	Values []struct {
		ColumnID uint        `json:"column_id" binding:"required"`
		Value    interface{} `json:"value"`
	} `json:"values" binding:"required"`
}

// SetDynamicValues 批量写入项目的动态列取值。
// 按列的当前类型尽力强转，转不动的存 null，从不因此报错；
// 停用列不接受新值
func SetDynamicValues(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.Fail(c, response.ErrInvalidRequest.WithTips("项目ID不能为空"))
		return
	}

	var req SetDynamicValuesReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("绑定动态值请求失败", "error", err, "id", id)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	var project model.Project
	if err := database.DB.First(&project, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Fail(c, response.ErrNotFound.WithTips("项目不存在"))
			return
		}
		log.Error("查询项目失败", "error", err, "id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		for _, item := range req.Values {
			var column model.DynamicColumn
			if err := tx.First(&column, "id = ?", item.ColumnID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					// 列不存在，静默跳过
					continue
				}
				return err
			}
			if !column.IsActive {
				continue
			}

			var value model.ProjectDynamicValue
			err := tx.Where("project_id = ? AND column_id = ?", project.ID, column.ID).
				First(&value).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				value = model.ProjectDynamicValue{
					ProjectID: project.ID,
					ColumnID:  column.ID,
				}
			} else if err != nil {
				return err
			}

			value.SetValue(column.DataType, item.Value)
			if err := tx.Save(&value).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Error("写入动态值失败", "error", err, "id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	log.Info("动态值写入成功", "project_id", project.ID, "count", len(req.Values))
	response.Success(c)
}
