package model

import "time"

// Project 合同项目主记录
type Project struct {
	Model
	ContractName     string     `gorm:"type:varchar(200);not null" json:"contract_name"`                  // 合同项目名称
	SignDate         *time.Time `gorm:"type:date" json:"sign_date"`                                       // 签订日期
	// 合同编号在未删除记录内全局唯一，唯一性由应用层校验：
	// 软删除行还留在表里，数据库唯一索引会挡住编号复用
	ContractNumber   string     `gorm:"type:varchar(50);index;not null" json:"contract_number"`
	ContractProgress string     `gorm:"type:varchar(50);default:'未开始';index" json:"contract_progress"`    // 合同进度
	PartyA           string     `gorm:"type:varchar(100);not null" json:"party_a"`                        // 甲方
	PartyB           string     `gorm:"type:varchar(100);not null" json:"party_b"`                        // 乙方
	PartyC           string     `gorm:"type:varchar(100)" json:"party_c"`                                 // 丙方
	ProjectAmount    float64    `gorm:"default:0" json:"project_amount"`                                  // 项目金额
	InvoiceStatus    string     `gorm:"type:varchar(50);default:'未开具'" json:"invoice_status"`            // 发票开具情况
	PaymentStatus    string     `gorm:"type:varchar(50);default:'未收款'" json:"payment_status"`            // 收款情况
	SupplyStatus     string     `gorm:"type:varchar(50);default:'未供货'" json:"supply_status"`             // 供货情况
	AcceptanceStatus string     `gorm:"type:varchar(50);default:'未验收'" json:"acceptance_status"`         // 验收情况
	MaintenanceTime  *time.Time `gorm:"type:date" json:"maintenance_time"`                                // 维保时间
	BusinessPerson   string     `gorm:"type:varchar(100);index" json:"business_person"`                   // 商务人员
	ProjectManager   string     `gorm:"type:varchar(100);index" json:"project_manager"`                   // 项目负责人
	CreatedBy        uint       `gorm:"index" json:"created_by"`                                          // 创建人，弱引用用户表

	// 子集合由项目拥有，删除项目时级联清理
	Notes         []ProjectNote         `gorm:"foreignKey:ProjectID" json:"notes,omitempty"`
	Files         []ProjectFile         `gorm:"foreignKey:ProjectID" json:"files,omitempty"`
	Steps         []ProjectStep         `gorm:"foreignKey:ProjectID" json:"steps,omitempty"`
	DynamicValues []ProjectDynamicValue `gorm:"foreignKey:ProjectID" json:"dynamic_values,omitempty"`
}

// 合同进度与各状态的默认值
const (
	DefaultContractProgress = "未开始"
	DefaultInvoiceStatus    = "未开具"
	DefaultPaymentStatus    = "未收款"
	DefaultSupplyStatus     = "未供货"
	DefaultAcceptanceStatus = "未验收"
)
