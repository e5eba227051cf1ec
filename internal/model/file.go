package model

// 附件分组
const (
	FileTypeContract   = "contract"   // 合同文件
	FileTypeAcceptance = "acceptance" // 验收文件
	FileTypeOther      = "other"
)

// NormalizeFileType 非法分组一律归入 other
func NormalizeFileType(t string) string {
	switch t {
	case FileTypeContract, FileTypeAcceptance:
		return t
	}
	return FileTypeOther
}

// ProjectFile 项目附件记录。Filename 为落盘名，OriginalFilename 仅用于展示
type ProjectFile struct {
	Model
	ProjectID        uint   `gorm:"index;not null" json:"project_id"`
	Filename         string `gorm:"type:varchar(255);not null" json:"filename"`
	OriginalFilename string `gorm:"type:varchar(255);not null" json:"original_filename"`
	FileType         string `gorm:"type:varchar(50);not null" json:"file_type"`
	FilePath         string `gorm:"type:varchar(500);not null" json:"file_path"`
	UploadedBy       uint   `gorm:"index" json:"uploaded_by"` // 弱引用用户表
}
