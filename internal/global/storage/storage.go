package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"contract-tracking-system/config"
)

// Store 项目附件的本地文件存储，按 <root>/projects/<project_id>/ 归档
type Store struct {
	Root string
}

func New(root string) *Store {
	return &Store{Root: root}
}

// Default 使用配置中的存储根目录
func Default() *Store {
	return New(config.Get().Storage.Root)
}

func (s *Store) projectDir(projectID uint) string {
	return filepath.Join(s.Root, "projects", strconv.FormatUint(uint64(projectID), 10))
}

// Path 返回附件的落盘路径
func (s *Store) Path(projectID uint, filename string) string {
	return filepath.Join(s.projectDir(projectID), filename)
}

// Save 将上传内容写入项目目录，返回落盘文件名和完整路径
func (s *Store) Save(projectID uint, fileHeader *multipart.FileHeader) (filename, path string, err error) {
	src, err := fileHeader.Open()
	if err != nil {
		return "", "", err
	}
	defer src.Close()

	dir := s.projectDir(projectID)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return "", "", err
	}

	filename = StoredFilename(fileHeader.Filename)
	path = filepath.Join(dir, filename)

	dst, err := os.Create(path)
	if err != nil {
		return "", "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", "", err
	}

	return filename, path, nil
}

// Delete 删除附件字节，文件本就不存在视为成功
func (s *Store) Delete(projectID uint, filename string) error {
	path := s.Path(projectID, filename)
	err := os.Remove(path)
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}

// Exists 附件字节是否在盘上
func (s *Store) Exists(projectID uint, filename string) bool {
	_, err := os.Stat(s.Path(projectID, filename))
	return err == nil
}

// SanitizeFilename 去除路径分隔符和不安全字符，空结果回退为 file
func SanitizeFilename(name string) string {
	// 只保留文件名本体，去掉任何目录部分
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '-', r == '_':
			b.WriteRune(r)
		case r > 127:
			// 保留中文等多字节字符
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	cleaned := strings.Trim(b.String(), "._")
	if cleaned == "" {
		return "file"
	}
	return cleaned
}

// StoredFilename 生成项目命名空间内防碰撞的落盘名：净化名 + 纳秒时间戳
func StoredFilename(original string) string {
	cleaned := SanitizeFilename(original)
	ext := filepath.Ext(cleaned)
	base := strings.TrimSuffix(cleaned, ext)
	return fmt.Sprintf("%s_%d%s", base, time.Now().UnixNano(), ext)
}
