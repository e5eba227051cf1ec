package storage

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"普通文件名", "report.pdf", "report.pdf"},
		{"中文保留", "合同扫描件.pdf", "合同扫描件.pdf"},
		{"路径被剥离", "../../etc/passwd", "passwd"},
		{"windows路径被剥离", `C:\temp\evil.exe`, "evil.exe"},
		{"不安全字符替换", "a b*c?.txt", "a_b_c_.txt"},
		{"空结果回退", "...", "file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, SanitizeFilename(tt.in))
		})
	}
}

func TestStoredFilename(t *testing.T) {
	got := StoredFilename("验收报告.docx")
	require.True(t, strings.HasPrefix(got, "验收报告_"))
	require.True(t, strings.HasSuffix(got, ".docx"))

	// 时间戳保证两次生成不同名
	require.NotEqual(t, StoredFilename("a.txt"), StoredFilename("a.txt"))
}

func uploadHeader(t *testing.T, filename, content string) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	_, fh, err := req.FormFile("file")
	require.NoError(t, err)
	return fh
}

func TestStoreSaveAndDelete(t *testing.T) {
	s := New(t.TempDir())
	fh := uploadHeader(t, "合同.pdf", "fake pdf bytes")

	filename, path, err := s.Save(3, fh)
	require.NoError(t, err)
	require.True(t, s.Exists(3, filename))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "fake pdf bytes", string(data))

	require.NoError(t, s.Delete(3, filename))
	require.False(t, s.Exists(3, filename))

	// 重复删除不报错
	require.NoError(t, s.Delete(3, filename))
}
