package test

import (
	"fmt"
	"testing"

	"contract-tracking-system/internal/global/database"
	"contract-tracking-system/internal/model"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// SetupDB 用内存 sqlite 替换全局 DB，表结构与生产迁移列表一致。
// 库名带测试名隔离，同进程内的用例互不串库
func SetupDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		NamingStrategy: schema.NamingStrategy{SingularTable: true},
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.DynamicColumn{},
		&model.Project{},
		&model.ProjectNote{},
		&model.ProjectFile{},
		&model.ProjectStep{},
		&model.ProjectDynamicValue{},
	))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	database.DB = db
	return db
}
