package db

import (
	"os"
	"path/filepath"
	"testing"

	"spectra-server/internal/config"
)

// 测试内容：验证使用 sqlite 临时文件初始化数据库并创建全部核心表。
func TestInitDB_SQLiteTempFile(t *testing.T) {
	tmp := t.TempDir()
	cfgDir := filepath.Join(tmp, "cfg")
	if err := os.MkdirAll(cfgDir, 0755); err != nil {
		t.Fatalf("创建配置目录失败: %v", err)
	}

	dbFile := filepath.Join(tmp, "db", "test.db")
	t.Setenv("SPECTRA_SERVER_MODE", "debug")
	t.Setenv("SPECTRA_DATABASE_TYPE", "sqlite")
	t.Setenv("SPECTRA_DATABASE_FILENAME", dbFile)

	config.InitConfig(cfgDir)
	InitDB()

	if DB == nil {
		t.Fatalf("期望 DB 已初始化")
	}
	for _, m := range Models() {
		if !DB.Migrator().HasTable(m) {
			t.Fatalf("期望表 %T 已创建", m)
		}
	}

	sqlDB, err := DB.DB()
	if err == nil {
		_ = sqlDB.Close()
	}
}
