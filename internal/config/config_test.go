package config

import (
	"os"
	"path/filepath"
	"testing"
)

// 测试内容：验证初始化配置会设置默认值并写入可用的配置目录。
func TestInitConfig_SetsDefaults(t *testing.T) {
	dir := t.TempDir()

	// 确保不在 release 模式（release 模式下不安全的 secret 会导致 fatal）。
	t.Setenv("SPECTRA_SERVER_MODE", "debug")
	t.Setenv("SPECTRA_JWT_SECRET", "")

	InitConfig(dir)

	cfg := Get()
	if cfg.Server.Port == "" {
		t.Fatalf("期望 server.port 有默认值")
	}
	if cfg.JWT.Secret == "" {
		t.Fatalf("期望非 release 模式下 JWT secret 被填充")
	}
	if cfg.Upload.Driver != "local" {
		t.Fatalf("期望默认存储驱动为 local，实际为 %q", cfg.Upload.Driver)
	}
	if cfg.Upload.URLPrefix != "/uploads/images/" {
		t.Fatalf("期望默认 url_prefix 为 /uploads/images/，实际为 %q", cfg.Upload.URLPrefix)
	}
	if cfg.Redis.Enabled || cfg.AMQP.Enabled {
		t.Fatalf("期望 redis 与 amqp 默认关闭")
	}
	if GetConfigDir() != dir {
		t.Fatalf("期望 config dir %q，实际为 %q", dir, GetConfigDir())
	}
}

// 测试内容：验证环境变量覆盖配置文件，且驱动名会被规范化。
func TestInitConfig_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte("server:\n  port: \"9000\"\nupload:\n  driver: local\n  base_url: http://file.example\n")
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0644); err != nil {
		t.Fatalf("写入配置文件失败: %v", err)
	}

	t.Setenv("SPECTRA_SERVER_MODE", "debug")
	t.Setenv("SPECTRA_JWT_SECRET", "test_secret")
	t.Setenv("SPECTRA_UPLOAD_DRIVER", "  MinIO ")
	t.Setenv("SPECTRA_REDIS_PREFIX", "spectra-test")

	InitConfig(dir)

	cfg := Get()
	if cfg.Server.Port != "9000" {
		t.Fatalf("期望端口来自配置文件 9000，实际为 %q", cfg.Server.Port)
	}
	if cfg.Upload.BaseURL != "http://file.example" {
		t.Fatalf("期望 base_url 来自配置文件，实际为 %q", cfg.Upload.BaseURL)
	}
	if cfg.Upload.Driver != "minio" {
		t.Fatalf("期望驱动被规范化为 minio，实际为 %q", cfg.Upload.Driver)
	}
	if cfg.Redis.Prefix != "spectra-test" {
		t.Fatalf("期望 redis 前缀来自环境变量，实际为 %q", cfg.Redis.Prefix)
	}
	if cfg.JWT.Secret != "test_secret" {
		t.Fatalf("期望 JWT secret 来自环境变量，实际为 %q", cfg.JWT.Secret)
	}
}
