package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"spectra-server/internal/cache"
	"spectra-server/internal/config"
	"spectra-server/internal/db"
	"spectra-server/internal/di"
	"spectra-server/internal/events"
	"spectra-server/internal/logger"
	"spectra-server/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const (
	applicationName    = "Spectra Server"
	applicationVersion = "1.0.0"
)

func main() {
	configDir := flag.String("config", "config", "配置文件目录")
	exportRoutes := flag.Bool("export", false, "导出路由到 routes.json 并退出")
	flag.Parse()

	// .env 不存在时忽略，其他错误等日志初始化后再输出
	envErr := godotenv.Load()

	config.InitConfig(*configDir)
	cfg := config.Get()

	zl, err := logger.Init(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("❌ 初始化日志失败: %v", err)
	}
	defer func() { _ = zl.Sync() }()
	if envErr != nil && !errors.Is(envErr, os.ErrNotExist) {
		zl.Warn("⚠️ 读取 .env 失败", zap.Error(envErr))
	}

	db.InitDB()

	ctx := context.Background()
	rdb := cache.NewRedisClient(ctx, cfg.Redis, zl)
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
	}

	publisher := openPublisher(cfg.AMQP, zl)
	defer func() { _ = publisher.Close() }()

	if cfg.Upload.Driver == "" || cfg.Upload.Driver == "local" {
		if err := checkSecurePath(cfg.Upload.Path); err != nil {
			zl.Fatal("❌ 上传目录配置不安全", zap.Error(err))
		}
	}
	blobs, err := storage.New(ctx, cfg)
	if err != nil {
		zl.Fatal("❌ 初始化 blob 存储失败", zap.String("driver", cfg.Upload.Driver), zap.Error(err))
	}

	app, err := di.InitializeApplication(db.DB, blobs, publisher, rdb, zl, cfg)
	if err != nil {
		zl.Fatal("❌ 组装应用失败", zap.Error(err))
	}

	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	r.Use(gin.Recovery())
	app.Router.Init(r)
	r.NoRoute(getNoRouteHandler(cfg.Upload.URLPrefix))

	// 导出模式
	if *exportRoutes {
		if err := exportAPI(r, "routes.json"); err != nil {
			zl.Fatal("❌ 导出路由失败", zap.Error(err))
		}
		return // 导出后直接退出程序，不启动 Web 服务
	}

	printWelcomeMessage(cfg)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	go func() {
		zl.Info("🚀 服务启动成功", zap.String("addr", srv.Addr), zap.String("upload_driver", cfg.Upload.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("❌ 服务启动失败", zap.Error(err))
		}
	}()

	// 等待中断信号关闭服务器（设置 5 秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zl.Info("🛑 正在关闭服务...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("❌ 服务强制关闭", zap.Error(err))
		return
	}
	zl.Info("✅ 服务已退出")
}

// openPublisher 连接消息队列；未启用或连接失败时退回到 NopPublisher。
func openPublisher(cfg config.AMQPConfig, zl *zap.Logger) events.Publisher {
	if !cfg.Enabled {
		return events.NopPublisher{}
	}
	publisher, err := events.NewAMQPPublisher(cfg.URL, cfg.Exchange)
	if err != nil {
		zl.Warn("⚠️ AMQP 不可用，图片事件将不会投递", zap.String("exchange", cfg.Exchange), zap.Error(err))
		return events.NopPublisher{}
	}
	zl.Info("✅ AMQP 已连接", zap.String("exchange", cfg.Exchange))
	return publisher
}

func getNoRouteHandler(uploadPrefix string) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		switch {
		case strings.HasPrefix(path, "/api"):
			c.JSON(http.StatusNotFound, gin.H{"error": "API not found"})
		case uploadPrefix != "" && strings.HasPrefix(path, uploadPrefix):
			c.JSON(http.StatusNotFound, gin.H{"error": "Upload not found"})
		default:
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		}
	}
}

func printWelcomeMessage(cfg config.Config) {
	fmt.Println()
	fmt.Println(" ┌───────────────────────────────────────────────────────┐")
	fmt.Printf(" │   🚀  %s\n", applicationName)
	fmt.Println(" ├───────────────────────────────────────────────────────┤")
	fmt.Printf(" │   📦  版本     : %s\n", applicationVersion)
	fmt.Printf(" │   🗄️   存储驱动 : %s\n", cfg.Upload.Driver)
	fmt.Printf(" │   🔥  服务端口 : %s\n", cfg.Server.Port)
	fmt.Println(" └───────────────────────────────────────────────────────┘")
	fmt.Println()
}

func exportAPI(r *gin.Engine, filename string) error {
	routes := r.Routes()

	// 简单的结构体，只留关键信息
	type RouteInfo struct {
		Method  string `json:"method"`
		Path    string `json:"path"`
		Handler string `json:"handler"`
	}

	exportList := make([]RouteInfo, 0, len(routes))
	for _, route := range routes {
		exportList = append(exportList, RouteInfo{
			Method:  route.Method,
			Path:    route.Path,
			Handler: route.Handler,
		})
	}

	file, err := json.MarshalIndent(exportList, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(filename, file, 0644); err != nil {
		return err
	}

	fmt.Println("✅ 路由已成功导出到", filename)
	return nil
}

// checkSecurePath 要求本地上传目录位于工作目录下的安全子目录，避免把源码暴露为静态资源。
func checkSecurePath(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("路径解析失败: %w", err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("无法获取当前工作目录: %w", err)
	}

	if absPath == cwd {
		return fmt.Errorf("静态资源目录 %q 不能设置为项目根目录", path)
	}

	rel, err := filepath.Rel(cwd, absPath)
	if err != nil || strings.HasPrefix(rel, "..") {
		// 工作目录之外的路径由部署方负责
		return nil
	}

	allowedDirs := []string{"uploads", "public", "assets", "static", "tmp"}
	firstComponent := strings.Split(filepath.ToSlash(rel), "/")[0]
	for _, allowed := range allowedDirs {
		if strings.EqualFold(firstComponent, allowed) {
			return nil
		}
	}
	return fmt.Errorf("静态资源目录 %q 必须位于安全子目录中 (如 %v)", path, allowedDirs)
}
