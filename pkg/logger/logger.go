package logger

import (
	"log"

	"go.uber.org/zap"
)

// Log 全局 Logger；Init 之前是静默的 Nop，测试里可以直接用
var Log = zap.NewNop()

// Init 初始化全局 Logger
// env 为 "prod" 时使用 JSON 格式，否则使用开发模式（彩色、易读）
func Init(env string) {
	var err error
	if env == "prod" {
		cfg := zap.NewProductionConfig()
		cfg.DisableStacktrace = true
		Log, err = cfg.Build()
	} else {
		Log, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
}

// Sync 进程退出前刷新缓冲
func Sync() {
	if Log != nil {
		_ = Log.Sync()
	}
}
