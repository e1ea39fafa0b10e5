// Package logger - Hệ thống logging với 4 logger đặt tên (app, audit,
// performance, error), ghi file có rotation và ghi bất đồng bộ qua hook.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	loggers   = make(map[string]*logrus.Logger)
	loggersMu sync.Mutex

	// config chứa cấu hình logging, set bởi Init
	config *LogConfig

	// rootDir là thư mục gốc dự án, nơi đặt thư mục logs
	rootDir string
)

// Init khởi tạo hệ thống logging. cfg nil thì dùng DefaultConfig
// (đọc từ environment variables).
func Init(cfg *LogConfig) error {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	config = cfg

	rootDir = resolveRootDir()

	// Tạo thư mục logs nếu chưa tồn tại
	if err := os.MkdirAll(logDir(), 0755); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}

	return nil
}

// resolveRootDir tìm thư mục gốc dự án để đặt thư mục logs.
// Ưu tiên LOG_ROOT_DIR; không có thì đi lên từ working directory tìm
// thư mục chứa config/env — cùng quy ước với tầng config — rồi rơi về
// working directory.
func resolveRootDir() string {
	if dir := os.Getenv("LOG_ROOT_DIR"); dir != "" {
		if resolved, err := filepath.EvalSymlinks(dir); err == nil {
			return resolved
		}
		return dir
	}

	wd, err := os.Getwd()
	if err != nil {
		return "."
	}

	currentDir := wd
	for {
		if _, err := os.Stat(filepath.Join(currentDir, "config", "env")); err == nil {
			return currentDir
		}
		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return wd
		}
		currentDir = parentDir
	}
}

// logDir trả về đường dẫn thư mục logs
func logDir() string {
	if filepath.IsAbs(config.LogPath) {
		return config.LogPath
	}
	return filepath.Join(rootDir, config.LogPath)
}

// logFilePath trả về đường dẫn file log cho logger name
func logFilePath(name string) string {
	filename := map[string]string{
		"app":         config.AppFile,
		"audit":       config.AuditFile,
		"performance": config.PerformanceFile,
		"error":       config.ErrorFile,
	}[name]
	if filename == "" {
		filename = name + ".log"
	}
	return filepath.Join(logDir(), filename)
}

// GetLogger trả về logger theo tên, tạo mới nếu chưa có.
// Gọi trước Init thì tự Init với cấu hình mặc định.
func GetLogger(name string) *logrus.Logger {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	if config == nil {
		if err := Init(nil); err != nil {
			panic(fmt.Sprintf("Failed to initialize logger: %v", err))
		}
	}

	if logger, ok := loggers[name]; ok {
		return logger
	}

	logger := createLogger(name)
	loggers[name] = logger

	return logger
}

// createLogger tạo logger với level/formatter/writers theo config.
// Mọi writer đều đi qua AsyncHook: ghi file chậm không được block
// request handling, nên output trực tiếp của logrus bị discard.
func createLogger(name string) *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(config.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	logger.SetFormatter(newFormatter())
	logger.SetReportCaller(true)

	var writers []io.Writer
	if config.Output == "file" || config.Output == "both" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   logFilePath(name),
			MaxSize:    config.MaxSize,
			MaxBackups: config.MaxBackups,
			MaxAge:     config.MaxAge,
			Compress:   config.Compress,
		})
	}
	if config.Output == "stdout" || config.Output == "both" {
		writers = append(writers, os.Stdout)
	}

	// FilterHook phải đứng trước AsyncHook: entry bị filter được đánh dấu
	// trước khi vào hàng đợi ghi
	logger.AddHook(NewFilterHook(config))

	if len(writers) > 0 {
		logger.AddHook(NewAsyncHook(writers, 1000))
		logger.SetOutput(io.Discard)
	}

	logger = logger.WithField("service", name).Logger

	logger.WithFields(logrus.Fields{
		"log_file": logFilePath(name),
		"level":    logger.GetLevel().String(),
		"format":   config.Format,
		"output":   config.Output,
	}).Info("Logger initialized successfully")

	return logger
}

// newFormatter tạo formatter theo config: JSON cho production,
// text có caller gọn cho development
func newFormatter() logrus.Formatter {
	const timestampFormat = "2006-01-02 15:04:05.000"

	if config.Format == "json" {
		return &logrus.JSONFormatter{
			TimestampFormat: timestampFormat,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
				logrus.FieldKeyFunc:  "function",
				logrus.FieldKeyFile:  "file",
			},
		}
	}

	return &logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: timestampFormat,
		CallerPrettyfier: func(f *runtime.Frame) (string, string) {
			parts := strings.Split(f.Function, ".")
			return parts[len(parts)-1], fmt.Sprintf("%s:%d", filepath.Base(f.File), f.Line)
		},
	}
}

// GetAppLogger trả về logger chính của ứng dụng
func GetAppLogger() *logrus.Logger {
	return GetLogger("app")
}

// GetAuditLogger trả về logger cho audit (importer runs)
func GetAuditLogger() *logrus.Logger {
	return GetLogger("audit")
}

// GetPerformanceLogger trả về logger cho performance (request timing)
func GetPerformanceLogger() *logrus.Logger {
	return GetLogger("performance")
}

// GetErrorLogger trả về logger cho errors
func GetErrorLogger() *logrus.Logger {
	return GetLogger("error")
}
