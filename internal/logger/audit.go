package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// ImportRun mô tả một lần chạy importer cho audit log
type ImportRun struct {
	Source     string    `json:"source"`      // Đường dẫn file dữ liệu nguồn
	Collection string    `json:"collection"`  // Collection đích
	Inserted   int64     `json:"inserted"`    // Số bản ghi đã ghi
	Cleared    bool      `json:"cleared"`     // Collection có được xóa trước khi nạp không
	DurationMs int64     `json:"duration_ms"` // Thời gian chạy (ms)
	Timestamp  time.Time `json:"timestamp"`   // Thời gian
}

// LogImportRun ghi audit log cho một lần chạy importer
// Importer là writer duy nhất của hệ thống nên audit log chỉ có một loại hành động
func LogImportRun(run ImportRun, err error) {
	auditLogger := GetAuditLogger()

	if run.Timestamp.IsZero() {
		run.Timestamp = time.Now()
	}

	entry := auditLogger.WithFields(logrus.Fields{
		"action":      "sales_import",
		"source":      run.Source,
		"collection":  run.Collection,
		"inserted":    run.Inserted,
		"cleared":     run.Cleared,
		"duration_ms": run.DurationMs,
		"timestamp":   run.Timestamp,
	})

	if err != nil {
		entry.WithError(err).Error("Import run failed")
		return
	}
	entry.Info("Import run completed")
}
