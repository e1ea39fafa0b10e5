// Importer nạp file JSON dữ liệu giao dịch bán hàng vào MongoDB.
// Chạy một lần rồi thoát: xóa sạch collection đích, stream file nguồn
// và ghi theo lô.
//
// Cách dùng:
//
//	importer <đường_dẫn_file_json>
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"retail_sales/config"
	salessvc "retail_sales/internal/api/sales/service"
	"retail_sales/internal/database"
	"retail_sales/internal/global"
	"retail_sales/internal/logger"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Cách dùng: importer <đường_dẫn_file_json>")
		os.Exit(2)
	}
	dataPath := os.Args[1]

	// Khởi tạo logger
	if err := logger.Init(nil); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	log := logger.GetAppLogger()

	// Khởi tạo tên collection và cấu hình
	global.MongoDB_ColNames.SaleRecords = "sale_records"
	global.MongoDB_ServerConfig = config.NewConfig()
	if global.MongoDB_ServerConfig == nil {
		logrus.Fatalf("Failed to initialize config: config is nil")
	}

	// Kết nối MongoDB
	var err error
	global.MongoDB_Session, err = database.GetInstance(global.MongoDB_ServerConfig)
	if err != nil {
		logrus.Fatalf("Failed to get database instance: %v", err)
	}
	defer func() {
		if err := database.CloseInstance(global.MongoDB_Session); err != nil {
			log.WithError(err).Warn("Error closing MongoDB connection")
		}
	}()
	log.Info("Connected to MongoDB")

	if err := database.EnsureDatabaseAndCollections(global.MongoDB_Session); err != nil {
		logrus.Fatalf("Failed to ensure database and collections: %v", err)
	}

	// Đăng ký collection vào registry
	db := global.MongoDB_Session.Database(global.MongoDB_ServerConfig.MongoDB_DBName)
	if _, err := global.RegistryCollections.Register(global.MongoDB_ColNames.SaleRecords, db.Collection(global.MongoDB_ColNames.SaleRecords)); err != nil {
		logrus.Fatalf("Failed to register collection: %v", err)
	}

	// Chạy import
	service, err := salessvc.NewSaleImportService()
	if err != nil {
		logrus.Fatalf("Failed to create import service: %v", err)
	}

	summary, err := service.ImportFromFile(context.Background(), dataPath)
	if err != nil {
		logrus.Fatalf("Import failed: %v", err)
	}

	log.WithFields(logrus.Fields{
		"source":      summary.Source,
		"inserted":    summary.Inserted,
		"cleared":     summary.Cleared,
		"duration_ms": summary.Duration.Milliseconds(),
	}).Info("Import completed")
}
