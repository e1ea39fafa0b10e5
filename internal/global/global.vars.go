package global

import (
	"retail_sales/config"
	"retail_sales/internal/registry"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"
)

// SalesCollectionName chứa tên các collection trong MongoDB
type SalesCollectionName struct {
	SaleRecords string // Tên collection cho bản ghi giao dịch bán hàng
}

// Các biến toàn cục
var Validate *validator.Validate                                     // Biến để xác thực dữ liệu
var MongoDB_Session *mongo.Client                                    // Phiên kết nối tới MongoDB
var MongoDB_ServerConfig *config.Configuration                       // Cấu hình của server
var MongoDB_ColNames SalesCollectionName = *new(SalesCollectionName) // Tên các collection

// Các Registry
var RegistryCollections = registry.NewRegistry[*mongo.Collection]() // Registry chứa các collections
