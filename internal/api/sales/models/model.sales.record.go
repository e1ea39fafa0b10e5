// Package models - Model cho domain sales (bản ghi giao dịch bán hàng).
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SaleCustomer thông tin khách hàng của giao dịch
type SaleCustomer struct {
	Id     string  `json:"id,omitempty" bson:"id,omitempty"`         // Mã khách hàng từ nguồn dữ liệu
	Name   string  `json:"name,omitempty" bson:"name,omitempty"`     // Tên khách hàng (đánh index, xem sales_indexes.go)
	Gender string  `json:"gender,omitempty" bson:"gender,omitempty"` // Giới tính
	Age    float64 `json:"age" bson:"age"`                           // Tuổi (float64: JSON decode số thành float64, dữ liệu thô có thể không nguyên)
	Region string  `json:"region,omitempty" bson:"region,omitempty"` // Vùng miền
	Phone  string  `json:"phone,omitempty" bson:"phone,omitempty"`   // Số điện thoại
	Email  string  `json:"email,omitempty" bson:"email,omitempty"`   // Email
}

// SaleProduct thông tin sản phẩm của giao dịch
type SaleProduct struct {
	Id       string   `json:"id,omitempty" bson:"id,omitempty"`             // Mã sản phẩm
	Name     string   `json:"name,omitempty" bson:"name,omitempty"`         // Tên sản phẩm
	Brand    string   `json:"brand,omitempty" bson:"brand,omitempty"`       // Thương hiệu
	Category string   `json:"category,omitempty" bson:"category,omitempty"` // Danh mục
	Tags     []string `json:"tags,omitempty" bson:"tags,omitempty"`         // Tags (đã chuẩn hóa thành mảng khi import)
}

// SaleDetail chi tiết bán hàng của giao dịch
type SaleDetail struct {
	Quantity     float64 `json:"quantity" bson:"quantity"`         // Số lượng
	PricePerUnit float64 `json:"pricePerUnit" bson:"pricePerUnit"` // Đơn giá
	Discount     float64 `json:"discount" bson:"discount"`         // Phần trăm giảm giá
	TotalAmount  float64 `json:"totalAmount" bson:"totalAmount"`   // Thành tiền trước giảm giá
	FinalAmount  float64 `json:"finalAmount" bson:"finalAmount"`   // Thành tiền sau giảm giá
	Date         int64   `json:"date" bson:"date"`                 // Thời điểm giao dịch (Unix millis)
}

// SalesPerson nhân viên bán hàng
type SalesPerson struct {
	Id   string `json:"id,omitempty" bson:"id,omitempty"`
	Name string `json:"name,omitempty" bson:"name,omitempty"`
}

// SaleOperational thông tin vận hành của giao dịch
type SaleOperational struct {
	PaymentMethod string      `json:"paymentMethod,omitempty" bson:"paymentMethod,omitempty"` // Phương thức thanh toán
	StoreId       string      `json:"storeId,omitempty" bson:"storeId,omitempty"`             // Mã cửa hàng
	StoreLocation string      `json:"storeLocation,omitempty" bson:"storeLocation,omitempty"` // Địa điểm cửa hàng
	DeliveryType  string      `json:"deliveryType,omitempty" bson:"deliveryType,omitempty"`   // Hình thức giao hàng
	SalesPerson   SalesPerson `json:"salesPerson,omitempty" bson:"salesPerson,omitempty"`     // Nhân viên bán hàng
}

// SaleRecord một bản ghi giao dịch bán hàng. Bản ghi chỉ được tạo bởi importer
// (importer xóa toàn bộ collection trước khi nạp), không có đường cập nhật/xóa lẻ.
type SaleRecord struct {
	// Identity
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	TransactionId string             `json:"transactionId" bson:"transactionId" index:"single:1"` // Mã giao dịch, sinh tự động khi nguồn không có

	// Nested sections
	Customer    SaleCustomer    `json:"customer" bson:"customer"`
	Product     SaleProduct     `json:"product" bson:"product"`
	Sale        SaleDetail      `json:"sale" bson:"sale"`
	Operational SaleOperational `json:"operational" bson:"operational"`

	// Timestamps
	CreatedAt int64 `json:"createdAt" bson:"createdAt" index:"single:1"`
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"`
}
