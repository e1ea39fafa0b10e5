// Package database - Index bổ sung cho sales (nested fields) không thể định nghĩa qua model tags.
package database

import (
	"context"
	"strings"

	"retail_sales/internal/global"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CreateSalesAdditionalIndexes tạo các index bổ sung cho sale_records (nested fields).
// Gọi sau CreateIndexes cho collection sale_records.
func CreateSalesAdditionalIndexes(ctx context.Context, db *mongo.Database) error {
	saleRecords := db.Collection(global.MongoDB_ColNames.SaleRecords)

	// sale_records: customer.name — tìm kiếm theo tên khách hàng
	if _, err := saleRecords.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "customer.name", Value: 1},
		},
		Options: options.Index().SetName("sale_record_customer_name"),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	// sale_records: (sale.date, _id) — sort mặc định của danh sách giao dịch
	if _, err := saleRecords.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "sale.date", Value: -1},
			{Key: "_id", Value: 1},
		},
		Options: options.Index().SetName("sale_record_date_id"),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	// sale_records: customer.age — lọc theo khoảng tuổi
	if _, err := saleRecords.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "customer.age", Value: 1},
		},
		Options: options.Index().SetName("sale_record_customer_age"),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	return nil
}

func isIndexExistsError(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "already exists") || strings.Contains(s, "duplicate")
}
