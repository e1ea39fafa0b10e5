package salessvc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	basesvc "retail_sales/internal/api/base/service"
	salesmodels "retail_sales/internal/api/sales/models"
	"retail_sales/internal/common"
	"retail_sales/internal/global"
	"retail_sales/internal/logger"
)

// DefaultImportBatchSize kích thước lô ghi mặc định của importer
const DefaultImportBatchSize = 1000

// ImportSummary kết quả của một lần chạy import
type ImportSummary struct {
	Source   string        // Nguồn dữ liệu (đường dẫn file)
	Inserted int64         // Số bản ghi đã ghi
	Cleared  bool          // Collection có được xóa sạch trước khi nạp không
	Duration time.Duration // Tổng thời gian chạy
}

// SaleImportService nạp dữ liệu giao dịch từ file JSON nguồn vào MongoDB.
// Store được giữ qua interface để test có thể inject store giả.
type SaleImportService struct {
	store     basesvc.BaseServiceMongo[salesmodels.SaleRecord]
	batchSize int
}

// NewSaleImportService tạo mới SaleImportService từ collection đã đăng ký trong registry,
// kích thước lô lấy từ cấu hình server
func NewSaleImportService() (*SaleImportService, error) {
	coll, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.SaleRecords)
	if !exist {
		return nil, fmt.Errorf("không tìm thấy collection %s: %w", global.MongoDB_ColNames.SaleRecords, common.ErrNotFound)
	}

	batchSize := DefaultImportBatchSize
	if global.MongoDB_ServerConfig != nil && global.MongoDB_ServerConfig.ImportBatchSize > 0 {
		batchSize = global.MongoDB_ServerConfig.ImportBatchSize
	}

	return &SaleImportService{
		store:     basesvc.NewBaseServiceMongo[salesmodels.SaleRecord](coll),
		batchSize: batchSize,
	}, nil
}

// NewSaleImportServiceWithStore tạo SaleImportService với store tùy ý (dùng trong test)
func NewSaleImportServiceWithStore(store basesvc.BaseServiceMongo[salesmodels.SaleRecord], batchSize int) *SaleImportService {
	if batchSize <= 0 {
		batchSize = DefaultImportBatchSize
	}
	return &SaleImportService{
		store:     store,
		batchSize: batchSize,
	}
}

// asString đọc giá trị chuỗi từ dữ liệu thô. Số đọc từ JSON là float64,
// phải format dạng thập phân đầy đủ để số điện thoại không thành ký hiệu khoa học.
func asString(v interface{}) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case nil:
		return ""
	}
	return fmt.Sprint(v)
}

// asNumber đọc giá trị số từ dữ liệu thô; giá trị thiếu hoặc không parse được trả về 0
func asNumber(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
			return f
		}
	}
	return 0
}

// asMillis đọc giá trị ngày từ dữ liệu thô thành Unix millis; không parse được trả về 0
func asMillis(v interface{}) int64 {
	raw, ok := v.(string)
	if !ok {
		return 0
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UnixMilli()
		}
	}
	return 0
}

// asTags chuẩn hóa tags: chuỗi thì tách theo dấu phẩy và trim, mảng thì giữ nguyên phần tử chuỗi
func asTags(v interface{}) []string {
	switch t := v.(type) {
	case string:
		if t == "" {
			return nil
		}
		parts := strings.Split(t, ",")
		tags := make([]string, 0, len(parts))
		for _, p := range parts {
			tags = append(tags, strings.TrimSpace(p))
		}
		return tags
	case []interface{}:
		tags := make([]string, 0, len(t))
		for _, item := range t {
			tags = append(tags, asString(item))
		}
		return tags
	}
	return nil
}

// TransformRawRecord chuyển một bản ghi thô (key dạng tiêu đề cột của nguồn dữ liệu)
// thành SaleRecord. Bản ghi thiếu Transaction ID được sinh mã mới từ ObjectID.
func TransformRawRecord(raw map[string]interface{}) salesmodels.SaleRecord {
	transactionId := asString(raw["Transaction ID"])
	if transactionId == "" {
		transactionId = primitive.NewObjectID().Hex()
	}

	return salesmodels.SaleRecord{
		TransactionId: transactionId,
		Customer: salesmodels.SaleCustomer{
			Id:     asString(raw["Customer ID"]),
			Name:   asString(raw["Customer Name"]),
			Gender: asString(raw["Gender"]),
			Age:    asNumber(raw["Age"]),
			Region: asString(raw["Customer Region"]),
			Phone:  asString(raw["Phone Number"]),
			Email:  asString(raw["Email"]),
		},
		Product: salesmodels.SaleProduct{
			Id:       asString(raw["Product ID"]),
			Name:     asString(raw["Product Name"]),
			Brand:    asString(raw["Brand"]),
			Category: asString(raw["Product Category"]),
			Tags:     asTags(raw["Tags"]),
		},
		Sale: salesmodels.SaleDetail{
			Quantity:     asNumber(raw["Quantity"]),
			PricePerUnit: asNumber(raw["Price per Unit"]),
			Discount:     asNumber(raw["Discount Percentage"]),
			TotalAmount:  asNumber(raw["Total Amount"]),
			FinalAmount:  asNumber(raw["Final Amount"]),
			Date:         asMillis(raw["Date"]),
		},
		Operational: salesmodels.SaleOperational{
			PaymentMethod: asString(raw["Payment Method"]),
			StoreId:       asString(raw["Store ID"]),
			StoreLocation: asString(raw["Store Location"]),
			DeliveryType:  asString(raw["Delivery Type"]),
			SalesPerson: salesmodels.SalesPerson{
				Id:   asString(raw["Salesperson ID"]),
				Name: asString(raw["Employee Name"]),
			},
		},
	}
}

// ImportFromFile nạp dữ liệu từ file JSON (mảng bản ghi thô) vào collection
func (s *SaleImportService) ImportFromFile(ctx context.Context, path string) (*ImportSummary, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, common.NewError(common.ErrCodeImportStream, fmt.Sprintf("Không mở được file dữ liệu %s", path), common.StatusBadRequest, err)
	}
	defer file.Close()

	return s.ImportFromReader(ctx, path, file)
}

// ImportFromReader nạp dữ liệu từ một luồng JSON.
// Quy trình: xóa sạch collection (lỗi xóa chỉ ghi log, không dừng), sau đó decode
// tuần tự từng phần tử của mảng và ghi theo lô — decoder chỉ đọc tiếp khi lô trước
// đã ghi xong nên bộ nhớ không phụ thuộc kích thước file. Lỗi ghi lô là lỗi dừng.
func (s *SaleImportService) ImportFromReader(ctx context.Context, source string, r io.Reader) (*ImportSummary, error) {
	start := time.Now()
	log := logger.GetAppLogger().WithFields(logrus.Fields{
		"module": "sales",
		"source": source,
	})

	summary := &ImportSummary{Source: source}

	// Xóa dữ liệu cũ trước khi nạp
	deleted, err := s.store.DeleteMany(ctx, nil)
	if err != nil {
		log.WithError(err).Error("Error clearing old data")
	} else {
		summary.Cleared = true
		log.WithField("deleted", deleted).Info("Old data cleared")
	}

	streamErr := func(err error) error {
		summary.Duration = time.Since(start)
		s.audit(summary, err)
		return common.NewError(common.ErrCodeImportStream, "Lỗi đọc luồng dữ liệu nhập", common.StatusBadRequest, err)
	}
	writeErr := func(err error) error {
		summary.Duration = time.Since(start)
		s.audit(summary, err)
		return common.NewError(common.ErrCodeImportWrite, "Lỗi ghi lô dữ liệu nhập", common.StatusInternalServerError, err)
	}

	decoder := json.NewDecoder(r)

	// Dữ liệu nguồn phải là một mảng JSON
	token, err := decoder.Token()
	if err != nil {
		return nil, streamErr(err)
	}
	if delim, ok := token.(json.Delim); !ok || delim != '[' {
		return nil, streamErr(fmt.Errorf("dữ liệu nguồn không phải mảng JSON, gặp token %v", token))
	}

	log.Info("Starting stream import")

	batch := make([]salesmodels.SaleRecord, 0, s.batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if _, err := s.store.InsertMany(ctx, batch); err != nil {
			return err
		}
		summary.Inserted += int64(len(batch))
		log.WithField("inserted", summary.Inserted).Info("Batch inserted")
		batch = batch[:0]
		return nil
	}

	for decoder.More() {
		if err := ctx.Err(); err != nil {
			return nil, streamErr(err)
		}

		var raw map[string]interface{}
		if err := decoder.Decode(&raw); err != nil {
			return nil, streamErr(err)
		}

		batch = append(batch, TransformRawRecord(raw))
		if len(batch) >= s.batchSize {
			if err := flush(); err != nil {
				return nil, writeErr(err)
			}
		}
	}

	// Token đóng mảng
	if _, err := decoder.Token(); err != nil {
		return nil, streamErr(err)
	}

	// Ghi nốt lô cuối
	if err := flush(); err != nil {
		return nil, writeErr(err)
	}

	summary.Duration = time.Since(start)
	s.audit(summary, nil)
	log.WithFields(logrus.Fields{
		"inserted":    summary.Inserted,
		"duration_ms": summary.Duration.Milliseconds(),
	}).Info("Data import complete")

	return summary, nil
}

// audit ghi audit log cho lần chạy import
func (s *SaleImportService) audit(summary *ImportSummary, err error) {
	logger.LogImportRun(logger.ImportRun{
		Source:     summary.Source,
		Collection: global.MongoDB_ColNames.SaleRecords,
		Inserted:   summary.Inserted,
		Cleared:    summary.Cleared,
		DurationMs: summary.Duration.Milliseconds(),
	}, err)
}
