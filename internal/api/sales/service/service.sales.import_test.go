// Package salessvc - Test transform bản ghi thô và ghi theo lô của importer.
package salessvc

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	salesmodels "retail_sales/internal/api/sales/models"
	"retail_sales/internal/common"
)

// fakeSaleStore ghi lại các lời gọi ghi lô và trả về dữ liệu đọc cấu hình sẵn
type fakeSaleStore struct {
	batches   [][]salesmodels.SaleRecord
	deleted   bool
	insertErr error
	deleteErr error

	findItems    []salesmodels.SaleRecord
	findErr      error
	lastFindOpts *options.FindOptions
	count        int64
	countErr     error
	aggRows      []bson.M
	aggErr       error
}

func (f *fakeSaleStore) InsertMany(ctx context.Context, data []salesmodels.SaleRecord) ([]salesmodels.SaleRecord, error) {
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	batch := make([]salesmodels.SaleRecord, len(data))
	copy(batch, data)
	f.batches = append(f.batches, batch)
	return batch, nil
}

func (f *fakeSaleStore) Find(ctx context.Context, filter interface{}, opts *options.FindOptions) ([]salesmodels.SaleRecord, error) {
	f.lastFindOpts = opts
	if f.findErr != nil {
		return nil, f.findErr
	}
	if f.findItems == nil {
		return []salesmodels.SaleRecord{}, nil
	}
	return f.findItems, nil
}

func (f *fakeSaleStore) DeleteMany(ctx context.Context, filter interface{}) (int64, error) {
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}
	f.deleted = true
	return 0, nil
}

func (f *fakeSaleStore) CountDocuments(ctx context.Context, filter interface{}) (int64, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	return f.count, nil
}

func (f *fakeSaleStore) Aggregate(ctx context.Context, pipeline interface{}) ([]bson.M, error) {
	if f.aggErr != nil {
		return nil, f.aggErr
	}
	if f.aggRows == nil {
		return []bson.M{}, nil
	}
	return f.aggRows, nil
}

func (f *fakeSaleStore) inserted() int {
	n := 0
	for _, b := range f.batches {
		n += len(b)
	}
	return n
}

// rawRecordsJSON sinh mảng JSON gồm n bản ghi thô
func rawRecordsJSON(n int) string {
	var sb strings.Builder
	sb.WriteString("[")
	for i := 0; i < n; i++ {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(fmt.Sprintf(`{"Transaction ID":"TX%06d","Customer Name":"KH %d","Quantity":2,"Total Amount":100,"Final Amount":90}`, i, i))
	}
	sb.WriteString("]")
	return sb.String()
}

func TestTransformRawRecord_FieldMapping(t *testing.T) {
	raw := map[string]interface{}{}
	require.NoError(t, json.Unmarshal([]byte(`{
		"Transaction ID": "TX001",
		"Customer ID": "C01",
		"Customer Name": "Nguyen Van A",
		"Gender": "Male",
		"Age": 34,
		"Customer Region": "North",
		"Phone Number": 84901234567,
		"Email": "a@example.com",
		"Product ID": "P01",
		"Product Name": "Laptop",
		"Brand": "Acme",
		"Product Category": "Electronics",
		"Tags": "sale, new ,hot",
		"Quantity": 2,
		"Price per Unit": 500.5,
		"Discount Percentage": 10,
		"Total Amount": 1001,
		"Final Amount": 900.9,
		"Date": "2024-03-01",
		"Payment Method": "Card",
		"Store ID": "S01",
		"Store Location": "Hanoi",
		"Delivery Type": "Home",
		"Salesperson ID": "E01",
		"Employee Name": "Tran Thi B"
	}`), &raw))

	rec := TransformRawRecord(raw)

	assert.Equal(t, "TX001", rec.TransactionId)
	assert.Equal(t, "Nguyen Van A", rec.Customer.Name)
	assert.Equal(t, 34.0, rec.Customer.Age)
	assert.Equal(t, "North", rec.Customer.Region)
	assert.Equal(t, "84901234567", rec.Customer.Phone, "số điện thoại dạng số phải format thập phân đầy đủ, không được thành ký hiệu khoa học")
	assert.Equal(t, []string{"sale", "new", "hot"}, rec.Product.Tags, "tags dạng chuỗi phải tách theo dấu phẩy và trim")
	assert.Equal(t, 2.0, rec.Sale.Quantity)
	assert.Equal(t, 500.5, rec.Sale.PricePerUnit)
	assert.Equal(t, 10.0, rec.Sale.Discount)
	assert.Equal(t, 900.9, rec.Sale.FinalAmount)
	assert.Greater(t, rec.Sale.Date, int64(0), "ngày hợp lệ phải parse ra Unix millis")
	assert.Equal(t, "Tran Thi B", rec.Operational.SalesPerson.Name)
}

func TestTransformRawRecord_MissingTransactionID(t *testing.T) {
	rec := TransformRawRecord(map[string]interface{}{"Customer Name": "X"})
	assert.Len(t, rec.TransactionId, 24, "thiếu Transaction ID phải sinh mã mới dạng ObjectID hex")

	rec2 := TransformRawRecord(map[string]interface{}{"Customer Name": "Y"})
	assert.NotEqual(t, rec.TransactionId, rec2.TransactionId)
}

func TestTransformRawRecord_MalformedValues(t *testing.T) {
	rec := TransformRawRecord(map[string]interface{}{
		"Quantity": "abc",
		"Age":      nil,
		"Date":     "not-a-date",
		"Tags":     []interface{}{"a", "b"},
	})
	assert.Zero(t, rec.Sale.Quantity, "số không parse được phải về 0")
	assert.Zero(t, rec.Customer.Age)
	assert.Zero(t, rec.Sale.Date, "ngày không parse được phải về 0")
	assert.Equal(t, []string{"a", "b"}, rec.Product.Tags, "tags dạng mảng giữ nguyên phần tử")
}

func TestImportFromReader_Batching(t *testing.T) {
	cases := []struct {
		records     int
		batchSize   int
		wantBatches []int
	}{
		{0, 1000, nil},
		{1, 1000, []int{1}},
		{999, 1000, []int{999}},
		{1000, 1000, []int{1000}},
		{1001, 1000, []int{1000, 1}},
		{2500, 1000, []int{1000, 1000, 500}},
		{7, 3, []int{3, 3, 1}},
	}

	for _, tc := range cases {
		store := &fakeSaleStore{}
		svc := NewSaleImportServiceWithStore(store, tc.batchSize)

		summary, err := svc.ImportFromReader(context.Background(), "test.json", strings.NewReader(rawRecordsJSON(tc.records)))
		require.NoError(t, err, "import %d bản ghi với lô %d", tc.records, tc.batchSize)

		var sizes []int
		for _, b := range store.batches {
			sizes = append(sizes, len(b))
		}
		assert.Equal(t, tc.wantBatches, sizes, "kích thước các lô với %d bản ghi, lô %d", tc.records, tc.batchSize)
		assert.Equal(t, int64(tc.records), summary.Inserted)
		assert.True(t, store.deleted, "collection phải được xóa sạch trước khi nạp")
		assert.True(t, summary.Cleared)
	}
}

func TestImportFromReader_ClearFailureNotFatal(t *testing.T) {
	store := &fakeSaleStore{deleteErr: common.ErrMongoQuery}
	svc := NewSaleImportServiceWithStore(store, 1000)

	summary, err := svc.ImportFromReader(context.Background(), "test.json", strings.NewReader(rawRecordsJSON(3)))
	require.NoError(t, err, "lỗi xóa dữ liệu cũ không được dừng import")
	assert.Equal(t, int64(3), summary.Inserted)
	assert.False(t, summary.Cleared)
}

func TestImportFromReader_InsertFailureFatal(t *testing.T) {
	store := &fakeSaleStore{insertErr: common.ErrMongoWrite}
	svc := NewSaleImportServiceWithStore(store, 2)

	_, err := svc.ImportFromReader(context.Background(), "test.json", strings.NewReader(rawRecordsJSON(5)))
	require.Error(t, err, "lỗi ghi lô phải dừng import")

	var customErr *common.Error
	require.ErrorAs(t, err, &customErr)
	assert.Equal(t, common.ErrCodeImportWrite.Code, customErr.Code.Code)
}

func TestImportFromReader_NotAnArray(t *testing.T) {
	store := &fakeSaleStore{}
	svc := NewSaleImportServiceWithStore(store, 1000)

	_, err := svc.ImportFromReader(context.Background(), "test.json", strings.NewReader(`{"foo": 1}`))
	require.Error(t, err)

	var customErr *common.Error
	require.ErrorAs(t, err, &customErr)
	assert.Equal(t, common.ErrCodeImportStream.Code, customErr.Code.Code)
	assert.Equal(t, 0, store.inserted())
}

func TestImportFromReader_TruncatedStream(t *testing.T) {
	store := &fakeSaleStore{}
	svc := NewSaleImportServiceWithStore(store, 2)

	// Mảng bị cắt giữa chừng: các lô đã flush trước điểm lỗi vẫn được ghi
	truncated := strings.TrimSuffix(rawRecordsJSON(5), "]")
	_, err := svc.ImportFromReader(context.Background(), "test.json", strings.NewReader(truncated))
	require.Error(t, err)

	var customErr *common.Error
	require.ErrorAs(t, err, &customErr)
	assert.Equal(t, common.ErrCodeImportStream.Code, customErr.Code.Code)
	assert.Equal(t, 4, store.inserted(), "hai lô đầy trước điểm lỗi đã được ghi")
}
