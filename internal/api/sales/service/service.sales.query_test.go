// Package salessvc - Test dựng filter/sort/pipeline cho truy vấn danh sách giao dịch.
package salessvc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	salesdto "retail_sales/internal/api/sales/dto"
	salesmodels "retail_sales/internal/api/sales/models"
	"retail_sales/internal/common"
)

func float64Ptr(v float64) *float64 { return &v }
func int64Ptr(v int64) *int64       { return &v }

func TestBuildFilter_Empty(t *testing.T) {
	filter := BuildFilter(&salesdto.SaleListParams{})
	assert.Empty(t, filter, "không có tham số thì filter phải rỗng (match tất cả)")
}

func TestBuildFilter_Search(t *testing.T) {
	filter := BuildFilter(&salesdto.SaleListParams{Search: "nguyen"})

	or, ok := filter["$or"].([]bson.M)
	assert.True(t, ok, "search phải sinh điều kiện $or")
	assert.Len(t, or, 2)

	nameCond, ok := or[0]["customer.name"].(bson.M)
	assert.True(t, ok)
	assert.Equal(t, "nguyen", nameCond["$regex"])
	assert.Equal(t, "i", nameCond["$options"], "regex phải không phân biệt hoa thường")

	_, ok = or[1]["customer.phone"]
	assert.True(t, ok, "search phải khớp cả số điện thoại")
}

func TestBuildFilter_MultiValue(t *testing.T) {
	filter := BuildFilter(&salesdto.SaleListParams{
		Gender:        []string{"Male", "Female"},
		Region:        []string{"North"},
		Category:      []string{"Electronics"},
		PaymentMethod: []string{"Cash", "Card"},
		Tags:          []string{"sale"},
	})

	assert.Equal(t, bson.M{"$in": []string{"Male", "Female"}}, filter["customer.gender"])
	assert.Equal(t, bson.M{"$in": []string{"North"}}, filter["customer.region"])
	assert.Equal(t, bson.M{"$in": []string{"Electronics"}}, filter["product.category"])
	assert.Equal(t, bson.M{"$in": []string{"Cash", "Card"}}, filter["operational.paymentMethod"])
	assert.Equal(t, bson.M{"$in": []string{"sale"}}, filter["product.tags"])
}

func TestBuildFilter_Ranges(t *testing.T) {
	filter := BuildFilter(&salesdto.SaleListParams{
		MinAge:    float64Ptr(18),
		MaxAge:    float64Ptr(65),
		StartDate: int64Ptr(1700000000000),
	})

	assert.Equal(t, bson.M{"$gte": 18.0, "$lte": 65.0}, filter["customer.age"])
	assert.Equal(t, bson.M{"$gte": int64(1700000000000)}, filter["sale.date"], "chỉ có cận dưới thì không được thêm $lte")
}

func TestBuildFilter_CombinedConditions(t *testing.T) {
	// gender=Female & minAge=25 & maxAge=40: các điều kiện phải AND với nhau
	filter := BuildFilter(&salesdto.SaleListParams{
		Gender: []string{"Female"},
		MinAge: float64Ptr(25),
		MaxAge: float64Ptr(40),
	})

	assert.Len(t, filter, 2)
	assert.Equal(t, bson.M{"$in": []string{"Female"}}, filter["customer.gender"])
	assert.Equal(t, bson.M{"$gte": 25.0, "$lte": 40.0}, filter["customer.age"])
}

func TestBuildFilter_OnlyMaxAge(t *testing.T) {
	filter := BuildFilter(&salesdto.SaleListParams{MaxAge: float64Ptr(30)})
	assert.Equal(t, bson.M{"$lte": 30.0}, filter["customer.age"])
}

func TestBuildSort_Tiebreaker(t *testing.T) {
	sort := BuildSort(&salesdto.SaleListParams{SortBy: "sale.date", SortOrder: -1})
	assert.Equal(t, bson.D{
		{Key: "sale.date", Value: -1},
		{Key: "_id", Value: 1},
	}, sort)
}

func TestBuildSort_ByIDNoDuplicate(t *testing.T) {
	sort := BuildSort(&salesdto.SaleListParams{SortBy: "_id", SortOrder: 1})
	assert.Len(t, sort, 1, "sort theo _id không được thêm tiebreaker trùng")
}

func TestStatsPipeline(t *testing.T) {
	filter := bson.M{"customer.region": bson.M{"$in": []string{"North"}}}
	pipeline := StatsPipeline(filter)

	assert.Len(t, pipeline, 2)
	assert.Equal(t, "$match", pipeline[0][0].Key)
	assert.Equal(t, filter, pipeline[0][0].Value, "stats phải tính trên cùng filter với danh sách")

	group, ok := pipeline[1][0].Value.(bson.M)
	assert.True(t, ok)
	assert.Equal(t, bson.M{"$sum": "$sale.quantity"}, group["totalUnits"])
	assert.Equal(t, bson.M{"$sum": "$sale.totalAmount"}, group["totalAmount"])
	assert.Equal(t, bson.M{"$sum": "$sale.finalAmount"}, group["totalFinal"])
}

func TestStatsFromAggregate(t *testing.T) {
	stats := statsFromAggregate([]bson.M{{
		"totalUnits":  int32(120),
		"totalAmount": 5000.5,
		"totalFinal":  int64(4500),
	}})

	assert.Equal(t, 120.0, stats.TotalUnits)
	assert.Equal(t, 5000.5, stats.TotalAmount)
	assert.Equal(t, 500.5, stats.TotalDiscount, "totalDiscount = sum(totalAmount) - sum(finalAmount)")
}

func TestStatsFromAggregate_Empty(t *testing.T) {
	stats := statsFromAggregate(nil)
	assert.Zero(t, stats.TotalUnits)
	assert.Zero(t, stats.TotalAmount)
	assert.Zero(t, stats.TotalDiscount)
}

func TestListSales_AssemblesResult(t *testing.T) {
	store := &fakeSaleStore{
		findItems: []salesmodels.SaleRecord{
			{TransactionId: "TX001"},
			{TransactionId: "TX002"},
		},
		count: 23,
		aggRows: []bson.M{{
			"totalUnits":  int32(50),
			"totalAmount": 2000.0,
			"totalFinal":  1800.0,
		}},
	}
	svc := NewSaleQueryServiceWithStore(store)

	result, err := svc.ListSales(context.Background(), &salesdto.SaleListParams{Page: 2, Limit: 10, SortBy: "sale.date", SortOrder: -1})
	require.NoError(t, err)

	assert.Len(t, result.Data, 2)
	assert.Equal(t, SalePagination{Total: 23, Page: 2, Limit: 10, TotalPages: 3}, result.Pagination)
	assert.Equal(t, SaleStats{TotalUnits: 50, TotalAmount: 2000, TotalDiscount: 200}, result.Stats)

	require.NotNil(t, store.lastFindOpts)
	assert.Equal(t, int64(10), *store.lastFindOpts.Skip, "trang 2 với limit 10 phải skip 10 bản ghi")
	assert.Equal(t, int64(10), *store.lastFindOpts.Limit)
}

func TestListSales_PageClampAndDefaultLimit(t *testing.T) {
	store := &fakeSaleStore{count: 5}
	svc := NewSaleQueryServiceWithStore(store)

	result, err := svc.ListSales(context.Background(), &salesdto.SaleListParams{Page: 0, Limit: 0})
	require.NoError(t, err)

	assert.Equal(t, int64(1), result.Pagination.Page)
	assert.Equal(t, int64(salesdto.DefaultLimit), result.Pagination.Limit)
	require.NotNil(t, store.lastFindOpts)
	assert.Equal(t, int64(0), *store.lastFindOpts.Skip, "page clamp về 1 thì không được skip")
}

func TestListSales_EmptyPagePastData(t *testing.T) {
	// Trang vượt quá dữ liệu: data rỗng nhưng total/totalPages/stats vẫn phản ánh toàn bộ tập khớp filter
	store := &fakeSaleStore{
		count: 3,
		aggRows: []bson.M{{
			"totalUnits":  int32(9),
			"totalAmount": 300.0,
			"totalFinal":  270.0,
		}},
	}
	svc := NewSaleQueryServiceWithStore(store)

	result, err := svc.ListSales(context.Background(), &salesdto.SaleListParams{Page: 5, Limit: 10})
	require.NoError(t, err)

	assert.NotNil(t, result.Data, "data phải là mảng rỗng, không phải null")
	assert.Empty(t, result.Data)
	assert.Equal(t, SalePagination{Total: 3, Page: 5, Limit: 10, TotalPages: 1}, result.Pagination)
	assert.Equal(t, SaleStats{TotalUnits: 9, TotalAmount: 300, TotalDiscount: 30}, result.Stats)
}

func TestListSales_ReadErrorsFailRequest(t *testing.T) {
	// Một trong ba thao tác đọc lỗi thì cả request lỗi, không trả kết quả một phần
	cases := []struct {
		name  string
		store *fakeSaleStore
	}{
		{"find lỗi", &fakeSaleStore{findErr: common.ErrMongoQuery, count: 10}},
		{"count lỗi", &fakeSaleStore{countErr: common.ErrMongoQuery}},
		{"aggregate lỗi", &fakeSaleStore{aggErr: common.ErrMongoQuery, count: 10}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewSaleQueryServiceWithStore(tc.store)
			result, err := svc.ListSales(context.Background(), &salesdto.SaleListParams{Page: 1, Limit: 10})
			require.Error(t, err)
			assert.Nil(t, result)
		})
	}
}
