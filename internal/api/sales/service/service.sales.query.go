// Package salessvc - Query service cho domain sales: lọc, sắp xếp, phân trang
// danh sách giao dịch và tính thống kê tổng hợp trên cùng một predicate.
package salessvc

import (
	"context"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	mongoopts "go.mongodb.org/mongo-driver/mongo/options"

	basemodels "retail_sales/internal/api/base/models"
	basesvc "retail_sales/internal/api/base/service"
	salesdto "retail_sales/internal/api/sales/dto"
	salesmodels "retail_sales/internal/api/sales/models"
	"retail_sales/internal/common"
	"retail_sales/internal/global"
)

// SalePagination metadata phân trang của danh sách giao dịch
type SalePagination struct {
	Total      int64 `json:"total"`
	Page       int64 `json:"page"`
	Limit      int64 `json:"limit"`
	TotalPages int64 `json:"totalPages"`
}

// SaleStats thống kê tổng hợp trên toàn bộ tập bản ghi khớp filter (không chỉ trang hiện tại)
type SaleStats struct {
	TotalUnits    float64 `json:"totalUnits"`    // Tổng số lượng bán ra
	TotalAmount   float64 `json:"totalAmount"`   // Tổng thành tiền trước giảm giá
	TotalDiscount float64 `json:"totalDiscount"` // Tổng giảm giá = sum(totalAmount) - sum(finalAmount)
}

// SaleListResult kết quả trả về của GET /api/sales
type SaleListResult struct {
	Data       []salesmodels.SaleRecord `json:"data"`
	Pagination SalePagination           `json:"pagination"`
	Stats      SaleStats                `json:"stats"`
}

// SaleQueryService service truy vấn danh sách giao dịch
type SaleQueryService struct {
	store basesvc.BaseServiceMongo[salesmodels.SaleRecord]
}

// NewSaleQueryService tạo mới SaleQueryService từ collection đã đăng ký trong registry
func NewSaleQueryService() (*SaleQueryService, error) {
	coll, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.SaleRecords)
	if !exist {
		return nil, fmt.Errorf("không tìm thấy collection %s: %w", global.MongoDB_ColNames.SaleRecords, common.ErrNotFound)
	}
	return NewSaleQueryServiceWithStore(basesvc.NewBaseServiceMongo[salesmodels.SaleRecord](coll)), nil
}

// NewSaleQueryServiceWithStore tạo SaleQueryService với store tùy ý (dùng trong test)
func NewSaleQueryServiceWithStore(store basesvc.BaseServiceMongo[salesmodels.SaleRecord]) *SaleQueryService {
	return &SaleQueryService{store: store}
}

// BuildFilter dựng filter bson từ tham số truy vấn.
// Các điều kiện kết hợp bằng AND; riêng search là OR của 2 điều kiện regex
// (chứa chuỗi con, không phân biệt hoa thường) trên customer.name và customer.phone.
func BuildFilter(params *salesdto.SaleListParams) bson.M {
	filter := bson.M{}

	if params.Search != "" {
		regex := bson.M{"$regex": params.Search, "$options": "i"}
		filter["$or"] = []bson.M{
			{"customer.name": regex},
			{"customer.phone": regex},
		}
	}

	if len(params.Gender) > 0 {
		filter["customer.gender"] = bson.M{"$in": params.Gender}
	}
	if len(params.Region) > 0 {
		filter["customer.region"] = bson.M{"$in": params.Region}
	}
	if len(params.Category) > 0 {
		filter["product.category"] = bson.M{"$in": params.Category}
	}
	if len(params.PaymentMethod) > 0 {
		filter["operational.paymentMethod"] = bson.M{"$in": params.PaymentMethod}
	}
	// tags là mảng: $in khớp khi bản ghi chứa ít nhất một tag được liệt kê
	if len(params.Tags) > 0 {
		filter["product.tags"] = bson.M{"$in": params.Tags}
	}

	if params.MinAge != nil || params.MaxAge != nil {
		ageRange := bson.M{}
		if params.MinAge != nil {
			ageRange["$gte"] = *params.MinAge
		}
		if params.MaxAge != nil {
			ageRange["$lte"] = *params.MaxAge
		}
		filter["customer.age"] = ageRange
	}

	if params.StartDate != nil || params.EndDate != nil {
		dateRange := bson.M{}
		if params.StartDate != nil {
			dateRange["$gte"] = *params.StartDate
		}
		if params.EndDate != nil {
			dateRange["$lte"] = *params.EndDate
		}
		filter["sale.date"] = dateRange
	}

	return filter
}

// BuildSort dựng sort document. Luôn kèm _id tăng dần làm tiebreaker để
// phân trang ổn định khi nhiều bản ghi trùng giá trị sort (ví dụ cùng ngày).
func BuildSort(params *salesdto.SaleListParams) bson.D {
	sort := bson.D{{Key: params.SortBy, Value: params.SortOrder}}
	if params.SortBy != "_id" {
		sort = append(sort, bson.E{Key: "_id", Value: 1})
	}
	return sort
}

// StatsPipeline dựng aggregation pipeline tính thống kê trên filter.
// totalDiscount được tính bằng hiệu hai tổng (sum rồi trừ), không phải tổng
// của hiệu từng bản ghi — bản ghi thiếu finalAmount vì vậy làm lệch kết quả,
// đây là đặc tính dữ liệu được giữ nguyên.
func StatsPipeline(filter bson.M) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: filter}},
		{{Key: "$group", Value: bson.M{
			"_id":         nil,
			"totalUnits":  bson.M{"$sum": "$sale.quantity"},
			"totalAmount": bson.M{"$sum": "$sale.totalAmount"},
			"totalFinal":  bson.M{"$sum": "$sale.finalAmount"},
		}}},
	}
}

// statsFromAggregate đọc kết quả $group thành SaleStats
func statsFromAggregate(rows []bson.M) SaleStats {
	if len(rows) == 0 {
		return SaleStats{}
	}
	totalUnits := toFloat64(rows[0]["totalUnits"])
	totalAmount := toFloat64(rows[0]["totalAmount"])
	totalFinal := toFloat64(rows[0]["totalFinal"])
	return SaleStats{
		TotalUnits:    totalUnits,
		TotalAmount:   totalAmount,
		TotalDiscount: totalAmount - totalFinal,
	}
}

// toFloat64 đọc giá trị numeric từ bson.M (driver có thể trả int32/int64/float64)
func toFloat64(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	case int32:
		return float64(n)
	case int:
		return float64(n)
	}
	return 0
}

// ListSales trả về một trang giao dịch kèm metadata phân trang và thống kê.
// Ba thao tác đọc (fetch trang, count, aggregate) độc lập trên cùng filter
// nên chạy song song; một thao tác lỗi làm cả request lỗi, không trả kết quả
// một phần.
func (s *SaleQueryService) ListSales(ctx context.Context, params *salesdto.SaleListParams) (*SaleListResult, error) {
	filter := BuildFilter(params)
	sort := BuildSort(params)

	page := params.Page
	if page < 1 {
		page = 1
	}
	limit := params.Limit
	if limit <= 0 {
		limit = salesdto.DefaultLimit
	}
	skip := (page - 1) * limit

	var (
		wg       sync.WaitGroup
		items    []salesmodels.SaleRecord
		total    int64
		stats    SaleStats
		findErr  error
		countErr error
		statsErr error
	)

	wg.Add(3)

	go func() {
		defer wg.Done()
		opts := mongoopts.Find().SetSort(sort).SetSkip(skip).SetLimit(limit)
		items, findErr = s.store.Find(ctx, filter, opts)
	}()

	go func() {
		defer wg.Done()
		total, countErr = s.store.CountDocuments(ctx, filter)
	}()

	go func() {
		defer wg.Done()
		var rows []bson.M
		rows, statsErr = s.store.Aggregate(ctx, StatsPipeline(filter))
		if statsErr == nil {
			stats = statsFromAggregate(rows)
		}
	}()

	wg.Wait()

	for _, err := range []error{findErr, countErr, statsErr} {
		if err != nil {
			return nil, err
		}
	}

	if items == nil {
		items = []salesmodels.SaleRecord{}
	}

	return &SaleListResult{
		Data: items,
		Pagination: SalePagination{
			Total:      total,
			Page:       page,
			Limit:      limit,
			TotalPages: basemodels.TotalPageFor(total, limit),
		},
		Stats: stats,
	}, nil
}
