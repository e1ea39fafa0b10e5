// Package dto - DTO cho domain sales (tham số truy vấn danh sách giao dịch).
package dto

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"retail_sales/internal/common"
	"retail_sales/internal/global"
)

// Các giá trị mặc định của truy vấn danh sách
const (
	DefaultPage   int64 = 1
	DefaultLimit  int64 = 10
	DefaultSortBy       = "sale.date"
)

// Các layout ngày được chấp nhận cho startDate/endDate
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// SaleListQuery tham số truy vấn thô từ query string.
// Tất cả đều optional; các filter nhiều giá trị phân cách bởi dấu phẩy.
type SaleListQuery struct {
	Search        string `query:"search" validate:"omitempty,no_xss"`
	Gender        string `query:"gender"`
	Region        string `query:"region"`
	Category      string `query:"category"`
	PaymentMethod string `query:"paymentMethod"`
	Tags          string `query:"tags"`
	MinAge        string `query:"minAge"`
	MaxAge        string `query:"maxAge"`
	StartDate     string `query:"startDate"`
	EndDate       string `query:"endDate"`
	Page          string `query:"page"`
	Limit         string `query:"limit"`
	SortBy        string `query:"sortBy" validate:"omitempty,sort_field"`
	Order         string `query:"order"`
}

// SaleListParams tham số đã ép kiểu, đầu vào của query service.
// Con số/ngày sai định dạng bị từ chối ngay khi parse với lỗi 400,
// không để lọt filter NaN xuống tầng truy vấn.
type SaleListParams struct {
	Search        string
	Gender        []string
	Region        []string
	Category      []string
	PaymentMethod []string
	Tags          []string
	MinAge        *float64
	MaxAge        *float64
	StartDate     *int64 // Unix millis, cận dưới (inclusive)
	EndDate       *int64 // Unix millis, cận trên (inclusive)
	Page          int64
	Limit         int64
	SortBy        string
	SortOrder     int // 1 = asc, -1 = desc
}

// ParseFilterValues tách chuỗi filter nhiều giá trị theo dấu phẩy, trim và bỏ phần tử rỗng
func ParseFilterValues(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			values = append(values, p)
		}
	}
	if len(values) == 0 {
		return nil
	}
	return values
}

// formatError tạo lỗi 400 cho tham số sai định dạng
func formatError(field, value string) error {
	return common.NewError(
		common.ErrCodeValidationFormat,
		fmt.Sprintf("Tham số %s không hợp lệ: %q", field, value),
		common.StatusBadRequest,
		nil,
	)
}

// parseOptionalNumber parse chuỗi số optional, rỗng trả về nil
func parseOptionalNumber(field, raw string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, formatError(field, raw)
	}
	return &v, nil
}

// parseOptionalDate parse chuỗi ngày optional thành Unix millis, rỗng trả về nil
func parseOptionalDate(field, raw string) (*int64, error) {
	if raw == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			ms := t.UnixMilli()
			return &ms, nil
		}
	}
	return nil, formatError(field, raw)
}

// Parse kiểm tra và ép kiểu query thô thành SaleListParams.
// Trả về lỗi *common.Error (400) nếu tham số số/ngày sai định dạng.
func (q *SaleListQuery) Parse() (*SaleListParams, error) {
	// Validate các rule khai báo trên struct (no_xss, sort_field)
	if global.Validate != nil {
		if err := global.Validate.Struct(q); err != nil {
			return nil, common.NewError(common.ErrCodeValidationInput, common.MsgValidationError, common.StatusBadRequest, err.Error())
		}
	}

	params := &SaleListParams{
		Search:        strings.TrimSpace(q.Search),
		Gender:        ParseFilterValues(q.Gender),
		Region:        ParseFilterValues(q.Region),
		Category:      ParseFilterValues(q.Category),
		PaymentMethod: ParseFilterValues(q.PaymentMethod),
		Tags:          ParseFilterValues(q.Tags),
		Page:          DefaultPage,
		Limit:         DefaultLimit,
		SortBy:        DefaultSortBy,
		SortOrder:     -1,
	}

	var err error
	if params.MinAge, err = parseOptionalNumber("minAge", q.MinAge); err != nil {
		return nil, err
	}
	if params.MaxAge, err = parseOptionalNumber("maxAge", q.MaxAge); err != nil {
		return nil, err
	}
	if params.StartDate, err = parseOptionalDate("startDate", q.StartDate); err != nil {
		return nil, err
	}
	if params.EndDate, err = parseOptionalDate("endDate", q.EndDate); err != nil {
		return nil, err
	}

	if q.Page != "" {
		page, err := strconv.ParseInt(q.Page, 10, 64)
		if err != nil {
			return nil, formatError("page", q.Page)
		}
		// max(1, page): trang ngoài phạm vi trả về trang rỗng, không phải lỗi
		if page < 1 {
			page = 1
		}
		params.Page = page
	}

	if q.Limit != "" {
		limit, err := strconv.ParseInt(q.Limit, 10, 64)
		if err != nil {
			return nil, formatError("limit", q.Limit)
		}
		if limit <= 0 {
			limit = DefaultLimit
		}
		params.Limit = limit
	}

	if q.SortBy != "" {
		params.SortBy = q.SortBy
	}

	// order khác asc/desc rơi về desc
	if strings.EqualFold(q.Order, "asc") {
		params.SortOrder = 1
	}

	return params, nil
}
