// Package dto - Test parse tham số truy vấn danh sách giao dịch.
package dto

import (
	"errors"
	"testing"
	"time"

	"retail_sales/internal/common"
	"retail_sales/internal/global"
)

func init() {
	global.InitValidator()
}

func TestParse_Defaults(t *testing.T) {
	q := SaleListQuery{}
	params, err := q.Parse()
	if err != nil {
		t.Fatalf("Parse query rỗng phải thành công, lỗi: %v", err)
	}
	if params.Page != DefaultPage {
		t.Errorf("Page mặc định phải là %d, nhận %d", DefaultPage, params.Page)
	}
	if params.Limit != DefaultLimit {
		t.Errorf("Limit mặc định phải là %d, nhận %d", DefaultLimit, params.Limit)
	}
	if params.SortBy != DefaultSortBy {
		t.Errorf("SortBy mặc định phải là %q, nhận %q", DefaultSortBy, params.SortBy)
	}
	if params.SortOrder != -1 {
		t.Errorf("SortOrder mặc định phải là -1 (desc), nhận %d", params.SortOrder)
	}
	if params.MinAge != nil || params.MaxAge != nil || params.StartDate != nil || params.EndDate != nil {
		t.Error("Các filter khoảng phải là nil khi không truyền")
	}
}

func TestParse_MultiValueFilters(t *testing.T) {
	q := SaleListQuery{
		Gender:   "Male, Female",
		Region:   "North,  South ,",
		Category: "Electronics",
		Tags:     "sale,,new",
	}
	params, err := q.Parse()
	if err != nil {
		t.Fatalf("Parse thất bại: %v", err)
	}
	if len(params.Gender) != 2 || params.Gender[0] != "Male" || params.Gender[1] != "Female" {
		t.Errorf("Gender phải tách và trim thành 2 giá trị, nhận %v", params.Gender)
	}
	if len(params.Region) != 2 {
		t.Errorf("Region phải bỏ phần tử rỗng, nhận %v", params.Region)
	}
	if len(params.Category) != 1 {
		t.Errorf("Category một giá trị, nhận %v", params.Category)
	}
	if len(params.Tags) != 2 {
		t.Errorf("Tags phải bỏ phần tử rỗng ở giữa, nhận %v", params.Tags)
	}
}

func TestParse_AgeRange(t *testing.T) {
	q := SaleListQuery{MinAge: "18", MaxAge: "65"}
	params, err := q.Parse()
	if err != nil {
		t.Fatalf("Parse thất bại: %v", err)
	}
	if params.MinAge == nil || *params.MinAge != 18 {
		t.Errorf("MinAge phải là 18, nhận %v", params.MinAge)
	}
	if params.MaxAge == nil || *params.MaxAge != 65 {
		t.Errorf("MaxAge phải là 65, nhận %v", params.MaxAge)
	}
}

func TestParse_MalformedNumberRejected(t *testing.T) {
	for _, raw := range []string{"abc", "12abc", "--1"} {
		q := SaleListQuery{MinAge: raw}
		_, err := q.Parse()
		if err == nil {
			t.Fatalf("minAge=%q phải bị từ chối", raw)
		}
		var customErr *common.Error
		if !errors.As(err, &customErr) {
			t.Fatalf("lỗi phải là *common.Error, nhận %T", err)
		}
		if customErr.StatusCode != common.StatusBadRequest {
			t.Errorf("status phải là 400, nhận %d", customErr.StatusCode)
		}
		if customErr.Code.Code != common.ErrCodeValidationFormat.Code {
			t.Errorf("mã lỗi phải là %s, nhận %s", common.ErrCodeValidationFormat.Code, customErr.Code.Code)
		}
	}
}

func TestParse_DateFormats(t *testing.T) {
	q := SaleListQuery{StartDate: "2024-01-15", EndDate: "2024-06-30 23:59:59"}
	params, err := q.Parse()
	if err != nil {
		t.Fatalf("Parse thất bại: %v", err)
	}
	if params.StartDate == nil || params.EndDate == nil {
		t.Fatal("StartDate/EndDate không được nil")
	}
	want := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC).UnixMilli()
	if *params.StartDate != want {
		t.Errorf("StartDate phải là %d, nhận %d", want, *params.StartDate)
	}
	if *params.EndDate <= *params.StartDate {
		t.Error("EndDate phải lớn hơn StartDate")
	}
}

func TestParse_MalformedDateRejected(t *testing.T) {
	q := SaleListQuery{StartDate: "15/01/2024"}
	if _, err := q.Parse(); err == nil {
		t.Fatal("startDate sai định dạng phải bị từ chối")
	}
}

func TestParse_PageClamp(t *testing.T) {
	q := SaleListQuery{Page: "0", Limit: "-5"}
	params, err := q.Parse()
	if err != nil {
		t.Fatalf("Parse thất bại: %v", err)
	}
	if params.Page != 1 {
		t.Errorf("page=0 phải clamp về 1, nhận %d", params.Page)
	}
	if params.Limit != DefaultLimit {
		t.Errorf("limit âm phải rơi về mặc định %d, nhận %d", DefaultLimit, params.Limit)
	}

	q = SaleListQuery{Page: "xyz"}
	if _, err := q.Parse(); err == nil {
		t.Fatal("page không phải số phải bị từ chối")
	}
}

func TestParse_SortOrder(t *testing.T) {
	for raw, want := range map[string]int{"asc": 1, "ASC": 1, "desc": -1, "": -1, "sideways": -1} {
		q := SaleListQuery{Order: raw}
		params, err := q.Parse()
		if err != nil {
			t.Fatalf("Parse thất bại với order=%q: %v", raw, err)
		}
		if params.SortOrder != want {
			t.Errorf("order=%q phải cho SortOrder=%d, nhận %d", raw, want, params.SortOrder)
		}
	}
}

func TestParse_SortFieldValidated(t *testing.T) {
	q := SaleListQuery{SortBy: "sale.finalAmount"}
	params, err := q.Parse()
	if err != nil {
		t.Fatalf("sortBy hợp lệ phải được chấp nhận: %v", err)
	}
	if params.SortBy != "sale.finalAmount" {
		t.Errorf("SortBy phải giữ nguyên, nhận %q", params.SortBy)
	}

	for _, bad := range []string{".customer", "sale..date", "sale.date;drop"} {
		q := SaleListQuery{SortBy: bad}
		if _, err := q.Parse(); err == nil {
			t.Errorf("sortBy=%q phải bị từ chối", bad)
		}
	}
}

func TestParseFilterValues(t *testing.T) {
	if got := ParseFilterValues(""); got != nil {
		t.Errorf("chuỗi rỗng phải trả về nil, nhận %v", got)
	}
	if got := ParseFilterValues(" , ,"); got != nil {
		t.Errorf("chuỗi toàn phân cách phải trả về nil, nhận %v", got)
	}
	got := ParseFilterValues("a, b ,c")
	if len(got) != 3 || got[1] != "b" {
		t.Errorf("phải tách và trim thành [a b c], nhận %v", got)
	}
}
