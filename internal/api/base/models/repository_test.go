// Package models - Test quy ước tính tổng số trang.
package models

import "testing"

func TestTotalPageFor(t *testing.T) {
	cases := []struct {
		total, limit, want int64
	}{
		{0, 10, 0}, // không có dữ liệu thì totalPages = 0, không phải 1
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{95, 10, 10},
		{100, 10, 10},
		{101, 10, 11},
		{5, 0, 0},  // limit không hợp lệ
		{-1, 10, 0},
	}

	for _, tc := range cases {
		if got := TotalPageFor(tc.total, tc.limit); got != tc.want {
			t.Errorf("TotalPageFor(%d, %d) = %d, muốn %d", tc.total, tc.limit, got, tc.want)
		}
	}
}
