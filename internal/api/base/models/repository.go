// Package models chứa các kiểu và hàm dùng chung cho layer repository/base.
package models

// TotalPageFor tính tổng số trang theo quy ước: 0 khi không có dữ liệu, ngược lại ceil(total/limit)
func TotalPageFor(total, limit int64) int64 {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
