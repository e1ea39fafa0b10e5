// Package salesrouter - Đăng ký route cho domain sales.
package salesrouter

import (
	"github.com/gofiber/fiber/v3"

	"retail_sales/internal/api/middleware"
	apirouter "retail_sales/internal/api/router"
	saleshdl "retail_sales/internal/api/sales/handler"
)

// Register đăng ký các route của domain sales vào group /api
func Register(api fiber.Router, r *apirouter.Router) error {
	handler, err := saleshdl.NewSaleRecordHandler()
	if err != nil {
		return err
	}

	middlewares := []fiber.Handler{
		middleware.PerformanceMiddleware(),
	}

	// GET /api/sales - danh sách giao dịch với filter/sort/phân trang/thống kê
	apirouter.RegisterRouteWithMiddleware(api, "", "GET", "/sales", middlewares, handler.HandleListSales)

	return nil
}
