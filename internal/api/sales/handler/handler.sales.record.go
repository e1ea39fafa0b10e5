// Package saleshdl - Handler cho domain sales.
package saleshdl

import (
	"github.com/gofiber/fiber/v3"

	basehdl "retail_sales/internal/api/base/handler"
	salesdto "retail_sales/internal/api/sales/dto"
	salessvc "retail_sales/internal/api/sales/service"
	"retail_sales/internal/common"
	"retail_sales/internal/logger"
)

// SaleRecordHandler xử lý các request truy vấn giao dịch bán hàng
type SaleRecordHandler struct {
	service *salessvc.SaleQueryService
}

// NewSaleRecordHandler tạo mới SaleRecordHandler
func NewSaleRecordHandler() (*SaleRecordHandler, error) {
	service, err := salessvc.NewSaleQueryService()
	if err != nil {
		return nil, err
	}
	return &SaleRecordHandler{
		service: service,
	}, nil
}

// HandleListSales xử lý GET /api/sales: tìm kiếm, lọc, sắp xếp và phân trang
// danh sách giao dịch, kèm thống kê tổng hợp trên toàn bộ tập khớp filter
func (h *SaleRecordHandler) HandleListSales(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		var query salesdto.SaleListQuery
		if err := c.Bind().Query(&query); err != nil {
			return basehdl.HandleError(c, common.NewError(
				common.ErrCodeValidationInput,
				common.MsgValidationError,
				common.StatusBadRequest,
				err,
			))
		}

		params, err := query.Parse()
		if err != nil {
			return basehdl.HandleError(c, err)
		}

		result, err := h.service.ListSales(c.Context(), params)
		if err != nil {
			logger.WithRequest(c).WithError(err).Error("List sales failed")
			return basehdl.HandleError(c, err)
		}

		return basehdl.JSONResponse(c, common.StatusOK, result)
	})
}
