package handler

import (
	"net/http"
	"strings"

	"digital-key-store/internal/dto"
	"digital-key-store/internal/service"

	"github.com/labstack/echo/v4"
)

type AdminHandler struct {
	orderService service.OrderService
}

func NewAdminHandler(orderService service.OrderService) *AdminHandler {
	return &AdminHandler{
		orderService: orderService,
	}
}

func (h *AdminHandler) Pending(c echo.Context) error {
	ctx := c.Request().Context()

	pending, err := h.orderService.ListPending(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, &dto.PendingResponse{
		OK:      true,
		Pending: pending,
	})
}

func (h *AdminHandler) Delivered(c echo.Context) error {
	ctx := c.Request().Context()

	delivered, err := h.orderService.ListDelivered(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, &dto.DeliveredResponse{
		OK:        true,
		Delivered: delivered,
	})
}

func (h *AdminHandler) Canceled(c echo.Context) error {
	ctx := c.Request().Context()

	canceled, err := h.orderService.ListCanceled(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, &dto.CanceledResponse{
		OK:       true,
		Canceled: canceled,
	})
}

func (h *AdminHandler) Verify(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.OrderActionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	order, err := h.orderService.VerifyOrder(ctx, strings.TrimSpace(req.OrderID))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, &dto.VerifyResponse{
		OK:       true,
		OrderID:  order.OrderID,
		Assigned: order.Keys(),
	})
}

func (h *AdminHandler) Cancel(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.OrderActionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	order, err := h.orderService.CancelOrder(ctx, strings.TrimSpace(req.OrderID))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, &dto.CancelResponse{
		OK:      true,
		OrderID: order.OrderID,
	})
}
