package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"digital-key-store/internal/dto"
	"digital-key-store/internal/service"

	"github.com/labstack/echo/v4"
)

const orderCreatedMessage = "Order created (pending). Please wait admin verification."

type ShopHandler struct {
	orderService service.OrderService
}

func NewShopHandler(orderService service.OrderService) *ShopHandler {
	return &ShopHandler{
		orderService: orderService,
	}
}

func (h *ShopHandler) Products(c echo.Context) error {
	ctx := c.Request().Context()

	products, err := h.orderService.ListProducts(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, &dto.ProductsResponse{
		OK:       true,
		Products: products,
	})
}

// Buy accepts a multipart form with productId, qty, email, name and an
// optional proof file.
func (h *ShopHandler) Buy(c echo.Context) error {
	ctx := c.Request().Context()

	req := &dto.BuyRequest{
		ProductID: strings.TrimSpace(c.FormValue("productId")),
		Qty:       parseQty(c.FormValue("qty")),
		Email:     strings.TrimSpace(c.FormValue("email")),
		Name:      c.FormValue("name"),
	}

	fh, err := c.FormFile("proof")
	switch {
	case err == nil:
		file, err := fh.Open()
		if err != nil {
			return err
		}
		defer file.Close()
		req.Proof = &dto.Proof{Filename: fh.Filename, Content: file}
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	default:
		return err
	}

	order, err := h.orderService.CreateOrder(ctx, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, &dto.BuyResponse{
		OK:      true,
		OrderID: order.OrderID,
		Message: orderCreatedMessage,
	})
}

// parseQty defaults an absent qty to 1. Anything that is not an integer
// maps to 0 so the order is rejected as invalid.
func parseQty(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 1
	}
	qty, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return qty
}
