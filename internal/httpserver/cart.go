package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/simple_shop/internal/logging"
	"github.com/Skotchmaster/simple_shop/internal/service"
)

type CartHTTP struct {
	Svc *service.CartService
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get_cart")

	p, err := principal(c)
	if err != nil {
		return err
	}

	items, err := h.Svc.GetCart(ctx, p.UserID)
	if err != nil {
		return fail(l, "get_cart_error", err, "cannot get cart")
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CartHTTP) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add_to_cart")

	p, err := principal(c)
	if err != nil {
		return err
	}
	productID, err := parseID(c, "product_id")
	if err != nil {
		l.Warn("add_to_cart_error", "status", 400, "reason", "bad product id", "product_id", c.Param("product_id"))
		return err
	}

	item, err := h.Svc.AddToCart(ctx, p.UserID, productID)
	if err != nil {
		return fail(l, "add_to_cart_error", err, "cannot add product to cart")
	}

	l.Info("add_to_cart_success", "product_id", productID)
	return c.JSON(http.StatusCreated, item)
}

func (h *CartHTTP) RemoveFromCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove_from_cart")

	p, err := principal(c)
	if err != nil {
		return err
	}
	productID, err := parseID(c, "product_id")
	if err != nil {
		l.Warn("remove_from_cart_error", "status", 400, "reason", "bad product id", "product_id", c.Param("product_id"))
		return err
	}

	if err := h.Svc.RemoveFromCart(ctx, p.UserID, productID); err != nil {
		return fail(l, "remove_from_cart_error", err, "cannot remove product from cart")
	}

	l.Info("remove_from_cart_success", "product_id", productID)
	return c.JSON(http.StatusOK, echo.Map{"message": "product removed from cart"})
}

func (h *CartHTTP) Checkout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.checkout")

	p, err := principal(c)
	if err != nil {
		return err
	}

	res, err := h.Svc.Checkout(ctx, p.UserID)
	if err != nil {
		return fail(l, "checkout_error", err, "cannot checkout")
	}

	l.Info("checkout_success", "items", res.Items, "total", res.Total)
	return c.JSON(http.StatusOK, echo.Map{
		"message": "checkout completed",
		"items":   res.Items,
		"total":   res.Total,
	})
}
