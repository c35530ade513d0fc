package httpserver

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/framepix/frame_shop/internal/logging"
	"github.com/framepix/frame_shop/internal/service"
	"github.com/framepix/frame_shop/internal/transport"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

// CreateOrder accepts either a JSON body or a multipart form carrying an
// "image" file next to a "payload" JSON field.
func (h *OrderHTTP) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create_order")

	userID, err := currentUserID(c)
	if err != nil {
		l.Warn("create_order_error", "status", 401, "reason", "no user in context")
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var req transport.CreateOrderRequest
	var file *service.UploadedFile

	if fh, fhErr := c.FormFile("image"); fhErr == nil {
		src, openErr := fh.Open()
		if openErr != nil {
			l.Warn("create_order_error", "status", 400, "reason", "bad upload", "error", openErr)
			return echo.NewHTTPError(http.StatusBadRequest, "bad upload")
		}
		defer src.Close()
		file = &service.UploadedFile{Filename: fh.Filename, Reader: src}

		payload := c.FormValue("payload")
		if err := json.Unmarshal([]byte(payload), &req); err != nil {
			l.Warn("create_order_error", "status", 400, "reason", "invalid payload", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
		}
	} else if err := c.Bind(&req); err != nil {
		l.Warn("create_order_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.CreateOrder(ctx, req, userID, file)
	if err != nil {
		he := httpError(err)
		l.Warn("create_order_error", "status", he.Code, "error", err)
		return he
	}

	l.Info("create_order_success", "orderID", order.ID)
	return c.JSON(http.StatusCreated, order)
}

func bindListQuery(c echo.Context) transport.ListOrdersQuery {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	return transport.ListOrdersQuery{
		Status: c.QueryParam("status"),
		Search: c.QueryParam("search"),
		SortBy: c.QueryParam("sortBy"),
		Period: c.QueryParam("period"),
		Page:   page,
		Limit:  limit,
	}
}

// ListOrders is the admin view across all users.
func (h *OrderHTTP) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list_orders")

	page, err := h.Svc.ListAllOrders(ctx, bindListQuery(c))
	if err != nil {
		he := httpError(err)
		l.Warn("list_orders_error", "status", he.Code, "error", err)
		return he
	}
	return c.JSON(http.StatusOK, page)
}

// ListUserOrders serves one user's orders; callers may only read their own
// unless they are admin.
func (h *OrderHTTP) ListUserOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list_user_orders")

	callerID, err := currentUserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	targetID, err := strconv.ParseUint(c.Param("userId"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}
	if uint(targetID) != callerID && !isAdmin(c) {
		return echo.NewHTTPError(http.StatusForbidden, "cannot read another user's orders")
	}

	page, err := h.Svc.ListUserOrders(ctx, bindListQuery(c), uint(targetID))
	if err != nil {
		he := httpError(err)
		l.Warn("list_user_orders_error", "status", he.Code, "error", err)
		return he
	}
	return c.JSON(http.StatusOK, page)
}

func (h *OrderHTTP) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_order")

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	// optional ownership check: ?userId= asserts the caller expects to own
	// this order; admins skip it
	var requesting *uint
	if v := c.QueryParam("userId"); v != "" && !isAdmin(c) {
		parsed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid userId")
		}
		u := uint(parsed)
		requesting = &u
	}

	order, err := h.Svc.GetOrder(ctx, uint(id), requesting)
	if err != nil {
		he := httpError(err)
		l.Warn("get_order_error", "status", he.Code, "error", err)
		return he
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.update_status")

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var req transport.UpdateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.UpdateStatus(ctx, uint(id), req.Status)
	if err != nil {
		he := httpError(err)
		l.Warn("update_status_error", "status", he.Code, "error", err)
		return he
	}

	l.Info("update_status_success", "orderID", order.ID, "newStatus", order.Status)
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) DeleteOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.delete_order")

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	if err := h.Svc.DeleteOrder(ctx, uint(id)); err != nil {
		he := httpError(err)
		l.Warn("delete_order_error", "status", he.Code, "error", err)
		return he
	}
	return c.NoContent(http.StatusNoContent)
}

// CreatePayment registers a gateway charge for one of the caller's orders.
func (h *OrderHTTP) CreatePayment(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create_payment")

	userID, err := currentUserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var req transport.CreatePaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	resp, err := h.Svc.CreatePayment(ctx, req, userID)
	if err != nil {
		he := httpError(err)
		l.Warn("create_payment_error", "status", he.Code, "error", err)
		return he
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *OrderHTTP) VerifyPayment(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.verify_payment")

	userID, err := currentUserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var req transport.VerifyPaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := h.Svc.VerifyPayment(ctx, req, userID); err != nil {
		he := httpError(err)
		l.Warn("verify_payment_error", "status", he.Code, "error", err)
		return he
	}

	l.Info("verify_payment_success", "orderID", req.OrderID)
	return c.JSON(http.StatusOK, map[string]string{"status": "success"})
}
