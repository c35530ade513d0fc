package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/framepix/frame_shop/internal/logging"
	"github.com/framepix/frame_shop/internal/search"
	"github.com/framepix/frame_shop/internal/util"
)

type SearchHTTP struct {
	Index *search.Index
}

func (h *SearchHTTP) Search(c echo.Context) error {
	ctx := c.Request().Context()

	q := c.QueryParam("q")
	if q == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "q is required")
	}

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	from, limit := util.Calculate(page, size)

	total, items, err := h.Index.Search(ctx, q, from, limit)
	if err != nil {
		logging.FromContext(ctx).Warn("search_error", "error", err)
		return echo.NewHTTPError(http.StatusBadGateway, "search unavailable")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": items,
		"meta": map[string]any{
			"page":  page,
			"size":  limit,
			"total": total,
		},
	})
}
