package server

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/nguyentranbao-ct/shop-assistant/internal/models"
	pkgmdw "github.com/nguyentranbao-ct/shop-assistant/internal/server/middleware"
	"github.com/nguyentranbao-ct/shop-assistant/pkg/ctxval"
	"github.com/nguyentranbao-ct/shop-assistant/pkg/logger/log"
	"google.golang.org/grpc/codes"
)

type searchRequest struct {
	Query string `json:"query" query:"query"`
	Q     string `json:"q" query:"q"`
	Max   int    `json:"max" query:"max"`
}

// text picks the query field. GET prefers q and POST prefers query.
func (r searchRequest) text(method string) string {
	first, second := r.Query, r.Q
	if method == http.MethodGet {
		first, second = r.Q, r.Query
	}
	if first != "" {
		return first
	}
	return second
}

// Search serves GET and POST. Validation problems are the only non 200
// answers; any other failure degrades to an empty result with a message.
func (h *controller) Search(c echo.Context) error {
	switch c.Request().Method {
	case http.MethodGet, http.MethodPost:
	case http.MethodOptions:
		return c.NoContent(http.StatusOK)
	default:
		return pkgmdw.NewResponseError(http.StatusMethodNotAllowed, "", "Method not allowed")
	}

	var req searchRequest
	if err := c.Bind(&req); err != nil {
		resp := pkgmdw.NewResponseError(http.StatusBadRequest, codes.InvalidArgument.String(), "Invalid request format")
		resp.Err = err
		return resp
	}

	query := req.text(c.Request().Method)
	ctx := c.Request().Context()
	res, err := h.safeSearch(ctx, query, req.Max)
	if err != nil {
		if code := models.Code(err); code == codes.InvalidArgument {
			resp := pkgmdw.NewResponseError(http.StatusBadRequest, code.String(), models.Message(err))
			resp.Err = err
			return resp
		}
		log.Errorw(ctx, "search failed", "query", query, "error", err)
		return c.JSON(http.StatusOK, models.UnavailableSearchResponse(strings.TrimSpace(query)))
	}

	ctxval.Set(ctx, logKeySource, string(res.Source))
	ctxval.Set(ctx, logKeyCached, res.Cached)
	return c.JSON(http.StatusOK, models.NewSearchResponse(res))
}

func (h *controller) safeSearch(ctx context.Context, query string, maxResults int) (res *models.SearchResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			stack := make([]byte, 4096)
			length := runtime.Stack(stack, false)
			err = fmt.Errorf("PANIC RECOVER: %+v / %s", r, string(stack[:length]))
		}
	}()
	return h.search.Search(ctx, query, maxResults)
}
