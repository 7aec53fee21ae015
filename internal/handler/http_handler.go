package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/minutes-archive/search-service/internal/domain"
	"github.com/minutes-archive/search-service/internal/service"
	"github.com/minutes-archive/search-service/pkg/log"
	"github.com/minutes-archive/search-service/pkg/response"
)

// Handler handles HTTP requests for the minutes search service.
type Handler struct {
	searchService service.SearchService
}

// NewHandler creates a new HTTP handler.
func NewHandler(searchService service.SearchService) *Handler {
	return &Handler{
		searchService: searchService,
	}
}

// RegisterRoutes registers all routes.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	{
		api.GET("/meetings/search", h.Search)
	}
}

// Search runs one paginated search over the meeting records. Whether the
// full-text engine or the relational backend served it is not visible in
// the response.
func (h *Handler) Search(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	crit := domain.ParseCriteria(c.Request.URL.Query())

	env, err := h.searchService.Search(ctx, crit)
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			l.Warn().Err(err).Msg("invalid search request")
			response.BadRequest(c, verr.Reason)
			return
		}
		l.Error().Err(err).Str(log.FieldQuery, crit.Query).Msg("search failed")
		response.InternalError(c, "search failed")
		return
	}

	response.OK(c, env.Data, env.Total)
}
