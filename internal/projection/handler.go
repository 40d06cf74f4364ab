package projection

import (
	"errors"
	"net/http"

	v1 "github.com/aevon-lab/order-insights/internal/api/v1"
	coreagg "github.com/aevon-lab/order-insights/internal/core/aggregation"
	httperr "github.com/aevon-lab/order-insights/internal/core/errors"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all report API routes on the given router.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.GET("/v1/reports", s.HandleListViews)
	r.GET("/v1/reports/:view", s.HandleGetView)
	r.POST("/v1/reports/export", s.HandleExport)
}

// HandleListViews handles GET /v1/reports
func (s *Service) HandleListViews(c *gin.Context) {
	resp, err := s.ListViews(c.Request.Context())
	if err != nil {
		writeError(c, err, httperr.HttpInternalError, "Failed to compute views")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HandleGetView handles GET /v1/reports/:view
func (s *Service) HandleGetView(c *gin.Context) {
	view, err := s.GetView(c.Request.Context(), c.Param("view"))
	if err != nil {
		writeError(c, err, httperr.HttpInternalError, "Failed to compute view")
		return
	}
	c.JSON(http.StatusOK, view)
}

// HandleExport handles POST /v1/reports/export
func (s *Service) HandleExport(c *gin.Context) {
	resp, err := s.ExportWorkbook(c.Request.Context())
	if err != nil {
		writeError(c, err, httperr.HttpExportError, "Failed to export workbook")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func writeError(c *gin.Context, err error, errorType, message string) {
	switch {
	case errors.Is(err, coreagg.ErrUnknownView):
		c.JSON(http.StatusNotFound, httperr.ErrorResponse{
			ErrorType: httperr.HttpViewNotFoundError,
			Message:   "View not found",
			Details:   err.Error(),
		})
	case errors.Is(err, v1.ErrInvalidOrder):
		c.JSON(http.StatusUnprocessableEntity, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidOrderError,
			Message:   "Order data is invalid",
			Details:   err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
			ErrorType: errorType,
			Message:   message,
			Details:   err.Error(),
		})
	}
}
