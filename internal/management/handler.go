package management

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"chronicle/internal/logger"
	"chronicle/pkg/errors"
)

type BaseHandler struct {
	Service Service
	Logger  logger.Logger
}

func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	h.Logger.ErrorwCtx(c.Request.Context(), "Request error", "error", err, "path", c.Request.URL.Path)

	status := errors.ToHTTPStatus(err)
	response := errors.ToErrorResponse(err)

	c.JSON(status, response)
}

type Handler struct {
	BaseHandler
}

func NewHandler(service Service, log logger.Logger) *Handler {
	return &Handler{
		BaseHandler: BaseHandler{
			Service: service,
			Logger:  log,
		},
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	v1 := router.Group("/api/v1")
	{
		v1.GET("/events", h.ListEventNames)

		tenants := v1.Group("/tenants/:tenantID")
		{
			tenants.GET("/config", h.GetConfig)
			tenants.PUT("/config/log-channel", h.SetLogChannel)
			tenants.POST("/events", h.AddEvents)
			tenants.DELETE("/events", h.RemoveEvents)
			tenants.GET("/actions", h.ListActions)
			tenants.POST("/actions", h.CreateAction)
			tenants.DELETE("/actions/:id", h.DeleteAction)
			tenants.GET("/audit", h.GetAuditEntries)
		}
	}
}

func (h *Handler) ListEventNames(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"events": h.Service.ListEventNames()})
}

func (h *Handler) GetConfig(c *gin.Context) {
	cfg, err := h.Service.GetOrCreateTenantConfig(c.Request.Context(), c.Param("tenantID"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

func (h *Handler) SetLogChannel(c *gin.Context) {
	var req SetLogChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errors.ToErrorResponse(errors.ErrValidation.WithCause(err)))
		return
	}

	cfg, err := h.Service.SetLogChannel(c.Request.Context(), c.Param("tenantID"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, cfg)
}

func (h *Handler) AddEvents(c *gin.Context) {
	var req EventsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errors.ToErrorResponse(errors.ErrValidation.WithCause(err)))
		return
	}

	cfg, err := h.Service.AddEnabledEvents(c.Request.Context(), c.Param("tenantID"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, cfg)
}

func (h *Handler) RemoveEvents(c *gin.Context) {
	var req EventsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errors.ToErrorResponse(errors.ErrValidation.WithCause(err)))
		return
	}

	cfg, err := h.Service.RemoveEnabledEvents(c.Request.Context(), c.Param("tenantID"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, cfg)
}

func (h *Handler) ListActions(c *gin.Context) {
	records, err := h.Service.ListActionRecords(c.Request.Context(), c.Param("tenantID"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

func (h *Handler) CreateAction(c *gin.Context) {
	var req CreateActionRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errors.ToErrorResponse(errors.ErrValidation.WithCause(err)))
		return
	}

	record, err := h.Service.CreateActionRecord(c.Request.Context(), c.Param("tenantID"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, record)
}

func (h *Handler) DeleteAction(c *gin.Context) {
	err := h.Service.DeleteActionRecord(c.Request.Context(), c.Param("tenantID"), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) GetAuditEntries(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	entries, err := h.Service.GetAuditEntries(c.Request.Context(), c.Param("tenantID"), limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, entries)
}
