package handlers

import (
	"net/http"

	"braindump_backend/internal/services"
	"braindump_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type DumpHandler struct {
	*BaseHandler
	dumpService  services.DumpService
	quotaService services.QuotaService
}

func NewDumpHandler(base *BaseHandler, dumpService services.DumpService, quotaService services.QuotaService) *DumpHandler {
	return &DumpHandler{
		BaseHandler:  base,
		dumpService:  dumpService,
		quotaService: quotaService,
	}
}

func (h *DumpHandler) RegisterRoutes(rg *gin.RouterGroup) {
	dumps := rg.Group("/dumps")
	{
		dumps.POST("", h.Create)
		dumps.GET("", h.List)
		dumps.PATCH("/:id/complete", h.ToggleComplete)
		dumps.PATCH("/:id", h.UpdateText)
		dumps.DELETE("/:id", h.Delete)
	}
	rg.GET("/quota", h.Quota)
}

func (h *DumpHandler) Create(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateDumpRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	response, err := h.dumpService.Create(c.Request.Context(), userID, req.Text)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

func (h *DumpHandler) List(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	response, err := h.dumpService.List(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *DumpHandler) ToggleComplete(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.ToggleCompleteRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	dump, err := h.dumpService.ToggleComplete(userID, c.Param("id"), *req.Completed)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dump)
}

func (h *DumpHandler) UpdateText(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateDumpTextRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	dump, err := h.dumpService.UpdateText(userID, c.Param("id"), req.Text)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dump)
}

func (h *DumpHandler) Delete(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.dumpService.Delete(userID, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Dump deleted"})
}

func (h *DumpHandler) Quota(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	status, err := h.quotaService.CheckLimit(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}
