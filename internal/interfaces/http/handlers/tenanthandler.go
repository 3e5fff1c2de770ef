package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cardwallet/internal/application/tenants"
	"cardwallet/internal/interfaces/dto"
	"cardwallet/internal/shared/logger"
	"cardwallet/internal/shared/utils"
)

type TenantHandler struct {
	service *tenants.Service
	logger  logger.Interface
}

func NewTenantHandler(service *tenants.Service, logger logger.Interface) *TenantHandler {
	return &TenantHandler{
		service: service,
		logger:  logger,
	}
}

func (h *TenantHandler) CreateTenant(c *gin.Context) {
	var req dto.CreateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.service.Create(c.Request.Context(), req.Name, req.PassTypeIdentifier)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, dto.NewTenantResponse(created), "tenant created")
}

func (h *TenantHandler) GetTenant(c *gin.Context) {
	got, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", dto.NewTenantResponse(got))
}
