package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cardwallet/internal/application/cards"
	"cardwallet/internal/domain/card"
	"cardwallet/internal/interfaces/dto"
	"cardwallet/internal/shared/logger"
	"cardwallet/internal/shared/utils"
)

// CardHandler exposes the admin card CRUD that feeds the notification
// pipeline.
type CardHandler struct {
	service *cards.Service
	logger  logger.Interface
}

func NewCardHandler(service *cards.Service, logger logger.Interface) *CardHandler {
	return &CardHandler{
		service: service,
		logger:  logger,
	}
}

func (h *CardHandler) CreateCard(c *gin.Context) {
	var req dto.CreateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.service.Create(c.Request.Context(), cards.CreateCardCommand{
		TenantID:    req.TenantID,
		Email:       req.Email,
		UserID:      req.UserID,
		AnonymousID: req.AnonymousID,
		FullID:      req.FullID,
		NumericKey:  req.NumericKey,
		Display:     displayFromRequest(req.Display),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, dto.NewCardResponse(created), "card created")
}

func (h *CardHandler) GetCard(c *gin.Context) {
	got, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", dto.NewCardResponse(got))
}

func (h *CardHandler) UpdateCard(c *gin.Context) {
	var req dto.UpdateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.service.UpdateDisplay(c.Request.Context(), c.Param("id"), displayFromRequest(req.Display))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "card updated", dto.NewCardResponse(updated))
}

func displayFromRequest(req dto.CardDisplayRequest) card.Display {
	return card.Display{
		Name:         req.Name,
		Balance:      req.Balance,
		StampCount:   req.StampCount,
		DiscountTier: req.DiscountTier,
	}
}
