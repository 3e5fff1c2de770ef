package handlers

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"cardwallet/internal/application/certificates"
	"cardwallet/internal/interfaces/dto"
	"cardwallet/internal/shared/errors"
	"cardwallet/internal/shared/logger"
	"cardwallet/internal/shared/utils"
)

// CertificateHandler exposes the certificate-pool claim operation.
type CertificateHandler struct {
	service *certificates.Service
	logger  logger.Interface
}

func NewCertificateHandler(service *certificates.Service, logger logger.Interface) *CertificateHandler {
	return &CertificateHandler{
		service: service,
		logger:  logger,
	}
}

func (h *CertificateHandler) ClaimCertificate(c *gin.Context) {
	var req dto.ClaimCertificateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	record, err := h.service.AssignFirstAvailable(c.Request.Context(), req.OwnerID)
	if err != nil {
		if stderrors.Is(err, errors.ErrNoCertificateAvailable) {
			utils.ErrorResponse(c, http.StatusNotFound, "no certificate record available")
			return
		}
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "certificate assigned", dto.NewCertificateRecordResponse(record))
}
