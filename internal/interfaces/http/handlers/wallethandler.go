// Package handlers contains the gin HTTP handlers.
package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"cardwallet/internal/application/wallet"
	"cardwallet/internal/interfaces/dto"
	"cardwallet/internal/shared/constants"
	"cardwallet/internal/shared/errors"
	"cardwallet/internal/shared/logger"
)

// WalletService is the protocol surface the device-facing routes drive.
type WalletService interface {
	Register(ctx context.Context, deviceID, passTypeIdentifier, serialNumber, pushToken string) (bool, error)
	Unregister(ctx context.Context, deviceID, passTypeIdentifier, serialNumber string) error
	Poll(ctx context.Context, deviceID, passTypeIdentifier string, modifiedSince *time.Time) (*wallet.PollResult, error)
	Reissue(ctx context.Context, passTypeIdentifier, serialNumber string) (*wallet.Pass, error)
	RecordLog(ctx context.Context, messages []string)
}

// WalletHandler implements the Wallet web-service contract. Responses to
// devices are status codes and the documented JSON shapes only; error detail
// stays in the server log.
type WalletHandler struct {
	service WalletService
	logger  logger.Interface
}

func NewWalletHandler(service WalletService, logger logger.Interface) *WalletHandler {
	return &WalletHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterDevice handles POST /v1/devices/:deviceLibraryIdentifier/registrations/:passTypeIdentifier/:serialNumber.
func (h *WalletHandler) RegisterDevice(c *gin.Context) {
	var req dto.RegisterDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.PushToken == "" {
		c.Status(http.StatusBadRequest)
		return
	}

	created, err := h.service.Register(
		c.Request.Context(),
		c.Param("deviceLibraryIdentifier"),
		c.Param("passTypeIdentifier"),
		c.Param("serialNumber"),
		req.PushToken,
	)
	if err != nil {
		h.deviceError(c, err)
		return
	}

	if created {
		c.Status(http.StatusCreated)
		return
	}
	c.Status(http.StatusOK)
}

// UnregisterDevice handles DELETE on the registration path. The request is
// acknowledged without removing state.
func (h *WalletHandler) UnregisterDevice(c *gin.Context) {
	err := h.service.Unregister(
		c.Request.Context(),
		c.Param("deviceLibraryIdentifier"),
		c.Param("passTypeIdentifier"),
		c.Param("serialNumber"),
	)
	if err != nil {
		h.deviceError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// PollSerials handles GET /v1/devices/:deviceLibraryIdentifier/registrations/:passTypeIdentifier.
func (h *WalletHandler) PollSerials(c *gin.Context) {
	var modifiedSince *time.Time
	if header := c.GetHeader(constants.HeaderIfModifiedSince); header != "" {
		ts, err := parseModifiedSince(header)
		if err != nil {
			h.logger.Debugw("unparseable If-Modified-Since header, treating as absent",
				"value", header,
			)
		} else {
			modifiedSince = &ts
		}
	}

	result, err := h.service.Poll(
		c.Request.Context(),
		c.Param("deviceLibraryIdentifier"),
		c.Param("passTypeIdentifier"),
		modifiedSince,
	)
	if err != nil {
		h.deviceError(c, err)
		return
	}
	if result == nil || len(result.SerialNumbers) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusOK, dto.PollResponse{
		SerialNumbers: result.SerialNumbers,
		LastUpdated:   result.LastUpdated.UTC().Format(time.RFC3339),
	})
}

// GetPass handles GET /v1/passes/:passTypeIdentifier/:serialNumber.
func (h *WalletHandler) GetPass(c *gin.Context) {
	pass, err := h.service.Reissue(
		c.Request.Context(),
		c.Param("passTypeIdentifier"),
		c.Param("serialNumber"),
	)
	if err != nil {
		h.deviceError(c, err)
		return
	}

	c.Header(constants.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", c.Param("serialNumber")+".pkpass"))
	c.Header("Last-Modified", pass.LastModified.UTC().Format(http.TimeFormat))
	c.Data(http.StatusOK, constants.ContentTypePkpass, pass.Data)
}

// RecordLog handles POST /v1/log. Always 200; the payload is best-effort
// diagnostics.
func (h *WalletHandler) RecordLog(c *gin.Context) {
	var req dto.LogRequest
	if err := c.ShouldBindJSON(&req); err == nil {
		h.service.RecordLog(c.Request.Context(), req.Logs)
	}
	c.Status(http.StatusOK)
}

func (h *WalletHandler) deviceError(c *gin.Context, err error) {
	switch {
	case errors.IsIdentityNotFound(err):
		c.Status(http.StatusNotFound)
	case errors.IsCertificateUnresolvable(err):
		h.logger.Warnw("certificate bundle unresolvable",
			"path", c.Request.URL.Path,
			"error", err,
		)
		c.Status(http.StatusNotFound)
	default:
		h.logger.Errorw("device request failed",
			"path", c.Request.URL.Path,
			"method", c.Request.Method,
			"error", err,
		)
		c.Status(http.StatusInternalServerError)
	}
}

// parseModifiedSince accepts both the HTTP date format and the RFC 3339
// timestamps this service hands out in lastUpdated.
func parseModifiedSince(value string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, value); err == nil {
		return ts, nil
	}
	return http.ParseTime(value)
}
