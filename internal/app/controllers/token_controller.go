package controllers

import (
	"github.com/Cocorine/backend-sirene-ecole/internal/domain/services"
	"github.com/Cocorine/backend-sirene-ecole/internal/domain/services/container"
	"github.com/Cocorine/backend-sirene-ecole/internal/error/code"
	"github.com/Cocorine/backend-sirene-ecole/internal/error/response"

	"github.com/gin-gonic/gin"
)

// TokenController validates siren tokens scanned by the devices
type TokenController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewTokenController creates a new token controller
func NewTokenController(ctx *gin.Context, container *container.ServiceContainer) *TokenController {
	return &TokenController{Ctx: ctx, Container: container}
}

// ScanRequest carries the encrypted token read from a QR code.
type ScanRequest struct {
	Token string `json:"token" binding:"required"`
}

// HandleTokenFunc returns a gin handler dispatching to the token controller
func HandleTokenFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewTokenController(ctx, container)

		switch method {
		case "scanner":
			controller.Scanner()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "méthode invalide", nil)
		}
	}
}

// 1. Scanner verifies a scanned token and returns its decrypted payload.
// The endpoint is meant for the siren firmware, it carries no session.
// @Summary Vérification d'un token scanné
// @Tags Tokens
// @Accept json
// @Produce json
// @Param request body ScanRequest true "Token chiffré"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} ErrorResponse
// @Router /tokens/scan [post]
func (c *TokenController) Scanner() {
	var req ScanRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, err.Error())
		return
	}

	tokenService := c.Container.GetService("token_sirene").(services.InterfaceTokenSireneService)
	token, err := tokenService.FindByCiphertext(req.Token)
	if err != nil {
		response.Fail(c.Ctx, code.ErrTokenInvalid, nil)
		return
	}
	if !tokenService.ValidateToken(token) {
		response.FailWithMessage(c.Ctx, code.ErrTokenInvalid, "token expiré ou révoqué", nil)
		return
	}

	payload, err := tokenService.DecryptPayload(token)
	if err != nil {
		response.Fail(c.Ctx, code.ErrTokenInvalid, nil)
		return
	}
	response.Success(c.Ctx, gin.H{
		"valide":          true,
		"abonnement_id":   token.AbonnementID,
		"date_expiration": token.DateExpiration,
		"payload":         payload,
	})
}
