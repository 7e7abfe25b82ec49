package controllers

import (
	"strconv"

	"github.com/Cocorine/backend-sirene-ecole/internal/domain/services"
	"github.com/Cocorine/backend-sirene-ecole/internal/domain/services/container"
	"github.com/Cocorine/backend-sirene-ecole/internal/error/code"
	"github.com/Cocorine/backend-sirene-ecole/internal/error/response"

	"github.com/gin-gonic/gin"
)

// JobsController exposes the maintenance sweeps meant to be hit by an
// external scheduler
type JobsController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewJobsController creates a new jobs controller
func NewJobsController(ctx *gin.Context, container *container.ServiceContainer) *JobsController {
	return &JobsController{Ctx: ctx, Container: container}
}

// HandleJobsFunc returns a gin handler dispatching to the jobs controller
func HandleJobsFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewJobsController(ctx, container)

		switch method {
		case "expirerAbonnements":
			controller.ExpirerAbonnements()
		case "rappelsExpiration":
			controller.RappelsExpiration()
		case "autoRenouvellement":
			controller.AutoRenouvellement()
		case "nettoyerOtp":
			controller.NettoyerOtp()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "méthode invalide", nil)
		}
	}
}

// 1. ExpirerAbonnements flips overdue subscriptions to expired
// @Summary Bascule des abonnements échus en expirés
// @Tags Jobs
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /jobs/abonnements/expirer [post]
func (c *JobsController) ExpirerAbonnements() {
	abonnementService := c.Container.GetService("abonnement").(services.InterfaceAbonnementService)
	count, err := abonnementService.MarquerExpires()
	if err != nil {
		failInternal(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, gin.H{"abonnements_expires": count})
}

// 2. RappelsExpiration notifies schools whose subscription ends soon
// @Summary Envoi des rappels d'expiration
// @Tags Jobs
// @Produce json
// @Security BearerAuth
// @Param days query int false "Fenêtre de rappel en jours" default(30)
// @Success 200 {object} map[string]interface{}
// @Router /jobs/abonnements/rappels [post]
func (c *JobsController) RappelsExpiration() {
	days, err := strconv.Atoi(c.Ctx.DefaultQuery("days", "30"))
	if err != nil || days <= 0 {
		days = 30
	}

	abonnementService := c.Container.GetService("abonnement").(services.InterfaceAbonnementService)
	count, err := abonnementService.EnvoyerRappelsExpiration(days)
	if err != nil {
		failInternal(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, gin.H{"rappels_envoyes": count})
}

// 3. AutoRenouvellement opens pending renewals for expiring subscriptions
// @Summary Renouvellement automatique des abonnements éligibles
// @Tags Jobs
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /jobs/abonnements/auto-renouvellement [post]
func (c *JobsController) AutoRenouvellement() {
	abonnementService := c.Container.GetService("abonnement").(services.InterfaceAbonnementService)
	count, err := abonnementService.AutoRenouveler()
	if err != nil {
		failInternal(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, gin.H{"renouvellements_ouverts": count})
}

// 4. NettoyerOtp purges expired OTP codes
// @Summary Nettoyage des codes OTP expirés
// @Tags Jobs
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /jobs/otp/nettoyage [post]
func (c *JobsController) NettoyerOtp() {
	otpService := c.Container.GetService("otp").(services.InterfaceOtpService)
	count, err := otpService.CleanupExpired()
	if err != nil {
		failInternal(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, gin.H{"codes_supprimes": count})
}
