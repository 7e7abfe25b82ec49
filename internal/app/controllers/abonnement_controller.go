package controllers

import (
	"net/http"
	"strconv"

	"github.com/Cocorine/backend-sirene-ecole/internal/domain/models"
	"github.com/Cocorine/backend-sirene-ecole/internal/domain/services"
	"github.com/Cocorine/backend-sirene-ecole/internal/domain/services/container"
	"github.com/Cocorine/backend-sirene-ecole/internal/error/code"
	"github.com/Cocorine/backend-sirene-ecole/internal/error/response"

	"github.com/gin-gonic/gin"
)

// AbonnementController handles subscription requests
type AbonnementController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewAbonnementController creates a new subscription controller
func NewAbonnementController(ctx *gin.Context, container *container.ServiceContainer) *AbonnementController {
	return &AbonnementController{Ctx: ctx, Container: container}
}

// AbonnementRequest opens a pending subscription.
type AbonnementRequest struct {
	EcoleID  string  `json:"ecole_id" binding:"required"`
	SiteID   string  `json:"site_id" binding:"required"`
	SireneID string  `json:"sirene_id" binding:"required"`
	Montant  float64 `json:"montant"`
}

// MotifRequest carries the mandatory reason of a suspension/cancellation.
type MotifRequest struct {
	Motif string `json:"motif" binding:"required"`
}

// HandleAbonnementFunc returns a gin handler dispatching to the subscription
// controller
func HandleAbonnementFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewAbonnementController(ctx, container)

		switch method {
		case "getAbonnements":
			controller.GetAbonnements()
		case "getAbonnement":
			controller.GetAbonnement()
		case "createAbonnement":
			controller.CreateAbonnement()
		case "renouveler":
			controller.Renouveler()
		case "suspendre":
			controller.Suspendre()
		case "reactiver":
			controller.Reactiver()
		case "annuler":
			controller.Annuler()
		case "getStatistiques":
			controller.GetStatistiques()
		case "getExpirants":
			controller.GetExpirants()
		case "getToken":
			controller.GetToken()
		case "redirigerQr":
			controller.RedirigerQr()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "méthode invalide", nil)
		}
	}
}

// 1. GetAbonnements lists subscriptions, optionally by school
// @Summary Liste des abonnements
// @Tags Abonnement
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page, défaut 1"
// @Param page_size query int false "Taille de page, défaut 10"
// @Param statut query string false "Filtre de statut"
// @Param ecole_id query string false "Filtre par école"
// @Success 200 {object} map[string]interface{}
// @Router /abonnements [get]
func (c *AbonnementController) GetAbonnements() {
	abonnementService := c.Container.GetService("abonnement").(services.InterfaceAbonnementService)

	if ecoleID := c.Ctx.Query("ecole_id"); ecoleID != "" {
		abonnements, err := abonnementService.GetByEcole(ecoleID)
		if err != nil {
			failInternal(c.Ctx, err)
			return
		}
		response.Success(c.Ctx, abonnements)
		return
	}

	page, pageSize := pagination(c.Ctx)
	abonnements, total, err := abonnementService.GetAll(page, pageSize, c.Ctx.Query("statut"))
	if err != nil {
		failInternal(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, paginated(abonnements, total, page, pageSize))
}

// 2. GetAbonnement returns one subscription
// @Summary Détail d'un abonnement
// @Tags Abonnement
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de l'abonnement"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse
// @Router /abonnements/{id} [get]
func (c *AbonnementController) GetAbonnement() {
	abonnementService := c.Container.GetService("abonnement").(services.InterfaceAbonnementService)
	abonnement, err := abonnementService.GetByID(c.Ctx.Param("id"))
	if err != nil {
		failFromService(c.Ctx, err, code.ErrAbonnementNotFound, code.ErrAbonnementDejaActif)
		return
	}
	response.Success(c.Ctx, abonnement)
}

// 3. CreateAbonnement opens a pending subscription
// @Summary Création d'un abonnement
// @Tags Abonnement
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body AbonnementRequest true "Abonnement"
// @Success 201 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /abonnements [post]
func (c *AbonnementController) CreateAbonnement() {
	var req AbonnementRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, err.Error())
		return
	}

	abonnementService := c.Container.GetService("abonnement").(services.InterfaceAbonnementService)
	abonnement, err := abonnementService.Create(req.EcoleID, req.SiteID, req.SireneID, req.Montant)
	if err != nil {
		failFromService(c.Ctx, err, code.ErrEcoleNotFound, code.ErrAbonnementDejaActif)
		return
	}
	response.Created(c.Ctx, abonnement)
}

// 4. Renouveler opens a fresh pending cycle
// @Summary Renouvellement d'un abonnement
// @Tags Abonnement
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de l'abonnement"
// @Success 201 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /abonnements/{id}/renouveler [post]
func (c *AbonnementController) Renouveler() {
	abonnementService := c.Container.GetService("abonnement").(services.InterfaceAbonnementService)
	abonnement, err := abonnementService.Renouveler(c.Ctx.Param("id"))
	if err != nil {
		failFromService(c.Ctx, err, code.ErrAbonnementNotFound, code.ErrAbonnementDejaActif)
		return
	}
	response.Created(c.Ctx, abonnement)
}

// 5. Suspendre suspends an active subscription
// @Summary Suspension d'un abonnement
// @Tags Abonnement
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de l'abonnement"
// @Param request body MotifRequest true "Motif"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /abonnements/{id}/suspendre [put]
func (c *AbonnementController) Suspendre() {
	var req MotifRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrMotifRequis, "un motif de suspension est requis", nil)
		return
	}

	abonnementService := c.Container.GetService("abonnement").(services.InterfaceAbonnementService)
	abonnement, err := abonnementService.Suspendre(c.Ctx.Param("id"), req.Motif)
	if err != nil {
		failFromService(c.Ctx, err, code.ErrAbonnementNotFound, code.ErrAbonnementDejaActif)
		return
	}
	response.Success(c.Ctx, abonnement)
}

// 6. Reactiver brings a suspended subscription back to active
// @Summary Réactivation d'un abonnement
// @Tags Abonnement
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de l'abonnement"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /abonnements/{id}/reactiver [put]
func (c *AbonnementController) Reactiver() {
	abonnementService := c.Container.GetService("abonnement").(services.InterfaceAbonnementService)
	abonnement, err := abonnementService.Reactiver(c.Ctx.Param("id"))
	if err != nil {
		failFromService(c.Ctx, err, code.ErrAbonnementNotFound, code.ErrAbonnementDejaActif)
		return
	}
	response.Success(c.Ctx, abonnement)
}

// 7. Annuler cancels a subscription
// @Summary Annulation d'un abonnement
// @Tags Abonnement
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de l'abonnement"
// @Param request body MotifRequest true "Motif"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /abonnements/{id}/annuler [put]
func (c *AbonnementController) Annuler() {
	var req MotifRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrMotifRequis, "un motif d'annulation est requis", nil)
		return
	}

	abonnementService := c.Container.GetService("abonnement").(services.InterfaceAbonnementService)
	abonnement, err := abonnementService.Annuler(c.Ctx.Param("id"), req.Motif)
	if err != nil {
		failFromService(c.Ctx, err, code.ErrAbonnementNotFound, code.ErrAbonnementDejaActif)
		return
	}
	response.Success(c.Ctx, abonnement)
}

// 8. GetStatistiques returns subscription statistics
// @Summary Statistiques des abonnements
// @Tags Abonnement
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /abonnements/statistiques [get]
func (c *AbonnementController) GetStatistiques() {
	abonnementService := c.Container.GetService("abonnement").(services.InterfaceAbonnementService)
	stats, err := abonnementService.Statistiques()
	if err != nil {
		failInternal(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, stats)
}

// 9. GetExpirants lists subscriptions expiring within a window
// @Summary Abonnements expirant bientôt
// @Tags Abonnement
// @Produce json
// @Security BearerAuth
// @Param days query int false "Fenêtre en jours, défaut 30"
// @Success 200 {object} map[string]interface{}
// @Router /abonnements/expirants [get]
func (c *AbonnementController) GetExpirants() {
	days, _ := strconv.Atoi(c.Ctx.DefaultQuery("days", "30"))
	if days < 1 {
		days = 30
	}

	abonnementService := c.Container.GetService("abonnement").(services.InterfaceAbonnementService)
	abonnements, err := abonnementService.GetExpiringSoon(days)
	if err != nil {
		failInternal(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, abonnements)
}

// 10. GetToken returns the active token of a subscription
// @Summary Token actif d'un abonnement
// @Tags Abonnement
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de l'abonnement"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse
// @Router /abonnements/{id}/token [get]
func (c *AbonnementController) GetToken() {
	tokenService := c.Container.GetService("token_sirene").(services.InterfaceTokenSireneService)
	token, err := tokenService.GetActiveToken(c.Ctx.Param("id"))
	if err != nil {
		failFromService(c.Ctx, err, code.ErrTokenSireneNotFound, code.ErrTokenSireneNotFound)
		return
	}
	response.Success(c.Ctx, token)
}

// 11. RedirigerQr is the public landing of a scanned subscription QR: active
// subscriptions land on their details page, anything else on the payment page
// @Summary Redirection du QR code d'un abonnement
// @Tags Abonnement
// @Param id path string true "ID de l'abonnement"
// @Success 302
// @Failure 404 {object} ErrorResponse
// @Router /qr/abonnements/{id} [get]
func (c *AbonnementController) RedirigerQr() {
	abonnementService := c.Container.GetService("abonnement").(services.InterfaceAbonnementService)
	abonnement, err := abonnementService.GetByID(c.Ctx.Param("id"))
	if err != nil {
		failFromService(c.Ctx, err, code.ErrAbonnementNotFound, code.ErrAbonnementDejaActif)
		return
	}

	base := c.Container.GetConfig().FrontendURL
	target := base + "/abonnements/" + abonnement.ID + "/paiement"
	if abonnement.Statut == models.AbonnementActif {
		target = base + "/abonnements/" + abonnement.ID
	}
	c.Ctx.Redirect(http.StatusFound, target)
}
