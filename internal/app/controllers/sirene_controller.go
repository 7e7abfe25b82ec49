package controllers

import (
	"errors"

	"github.com/Cocorine/backend-sirene-ecole/internal/domain/models"
	"github.com/Cocorine/backend-sirene-ecole/internal/domain/services"
	"github.com/Cocorine/backend-sirene-ecole/internal/domain/services/container"
	"github.com/Cocorine/backend-sirene-ecole/internal/error/code"
	"github.com/Cocorine/backend-sirene-ecole/internal/error/response"

	"github.com/gin-gonic/gin"
)

// InterfaceSireneController defines the siren controller interface
type InterfaceSireneController interface {
	GetSirenes()
	GetSirene()
	GetDisponibles()
	GetByNumeroSerie()
	CreateSirene()
	AffecterSirene()
	UpdateSirene()
	DeleteSirene()
	Activer()
}

// SireneController handles siren fleet requests
type SireneController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewSireneController creates a new siren controller
func NewSireneController(ctx *gin.Context, container *container.ServiceContainer) *SireneController {
	return &SireneController{Ctx: ctx, Container: container}
}

// SireneRequest registers a device.
type SireneRequest struct {
	NumeroSerie string `json:"numero_serie" binding:"required" example:"SIR-2025-0042"`
	Modele      string `json:"modele" example:"SX-300"`
}

// AffectationRequest assigns a device to a site.
type AffectationRequest struct {
	SiteID string `json:"site_id" binding:"required"`
}

// ActivationRequest triggers a device manually.
type ActivationRequest struct {
	DureeSecondes int `json:"duree_secondes" binding:"required,min=1,max=600" example:"30"`
}

// HandleSireneFunc returns a gin handler dispatching to the siren controller
func HandleSireneFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewSireneController(ctx, container)

		switch method {
		case "getSirenes":
			controller.GetSirenes()
		case "getSirene":
			controller.GetSirene()
		case "getDisponibles":
			controller.GetDisponibles()
		case "getByNumeroSerie":
			controller.GetByNumeroSerie()
		case "createSirene":
			controller.CreateSirene()
		case "affecterSirene":
			controller.AffecterSirene()
		case "updateSirene":
			controller.UpdateSirene()
		case "deleteSirene":
			controller.DeleteSirene()
		case "activer":
			controller.Activer()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "méthode invalide", nil)
		}
	}
}

// 1. GetSirenes lists devices
// @Summary Liste des sirènes
// @Tags Sirene
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page, défaut 1"
// @Param page_size query int false "Taille de page, défaut 10"
// @Param statut query string false "Filtre de statut (DISPONIBLE, AFFECTEE, EN_PANNE)"
// @Success 200 {object} map[string]interface{}
// @Router /sirenes [get]
func (c *SireneController) GetSirenes() {
	page, pageSize := pagination(c.Ctx)
	statut := c.Ctx.Query("statut")

	sireneService := c.Container.GetService("sirene").(services.InterfaceSireneService)
	sirenes, total, err := sireneService.GetAll(page, pageSize, statut)
	if err != nil {
		failInternal(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, paginated(sirenes, total, page, pageSize))
}

// 2. GetSirene returns one device
// @Summary Détail d'une sirène
// @Tags Sirene
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de la sirène"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse
// @Router /sirenes/{id} [get]
func (c *SireneController) GetSirene() {
	sireneService := c.Container.GetService("sirene").(services.InterfaceSireneService)
	sirene, err := sireneService.GetByID(c.Ctx.Param("id"))
	if err != nil {
		failFromService(c.Ctx, err, code.ErrSireneNotFound, code.ErrSireneUnavailable)
		return
	}
	response.Success(c.Ctx, sirene)
}

// 3. GetDisponibles lists unassigned devices
// @Summary Sirènes disponibles
// @Tags Sirene
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /sirenes/disponibles [get]
func (c *SireneController) GetDisponibles() {
	sireneService := c.Container.GetService("sirene").(services.InterfaceSireneService)
	sirenes, err := sireneService.GetDisponibles()
	if err != nil {
		failInternal(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, sirenes)
}

// 4. GetByNumeroSerie looks a device up by serial number
// @Summary Recherche d'une sirène par numéro de série
// @Tags Sirene
// @Produce json
// @Security BearerAuth
// @Param numero_serie path string true "Numéro de série"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse
// @Router /sirenes/numero-serie/{numero_serie} [get]
func (c *SireneController) GetByNumeroSerie() {
	sireneService := c.Container.GetService("sirene").(services.InterfaceSireneService)
	sirene, err := sireneService.FindByNumeroSerie(c.Ctx.Param("numero_serie"))
	if err != nil {
		failFromService(c.Ctx, err, code.ErrSireneNotFound, code.ErrSireneUnavailable)
		return
	}
	response.Success(c.Ctx, sirene)
}

// 5. CreateSirene registers a device
// @Summary Enregistrement d'une sirène
// @Tags Sirene
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SireneRequest true "Sirène"
// @Success 201 {object} map[string]interface{}
// @Failure 409 {object} ErrorResponse
// @Router /sirenes [post]
func (c *SireneController) CreateSirene() {
	var req SireneRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, err.Error())
		return
	}

	sirene := &models.Sirene{NumeroSerie: req.NumeroSerie, Modele: req.Modele}
	sireneService := c.Container.GetService("sirene").(services.InterfaceSireneService)
	if err := sireneService.Create(sirene); err != nil {
		failFromService(c.Ctx, err, code.ErrSireneNotFound, code.ErrSireneUnavailable)
		return
	}
	response.Created(c.Ctx, sirene)
}

// 6. AffecterSirene assigns a device to a site
// @Summary Affectation d'une sirène à un site
// @Tags Sirene
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de la sirène"
// @Param request body AffectationRequest true "Site cible"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /sirenes/{id}/affectation [post]
func (c *SireneController) AffecterSirene() {
	var req AffectationRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, err.Error())
		return
	}

	sireneService := c.Container.GetService("sirene").(services.InterfaceSireneService)
	sirene, err := sireneService.AffecterASite(c.Ctx.Param("id"), req.SiteID)
	if err != nil {
		if errors.Is(err, services.ErrSiteInconnu) {
			response.Fail(c.Ctx, code.ErrSiteNotFound, nil)
			return
		}
		failFromService(c.Ctx, err, code.ErrSireneNotFound, code.ErrSireneUnavailable)
		return
	}
	response.Success(c.Ctx, sirene)
}

// 7. UpdateSirene applies partial updates
// @Summary Mise à jour d'une sirène
// @Tags Sirene
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de la sirène"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse
// @Router /sirenes/{id} [put]
func (c *SireneController) UpdateSirene() {
	var req struct {
		Modele string `json:"modele"`
	}
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, err.Error())
		return
	}

	updates := map[string]interface{}{}
	if req.Modele != "" {
		updates["modele"] = req.Modele
	}

	sireneService := c.Container.GetService("sirene").(services.InterfaceSireneService)
	sirene, err := sireneService.Update(c.Ctx.Param("id"), updates)
	if err != nil {
		failFromService(c.Ctx, err, code.ErrSireneNotFound, code.ErrSireneUnavailable)
		return
	}
	response.Success(c.Ctx, sirene)
}

// 8. DeleteSirene removes a device
// @Summary Suppression d'une sirène
// @Tags Sirene
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de la sirène"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse
// @Router /sirenes/{id} [delete]
func (c *SireneController) DeleteSirene() {
	sireneService := c.Container.GetService("sirene").(services.InterfaceSireneService)
	if err := sireneService.Delete(c.Ctx.Param("id")); err != nil {
		failFromService(c.Ctx, err, code.ErrSireneNotFound, code.ErrSireneUnavailable)
		return
	}
	response.SuccessWithMessage(c.Ctx, "sirène supprimée", nil)
}

// 9. Activer triggers a device manually over the command channel
// @Summary Déclenchement manuel d'une sirène
// @Tags Sirene
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de la sirène"
// @Param request body ActivationRequest true "Durée"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse
// @Router /sirenes/{id}/activation [post]
func (c *SireneController) Activer() {
	var req ActivationRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, err.Error())
		return
	}

	sireneService := c.Container.GetService("sirene").(services.InterfaceSireneService)
	sirene, err := sireneService.GetByID(c.Ctx.Param("id"))
	if err != nil {
		failFromService(c.Ctx, err, code.ErrSireneNotFound, code.ErrSireneUnavailable)
		return
	}

	commandService := c.Container.GetService("siren_command").(services.InterfaceSirenCommandService)
	if err := commandService.PublishActivation(sirene.NumeroSerie, req.DureeSecondes); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrUnknown, "commande non délivrée: "+err.Error(), nil)
		return
	}
	response.SuccessWithMessage(c.Ctx, "commande envoyée", nil)
}
