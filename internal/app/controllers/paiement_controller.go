package controllers

import (
	"encoding/json"

	"github.com/Cocorine/backend-sirene-ecole/internal/domain/models"
	"github.com/Cocorine/backend-sirene-ecole/internal/domain/services"
	"github.com/Cocorine/backend-sirene-ecole/internal/domain/services/container"
	"github.com/Cocorine/backend-sirene-ecole/internal/error/code"
	"github.com/Cocorine/backend-sirene-ecole/internal/error/response"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

// PaiementController handles payment requests
type PaiementController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewPaiementController creates a new payment controller
func NewPaiementController(ctx *gin.Context, container *container.ServiceContainer) *PaiementController {
	return &PaiementController{Ctx: ctx, Container: container}
}

// PaiementRequest records a pending payment on a subscription.
type PaiementRequest struct {
	AbonnementID     string                 `json:"abonnement_id" binding:"required"`
	Montant          float64                `json:"montant" binding:"required,gt=0"`
	Moyen            string                 `json:"moyen" binding:"required,oneof=MOBILE_MONEY CARTE QR_CODE VIREMENT"`
	ReferenceExterne string                 `json:"reference_externe"`
	Metadata         map[string]interface{} `json:"metadata"`
}

// HandlePaiementFunc returns a gin handler dispatching to the payment
// controller
func HandlePaiementFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewPaiementController(ctx, container)

		switch method {
		case "getPaiements":
			controller.GetPaiements()
		case "getPaiement":
			controller.GetPaiement()
		case "traiterPaiement":
			controller.TraiterPaiement()
		case "validerPaiement":
			controller.ValiderPaiement()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "méthode invalide", nil)
		}
	}
}

// 1. GetPaiements lists payments, optionally by subscription
// @Summary Liste des paiements
// @Tags Paiement
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page, défaut 1"
// @Param page_size query int false "Taille de page, défaut 10"
// @Param statut query string false "Filtre de statut (en_attente, valide)"
// @Param abonnement_id query string false "Filtre par abonnement"
// @Success 200 {object} map[string]interface{}
// @Router /paiements [get]
func (c *PaiementController) GetPaiements() {
	paiementService := c.Container.GetService("paiement").(services.InterfacePaiementService)

	if abonnementID := c.Ctx.Query("abonnement_id"); abonnementID != "" {
		paiements, err := paiementService.GetByAbonnement(abonnementID)
		if err != nil {
			failInternal(c.Ctx, err)
			return
		}
		response.Success(c.Ctx, paiements)
		return
	}

	page, pageSize := pagination(c.Ctx)
	paiements, total, err := paiementService.GetAll(page, pageSize, c.Ctx.Query("statut"))
	if err != nil {
		failInternal(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, paginated(paiements, total, page, pageSize))
}

// 2. GetPaiement returns one payment
// @Summary Détail d'un paiement
// @Tags Paiement
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID du paiement"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse
// @Router /paiements/{id} [get]
func (c *PaiementController) GetPaiement() {
	paiementService := c.Container.GetService("paiement").(services.InterfacePaiementService)
	paiement, err := paiementService.GetByID(c.Ctx.Param("id"))
	if err != nil {
		failFromService(c.Ctx, err, code.ErrPaiementNotFound, code.ErrPaiementDejaValide)
		return
	}
	response.Success(c.Ctx, paiement)
}

// 3. TraiterPaiement records a pending payment
// @Summary Enregistrement d'un paiement
// @Description Crée un paiement en attente de validation sur un abonnement
// @Tags Paiement
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body PaiementRequest true "Paiement"
// @Success 201 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /paiements [post]
func (c *PaiementController) TraiterPaiement() {
	var req PaiementRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, err.Error())
		return
	}

	var metadata datatypes.JSON
	if req.Metadata != nil {
		if raw, err := json.Marshal(req.Metadata); err == nil {
			metadata = datatypes.JSON(raw)
		}
	}

	paiementService := c.Container.GetService("paiement").(services.InterfacePaiementService)
	paiement, err := paiementService.Traiter(req.AbonnementID, services.PaiementData{
		Montant:          req.Montant,
		Moyen:            models.MoyenPaiement(req.Moyen),
		ReferenceExterne: req.ReferenceExterne,
		Metadata:         metadata,
	})
	if err != nil {
		failFromService(c.Ctx, err, code.ErrAbonnementNotFound, code.ErrAbonnementDejaActif)
		return
	}
	response.Created(c.Ctx, paiement)
}

// 4. ValiderPaiement validates a payment, activating the subscription
// @Summary Validation d'un paiement
// @Description Valide le paiement, active l'abonnement et génère le token sirène
// @Tags Paiement
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID du paiement"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /paiements/{id}/validation [post]
func (c *PaiementController) ValiderPaiement() {
	paiementService := c.Container.GetService("paiement").(services.InterfacePaiementService)
	paiement, err := paiementService.Valider(c.Ctx.Param("id"))
	if err != nil {
		failFromService(c.Ctx, err, code.ErrPaiementNotFound, code.ErrPaiementDejaValide)
		return
	}
	response.Success(c.Ctx, paiement)
}
