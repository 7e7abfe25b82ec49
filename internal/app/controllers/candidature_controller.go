package controllers

import (
	"github.com/Cocorine/backend-sirene-ecole/internal/domain/services"
	"github.com/Cocorine/backend-sirene-ecole/internal/domain/services/container"
	"github.com/Cocorine/backend-sirene-ecole/internal/error/code"
	"github.com/Cocorine/backend-sirene-ecole/internal/error/response"

	"github.com/gin-gonic/gin"
)

// CandidatureController handles mission candidacy requests
type CandidatureController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewCandidatureController creates a new candidacy controller
func NewCandidatureController(ctx *gin.Context, container *container.ServiceContainer) *CandidatureController {
	return &CandidatureController{Ctx: ctx, Container: container}
}

// CandidatureRequest submits a candidacy on a mission order.
type CandidatureRequest struct {
	OrdreMissionID string `json:"ordre_mission_id" binding:"required"`
}

// RetraitRequest withdraws a candidacy; the reason is mandatory.
type RetraitRequest struct {
	Motif string `json:"motif" binding:"required" example:"Indisponible cette semaine"`
}

// HandleCandidatureFunc returns a gin handler dispatching to the candidacy
// controller
func HandleCandidatureFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewCandidatureController(ctx, container)

		switch method {
		case "soumettre":
			controller.Soumettre()
		case "accepter":
			controller.Accepter()
		case "refuser":
			controller.Refuser()
		case "retirer":
			controller.Retirer()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "méthode invalide", nil)
		}
	}
}

// 1. Soumettre submits the calling technician's candidacy
// @Summary Soumission d'une candidature
// @Description Le technicien connecté candidate sur un ordre de mission de sa ville
// @Tags Candidature
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CandidatureRequest true "Ordre de mission visé"
// @Success 201 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /candidatures [post]
func (c *CandidatureController) Soumettre() {
	var req CandidatureRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, err.Error())
		return
	}

	technicienID := c.Ctx.GetString("accountID")
	if technicienID == "" {
		response.FailWithMessage(c.Ctx, code.ErrForbidden, "compte non rattaché à un technicien", nil)
		return
	}

	candidatureService := c.Container.GetService("candidature").(services.InterfaceCandidatureService)
	candidature, err := candidatureService.Soumettre(req.OrdreMissionID, technicienID)
	if err != nil {
		failFromService(c.Ctx, err, code.ErrOrdreMissionNotFound, code.ErrCandidatureDupliquee)
		return
	}
	response.Created(c.Ctx, candidature)
}

// 2. Accepter accepts a candidacy, assigning the mission
// @Summary Acceptation d'une candidature
// @Description Accepte la candidature, passe l'ordre en cours et crée l'intervention assignée
// @Tags Candidature
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de la candidature"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /candidatures/{id}/acceptation [post]
func (c *CandidatureController) Accepter() {
	candidatureService := c.Container.GetService("candidature").(services.InterfaceCandidatureService)
	intervention, err := candidatureService.Accepter(c.Ctx.Param("id"), c.Ctx.GetString("userID"))
	if err != nil {
		failFromService(c.Ctx, err, code.ErrCandidatureNotFound, code.ErrOrdreComplet)
		return
	}
	response.Success(c.Ctx, intervention)
}

// 3. Refuser rejects a candidacy
// @Summary Refus d'une candidature
// @Tags Candidature
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de la candidature"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /candidatures/{id}/refus [post]
func (c *CandidatureController) Refuser() {
	candidatureService := c.Container.GetService("candidature").(services.InterfaceCandidatureService)
	candidature, err := candidatureService.Refuser(c.Ctx.Param("id"), c.Ctx.GetString("userID"))
	if err != nil {
		failFromService(c.Ctx, err, code.ErrCandidatureNotFound, code.ErrTransitionInvalide)
		return
	}
	response.Success(c.Ctx, candidature)
}

// 4. Retirer withdraws the calling technician's candidacy
// @Summary Retrait d'une candidature
// @Description Retire une candidature avec motif obligatoire
// @Tags Candidature
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de la candidature"
// @Param request body RetraitRequest true "Motif du retrait"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /candidatures/{id}/retrait [post]
func (c *CandidatureController) Retirer() {
	var req RetraitRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrMotifRequis, "un motif de retrait est requis", nil)
		return
	}

	candidatureService := c.Container.GetService("candidature").(services.InterfaceCandidatureService)
	candidature, err := candidatureService.Retirer(c.Ctx.Param("id"), req.Motif)
	if err != nil {
		failFromService(c.Ctx, err, code.ErrCandidatureNotFound, code.ErrTransitionInvalide)
		return
	}
	response.Success(c.Ctx, candidature)
}
