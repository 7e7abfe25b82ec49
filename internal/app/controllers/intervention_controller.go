package controllers

import (
	"github.com/Cocorine/backend-sirene-ecole/internal/domain/models"
	"github.com/Cocorine/backend-sirene-ecole/internal/domain/services"
	"github.com/Cocorine/backend-sirene-ecole/internal/domain/services/container"
	"github.com/Cocorine/backend-sirene-ecole/internal/error/code"
	"github.com/Cocorine/backend-sirene-ecole/internal/error/response"

	"github.com/gin-gonic/gin"
)

// InterventionController handles intervention and report requests
type InterventionController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewInterventionController creates a new intervention controller
func NewInterventionController(ctx *gin.Context, container *container.ServiceContainer) *InterventionController {
	return &InterventionController{Ctx: ctx, Container: container}
}

// RapportRequest files the intervention report.
type RapportRequest struct {
	Diagnostic       string `json:"diagnostic" binding:"required"`
	TravauxEffectues string `json:"travaux_effectues" binding:"required"`
	PiecesUtilisees  string `json:"pieces_utilisees"`
	Recommandations  string `json:"recommandations"`
	Resultat         string `json:"resultat" binding:"required,oneof=resolu partiellement_resolu non_resolu"`
}

// NoteRequest rates an intervention or a report.
type NoteRequest struct {
	Note        int    `json:"note" binding:"required,min=1,max=5"`
	Commentaire string `json:"commentaire"`
}

// HandleInterventionFunc returns a gin handler dispatching to the
// intervention controller
func HandleInterventionFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewInterventionController(ctx, container)

		switch method {
		case "getInterventions":
			controller.GetInterventions()
		case "getIntervention":
			controller.GetIntervention()
		case "demarrer":
			controller.Demarrer()
		case "redigerRapport":
			controller.RedigerRapport()
		case "noterIntervention":
			controller.NoterIntervention()
		case "noterRapport":
			controller.NoterRapport()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "méthode invalide", nil)
		}
	}
}

// 1. GetInterventions lists interventions
// @Summary Liste des interventions
// @Tags Intervention
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page, défaut 1"
// @Param page_size query int false "Taille de page, défaut 10"
// @Param statut query string false "Filtre de statut"
// @Success 200 {object} map[string]interface{}
// @Router /interventions [get]
func (c *InterventionController) GetInterventions() {
	page, pageSize := pagination(c.Ctx)

	interventionService := c.Container.GetService("intervention").(services.InterfaceInterventionService)
	interventions, total, err := interventionService.GetAll(page, pageSize, c.Ctx.Query("statut"))
	if err != nil {
		failInternal(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, paginated(interventions, total, page, pageSize))
}

// 2. GetIntervention returns one intervention
// @Summary Détail d'une intervention
// @Tags Intervention
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de l'intervention"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse
// @Router /interventions/{id} [get]
func (c *InterventionController) GetIntervention() {
	interventionService := c.Container.GetService("intervention").(services.InterfaceInterventionService)
	intervention, err := interventionService.GetByID(c.Ctx.Param("id"))
	if err != nil {
		failFromService(c.Ctx, err, code.ErrInterventionNotFound, code.ErrTransitionInvalide)
		return
	}
	response.Success(c.Ctx, intervention)
}

// 3. Demarrer starts an assigned intervention
// @Summary Démarrage d'une intervention
// @Tags Intervention
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de l'intervention"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /interventions/{id}/demarrage [post]
func (c *InterventionController) Demarrer() {
	interventionService := c.Container.GetService("intervention").(services.InterfaceInterventionService)
	intervention, err := interventionService.Demarrer(c.Ctx.Param("id"))
	if err != nil {
		failFromService(c.Ctx, err, code.ErrInterventionNotFound, code.ErrTransitionInvalide)
		return
	}
	response.Success(c.Ctx, intervention)
}

// 4. RedigerRapport files the report and terminates the intervention
// @Summary Rédaction du rapport d'intervention
// @Description Crée le rapport en brouillon et passe l'intervention en terminee
// @Tags Intervention
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de l'intervention"
// @Param request body RapportRequest true "Rapport"
// @Success 201 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /interventions/{id}/rapport [post]
func (c *InterventionController) RedigerRapport() {
	var req RapportRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, err.Error())
		return
	}

	interventionService := c.Container.GetService("intervention").(services.InterfaceInterventionService)
	rapport, err := interventionService.RedigerRapport(c.Ctx.Param("id"), services.RapportData{
		Diagnostic:       req.Diagnostic,
		TravauxEffectues: req.TravauxEffectues,
		PiecesUtilisees:  req.PiecesUtilisees,
		Recommandations:  req.Recommandations,
		Resultat:         models.ResultatIntervention(req.Resultat),
	})
	if err != nil {
		failFromService(c.Ctx, err, code.ErrInterventionNotFound, code.ErrTransitionInvalide)
		return
	}
	response.Created(c.Ctx, rapport)
}

// 5. NoterIntervention lets the school rate the intervention
// @Summary Notation d'une intervention par l'école
// @Tags Intervention
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de l'intervention"
// @Param request body NoteRequest true "Note 1..5"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /interventions/{id}/note [post]
func (c *InterventionController) NoterIntervention() {
	var req NoteRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, err.Error())
		return
	}

	interventionService := c.Container.GetService("intervention").(services.InterfaceInterventionService)
	intervention, err := interventionService.NoterIntervention(c.Ctx.Param("id"), req.Note, req.Commentaire)
	if err != nil {
		failFromService(c.Ctx, err, code.ErrInterventionNotFound, code.ErrTransitionInvalide)
		return
	}
	response.Success(c.Ctx, intervention)
}

// 6. NoterRapport lets the admin review and validate the report
// @Summary Validation du rapport par l'administration
// @Tags Intervention
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID du rapport"
// @Param request body NoteRequest true "Note et revue"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /rapports/{id}/validation [post]
func (c *InterventionController) NoterRapport() {
	var req NoteRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, err.Error())
		return
	}

	interventionService := c.Container.GetService("intervention").(services.InterfaceInterventionService)
	rapport, err := interventionService.NoterRapport(c.Ctx.Param("id"), req.Note, req.Commentaire)
	if err != nil {
		failFromService(c.Ctx, err, code.ErrRapportNotFound, code.ErrTransitionInvalide)
		return
	}
	response.Success(c.Ctx, rapport)
}
