package controllers

import (
	"github.com/Cocorine/backend-sirene-ecole/internal/domain/models"
	"github.com/Cocorine/backend-sirene-ecole/internal/domain/services"
	"github.com/Cocorine/backend-sirene-ecole/internal/domain/services/container"
	"github.com/Cocorine/backend-sirene-ecole/internal/error/code"
	"github.com/Cocorine/backend-sirene-ecole/internal/error/response"

	"github.com/gin-gonic/gin"
)

// PanneController handles fault report requests
type PanneController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewPanneController creates a new fault report controller
func NewPanneController(ctx *gin.Context, container *container.ServiceContainer) *PanneController {
	return &PanneController{Ctx: ctx, Container: container}
}

// PanneRequest declares a fault on a siren.
type PanneRequest struct {
	SireneID    string `json:"sirene_id" binding:"required"`
	Description string `json:"description" binding:"required" example:"La sirène ne sonne plus depuis lundi"`
	Priorite    string `json:"priorite" binding:"omitempty,oneof=basse moyenne haute" example:"haute"`
}

// ValidationPanneRequest sizes the mission order opened at validation.
type ValidationPanneRequest struct {
	NombreTechniciensRequis int `json:"nombre_techniciens_requis" binding:"omitempty,min=1,max=10" example:"2"`
}

// HandlePanneFunc returns a gin handler dispatching to the fault controller
func HandlePanneFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewPanneController(ctx, container)

		switch method {
		case "getPannes":
			controller.GetPannes()
		case "getPanne":
			controller.GetPanne()
		case "declarerPanne":
			controller.DeclarerPanne()
		case "validerPanne":
			controller.ValiderPanne()
		case "cloturerPanne":
			controller.CloturerPanne()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "méthode invalide", nil)
		}
	}
}

// 1. GetPannes lists fault reports
// @Summary Liste des pannes
// @Tags Panne
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page, défaut 1"
// @Param page_size query int false "Taille de page, défaut 10"
// @Param statut query string false "Filtre de statut (en_attente, validee, cloturee)"
// @Success 200 {object} map[string]interface{}
// @Router /pannes [get]
func (c *PanneController) GetPannes() {
	page, pageSize := pagination(c.Ctx)
	statut := c.Ctx.Query("statut")

	panneService := c.Container.GetService("panne").(services.InterfacePanneService)
	pannes, total, err := panneService.GetAll(page, pageSize, statut)
	if err != nil {
		failInternal(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, paginated(pannes, total, page, pageSize))
}

// 2. GetPanne returns one fault report
// @Summary Détail d'une panne
// @Tags Panne
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de la panne"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse
// @Router /pannes/{id} [get]
func (c *PanneController) GetPanne() {
	panneService := c.Container.GetService("panne").(services.InterfacePanneService)
	panne, err := panneService.GetByID(c.Ctx.Param("id"))
	if err != nil {
		failFromService(c.Ctx, err, code.ErrPanneNotFound, code.ErrTransitionInvalide)
		return
	}
	response.Success(c.Ctx, panne)
}

// 3. DeclarerPanne declares a fault on a siren
// @Summary Déclaration d'une panne
// @Description Ouvre une panne et passe la sirène EN_PANNE
// @Tags Panne
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body PanneRequest true "Panne"
// @Success 201 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse
// @Router /pannes [post]
func (c *PanneController) DeclarerPanne() {
	var req PanneRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, err.Error())
		return
	}
	priorite := models.PrioritePanne(req.Priorite)
	if req.Priorite == "" {
		priorite = models.PrioriteMoyenne
	}

	panneService := c.Container.GetService("panne").(services.InterfacePanneService)
	panne, err := panneService.Declarer(req.SireneID, req.Description, priorite)
	if err != nil {
		failFromService(c.Ctx, err, code.ErrSireneNotFound, code.ErrTransitionInvalide)
		return
	}
	response.Created(c.Ctx, panne)
}

// 4. ValiderPanne validates a fault, generating and broadcasting the mission
// order
// @Summary Validation d'une panne
// @Description Passe la panne en validee, génère l'ordre de mission pour la ville du site et alerte les techniciens
// @Tags Panne
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de la panne"
// @Param request body ValidationPanneRequest false "Nombre de techniciens requis, défaut 1"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /pannes/{id}/validation [post]
func (c *PanneController) ValiderPanne() {
	var req ValidationPanneRequest
	if c.Ctx.Request.ContentLength > 0 {
		if err := c.Ctx.ShouldBindJSON(&req); err != nil {
			response.ParamError(c.Ctx, err.Error())
			return
		}
	}

	panneService := c.Container.GetService("panne").(services.InterfacePanneService)
	panne, err := panneService.Valider(c.Ctx.Param("id"), req.NombreTechniciensRequis)
	if err != nil {
		failFromService(c.Ctx, err, code.ErrPanneNotFound, code.ErrTransitionInvalide)
		return
	}
	response.Success(c.Ctx, panne)
}

// 5. CloturerPanne closes a fault after repair
// @Summary Clôture d'une panne
// @Tags Panne
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de la panne"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /pannes/{id}/cloture [post]
func (c *PanneController) CloturerPanne() {
	panneService := c.Container.GetService("panne").(services.InterfacePanneService)
	panne, err := panneService.Cloturer(c.Ctx.Param("id"))
	if err != nil {
		failFromService(c.Ctx, err, code.ErrPanneNotFound, code.ErrTransitionInvalide)
		return
	}
	response.Success(c.Ctx, panne)
}
