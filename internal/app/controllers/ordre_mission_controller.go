package controllers

import (
	"github.com/Cocorine/backend-sirene-ecole/internal/domain/services"
	"github.com/Cocorine/backend-sirene-ecole/internal/domain/services/container"
	"github.com/Cocorine/backend-sirene-ecole/internal/error/code"
	"github.com/Cocorine/backend-sirene-ecole/internal/error/response"

	"github.com/gin-gonic/gin"
)

// OrdreMissionController handles mission order requests
type OrdreMissionController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewOrdreMissionController creates a new mission order controller
func NewOrdreMissionController(ctx *gin.Context, container *container.ServiceContainer) *OrdreMissionController {
	return &OrdreMissionController{Ctx: ctx, Container: container}
}

// CommentaireRequest updates the admin comment of a mission order.
type CommentaireRequest struct {
	Commentaire string `json:"commentaire" binding:"required"`
}

// HandleOrdreMissionFunc returns a gin handler dispatching to the mission
// order controller
func HandleOrdreMissionFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewOrdreMissionController(ctx, container)

		switch method {
		case "getOrdres":
			controller.GetOrdres()
		case "getOrdre":
			controller.GetOrdre()
		case "getCandidatures":
			controller.GetCandidatures()
		case "cloturerCandidatures":
			controller.CloturerCandidatures()
		case "rouvrirCandidatures":
			controller.RouvrirCandidatures()
		case "cloturerOrdre":
			controller.CloturerOrdre()
		case "updateCommentaire":
			controller.UpdateCommentaire()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "méthode invalide", nil)
		}
	}
}

// 1. GetOrdres lists mission orders, optionally by city
// @Summary Liste des ordres de mission
// @Tags OrdreMission
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page, défaut 1"
// @Param page_size query int false "Taille de page, défaut 10"
// @Param statut query string false "Filtre de statut"
// @Param ville_id query string false "Filtre par ville"
// @Success 200 {object} map[string]interface{}
// @Router /ordres-mission [get]
func (c *OrdreMissionController) GetOrdres() {
	ordreService := c.Container.GetService("ordre_mission").(services.InterfaceOrdreMissionService)

	if villeID := c.Ctx.Query("ville_id"); villeID != "" {
		ordres, err := ordreService.GetByVille(villeID)
		if err != nil {
			failInternal(c.Ctx, err)
			return
		}
		response.Success(c.Ctx, ordres)
		return
	}

	page, pageSize := pagination(c.Ctx)
	ordres, total, err := ordreService.GetAll(page, pageSize, c.Ctx.Query("statut"))
	if err != nil {
		failInternal(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, paginated(ordres, total, page, pageSize))
}

// 2. GetOrdre returns one mission order
// @Summary Détail d'un ordre de mission
// @Tags OrdreMission
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de l'ordre"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse
// @Router /ordres-mission/{id} [get]
func (c *OrdreMissionController) GetOrdre() {
	ordreService := c.Container.GetService("ordre_mission").(services.InterfaceOrdreMissionService)
	ordre, err := ordreService.GetByID(c.Ctx.Param("id"))
	if err != nil {
		failFromService(c.Ctx, err, code.ErrOrdreMissionNotFound, code.ErrTransitionInvalide)
		return
	}
	response.Success(c.Ctx, ordre)
}

// 3. GetCandidatures lists the candidacies of a mission order
// @Summary Candidatures d'un ordre de mission
// @Tags OrdreMission
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de l'ordre"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse
// @Router /ordres-mission/{id}/candidatures [get]
func (c *OrdreMissionController) GetCandidatures() {
	ordreService := c.Container.GetService("ordre_mission").(services.InterfaceOrdreMissionService)
	candidatures, err := ordreService.GetCandidatures(c.Ctx.Param("id"))
	if err != nil {
		failFromService(c.Ctx, err, code.ErrOrdreMissionNotFound, code.ErrTransitionInvalide)
		return
	}
	response.Success(c.Ctx, candidatures)
}

// 4. CloturerCandidatures closes the candidacy window
// @Summary Clôture des candidatures
// @Tags OrdreMission
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de l'ordre"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /ordres-mission/{id}/candidatures/cloture [post]
func (c *OrdreMissionController) CloturerCandidatures() {
	ordreService := c.Container.GetService("ordre_mission").(services.InterfaceOrdreMissionService)
	ordre, err := ordreService.CloturerCandidatures(c.Ctx.Param("id"), c.Ctx.GetString("userID"))
	if err != nil {
		failFromService(c.Ctx, err, code.ErrOrdreMissionNotFound, code.ErrCandidaturesCloturees)
		return
	}
	response.Success(c.Ctx, ordre)
}

// 5. RouvrirCandidatures reopens the candidacy window
// @Summary Réouverture des candidatures
// @Tags OrdreMission
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de l'ordre"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /ordres-mission/{id}/candidatures/reouverture [post]
func (c *OrdreMissionController) RouvrirCandidatures() {
	ordreService := c.Container.GetService("ordre_mission").(services.InterfaceOrdreMissionService)
	ordre, err := ordreService.RouvrirCandidatures(c.Ctx.Param("id"), c.Ctx.GetString("userID"))
	if err != nil {
		failFromService(c.Ctx, err, code.ErrOrdreMissionNotFound, code.ErrCandidaturesCloturees)
		return
	}
	response.Success(c.Ctx, ordre)
}

// 6. CloturerOrdre closes a finished mission order
// @Summary Clôture d'un ordre de mission
// @Tags OrdreMission
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de l'ordre"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /ordres-mission/{id}/cloture [post]
func (c *OrdreMissionController) CloturerOrdre() {
	ordreService := c.Container.GetService("ordre_mission").(services.InterfaceOrdreMissionService)
	ordre, err := ordreService.Cloturer(c.Ctx.Param("id"))
	if err != nil {
		failFromService(c.Ctx, err, code.ErrOrdreMissionNotFound, code.ErrTransitionInvalide)
		return
	}
	response.Success(c.Ctx, ordre)
}

// 7. UpdateCommentaire sets the admin comment
// @Summary Commentaire d'un ordre de mission
// @Tags OrdreMission
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de l'ordre"
// @Param request body CommentaireRequest true "Commentaire"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse
// @Router /ordres-mission/{id}/commentaire [put]
func (c *OrdreMissionController) UpdateCommentaire() {
	var req CommentaireRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, err.Error())
		return
	}

	ordreService := c.Container.GetService("ordre_mission").(services.InterfaceOrdreMissionService)
	ordre, err := ordreService.UpdateCommentaire(c.Ctx.Param("id"), req.Commentaire)
	if err != nil {
		failFromService(c.Ctx, err, code.ErrOrdreMissionNotFound, code.ErrTransitionInvalide)
		return
	}
	response.Success(c.Ctx, ordre)
}
