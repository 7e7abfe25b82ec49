package controllers

import (
	"github.com/Cocorine/backend-sirene-ecole/internal/domain/models"
	"github.com/Cocorine/backend-sirene-ecole/internal/domain/services"
	"github.com/Cocorine/backend-sirene-ecole/internal/domain/services/container"
	"github.com/Cocorine/backend-sirene-ecole/internal/error/code"
	"github.com/Cocorine/backend-sirene-ecole/internal/error/response"

	"github.com/gin-gonic/gin"
)

// VilleController handles city referential requests
type VilleController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewVilleController creates a new city controller
func NewVilleController(ctx *gin.Context, container *container.ServiceContainer) *VilleController {
	return &VilleController{Ctx: ctx, Container: container}
}

// VilleRequest creates a city.
type VilleRequest struct {
	Nom  string `json:"nom" binding:"required" example:"Cotonou"`
	Code string `json:"code" example:"COT"`
}

// HandleVilleFunc returns a gin handler dispatching to the city controller
func HandleVilleFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewVilleController(ctx, container)

		switch method {
		case "getVilles":
			controller.GetVilles()
		case "createVille":
			controller.CreateVille()
		case "deleteVille":
			controller.DeleteVille()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "méthode invalide", nil)
		}
	}
}

// 1. GetVilles lists cities
// @Summary Liste des villes
// @Tags Ville
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /villes [get]
func (c *VilleController) GetVilles() {
	villeService := c.Container.GetService("ville").(services.InterfaceVilleService)
	villes, err := villeService.GetAll()
	if err != nil {
		failInternal(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, villes)
}

// 2. CreateVille adds a city
// @Summary Création d'une ville
// @Tags Ville
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body VilleRequest true "Ville"
// @Success 201 {object} map[string]interface{}
// @Failure 409 {object} ErrorResponse
// @Router /villes [post]
func (c *VilleController) CreateVille() {
	var req VilleRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, err.Error())
		return
	}

	ville := &models.Ville{Nom: req.Nom, Code: req.Code}
	villeService := c.Container.GetService("ville").(services.InterfaceVilleService)
	if err := villeService.Create(ville); err != nil {
		failFromService(c.Ctx, err, code.ErrRecordNotFound, code.ErrUserAlreadyExist)
		return
	}
	response.Created(c.Ctx, ville)
}

// 3. DeleteVille removes a city
// @Summary Suppression d'une ville
// @Tags Ville
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de la ville"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /villes/{id} [delete]
func (c *VilleController) DeleteVille() {
	villeService := c.Container.GetService("ville").(services.InterfaceVilleService)
	if err := villeService.Delete(c.Ctx.Param("id")); err != nil {
		failFromService(c.Ctx, err, code.ErrRecordNotFound, code.ErrUserAlreadyExist)
		return
	}
	response.SuccessWithMessage(c.Ctx, "ville supprimée", nil)
}
