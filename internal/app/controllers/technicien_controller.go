package controllers

import (
	"github.com/Cocorine/backend-sirene-ecole/internal/domain/models"
	"github.com/Cocorine/backend-sirene-ecole/internal/domain/services"
	"github.com/Cocorine/backend-sirene-ecole/internal/domain/services/container"
	"github.com/Cocorine/backend-sirene-ecole/internal/error/code"
	"github.com/Cocorine/backend-sirene-ecole/internal/error/response"

	"github.com/gin-gonic/gin"
)

// TechnicienController handles technician requests
type TechnicienController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewTechnicienController creates a new technician controller
func NewTechnicienController(ctx *gin.Context, container *container.ServiceContainer) *TechnicienController {
	return &TechnicienController{Ctx: ctx, Container: container}
}

// TechnicienRequest registers a technician.
type TechnicienRequest struct {
	Nom        string `json:"nom" binding:"required" example:"Koffi Mensah"`
	Telephone  string `json:"telephone" binding:"required" example:"+22997000002"`
	Email      string `json:"email" binding:"omitempty,email"`
	VilleID    string `json:"ville_id" binding:"required"`
	Specialite string `json:"specialite" example:"électronique"`
}

// HandleTechnicienFunc returns a gin handler dispatching to the technician
// controller
func HandleTechnicienFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewTechnicienController(ctx, container)

		switch method {
		case "getTechniciens":
			controller.GetTechniciens()
		case "getTechnicien":
			controller.GetTechnicien()
		case "createTechnicien":
			controller.CreateTechnicien()
		case "updateTechnicien":
			controller.UpdateTechnicien()
		case "deleteTechnicien":
			controller.DeleteTechnicien()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "méthode invalide", nil)
		}
	}
}

// 1. GetTechniciens lists technicians, optionally by city
// @Summary Liste des techniciens
// @Tags Technicien
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page, défaut 1"
// @Param page_size query int false "Taille de page, défaut 10"
// @Param ville_id query string false "Filtre par ville"
// @Success 200 {object} map[string]interface{}
// @Router /techniciens [get]
func (c *TechnicienController) GetTechniciens() {
	technicienService := c.Container.GetService("technicien").(services.InterfaceTechnicienService)

	if villeID := c.Ctx.Query("ville_id"); villeID != "" {
		techniciens, err := technicienService.GetByVille(villeID)
		if err != nil {
			failInternal(c.Ctx, err)
			return
		}
		response.Success(c.Ctx, techniciens)
		return
	}

	page, pageSize := pagination(c.Ctx)
	techniciens, total, err := technicienService.GetAll(page, pageSize)
	if err != nil {
		failInternal(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, paginated(techniciens, total, page, pageSize))
}

// 2. GetTechnicien returns one technician
// @Summary Détail d'un technicien
// @Tags Technicien
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID du technicien"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse
// @Router /techniciens/{id} [get]
func (c *TechnicienController) GetTechnicien() {
	technicienService := c.Container.GetService("technicien").(services.InterfaceTechnicienService)
	technicien, err := technicienService.GetByID(c.Ctx.Param("id"))
	if err != nil {
		failFromService(c.Ctx, err, code.ErrTechnicienNotFound, code.ErrTechnicienNotFound)
		return
	}
	response.Success(c.Ctx, technicien)
}

// 3. CreateTechnicien registers a technician and opens their account
// @Summary Enregistrement d'un technicien
// @Tags Technicien
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body TechnicienRequest true "Technicien"
// @Success 201 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse
// @Router /techniciens [post]
func (c *TechnicienController) CreateTechnicien() {
	var req TechnicienRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, err.Error())
		return
	}

	technicien := &models.Technicien{
		Nom:        req.Nom,
		Telephone:  req.Telephone,
		Email:      req.Email,
		VilleID:    req.VilleID,
		Specialite: req.Specialite,
	}
	technicienService := c.Container.GetService("technicien").(services.InterfaceTechnicienService)
	created, tempPassword, err := technicienService.Create(technicien)
	if err != nil {
		failFromService(c.Ctx, err, code.ErrRecordNotFound, code.ErrUserAlreadyExist)
		return
	}
	response.Created(c.Ctx, gin.H{
		"technicien":              created,
		"mot_de_passe_temporaire": tempPassword,
	})
}

// 4. UpdateTechnicien applies partial updates
// @Summary Mise à jour d'un technicien
// @Tags Technicien
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID du technicien"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse
// @Router /techniciens/{id} [put]
func (c *TechnicienController) UpdateTechnicien() {
	var req struct {
		Nom        string `json:"nom"`
		Email      string `json:"email" binding:"omitempty,email"`
		VilleID    string `json:"ville_id"`
		Specialite string `json:"specialite"`
	}
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, err.Error())
		return
	}

	updates := map[string]interface{}{}
	if req.Nom != "" {
		updates["nom"] = req.Nom
	}
	if req.Email != "" {
		updates["email"] = req.Email
	}
	if req.VilleID != "" {
		updates["ville_id"] = req.VilleID
	}
	if req.Specialite != "" {
		updates["specialite"] = req.Specialite
	}

	technicienService := c.Container.GetService("technicien").(services.InterfaceTechnicienService)
	technicien, err := technicienService.Update(c.Ctx.Param("id"), updates)
	if err != nil {
		failFromService(c.Ctx, err, code.ErrTechnicienNotFound, code.ErrTechnicienNotFound)
		return
	}
	response.Success(c.Ctx, technicien)
}

// 5. DeleteTechnicien removes a technician
// @Summary Suppression d'un technicien
// @Tags Technicien
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID du technicien"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /techniciens/{id} [delete]
func (c *TechnicienController) DeleteTechnicien() {
	technicienService := c.Container.GetService("technicien").(services.InterfaceTechnicienService)
	if err := technicienService.Delete(c.Ctx.Param("id")); err != nil {
		failFromService(c.Ctx, err, code.ErrTechnicienNotFound, code.ErrTechnicienNotFound)
		return
	}
	response.SuccessWithMessage(c.Ctx, "technicien supprimé", nil)
}
