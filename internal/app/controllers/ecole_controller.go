package controllers

import (
	"github.com/Cocorine/backend-sirene-ecole/internal/domain/services"
	"github.com/Cocorine/backend-sirene-ecole/internal/domain/services/container"
	"github.com/Cocorine/backend-sirene-ecole/internal/error/code"
	"github.com/Cocorine/backend-sirene-ecole/internal/error/response"

	"github.com/gin-gonic/gin"
)

// InterfaceEcoleController defines the school controller interface
type InterfaceEcoleController interface {
	Inscrire()
	GetEcoles()
	GetEcole()
	GetSites()
	UpdateEcole()
	DeleteEcole()
}

// EcoleController handles school requests
type EcoleController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewEcoleController creates a new school controller
func NewEcoleController(ctx *gin.Context, container *container.ServiceContainer) *EcoleController {
	return &EcoleController{Ctx: ctx, Container: container}
}

// SiteRequest is one site of a registration payload.
type SiteRequest struct {
	Nom               string `json:"nom" binding:"required" example:"Campus principal"`
	Adresse           string `json:"adresse" example:"Quartier Zongo"`
	VilleID           string `json:"ville_id" binding:"required"`
	EstPrincipale     bool   `json:"est_principale"`
	NumeroSerieSirene string `json:"numero_serie_sirene" example:"SIR-2025-0042"`
}

// InscriptionRequest registers a school with its sites.
type InscriptionRequest struct {
	Nom              string        `json:"nom" binding:"required" example:"École La Colombe"`
	Adresse          string        `json:"adresse" example:"Rue des Manguiers"`
	TelephoneContact string        `json:"telephone_contact" binding:"required" example:"+22997000001"`
	EmailContact     string        `json:"email_contact" binding:"omitempty,email"`
	Sites            []SiteRequest `json:"sites" binding:"required,min=1,dive"`
}

// UpdateEcoleRequest carries partial school updates.
type UpdateEcoleRequest struct {
	Nom              string `json:"nom"`
	Adresse          string `json:"adresse"`
	TelephoneContact string `json:"telephone_contact"`
	EmailContact     string `json:"email_contact" binding:"omitempty,email"`
}

// HandleEcoleFunc returns a gin handler dispatching to the school controller
func HandleEcoleFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewEcoleController(ctx, container)

		switch method {
		case "inscrire":
			controller.Inscrire()
		case "getEcoles":
			controller.GetEcoles()
		case "getEcole":
			controller.GetEcole()
		case "getSites":
			controller.GetSites()
		case "updateEcole":
			controller.UpdateEcole()
		case "deleteEcole":
			controller.DeleteEcole()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "méthode invalide", nil)
		}
	}
}

// 1. Inscrire registers a school with its sites and siren assignments
// @Summary Inscription d'une école
// @Description Crée l'école, ses sites, affecte les sirènes déclarées et ouvre un abonnement en attente par sirène
// @Tags Ecole
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body InscriptionRequest true "Dossier d'inscription"
// @Success 201 {object} map[string]interface{}
// @Failure 409 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /ecoles [post]
func (c *EcoleController) Inscrire() {
	var req InscriptionRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, err.Error())
		return
	}

	data := services.InscriptionData{
		Nom:              req.Nom,
		Adresse:          req.Adresse,
		TelephoneContact: req.TelephoneContact,
		EmailContact:     req.EmailContact,
	}
	for _, site := range req.Sites {
		data.Sites = append(data.Sites, services.SiteData{
			Nom:               site.Nom,
			Adresse:           site.Adresse,
			VilleID:           site.VilleID,
			EstPrincipale:     site.EstPrincipale,
			NumeroSerieSirene: site.NumeroSerieSirene,
		})
	}

	ecoleService := c.Container.GetService("ecole").(services.InterfaceEcoleService)
	result, err := ecoleService.Inscrire(data)
	if err != nil {
		failFromService(c.Ctx, err, code.ErrSireneNotFound, code.ErrSireneUnavailable)
		return
	}
	response.Created(c.Ctx, result)
}

// 2. GetEcoles lists schools
// @Summary Liste des écoles
// @Tags Ecole
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page, défaut 1"
// @Param page_size query int false "Taille de page, défaut 10"
// @Success 200 {object} map[string]interface{}
// @Router /ecoles [get]
func (c *EcoleController) GetEcoles() {
	page, pageSize := pagination(c.Ctx)

	ecoleService := c.Container.GetService("ecole").(services.InterfaceEcoleService)
	ecoles, total, err := ecoleService.GetAll(page, pageSize)
	if err != nil {
		failInternal(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, paginated(ecoles, total, page, pageSize))
}

// 3. GetEcole returns one school
// @Summary Détail d'une école
// @Tags Ecole
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de l'école"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse
// @Router /ecoles/{id} [get]
func (c *EcoleController) GetEcole() {
	ecoleService := c.Container.GetService("ecole").(services.InterfaceEcoleService)
	ecole, err := ecoleService.GetByID(c.Ctx.Param("id"))
	if err != nil {
		failFromService(c.Ctx, err, code.ErrEcoleNotFound, code.ErrEcoleNotFound)
		return
	}
	response.Success(c.Ctx, ecole)
}

// 4. GetSites lists the sites of a school
// @Summary Sites d'une école
// @Tags Ecole
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de l'école"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse
// @Router /ecoles/{id}/sites [get]
func (c *EcoleController) GetSites() {
	ecoleService := c.Container.GetService("ecole").(services.InterfaceEcoleService)
	sites, err := ecoleService.GetSites(c.Ctx.Param("id"))
	if err != nil {
		failFromService(c.Ctx, err, code.ErrEcoleNotFound, code.ErrEcoleNotFound)
		return
	}
	response.Success(c.Ctx, sites)
}

// 5. UpdateEcole applies partial updates
// @Summary Mise à jour d'une école
// @Tags Ecole
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de l'école"
// @Param request body UpdateEcoleRequest true "Champs à modifier"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse
// @Router /ecoles/{id} [put]
func (c *EcoleController) UpdateEcole() {
	var req UpdateEcoleRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, err.Error())
		return
	}

	updates := map[string]interface{}{}
	if req.Nom != "" {
		updates["nom"] = req.Nom
	}
	if req.Adresse != "" {
		updates["adresse"] = req.Adresse
	}
	if req.TelephoneContact != "" {
		updates["telephone_contact"] = req.TelephoneContact
	}
	if req.EmailContact != "" {
		updates["email_contact"] = req.EmailContact
	}

	ecoleService := c.Container.GetService("ecole").(services.InterfaceEcoleService)
	ecole, err := ecoleService.Update(c.Ctx.Param("id"), updates)
	if err != nil {
		failFromService(c.Ctx, err, code.ErrEcoleNotFound, code.ErrEcoleNotFound)
		return
	}
	response.Success(c.Ctx, ecole)
}

// 6. DeleteEcole removes a school
// @Summary Suppression d'une école
// @Tags Ecole
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de l'école"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /ecoles/{id} [delete]
func (c *EcoleController) DeleteEcole() {
	ecoleService := c.Container.GetService("ecole").(services.InterfaceEcoleService)
	if err := ecoleService.Delete(c.Ctx.Param("id")); err != nil {
		failFromService(c.Ctx, err, code.ErrEcoleNotFound, code.ErrAbonnementDejaActif)
		return
	}
	response.SuccessWithMessage(c.Ctx, "école supprimée", nil)
}
