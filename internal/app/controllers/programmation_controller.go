package controllers

import (
	"time"

	"github.com/Cocorine/backend-sirene-ecole/internal/domain/models"
	"github.com/Cocorine/backend-sirene-ecole/internal/domain/services"
	"github.com/Cocorine/backend-sirene-ecole/internal/domain/services/container"
	"github.com/Cocorine/backend-sirene-ecole/internal/error/code"
	"github.com/Cocorine/backend-sirene-ecole/internal/error/response"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

// ProgrammationController handles siren schedule requests
type ProgrammationController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewProgrammationController creates a new schedule controller
func NewProgrammationController(ctx *gin.Context, container *container.ServiceContainer) *ProgrammationController {
	return &ProgrammationController{Ctx: ctx, Container: container}
}

// ProgrammationRequest creates a schedule slot.
type ProgrammationRequest struct {
	SireneID           string   `json:"sirene_id" binding:"required"`
	Nom                string   `json:"nom" binding:"required" example:"Sonnerie de récréation"`
	HeureDeclenchement string   `json:"heure_declenchement" binding:"required" example:"10:00"`
	DureeSecondes      int      `json:"duree_secondes" binding:"required,min=1,max=600"`
	JoursSemaine       []string `json:"jours_semaine" binding:"required,min=1"`
	JoursFeriesInclus  bool     `json:"jours_feries_inclus"`
	DateDebut          *string  `json:"date_debut" example:"2025-09-01"`
	DateFin            *string  `json:"date_fin" example:"2026-06-30"`
}

// HandleProgrammationFunc returns a gin handler dispatching to the schedule
// controller
func HandleProgrammationFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewProgrammationController(ctx, container)

		switch method {
		case "getProgrammations":
			controller.GetProgrammations()
		case "getEffectives":
			controller.GetEffectives()
		case "createProgrammation":
			controller.CreateProgrammation()
		case "updateProgrammation":
			controller.UpdateProgrammation()
		case "deleteProgrammation":
			controller.DeleteProgrammation()
		case "pousserProgrammation":
			controller.PousserProgrammation()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "méthode invalide", nil)
		}
	}
}

// 1. GetProgrammations lists the slots of a siren
// @Summary Programmations d'une sirène
// @Tags Programmation
// @Produce json
// @Security BearerAuth
// @Param sirene_id path string true "ID de la sirène"
// @Success 200 {object} map[string]interface{}
// @Router /sirenes/{sirene_id}/programmations [get]
func (c *ProgrammationController) GetProgrammations() {
	programmationService := c.Container.GetService("programmation").(services.InterfaceProgrammationService)
	programmations, err := programmationService.GetBySirene(c.Ctx.Param("sirene_id"))
	if err != nil {
		failInternal(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, programmations)
}

// 2. GetEffectives returns the slots that fire on a date
// @Summary Programmations effectives à une date
// @Description Filtre par jour de semaine, fenêtre de validité et jours fériés
// @Tags Programmation
// @Produce json
// @Security BearerAuth
// @Param sirene_id path string true "ID de la sirène"
// @Param date query string false "Date AAAA-MM-JJ, défaut aujourd'hui"
// @Success 200 {object} map[string]interface{}
// @Router /sirenes/{sirene_id}/programmations/effectives [get]
func (c *ProgrammationController) GetEffectives() {
	date := time.Now()
	if raw := c.Ctx.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.ParamError(c.Ctx, "date invalide, format attendu AAAA-MM-JJ")
			return
		}
		date = parsed
	}

	programmationService := c.Container.GetService("programmation").(services.InterfaceProgrammationService)
	programmations, err := programmationService.EffectiveForDate(c.Ctx.Param("sirene_id"), date)
	if err != nil {
		failInternal(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, programmations)
}

// 3. CreateProgrammation adds a slot
// @Summary Création d'une programmation
// @Tags Programmation
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ProgrammationRequest true "Programmation"
// @Success 201 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /programmations [post]
func (c *ProgrammationController) CreateProgrammation() {
	var req ProgrammationRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, err.Error())
		return
	}

	programmation := &models.Programmation{
		SireneID:           req.SireneID,
		Nom:                req.Nom,
		HeureDeclenchement: req.HeureDeclenchement,
		DureeSecondes:      req.DureeSecondes,
		JoursSemaine:       datatypes.JSONSlice[string](req.JoursSemaine),
		JoursFeriesInclus:  req.JoursFeriesInclus,
		Actif:              true,
	}
	if req.DateDebut != nil {
		debut, err := time.Parse("2006-01-02", *req.DateDebut)
		if err != nil {
			response.ParamError(c.Ctx, "date_debut invalide, format attendu AAAA-MM-JJ")
			return
		}
		programmation.DateDebut = &debut
	}
	if req.DateFin != nil {
		fin, err := time.Parse("2006-01-02", *req.DateFin)
		if err != nil {
			response.ParamError(c.Ctx, "date_fin invalide, format attendu AAAA-MM-JJ")
			return
		}
		programmation.DateFin = &fin
	}

	programmationService := c.Container.GetService("programmation").(services.InterfaceProgrammationService)
	if err := programmationService.Create(programmation); err != nil {
		failFromService(c.Ctx, err, code.ErrSireneNotFound, code.ErrSireneUnavailable)
		return
	}
	response.Created(c.Ctx, programmation)
}

// 4. UpdateProgrammation applies partial updates
// @Summary Mise à jour d'une programmation
// @Tags Programmation
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de la programmation"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse
// @Router /programmations/{id} [put]
func (c *ProgrammationController) UpdateProgrammation() {
	var req struct {
		Nom                string   `json:"nom"`
		HeureDeclenchement string   `json:"heure_declenchement"`
		DureeSecondes      int      `json:"duree_secondes" binding:"omitempty,min=1,max=600"`
		JoursSemaine       []string `json:"jours_semaine"`
		Actif              *bool    `json:"actif"`
	}
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, err.Error())
		return
	}

	updates := map[string]interface{}{}
	if req.Nom != "" {
		updates["nom"] = req.Nom
	}
	if req.HeureDeclenchement != "" {
		updates["heure_declenchement"] = req.HeureDeclenchement
	}
	if req.DureeSecondes > 0 {
		updates["duree_secondes"] = req.DureeSecondes
	}
	if len(req.JoursSemaine) > 0 {
		updates["jours_semaine"] = datatypes.JSONSlice[string](req.JoursSemaine)
	}
	if req.Actif != nil {
		updates["actif"] = *req.Actif
	}

	programmationService := c.Container.GetService("programmation").(services.InterfaceProgrammationService)
	programmation, err := programmationService.Update(c.Ctx.Param("id"), updates)
	if err != nil {
		failFromService(c.Ctx, err, code.ErrRecordNotFound, code.ErrSireneUnavailable)
		return
	}
	response.Success(c.Ctx, programmation)
}

// 5. DeleteProgrammation removes a slot
// @Summary Suppression d'une programmation
// @Tags Programmation
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de la programmation"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse
// @Router /programmations/{id} [delete]
func (c *ProgrammationController) DeleteProgrammation() {
	programmationService := c.Container.GetService("programmation").(services.InterfaceProgrammationService)
	if err := programmationService.Delete(c.Ctx.Param("id")); err != nil {
		failFromService(c.Ctx, err, code.ErrRecordNotFound, code.ErrSireneUnavailable)
		return
	}
	response.SuccessWithMessage(c.Ctx, "programmation supprimée", nil)
}

// 6. PousserProgrammation publishes the effective schedule to the device
// @Summary Poussée de la programmation vers la sirène
// @Tags Programmation
// @Produce json
// @Security BearerAuth
// @Param sirene_id path string true "ID de la sirène"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse
// @Router /sirenes/{sirene_id}/programmations/poussee [post]
func (c *ProgrammationController) PousserProgrammation() {
	programmationService := c.Container.GetService("programmation").(services.InterfaceProgrammationService)
	if err := programmationService.PushToSirene(c.Ctx.Param("sirene_id")); err != nil {
		failFromService(c.Ctx, err, code.ErrSireneNotFound, code.ErrSireneUnavailable)
		return
	}
	response.SuccessWithMessage(c.Ctx, "programmation poussée", nil)
}
