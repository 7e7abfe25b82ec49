package controllers

import (
	"time"

	"github.com/Cocorine/backend-sirene-ecole/internal/domain/models"
	"github.com/Cocorine/backend-sirene-ecole/internal/domain/services"
	"github.com/Cocorine/backend-sirene-ecole/internal/domain/services/container"
	"github.com/Cocorine/backend-sirene-ecole/internal/error/code"
	"github.com/Cocorine/backend-sirene-ecole/internal/error/response"

	"github.com/gin-gonic/gin"
)

// CalendrierController handles public holiday and school calendar requests
type CalendrierController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewCalendrierController creates a new calendar controller
func NewCalendrierController(ctx *gin.Context, container *container.ServiceContainer) *CalendrierController {
	return &CalendrierController{Ctx: ctx, Container: container}
}

// JourFerieRequest creates a public holiday.
type JourFerieRequest struct {
	Nom  string `json:"nom" binding:"required" example:"Fête du travail"`
	Date string `json:"date" binding:"required" example:"2026-05-01"`
	Type string `json:"type" binding:"omitempty,oneof=fixe recurrent" example:"recurrent"`
}

// PeriodeRequest creates a school-year period.
type PeriodeRequest struct {
	AnneeScolaire string `json:"annee_scolaire" binding:"required" example:"2025-2026"`
	Type          string `json:"type" binding:"required" example:"vacances"`
	Libelle       string `json:"libelle" example:"Vacances de Noël"`
	DateDebut     string `json:"date_debut" binding:"required" example:"2025-12-20"`
	DateFin       string `json:"date_fin" binding:"required" example:"2026-01-05"`
}

// HandleCalendrierFunc returns a gin handler dispatching to the calendar
// controller
func HandleCalendrierFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewCalendrierController(ctx, container)

		switch method {
		case "getJoursFeries":
			controller.GetJoursFeries()
		case "createJourFerie":
			controller.CreateJourFerie()
		case "deleteJourFerie":
			controller.DeleteJourFerie()
		case "getPeriodes":
			controller.GetPeriodes()
		case "createPeriode":
			controller.CreatePeriode()
		case "deletePeriode":
			controller.DeletePeriode()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "méthode invalide", nil)
		}
	}
}

// 1. GetJoursFeries lists the holidays
// @Summary Liste des jours fériés
// @Tags Calendrier
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /jours-feries [get]
func (c *CalendrierController) GetJoursFeries() {
	jourFerieService := c.Container.GetService("jour_ferie").(services.InterfaceJourFerieService)
	jours, err := jourFerieService.GetAll()
	if err != nil {
		failInternal(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, jours)
}

// 2. CreateJourFerie adds a holiday
// @Summary Création d'un jour férié
// @Tags Calendrier
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body JourFerieRequest true "Jour férié"
// @Success 201 {object} map[string]interface{}
// @Failure 422 {object} ErrorResponse
// @Router /jours-feries [post]
func (c *CalendrierController) CreateJourFerie() {
	var req JourFerieRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, err.Error())
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		response.ParamError(c.Ctx, "date invalide, format attendu AAAA-MM-JJ")
		return
	}

	jour := &models.JourFerie{Nom: req.Nom, Date: date, Type: models.TypeJourFerie(req.Type)}
	jourFerieService := c.Container.GetService("jour_ferie").(services.InterfaceJourFerieService)
	if err := jourFerieService.Create(jour); err != nil {
		failFromService(c.Ctx, err, code.ErrRecordNotFound, code.ErrRecordNotFound)
		return
	}
	response.Created(c.Ctx, jour)
}

// 3. DeleteJourFerie removes a holiday
// @Summary Suppression d'un jour férié
// @Tags Calendrier
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID du jour férié"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse
// @Router /jours-feries/{id} [delete]
func (c *CalendrierController) DeleteJourFerie() {
	jourFerieService := c.Container.GetService("jour_ferie").(services.InterfaceJourFerieService)
	if err := jourFerieService.Delete(c.Ctx.Param("id")); err != nil {
		failFromService(c.Ctx, err, code.ErrRecordNotFound, code.ErrRecordNotFound)
		return
	}
	response.SuccessWithMessage(c.Ctx, "jour férié supprimé", nil)
}

// 4. GetPeriodes lists the periods of a school year
// @Summary Périodes d'une année scolaire
// @Tags Calendrier
// @Produce json
// @Security BearerAuth
// @Param annee query string true "Année scolaire, ex. 2025-2026"
// @Success 200 {object} map[string]interface{}
// @Router /calendrier-scolaire [get]
func (c *CalendrierController) GetPeriodes() {
	annee := c.Ctx.Query("annee")
	if annee == "" {
		response.ParamError(c.Ctx, "le paramètre annee est requis")
		return
	}

	calendrierService := c.Container.GetService("calendrier_scolaire").(services.InterfaceCalendrierScolaireService)
	periodes, err := calendrierService.GetByAnnee(annee)
	if err != nil {
		failInternal(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, periodes)
}

// 5. CreatePeriode adds a school-year period
// @Summary Création d'une période scolaire
// @Tags Calendrier
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body PeriodeRequest true "Période"
// @Success 201 {object} map[string]interface{}
// @Failure 422 {object} ErrorResponse
// @Router /calendrier-scolaire [post]
func (c *CalendrierController) CreatePeriode() {
	var req PeriodeRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, err.Error())
		return
	}
	debut, err := time.Parse("2006-01-02", req.DateDebut)
	if err != nil {
		response.ParamError(c.Ctx, "date_debut invalide, format attendu AAAA-MM-JJ")
		return
	}
	fin, err := time.Parse("2006-01-02", req.DateFin)
	if err != nil {
		response.ParamError(c.Ctx, "date_fin invalide, format attendu AAAA-MM-JJ")
		return
	}

	periode := &models.CalendrierScolaire{
		AnneeScolaire: req.AnneeScolaire,
		Type:          req.Type,
		Libelle:       req.Libelle,
		DateDebut:     debut,
		DateFin:       fin,
	}
	calendrierService := c.Container.GetService("calendrier_scolaire").(services.InterfaceCalendrierScolaireService)
	if err := calendrierService.Create(periode); err != nil {
		failFromService(c.Ctx, err, code.ErrRecordNotFound, code.ErrRecordNotFound)
		return
	}
	response.Created(c.Ctx, periode)
}

// 6. DeletePeriode removes a period
// @Summary Suppression d'une période scolaire
// @Tags Calendrier
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de la période"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse
// @Router /calendrier-scolaire/{id} [delete]
func (c *CalendrierController) DeletePeriode() {
	calendrierService := c.Container.GetService("calendrier_scolaire").(services.InterfaceCalendrierScolaireService)
	if err := calendrierService.Delete(c.Ctx.Param("id")); err != nil {
		failFromService(c.Ctx, err, code.ErrRecordNotFound, code.ErrRecordNotFound)
		return
	}
	response.SuccessWithMessage(c.Ctx, "période supprimée", nil)
}
