package controllers

import (
	"github.com/Cocorine/backend-sirene-ecole/internal/domain/services"
	"github.com/Cocorine/backend-sirene-ecole/internal/domain/services/container"
	"github.com/Cocorine/backend-sirene-ecole/internal/error/code"
	"github.com/Cocorine/backend-sirene-ecole/internal/error/response"

	"github.com/gin-gonic/gin"
)

// UserController handles administrator account management
type UserController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewUserController creates a new user controller
func NewUserController(ctx *gin.Context, container *container.ServiceContainer) *UserController {
	return &UserController{Ctx: ctx, Container: container}
}

// CreateAdminRequest creates an administrator account.
type CreateAdminRequest struct {
	NomUtilisateur string `json:"nom_utilisateur" binding:"required,min=3" example:"admin2"`
	MotDePasse     string `json:"mot_de_passe" binding:"required,min=8" example:"UnBonMotDePasse"`
	Telephone      string `json:"telephone" example:"+22990000000"`
	Email          string `json:"email" binding:"omitempty,email" example:"admin@sirene-ecole.bj"`
}

// HandleUserFunc returns a gin handler dispatching to the user controller
func HandleUserFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewUserController(ctx, container)

		switch method {
		case "getUsers":
			controller.GetUsers()
		case "getUser":
			controller.GetUser()
		case "createAdmin":
			controller.CreateAdmin()
		case "deleteUser":
			controller.DeleteUser()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "méthode invalide", nil)
		}
	}
}

// 1. GetUsers lists the user accounts
// @Summary Liste des comptes utilisateurs
// @Tags Utilisateurs
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page" default(1)
// @Param page_size query int false "Taille de page" default(10)
// @Param role query string false "Filtre par rôle" Enums(admin, technicien, ecole)
// @Success 200 {object} map[string]interface{}
// @Router /users [get]
func (c *UserController) GetUsers() {
	page, pageSize := pagination(c.Ctx)
	userService := c.Container.GetService("user").(services.InterfaceUserService)
	users, total, err := userService.GetAll(page, pageSize, c.Ctx.Query("role"))
	if err != nil {
		failInternal(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, paginated(users, total, page, pageSize))
}

// 2. GetUser fetches one account
// @Summary Détail d'un compte utilisateur
// @Tags Utilisateurs
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de l'utilisateur"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse
// @Router /users/{id} [get]
func (c *UserController) GetUser() {
	userService := c.Container.GetService("user").(services.InterfaceUserService)
	user, err := userService.GetByID(c.Ctx.Param("id"))
	if err != nil {
		failFromService(c.Ctx, err, code.ErrUserNotFound, code.ErrUserNotFound)
		return
	}
	response.Success(c.Ctx, user)
}

// 3. CreateAdmin registers a new administrator
// @Summary Création d'un administrateur
// @Tags Utilisateurs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateAdminRequest true "Compte administrateur"
// @Success 201 {object} map[string]interface{}
// @Failure 409 {object} ErrorResponse
// @Router /users/admins [post]
func (c *UserController) CreateAdmin() {
	var req CreateAdminRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, err.Error())
		return
	}

	userService := c.Container.GetService("user").(services.InterfaceUserService)
	user, err := userService.CreateAdmin(req.NomUtilisateur, req.MotDePasse, req.Telephone, req.Email)
	if err != nil {
		failFromService(c.Ctx, err, code.ErrUserNotFound, code.ErrUserAlreadyExist)
		return
	}
	response.Created(c.Ctx, user)
}

// 4. DeleteUser removes an account
// @Summary Suppression d'un compte utilisateur
// @Tags Utilisateurs
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de l'utilisateur"
// @Success 200 {object} map[string]interface{}
// @Failure 409 {object} ErrorResponse
// @Router /users/{id} [delete]
func (c *UserController) DeleteUser() {
	userService := c.Container.GetService("user").(services.InterfaceUserService)
	if err := userService.Delete(c.Ctx.Param("id")); err != nil {
		failFromService(c.Ctx, err, code.ErrUserNotFound, code.ErrUserAlreadyExist)
		return
	}
	response.SuccessWithMessage(c.Ctx, "utilisateur supprimé", nil)
}
