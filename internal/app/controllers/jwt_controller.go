package controllers

import (
	"errors"

	"github.com/Cocorine/backend-sirene-ecole/internal/domain/services"
	"github.com/Cocorine/backend-sirene-ecole/internal/domain/services/container"
	"github.com/Cocorine/backend-sirene-ecole/internal/error/code"
	"github.com/Cocorine/backend-sirene-ecole/internal/error/response"

	"github.com/gin-gonic/gin"
)

// InterfaceAuthController defines the authentication controller interface
type InterfaceAuthController interface {
	Login()
	RequestOtp()
	LoginWithOtp()
	ChangePassword()
}

// AuthController handles authentication requests
type AuthController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewAuthController creates a new authentication controller
func NewAuthController(ctx *gin.Context, container *container.ServiceContainer) *AuthController {
	return &AuthController{Ctx: ctx, Container: container}
}

// LoginRequest is the password login payload.
type LoginRequest struct {
	NomUtilisateur string `json:"nom_utilisateur" binding:"required" example:"admin"`
	MotDePasse     string `json:"mot_de_passe" binding:"required" example:"Admin@123"`
}

// OtpRequest asks for a code on a phone number.
type OtpRequest struct {
	Telephone string `json:"telephone" binding:"required" example:"+22997000001"`
}

// OtpLoginRequest is the OTP login payload.
type OtpLoginRequest struct {
	Telephone string `json:"telephone" binding:"required" example:"+22997000001"`
	Code      string `json:"code" binding:"required" example:"531204"`
}

// ChangePasswordRequest replaces the caller's password.
type ChangePasswordRequest struct {
	AncienMotDePasse  string `json:"ancien_mot_de_passe" binding:"required"`
	NouveauMotDePasse string `json:"nouveau_mot_de_passe" binding:"required,min=8"`
}

// HandleAuthFunc returns a gin handler dispatching to the auth controller
func HandleAuthFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewAuthController(ctx, container)

		switch method {
		case "login":
			controller.Login()
		case "requestOtp":
			controller.RequestOtp()
		case "loginWithOtp":
			controller.LoginWithOtp()
		case "changePassword":
			controller.ChangePassword()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "méthode invalide", nil)
		}
	}
}

// 1. Login authenticates with username and password
// @Summary Connexion par mot de passe
// @Description Authentifie un compte et retourne un token JWT
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Identifiants"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} ErrorResponse
// @Router /auth/login [post]
func (c *AuthController) Login() {
	var req LoginRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, err.Error())
		return
	}

	jwtService := c.Container.GetService("jwt").(services.InterfaceJWTService)
	result, err := jwtService.Login(req.NomUtilisateur, req.MotDePasse)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrPasswordIncorrect, "identifiants invalides", nil)
		return
	}
	response.Success(c.Ctx, result)
}

// 2. RequestOtp sends a login code by SMS
// @Summary Demande de code OTP
// @Description Envoie un code de connexion par SMS
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body OtpRequest true "Numéro de téléphone"
// @Success 200 {object} map[string]interface{}
// @Failure 422 {object} ErrorResponse
// @Router /auth/otp [post]
func (c *AuthController) RequestOtp() {
	var req OtpRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, err.Error())
		return
	}

	otpService := c.Container.GetService("otp").(services.InterfaceOtpService)
	if _, err := otpService.Generate(req.Telephone, "login"); err != nil {
		failFromService(c.Ctx, err, code.ErrUserNotFound, code.ErrOtpInvalid)
		return
	}
	response.SuccessWithMessage(c.Ctx, "code envoyé", nil)
}

// 3. LoginWithOtp authenticates with a phone number and an SMS code
// @Summary Connexion par OTP
// @Description Authentifie un compte avec un code SMS et retourne un token JWT
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body OtpLoginRequest true "Téléphone et code"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} ErrorResponse
// @Router /auth/login/otp [post]
func (c *AuthController) LoginWithOtp() {
	var req OtpLoginRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, err.Error())
		return
	}

	jwtService := c.Container.GetService("jwt").(services.InterfaceJWTService)
	result, err := jwtService.LoginWithOtp(req.Telephone, req.Code)
	if err != nil {
		if errors.Is(err, services.ErrOtpExpire) {
			response.Fail(c.Ctx, code.ErrOtpExpired, nil)
			return
		}
		failFromService(c.Ctx, err, code.ErrUserNotFound, code.ErrOtpInvalid)
		return
	}
	response.Success(c.Ctx, result)
}

// 4. ChangePassword replaces the caller's password
// @Summary Changement de mot de passe
// @Description Remplace le mot de passe du compte connecté
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ChangePasswordRequest true "Ancien et nouveau mot de passe"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} ErrorResponse
// @Router /auth/password [put]
func (c *AuthController) ChangePassword() {
	var req ChangePasswordRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, err.Error())
		return
	}

	userID := c.Ctx.GetString("userID")
	jwtService := c.Container.GetService("jwt").(services.InterfaceJWTService)
	if err := jwtService.ChangePassword(userID, req.AncienMotDePasse, req.NouveauMotDePasse); err != nil {
		failFromService(c.Ctx, err, code.ErrUserNotFound, code.ErrPasswordIncorrect)
		return
	}
	response.SuccessWithMessage(c.Ctx, "mot de passe modifié", nil)
}
