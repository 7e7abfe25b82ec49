package controllers

import (
	"github.com/Cocorine/backend-sirene-ecole/internal/domain/models"
	"github.com/Cocorine/backend-sirene-ecole/internal/domain/services"
	"github.com/Cocorine/backend-sirene-ecole/internal/domain/services/container"
	"github.com/Cocorine/backend-sirene-ecole/internal/error/code"
	"github.com/Cocorine/backend-sirene-ecole/internal/error/response"

	"github.com/gin-gonic/gin"
)

// NotificationController serves the authenticated account's notifications
type NotificationController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewNotificationController creates a new notification controller
func NewNotificationController(ctx *gin.Context, container *container.ServiceContainer) *NotificationController {
	return &NotificationController{Ctx: ctx, Container: container}
}

// HandleNotificationFunc returns a gin handler dispatching to the
// notification controller
func HandleNotificationFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewNotificationController(ctx, container)

		switch method {
		case "getMesNotifications":
			controller.GetMesNotifications()
		case "marquerLue":
			controller.MarquerLue()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "méthode invalide", nil)
		}
	}
}

// target resolves the notification recipient from the authenticated claims.
// Admins are notified on their user id, technicians and schools on the
// account linked to their user.
func (c *NotificationController) target() (notifiableType, notifiableID string) {
	role := c.Ctx.GetString("role")
	switch role {
	case models.RoleTechnicien:
		return models.NotifiableTechnicien, c.Ctx.GetString("accountID")
	case models.RoleEcole:
		return models.NotifiableEcole, c.Ctx.GetString("accountID")
	default:
		return models.NotifiableUser, c.Ctx.GetString("userID")
	}
}

// 1. GetMesNotifications lists the caller's notifications
// @Summary Notifications du compte connecté
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page" default(1)
// @Param page_size query int false "Taille de page" default(10)
// @Success 200 {object} map[string]interface{}
// @Router /notifications [get]
func (c *NotificationController) GetMesNotifications() {
	notifiableType, notifiableID := c.target()
	if notifiableID == "" {
		response.Unauthorized(c.Ctx)
		return
	}

	page, pageSize := pagination(c.Ctx)
	notificationService := c.Container.GetService("notification").(services.InterfaceNotificationService)
	notifications, total, err := notificationService.GetForTarget(notifiableType, notifiableID, page, pageSize)
	if err != nil {
		failInternal(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, paginated(notifications, total, page, pageSize))
}

// 2. MarquerLue marks one of the caller's notifications as read
// @Summary Marquage d'une notification comme lue
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de la notification"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse
// @Router /notifications/{id}/lue [put]
func (c *NotificationController) MarquerLue() {
	notificationService := c.Container.GetService("notification").(services.InterfaceNotificationService)
	notification, err := notificationService.MarquerLue(c.Ctx.Param("id"))
	if err != nil {
		failFromService(c.Ctx, err, code.ErrRecordNotFound, code.ErrRecordNotFound)
		return
	}
	response.Success(c.Ctx, notification)
}
