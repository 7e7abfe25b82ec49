package controllers

import (
	"errors"
	"strconv"

	"github.com/Cocorine/backend-sirene-ecole/internal/domain/services"
	"github.com/Cocorine/backend-sirene-ecole/internal/error/code"
	"github.com/Cocorine/backend-sirene-ecole/internal/error/response"
	"github.com/Cocorine/backend-sirene-ecole/pkg/logger"

	"github.com/gin-gonic/gin"
)

// ErrorResponse documents the error envelope in swagger annotations.
type ErrorResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// pagination reads page/page_size query parameters with sane bounds
func pagination(ctx *gin.Context) (int, int) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(ctx.DefaultQuery("page_size", "10"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}
	return page, pageSize
}

// paginated builds the standard list payload
func paginated(data interface{}, total int64, page, pageSize int) gin.H {
	return gin.H{
		"total":       total,
		"page":        page,
		"page_size":   pageSize,
		"total_pages": (total + int64(pageSize) - 1) / int64(pageSize),
		"data":        data,
	}
}

// failFromService maps a service error kind to the matching business code.
// notFoundCode and conflictCode carry the domain-specific codes of the
// calling controller.
func failFromService(ctx *gin.Context, err error, notFoundCode, conflictCode int) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		response.FailWithMessage(ctx, notFoundCode, err.Error(), nil)
	case errors.Is(err, services.ErrConflict):
		response.FailWithMessage(ctx, conflictCode, err.Error(), nil)
	case errors.Is(err, services.ErrValidation):
		response.FailWithMessage(ctx, code.ErrValidation, err.Error(), nil)
	default:
		failInternal(ctx, err)
	}
}

// failInternal logs the underlying error and answers with the generic
// database message. Driver and SQL text never reach the client.
func failInternal(ctx *gin.Context, err error) {
	logger.Error("%s %s: %v", ctx.Request.Method, ctx.FullPath(), err)
	response.Fail(ctx, code.ErrDatabase, nil)
}
