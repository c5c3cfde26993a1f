// Package controllers handles HTTP request handling
package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/alumniconnect/internal/app/models/dto"
	"github.com/yigit/alumniconnect/internal/app/services"
	"github.com/yigit/alumniconnect/internal/middleware"
)

// idParam parses a positive integer path parameter, answering 400 when it is not one
func idParam(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeBadRequest, "Invalid "+name).WithField(name)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}

// actor returns the authenticated caller; routes using it sit behind JWTAuth
func actor(ctx *gin.Context) services.Actor {
	a, _ := middleware.ActorFrom(ctx)
	return a
}

func respond(ctx *gin.Context, status int, data interface{}) {
	ctx.JSON(status, dto.NewAPIResponse(data))
}

func bindJSON(ctx *gin.Context, req interface{}) bool {
	if err := ctx.ShouldBindJSON(req); err != nil {
		middleware.HandleBindError(ctx, err)
		return false
	}
	return true
}

func bindQuery(ctx *gin.Context, req interface{}) bool {
	if err := ctx.ShouldBindQuery(req); err != nil {
		middleware.HandleBindError(ctx, err)
		return false
	}
	return true
}
