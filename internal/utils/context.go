package utils

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/ecoconnect-dev/ecoconnect/internal/middleware"
	"github.com/ecoconnect-dev/ecoconnect/internal/types"
	"github.com/gin-gonic/gin"
)

func GetCurrentUser(ctx *gin.Context) (middleware.AuthenticatedUser, error) {
	user, exists := ctx.Get(types.ContextUserKey)

	if !exists {
		return middleware.AuthenticatedUser{}, fmt.Errorf("User not authenticated")
	}

	authenticatedUser, ok := user.(middleware.AuthenticatedUser)

	if !ok {
		return middleware.AuthenticatedUser{}, fmt.Errorf("Invalid user type in context")
	}

	return authenticatedUser, nil
}

func GetCurrentUserID(ctx *gin.Context) (uint, error) {
	user, err := GetCurrentUser(ctx)

	if err != nil {
		return 0, err
	}

	return user.ID, nil
}

func GetIDParam(ctx *gin.Context, name string) (uint, error) {
	idStr := ctx.Param(name)

	if idStr == "" {
		return 0, errors.New("ID not found")
	}

	id, err := strconv.ParseUint(idStr, 10, 32)

	if err != nil {
		return 0, errors.New("Invalid ID")
	}

	return uint(id), nil
}
