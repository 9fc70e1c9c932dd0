package routes

import (
	"strconv"
	"strings"

	"medisched/cmd/internal/access"
	"medisched/cmd/internal/utils"
	"medisched/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

// requesterFrom turns the token data the JWT middleware attached to the
// request into the identity the services authorize against.
func requesterFrom(c echo.Context) (access.Requester, error) {
	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return access.Requester{}, err
	}
	return access.Requester{UserID: data.UserID, Role: data.Role}, nil
}

func intParam(c echo.Context, name string) (int, apierror.ErrorResponse) {
	raw := strings.TrimSpace(c.Param(name))
	if raw == "" {
		return 0, apierror.NewMissingParamError(name)
	}

	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apierror.NewInvalidParamTypeError(name, "int")
	}
	return id, nil
}
