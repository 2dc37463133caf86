package controller

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/tnqbao/gau-recipe-service/config"
	"github.com/tnqbao/gau-recipe-service/infra"
	"github.com/tnqbao/gau-recipe-service/provider"
	"github.com/tnqbao/gau-recipe-service/utils"
)

type Controller struct {
	Config   *config.Config
	Infra    *infra.Infra
	Provider *provider.Provider
}

func NewController(config *config.Config, infra *infra.Infra, prov *provider.Provider) *Controller {
	if prov == nil {
		panic("Failed to initialize Provider")
	}
	return &Controller{
		Config:   config,
		Infra:    infra,
		Provider: prov,
	}
}

// respondError maps the provider error kinds onto transport responses.
func (ctrl *Controller) respondError(c *gin.Context, tag string, err error) {
	ctx := c.Request.Context()

	var validationErr *provider.ValidationError
	var mediaErr *provider.UnsupportedMediaError
	switch {
	case errors.As(err, &validationErr):
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[%s] Validation failed: %v", tag, err)
		utils.JSON400(c, validationErr.Message)
	case errors.As(err, &mediaErr):
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[%s] Unsupported media: %v", tag, err)
		utils.JSON415(c, mediaErr.Message)
	case errors.Is(err, provider.ErrNotFound):
		utils.JSON404(c, "Not found")
	case errors.Is(err, provider.ErrStoreUnavailable):
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[%s] Store unavailable: %v", tag, err)
		utils.JSON503(c, "Storage backend unavailable")
	default:
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[%s] Unexpected error: %v", tag, err)
		utils.JSON500(c, "Internal server error")
	}
}
