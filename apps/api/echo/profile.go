package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/studymate/core/profile"
	"github.com/trezcool/studymate/core/tier"
)

type profileApi struct {
	svc      *profile.Service
	validate *validator.Validate
}

func registerProfileAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *profile.Service, validate *validator.Validate) {
	api := profileApi{
		svc:      svc,
		validate: validate,
	}

	pg := g.Group("/profiles")

	// un-authed endpoints
	pg.POST("", api.create)
	pg.GET("", api.query)
	pg.GET("/:id", api.retrieve)
	pg.GET("/:id/standing", api.standing)
	pg.GET("/:id/awards", api.awards)

	// Pass Points are granted by trusted backends only
	pg.POST("/:id/awards", api.award, jwt, adminMiddleware())
	pg.POST("/:id/reset", api.reset, jwt, adminMiddleware())
}

// Handlers

func (api *profileApi) create(ctx echo.Context) error {
	var data profile.NewProfile
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewProfile")
	}
	if err := data.Validate(ctx.Request().Context(), api.validate, api.svc); err != nil {
		return err
	}

	p, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating profile")
	}
	return ctx.JSON(http.StatusCreated, p)
}

func (api *profileApi) query(ctx echo.Context) error {
	var filter profile.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}
	var ord Ordering
	ord.Bind(ctx)

	profiles, err := api.svc.Query(ctx.Request().Context(), filter, ord.Orderings...)
	if err != nil {
		return errors.Wrap(err, "querying profiles")
	}
	return ctx.JSON(http.StatusOK, profiles)
}

func (api *profileApi) retrieve(ctx echo.Context) error {
	p, err := api.svc.Get(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting profile")
	}
	return ctx.JSON(http.StatusOK, p)
}

func (api *profileApi) standing(ctx echo.Context) error {
	st, err := api.svc.Standing(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting standing")
	}
	return ctx.JSON(http.StatusOK, st)
}

func (api *profileApi) awards(ctx echo.Context) error {
	awards, err := api.svc.Awards(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting awards")
	}
	return ctx.JSON(http.StatusOK, awards)
}

func (api *profileApi) award(ctx echo.Context) error {
	var data profile.NewAward
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAward")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	res, err := api.svc.AwardPassPoints(ctx.Request().Context(), ctx.Param("id"), tier.Reason(data.Reason))
	if err != nil {
		return errors.Wrap(err, "awarding pass points")
	}
	return ctx.JSON(http.StatusCreated, res)
}

func (api *profileApi) reset(ctx echo.Context) error {
	p, err := api.svc.ResetPassPoints(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "resetting pass points")
	}
	return ctx.JSON(http.StatusOK, p)
}
