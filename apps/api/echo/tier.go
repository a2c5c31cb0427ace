package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/studymate/core"
	"github.com/trezcool/studymate/core/profile"
	"github.com/trezcool/studymate/core/tier"
)

var errInvalidPoints = errors.New("must be an integer")

type (
	tierApi struct {
		scheme tier.Scheme
	}

	TierInfo struct {
		Tier       tier.Tier       `json:"tier"`
		Decoration tier.Decoration `json:"decoration"`
	}

	TiersResponse struct {
		Tiers  []TierInfo          `json:"tiers"`
		Awards map[tier.Reason]int `json:"awards"`
	}

	StandingResponse struct {
		tier.Standing
		Decoration tier.Decoration `json:"decoration"`
	}
)

func registerTierAPI(g *echo.Group, svc *profile.Service) {
	api := tierApi{scheme: svc.Scheme()}

	tg := g.Group("/tiers")
	tg.GET("", api.list)
	tg.GET("/standing", api.standing)
}

func (api *tierApi) list(ctx echo.Context) error {
	tiers := api.scheme.Table.Tiers()
	res := TiersResponse{
		Tiers:  make([]TierInfo, 0, len(tiers)),
		Awards: api.scheme.Awards.Amounts(),
	}
	for _, t := range tiers {
		res.Tiers = append(res.Tiers, TierInfo{Tier: t, Decoration: api.scheme.Decorations.Lookup(t.Name)})
	}
	return ctx.JSON(http.StatusOK, res)
}

// standing computes the tier situation of an arbitrary balance: ?points=N
func (api *tierApi) standing(ctx echo.Context) error {
	points, err := strconv.Atoi(ctx.QueryParam("points"))
	if err != nil {
		return core.NewFieldValidationError("points", errInvalidPoints)
	}
	st := api.scheme.Table.Standing(points)
	return ctx.JSON(http.StatusOK, StandingResponse{
		Standing:   st,
		Decoration: api.scheme.Decorations.Lookup(st.Tier.Name),
	})
}
