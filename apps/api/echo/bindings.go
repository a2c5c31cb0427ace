package echoapi

import (
	"github.com/labstack/echo/v4"

	"github.com/trezcool/studymate/core"
)

var orderingParam = "ordering"

type Ordering struct {
	Orderings []core.DBOrdering
}

// Bind reads orderings from the query string, eg: ?ordering=-pass_points,username
func (ord *Ordering) Bind(ctx echo.Context) {
	if val := ctx.QueryParam(orderingParam); val != "" {
		ord.Orderings = core.ParseOrderings(val)
	}
}
