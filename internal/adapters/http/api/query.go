package api

import (
	"net/url"

	"github.com/okian/versus/internal/domain/filter"
	"github.com/okian/versus/internal/domain/ranking"
)

// Query parameter names shared by the API and the site.
const (
	ParamBudget       = "budget"
	ParamUsage        = "usage"
	ParamFuel         = "fuel"
	ParamTransmission = "transmission"
	ParamSearch       = "q"
	ParamPriority     = "priority"
	ParamA            = "a"
	ParamB            = "b"
)

// CriteriaFromQuery reads filter criteria and the ranking key from q.
// Missing parameters mean "any"; unknown budgets and priorities are
// ErrBadRequest.
func CriteriaFromQuery(q url.Values) (filter.Criteria, ranking.Key, error) {
	const op = "api.parse_query"

	budget, err := filter.ParseBudget(q.Get(ParamBudget))
	if err != nil {
		return filter.Criteria{}, ranking.Total, WrapKind(op, ErrBadRequest, err)
	}
	key, err := ranking.ParseKey(q.Get(ParamPriority))
	if err != nil {
		return filter.Criteria{}, ranking.Total, WrapKind(op, ErrBadRequest, err)
	}
	c := filter.Criteria{
		Budget:       budget,
		Usage:        q.Get(ParamUsage),
		Fuel:         q.Get(ParamFuel),
		Transmission: q.Get(ParamTransmission),
		Search:       q.Get(ParamSearch),
	}
	return c.Normalize(), key, nil
}
