// Package api exposes one facade per backend resource. Each operation is a
// fixed method and path handed to the gateway; errors come back unchanged.
package api

import (
	"context"
	"net/url"
	"strconv"

	"codeberg.org/fleetdesk/console/internal/gateway"
	"codeberg.org/fleetdesk/console/internal/session"
)

// the part of the gateway the facades depend on
type Requester interface {
	Do(ctx context.Context, req gateway.Request, out any) error
}

// bundles every facade over one gateway client
type API struct {
	Auth          *Auth
	Vehicles      *Vehicles
	Trips         *Trips
	Drivers       *Drivers
	Analytics     *Analytics
	Notifications *Notifications
}

func New(r Requester, sess *session.Session) *API {
	return &API{
		Auth:          &Auth{r: r, session: sess},
		Vehicles:      &Vehicles{r: r},
		Trips:         &Trips{r: r},
		Drivers:       &Drivers{r: r},
		Analytics:     &Analytics{r: r},
		Notifications: &Notifications{r: r},
	}
}

func pageQuery(q url.Values, page, perPage int) {
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if perPage > 0 {
		q.Set("per_page", strconv.Itoa(perPage))
	}
}
