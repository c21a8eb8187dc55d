package domain

import "errors"

var (
	// ErrInvalidCoordinate marks malformed, NaN or out-of-range coordinates.
	ErrInvalidCoordinate = errors.New("invalid coordinate")

	// ErrInvalidRouteOption marks a missing ship type or hazard sensitivity.
	ErrInvalidRouteOption = errors.New("invalid route option")

	// ErrRouteUnavailable marks a failed or malformed route service response.
	ErrRouteUnavailable = errors.New("route unavailable")

	// ErrNoActiveRoute is returned when a simulation is started before a route exists.
	ErrNoActiveRoute = errors.New("no active route")

	// ErrStaleResponse is returned when a route response arrives for a
	// request that a reset or a newer request has superseded.
	ErrStaleResponse = errors.New("stale route response")

	// ErrVoyageNotFound is returned for unknown voyage IDs.
	ErrVoyageNotFound = errors.New("voyage not found")

	// ErrVoyageLimit is returned when no more voyages can be opened.
	ErrVoyageLimit = errors.New("too many open voyages")

	// ErrPortNotFound is returned for unknown port IDs.
	ErrPortNotFound = errors.New("port not found")
)
