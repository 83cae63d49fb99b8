package api

import (
	"context"

	"flight_logbook/internal/listcache"
	"flight_logbook/internal/models"
)

func queryFor(key listcache.Key) Query {
	return Query{Search: key.Query(), Standard: key.Standard}
}

// FlightFetcher adapts ListFlights to a list cache
func (c *Client) FlightFetcher() listcache.Fetcher[models.FlightWire] {
	return func(ctx context.Context, key listcache.Key, page int) (*models.Page[models.FlightWire], error) {
		return c.ListFlights(ctx, queryFor(key), page)
	}
}

// AircraftFetcher adapts ListAircraft to a list cache
func (c *Client) AircraftFetcher() listcache.Fetcher[models.AircraftRecord] {
	return func(ctx context.Context, key listcache.Key, page int) (*models.Page[models.AircraftRecord], error) {
		return c.ListAircraft(ctx, queryFor(key), page)
	}
}

// AirportFetcher adapts ListAirports to a list cache
func (c *Client) AirportFetcher() listcache.Fetcher[models.AirportRecord] {
	return func(ctx context.Context, key listcache.Key, page int) (*models.Page[models.AirportRecord], error) {
		return c.ListAirports(ctx, queryFor(key), page)
	}
}

// FetchAircraftPage lists one unfiltered page of aircraft
func (c *Client) FetchAircraftPage(ctx context.Context, page int) (*models.Page[models.AircraftRecord], error) {
	return c.ListAircraft(ctx, Query{}, page)
}

// FetchAirportPage lists one unfiltered page of airports
func (c *Client) FetchAirportPage(ctx context.Context, page int) (*models.Page[models.AirportRecord], error) {
	return c.ListAirports(ctx, Query{}, page)
}
