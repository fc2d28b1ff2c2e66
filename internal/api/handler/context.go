package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// ctxStation extracts the station identity injected by the Auth middleware.
// Presence proves the middleware ran; an empty value means the token carried
// no usable identity and the request must not reach the ledger core.
func ctxStation(c echo.Context) (string, error) {
	station, _ := c.Get("station_id").(string)
	if station == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "token missing station identity")
	}
	return station, nil
}

// pathShipmentID parses the :id path parameter. Shipment IDs are numeric and
// non-zero everywhere in the ledger.
func pathShipmentID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid shipment id")
	}
	return id, nil
}
