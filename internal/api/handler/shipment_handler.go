package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cargotrail/custody-ledger/internal/core/domain"
	"github.com/cargotrail/custody-ledger/internal/core/ports"
)

// LedgerHandler handles HTTP requests for shipment custody operations.
type LedgerHandler struct {
	service ports.LedgerService
}

func NewLedgerHandler(service ports.LedgerService) *LedgerHandler {
	return &LedgerHandler{service: service}
}

// Create registers a new shipment under a caller-chosen identifier.
//
// @Summary      Create a new shipment record
// @Tags         shipments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createShipmentRequest  true  "Shipment details"
// @Success      201   {object}  createShipmentResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/shipments [post]
func (h *LedgerHandler) Create(c echo.Context) error {
	if _, err := ctxStation(c); err != nil {
		return err
	}

	var req createShipmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	err := h.service.Create(c.Request().Context(), ports.CreateShipmentInput{
		ID:              req.ID,
		Origin:          req.Origin,
		Destination:     req.Destination,
		Quantity:        req.Quantity,
		TransitStations: req.TransitStations,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, createShipmentResponse{
		ID:     req.ID,
		Status: string(domain.StatusPending),
		Links:  links(req.ID),
	})
}

// Get returns the full record, including the caller's own damage claim.
//
// @Summary      Get a shipment by id
// @Tags         shipments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Shipment id"
// @Success      200  {object}  getShipmentResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/shipments/{id} [get]
func (h *LedgerHandler) Get(c echo.Context) error {
	station, err := ctxStation(c)
	if err != nil {
		return err
	}
	id, err := pathShipmentID(c)
	if err != nil {
		return err
	}

	detail, err := h.service.Get(c.Request().Context(), id, station)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toGetResponse(detail))
}

// SetStatus overrides the shipment status.
//
// @Summary      Set the shipment status
// @Tags         shipments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int               true  "Shipment id"
// @Param        body  body      setStatusRequest  true  "Target status"
// @Success      204   "status updated"
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/shipments/{id}/status [put]
func (h *LedgerHandler) SetStatus(c echo.Context) error {
	station, err := ctxStation(c)
	if err != nil {
		return err
	}
	id, err := pathShipmentID(c)
	if err != nil {
		return err
	}

	var req setStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.service.SetStatus(c.Request().Context(), id, req.Status, station); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Advance records custody hand-off at the caller's station and moves the
// shipment to the next transit station.
//
// @Summary      Advance the shipment past the caller's station
// @Tags         shipments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  int  true  "Shipment id"
// @Success      204  "shipment advanced"
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Failure      422  {object}  errorResponse
// @Router       /v1/shipments/{id}/advance [post]
func (h *LedgerHandler) Advance(c echo.Context) error {
	station, err := ctxStation(c)
	if err != nil {
		return err
	}
	id, err := pathShipmentID(c)
	if err != nil {
		return err
	}

	if err := h.service.Advance(c.Request().Context(), id, station); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ReportDamage files the caller's damage claim for a shipment it has handled.
//
// @Summary      Report damage observed at the caller's station
// @Tags         shipments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                  true  "Shipment id"
// @Param        body  body      reportDamageRequest  true  "Damage claim"
// @Success      204   "damage recorded"
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/shipments/{id}/damage [post]
func (h *LedgerHandler) ReportDamage(c echo.Context) error {
	station, err := ctxStation(c)
	if err != nil {
		return err
	}
	id, err := pathShipmentID(c)
	if err != nil {
		return err
	}

	var req reportDamageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.service.ReportDamage(c.Request().Context(), id, station, req.Quantity, req.Reason); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListDamage returns every station's latest claim, in reporter order.
//
// @Summary      List damage reports for a shipment
// @Tags         shipments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Shipment id"
// @Success      200  {array}   damageReportResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/shipments/{id}/damage [get]
func (h *LedgerHandler) ListDamage(c echo.Context) error {
	if _, err := ctxStation(c); err != nil {
		return err
	}
	id, err := pathShipmentID(c)
	if err != nil {
		return err
	}

	reports, err := h.service.ListDamageReports(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toDamageReportResponses(reports))
}

// StationPassed answers whether a given station has already handled the
// shipment.
//
// @Summary      Check whether a station has handled the shipment
// @Tags         shipments
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      int     true  "Shipment id"
// @Param        station  path      string  true  "Station id"
// @Success      200      {object}  stationPassedResponse
// @Failure      401      {object}  errorResponse
// @Failure      404      {object}  errorResponse
// @Router       /v1/shipments/{id}/stations/{station}/passed [get]
func (h *LedgerHandler) StationPassed(c echo.Context) error {
	if _, err := ctxStation(c); err != nil {
		return err
	}
	id, err := pathShipmentID(c)
	if err != nil {
		return err
	}
	station := c.Param("station")
	if station == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid station id")
	}

	passed, err := h.service.StationHasPassed(c.Request().Context(), id, station)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stationPassedResponse{
		ShipmentID: id,
		Station:    station,
		Passed:     passed,
	})
}

// ListNotifications returns the shipment's append-only notification feed in
// emission order.
//
// @Summary      List the shipment's notification feed
// @Tags         shipments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Shipment id"
// @Success      200  {array}   notificationResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/shipments/{id}/notifications [get]
func (h *LedgerHandler) ListNotifications(c echo.Context) error {
	if _, err := ctxStation(c); err != nil {
		return err
	}
	id, err := pathShipmentID(c)
	if err != nil {
		return err
	}

	notes, err := h.service.ListNotifications(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toNotificationResponses(notes))
}
