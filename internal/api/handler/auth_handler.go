package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cargotrail/custody-ledger/internal/core/ports"
)

// StationHandler provisions and authenticates station identities.
type StationHandler struct {
	stations ports.StationService
}

func NewStationHandler(stations ports.StationService) *StationHandler {
	return &StationHandler{stations: stations}
}

type registerStationRequest struct {
	StationID string `json:"station_id" validate:"required"`
	Name      string `json:"name"       validate:"required"`
	Password  string `json:"password"   validate:"required,min=8"`
}

type loginStationRequest struct {
	StationID string `json:"station_id" validate:"required"`
	Password  string `json:"password"   validate:"required"`
}

type stationResponse struct {
	StationID string    `json:"station_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type authResponse struct {
	Token   string           `json:"token,omitempty"`
	Station *stationResponse `json:"station,omitempty"`
}

// Register creates a new station account.
//
// @Summary      Register a new station
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerStationRequest  true  "Station registration details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /auth/register [post]
func (h *StationHandler) Register(c echo.Context) error {
	var req registerStationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	station, err := h.stations.Register(c.Request().Context(), req.StationID, req.Name, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, authResponse{
		Station: &stationResponse{
			StationID: station.StationID,
			Name:      station.Name,
			CreatedAt: station.CreatedAt.UTC(),
		},
	})
}

// Login authenticates a station and returns a JWT carrying its identity.
//
// @Summary      Login as a station
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginStationRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /auth/login [post]
func (h *StationHandler) Login(c echo.Context) error {
	var req loginStationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, station, err := h.stations.Login(c.Request().Context(), req.StationID, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, authResponse{
		Token: token,
		Station: &stationResponse{
			StationID: station.StationID,
			Name:      station.Name,
			CreatedAt: station.CreatedAt.UTC(),
		},
	})
}
