package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/binarygaragedev/RouteWise-sub000/internal/disclosure"
	"github.com/binarygaragedev/RouteWise-sub000/internal/platform/metrics"
	"github.com/binarygaragedev/RouteWise-sub000/internal/platform/middleware"
	"github.com/binarygaragedev/RouteWise-sub000/internal/transport/http/shared"
	id "github.com/binarygaragedev/RouteWise-sub000/pkg/domain"
	dErrors "github.com/binarygaragedev/RouteWise-sub000/pkg/domain-errors"
)

// Service defines the read-path operation the handler needs.
type Service interface {
	GetDriverView(ctx context.Context, passengerID id.PassengerID, driverID id.DriverID, driverRating float64) (*disclosure.Result, error)
}

// Handler serves the driver-facing view endpoint.
type Handler struct {
	logger       *slog.Logger
	service      Service
	metrics      *metrics.Metrics
	jwtValidator middleware.JWTValidator
}

func New(service Service, logger *slog.Logger, m *metrics.Metrics, jwtValidator middleware.JWTValidator) *Handler {
	return &Handler{
		logger:       logger,
		service:      service,
		metrics:      m,
		jwtValidator: jwtValidator,
	}
}

// Register registers the driver-view route with the chi router.
func (h *Handler) Register(r chi.Router) {
	viewRouter := chi.NewRouter()
	viewRouter.Use(middleware.Recovery(h.logger))
	viewRouter.Use(middleware.RequestID)
	viewRouter.Use(middleware.Logger(h.logger))
	viewRouter.Use(middleware.Timeout(30 * time.Second))
	viewRouter.Use(middleware.ContentTypeJSON)
	viewRouter.Use(middleware.Latency(h.metrics))
	viewRouter.Use(middleware.RequireAuth(h.jwtValidator, h.logger))

	viewRouter.Get("/passengers/{passengerID}/driver-view", h.handleDriverView)

	r.Mount("/", viewRouter)
}

func (h *Handler) handleDriverView(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	if middleware.GetRole(ctx) != middleware.RoleDriver {
		shared.WriteError(w, dErrors.New(dErrors.CodeForbidden, "driver-view is driver-only"))
		return
	}
	driverID, err := id.ParseDriverID(middleware.GetUserID(ctx))
	if err != nil {
		h.logger.ErrorContext(ctx, "driver subject is not a valid id",
			"request_id", requestID,
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	passengerID, err := id.ParsePassengerID(chi.URLParam(r, "passengerID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	rating, err := strconv.ParseFloat(r.URL.Query().Get("rating"), 64)
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "rating query parameter is required"))
		return
	}

	result, err := h.service.GetDriverView(ctx, passengerID, driverID, rating)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to render driver view",
			"request_id", requestID,
			"passenger_id", passengerID,
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to render driver view"))
		return
	}

	shared.WriteJSON(w, http.StatusOK, result)
}
