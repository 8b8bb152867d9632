package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/binarygaragedev/RouteWise-sub000/internal/platform/metrics"
	"github.com/binarygaragedev/RouteWise-sub000/internal/platform/middleware"
	"github.com/binarygaragedev/RouteWise-sub000/internal/preferences"
	"github.com/binarygaragedev/RouteWise-sub000/internal/transport/http/shared"
	id "github.com/binarygaragedev/RouteWise-sub000/pkg/domain"
	dErrors "github.com/binarygaragedev/RouteWise-sub000/pkg/domain-errors"
)

// Service defines the preference operations the handler needs.
type Service interface {
	Get(ctx context.Context, passengerID id.PassengerID) (*preferences.Record, error)
	Save(ctx context.Context, passengerID id.PassengerID, record *preferences.Record) error
}

// Handler serves the passenger preference endpoints. Writes are passenger-only
// and ownership-checked: a passenger can never touch another's record.
type Handler struct {
	logger       *slog.Logger
	prefs        Service
	metrics      *metrics.Metrics
	jwtValidator middleware.JWTValidator
}

func New(prefs Service, logger *slog.Logger, m *metrics.Metrics, jwtValidator middleware.JWTValidator) *Handler {
	return &Handler{
		logger:       logger,
		prefs:        prefs,
		metrics:      m,
		jwtValidator: jwtValidator,
	}
}

// Register registers the preference routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	prefsRouter := chi.NewRouter()
	prefsRouter.Use(middleware.Recovery(h.logger))
	prefsRouter.Use(middleware.RequestID)
	prefsRouter.Use(middleware.Logger(h.logger))
	prefsRouter.Use(middleware.Timeout(30 * time.Second))
	prefsRouter.Use(middleware.ContentTypeJSON)
	prefsRouter.Use(middleware.Latency(h.metrics))
	prefsRouter.Use(middleware.RequireAuth(h.jwtValidator, h.logger))

	prefsRouter.Get("/passengers/{passengerID}/preferences", h.handleGet)
	prefsRouter.Put("/passengers/{passengerID}/preferences", h.handlePut)

	r.Mount("/", prefsRouter)
}

// owningPassenger parses the path ID and checks the caller owns the record.
func (h *Handler) owningPassenger(w http.ResponseWriter, r *http.Request) (id.PassengerID, bool) {
	ctx := r.Context()

	passengerID, err := id.ParsePassengerID(chi.URLParam(r, "passengerID"))
	if err != nil {
		shared.WriteError(w, err)
		return id.PassengerID{}, false
	}

	if middleware.GetRole(ctx) != middleware.RolePassenger || middleware.GetUserID(ctx) != passengerID.String() {
		h.logger.WarnContext(ctx, "preference access denied",
			"request_id", middleware.GetRequestID(ctx),
			"passenger_id", passengerID,
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeForbidden, "not the owning passenger"))
		return id.PassengerID{}, false
	}
	return passengerID, true
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	passengerID, ok := h.owningPassenger(w, r)
	if !ok {
		return
	}

	record, err := h.prefs.Get(ctx, passengerID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load preferences",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to load preferences"))
		return
	}

	shared.WriteJSON(w, http.StatusOK, record)
}

func (h *Handler) handlePut(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	passengerID, ok := h.owningPassenger(w, r)
	if !ok {
		return
	}

	var record preferences.Record
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	if err := h.prefs.Save(ctx, passengerID, &record); err != nil {
		if dErrors.Is(err, dErrors.CodeValidation) || dErrors.Is(err, dErrors.CodeBadRequest) {
			shared.WriteError(w, err)
			return
		}
		h.logger.ErrorContext(ctx, "failed to save preferences",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to save preferences"))
		return
	}

	shared.WriteJSON(w, http.StatusOK, &record)
}
