package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/binarygaragedev/RouteWise-sub000/internal/negotiation"
	"github.com/binarygaragedev/RouteWise-sub000/internal/platform/metrics"
	"github.com/binarygaragedev/RouteWise-sub000/internal/platform/middleware"
	"github.com/binarygaragedev/RouteWise-sub000/internal/transport/http/shared"
	id "github.com/binarygaragedev/RouteWise-sub000/pkg/domain"
	dErrors "github.com/binarygaragedev/RouteWise-sub000/pkg/domain-errors"
)

// Service defines the negotiation operations the handler needs.
type Service interface {
	Request(ctx context.Context, driverID id.DriverID, passengerID id.PassengerID, category id.DataCategory, reason string) (*negotiation.Negotiation, error)
	Respond(ctx context.Context, negotiationID id.NegotiationID, passengerID id.PassengerID, approved bool, duration *time.Duration) (*negotiation.Negotiation, error)
	Withdraw(ctx context.Context, negotiationID id.NegotiationID, passengerID id.PassengerID) (*negotiation.Negotiation, error)
	List(ctx context.Context, passengerID id.PassengerID) ([]*negotiation.Negotiation, error)
}

// Handler serves the consent negotiation endpoints.
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

// Register registers the negotiation routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	negotiationRouter := chi.NewRouter()
	negotiationRouter.Use(middleware.Recovery(h.logger))
	negotiationRouter.Use(middleware.RequestID)
	negotiationRouter.Use(middleware.Logger(h.logger))
	negotiationRouter.Use(middleware.Timeout(30 * time.Second))
	negotiationRouter.Use(middleware.ContentTypeJSON)
	negotiationRouter.Use(middleware.Latency(h.metrics))
	negotiationRouter.Use(middleware.RequireAuth(h.jwtValidator, h.logger))

	negotiationRouter.Post("/consent/negotiations", h.handleRequest)
	negotiationRouter.Get("/consent/negotiations", h.handleList)
	negotiationRouter.Patch("/consent/negotiations/{negotiationID}", h.handleRespond)
	negotiationRouter.Delete("/consent/negotiations/{negotiationID}", h.handleWithdraw)

	r.Mount("/", negotiationRouter)
}

type requestConsentRequest struct {
	PassengerID string `json:"passengerId"`
	Category    string `json:"category"`
	Reason      string `json:"reason"`
}

type respondRequest struct {
	Approved   bool   `json:"approved"`
	DurationMs *int64 `json:"durationMs,omitempty"`
}

type negotiationResponse struct {
	NegotiationID string `json:"negotiationId"`
	Message       string `json:"message,omitempty"`
	Status        string `json:"status"`
}

type negotiationListItem struct {
	NegotiationID string     `json:"negotiationId"`
	DriverID      string     `json:"driverId"`
	Category      string     `json:"category"`
	Message       string     `json:"message,omitempty"`
	Status        string     `json:"status"`
	RequestedAt   time.Time  `json:"requestedAt"`
	ExpiresAt     *time.Time `json:"expiresAt,omitempty"`
}

type negotiationListResponse struct {
	Negotiations []negotiationListItem `json:"negotiations"`
}

func (h *Handler) handleRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	if middleware.GetRole(ctx) != middleware.RoleDriver {
		shared.WriteError(w, dErrors.New(dErrors.CodeForbidden, "only drivers may request consent"))
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

	var req requestConsentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	passengerID, err := id.ParsePassengerID(req.PassengerID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	category, err := id.ParseDataCategory(req.Category)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	result, err := h.service.Request(ctx, driverID, passengerID, category, req.Reason)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeIneligibleDriver) || dErrors.Is(err, dErrors.CodeInvalidInput) {
			shared.WriteError(w, err)
			return
		}
		h.logger.ErrorContext(ctx, "failed to open negotiation",
			"request_id", requestID,
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to open negotiation"))
		return
	}

	shared.WriteJSON(w, http.StatusCreated, negotiationResponse{
		NegotiationID: result.ID.String(),
		Message:       result.Message,
		Status:        "pending",
	})
}

// handleList returns the caller's own negotiations, newest first.
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if middleware.GetRole(ctx) != middleware.RolePassenger {
		shared.WriteError(w, dErrors.New(dErrors.CodeForbidden, "only passengers may list their negotiations"))
		return
	}
	passengerID, err := id.ParsePassengerID(middleware.GetUserID(ctx))
	if err != nil {
		h.logger.ErrorContext(ctx, "passenger subject is not a valid id",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	negotiations, err := h.service.List(ctx, passengerID)
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to list negotiations")
		return
	}

	items := make([]negotiationListItem, 0, len(negotiations))
	for _, n := range negotiations {
		items = append(items, negotiationListItem{
			NegotiationID: n.ID.String(),
			DriverID:      n.DriverID.String(),
			Category:      n.Category.String(),
			Message:       n.Message,
			Status:        string(n.State),
			RequestedAt:   n.RequestedAt,
			ExpiresAt:     n.ExpiresAt,
		})
	}
	shared.WriteJSON(w, http.StatusOK, negotiationListResponse{Negotiations: items})
}

// respondingPassenger parses the path ID and checks the caller is a passenger.
func (h *Handler) respondingPassenger(w http.ResponseWriter, r *http.Request) (id.NegotiationID, id.PassengerID, bool) {
	ctx := r.Context()

	negotiationID, err := id.ParseNegotiationID(chi.URLParam(r, "negotiationID"))
	if err != nil {
		shared.WriteError(w, err)
		return id.NegotiationID{}, id.PassengerID{}, false
	}
	if middleware.GetRole(ctx) != middleware.RolePassenger {
		shared.WriteError(w, dErrors.New(dErrors.CodeForbidden, "only the passenger may respond"))
		return id.NegotiationID{}, id.PassengerID{}, false
	}
	passengerID, err := id.ParsePassengerID(middleware.GetUserID(ctx))
	if err != nil {
		h.logger.ErrorContext(ctx, "passenger subject is not a valid id",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return id.NegotiationID{}, id.PassengerID{}, false
	}
	return negotiationID, passengerID, true
}

func (h *Handler) handleRespond(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	negotiationID, passengerID, ok := h.respondingPassenger(w, r)
	if !ok {
		return
	}

	var req respondRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	var duration *time.Duration
	if req.DurationMs != nil {
		if *req.DurationMs <= 0 {
			shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "durationMs must be positive"))
			return
		}
		d := time.Duration(*req.DurationMs) * time.Millisecond
		duration = &d
	}

	result, err := h.service.Respond(ctx, negotiationID, passengerID, req.Approved, duration)
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to respond to negotiation")
		return
	}

	shared.WriteJSON(w, http.StatusOK, negotiationResponse{
		NegotiationID: result.ID.String(),
		Status:        string(result.State),
	})
}

func (h *Handler) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	negotiationID, passengerID, ok := h.respondingPassenger(w, r)
	if !ok {
		return
	}

	result, err := h.service.Withdraw(ctx, negotiationID, passengerID)
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to withdraw negotiation")
		return
	}

	shared.WriteJSON(w, http.StatusOK, negotiationResponse{
		NegotiationID: result.ID.String(),
		Status:        string(result.State),
	})
}

func (h *Handler) writeServiceError(ctx context.Context, w http.ResponseWriter, err error, msg string) {
	switch {
	case dErrors.Is(err, dErrors.CodeNotFound),
		dErrors.Is(err, dErrors.CodeForbidden),
		dErrors.Is(err, dErrors.CodeConflict),
		dErrors.Is(err, dErrors.CodeInvalidGrant),
		dErrors.Is(err, dErrors.CodeInvalidInput):
		shared.WriteError(w, err)
	default:
		h.logger.ErrorContext(ctx, msg,
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, msg))
	}
}
