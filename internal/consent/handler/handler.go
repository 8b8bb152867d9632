package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/binarygaragedev/RouteWise-sub000/internal/consent"
	"github.com/binarygaragedev/RouteWise-sub000/internal/platform/metrics"
	"github.com/binarygaragedev/RouteWise-sub000/internal/platform/middleware"
	"github.com/binarygaragedev/RouteWise-sub000/internal/transport/http/shared"
	id "github.com/binarygaragedev/RouteWise-sub000/pkg/domain"
	dErrors "github.com/binarygaragedev/RouteWise-sub000/pkg/domain-errors"
)

// Ledger defines the consent operations the handler needs.
type Ledger interface {
	Grant(ctx context.Context, passengerID id.PassengerID, driverID id.DriverID, category id.DataCategory, shareWith consent.ShareWith, expiry consent.Expiry) (*consent.Grant, error)
	Revoke(ctx context.Context, passengerID id.PassengerID, driverID id.DriverID, category id.DataCategory) error
	RevokeCategory(ctx context.Context, passengerID id.PassengerID, category id.DataCategory) error
	List(ctx context.Context, passengerID id.PassengerID) ([]*consent.Grant, error)
}

// Handler serves the passenger consent settings surface.
type Handler struct {
	logger       *slog.Logger
	ledger       Ledger
	metrics      *metrics.Metrics
	jwtValidator middleware.JWTValidator
}

func New(ledger Ledger, logger *slog.Logger, m *metrics.Metrics, jwtValidator middleware.JWTValidator) *Handler {
	return &Handler{
		logger:       logger,
		ledger:       ledger,
		metrics:      m,
		jwtValidator: jwtValidator,
	}
}

// Register registers the consent routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	consentRouter := chi.NewRouter()
	consentRouter.Use(middleware.Recovery(h.logger))
	consentRouter.Use(middleware.RequestID)
	consentRouter.Use(middleware.Logger(h.logger))
	consentRouter.Use(middleware.Timeout(30 * time.Second))
	consentRouter.Use(middleware.ContentTypeJSON)
	consentRouter.Use(middleware.Latency(h.metrics))
	consentRouter.Use(middleware.RequireAuth(h.jwtValidator, h.logger))

	consentRouter.Get("/passengers/{passengerID}/consents", h.handleList)
	consentRouter.Put("/passengers/{passengerID}/consents/{category}", h.handlePut)
	consentRouter.Delete("/passengers/{passengerID}/consents/{category}", h.handleDeleteCategory)
	consentRouter.Delete("/passengers/{passengerID}/consents/{category}/{driverID}", h.handleDeleteDriver)

	r.Mount("/", consentRouter)
}

type putConsentRequest struct {
	ShareWith        string     `json:"shareWith"`
	DriverID         string     `json:"driverId,omitempty"`
	ExpiresAfterRide bool       `json:"expiresAfterRide,omitempty"`
	ExpiresAt        *time.Time `json:"expiresAt,omitempty"`
}

type grantResponse struct {
	Category         string     `json:"category"`
	ShareWith        string     `json:"shareWith"`
	GrantedTo        []string   `json:"grantedTo,omitempty"`
	ExpiresAfterRide bool       `json:"expiresAfterRide,omitempty"`
	ExpiresAt        *time.Time `json:"expiresAt,omitempty"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

func toGrantResponse(grant *consent.Grant) grantResponse {
	resp := grantResponse{
		Category:         grant.Category.String(),
		ShareWith:        string(grant.ShareWith),
		ExpiresAfterRide: grant.Expiry.AfterRide,
		ExpiresAt:        grant.Expiry.At,
		UpdatedAt:        grant.UpdatedAt,
	}
	for driverID := range grant.GrantedTo {
		resp.GrantedTo = append(resp.GrantedTo, driverID.String())
	}
	return resp
}

// authorizePassenger checks that the authenticated subject owns the resource.
func (h *Handler) authorizePassenger(w http.ResponseWriter, r *http.Request) (id.PassengerID, bool) {
	ctx := r.Context()

	passengerID, err := id.ParsePassengerID(chi.URLParam(r, "passengerID"))
	if err != nil {
		shared.WriteError(w, err)
		return id.PassengerID{}, false
	}

	if middleware.GetRole(ctx) != middleware.RolePassenger || middleware.GetUserID(ctx) != passengerID.String() {
		h.logger.WarnContext(ctx, "consent settings access denied",
			"request_id", middleware.GetRequestID(ctx),
			"passenger_id", passengerID,
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeForbidden, "not the owning passenger"))
		return id.PassengerID{}, false
	}
	return passengerID, true
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	passengerID, ok := h.authorizePassenger(w, r)
	if !ok {
		return
	}

	grants, err := h.ledger.List(ctx, passengerID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list consent grants",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}

	resp := make([]grantResponse, 0, len(grants))
	for _, grant := range grants {
		resp = append(resp, toGrantResponse(grant))
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"consents": resp})
}

func (h *Handler) handlePut(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	passengerID, ok := h.authorizePassenger(w, r)
	if !ok {
		return
	}

	category, err := id.ParseDataCategory(chi.URLParam(r, "category"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	var req putConsentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	shareWith, err := consent.ParseShareWith(req.ShareWith)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	var driverID id.DriverID
	if req.DriverID != "" {
		driverID, err = id.ParseDriverID(req.DriverID)
		if err != nil {
			shared.WriteError(w, err)
			return
		}
	}

	expiry := consent.Expiry{AfterRide: req.ExpiresAfterRide, At: req.ExpiresAt}
	grant, err := h.ledger.Grant(ctx, passengerID, driverID, category, shareWith, expiry)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeInvalidInput) || dErrors.Is(err, dErrors.CodeInvalidGrant) {
			shared.WriteError(w, err)
			return
		}
		h.logger.ErrorContext(ctx, "failed to save consent grant",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to save consent grant"))
		return
	}

	shared.WriteJSON(w, http.StatusOK, toGrantResponse(grant))
}

func (h *Handler) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	passengerID, ok := h.authorizePassenger(w, r)
	if !ok {
		return
	}

	category, err := id.ParseDataCategory(chi.URLParam(r, "category"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	if err := h.ledger.RevokeCategory(ctx, passengerID, category); err != nil {
		h.logger.ErrorContext(ctx, "failed to revoke consent",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleDeleteDriver(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	passengerID, ok := h.authorizePassenger(w, r)
	if !ok {
		return
	}

	category, err := id.ParseDataCategory(chi.URLParam(r, "category"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	driverID, err := id.ParseDriverID(chi.URLParam(r, "driverID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	if err := h.ledger.Revoke(ctx, passengerID, driverID, category); err != nil {
		h.logger.ErrorContext(ctx, "failed to revoke consent",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
