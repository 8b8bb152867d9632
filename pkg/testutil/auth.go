package testutil

import (
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/binarygaragedev/RouteWise-sub000/internal/auth"
	"github.com/binarygaragedev/RouteWise-sub000/internal/platform/middleware"
)

// TestSigningKey is the HMAC key handler tests share with their JWTService.
const TestSigningKey = "test-signing-key"

// NewJWTService returns a JWT service bound to the shared test key.
func NewJWTService() *auth.JWTService {
	return auth.NewJWTService(TestSigningKey)
}

// AsPassenger attaches a valid passenger bearer token for subject to req.
func AsPassenger(t *testing.T, req *http.Request, subject uuid.UUID) *http.Request {
	t.Helper()
	return withToken(t, req, subject, middleware.RolePassenger)
}

// AsDriver attaches a valid driver bearer token for subject to req.
func AsDriver(t *testing.T, req *http.Request, subject uuid.UUID) *http.Request {
	t.Helper()
	return withToken(t, req, subject, middleware.RoleDriver)
}

func withToken(t *testing.T, req *http.Request, subject uuid.UUID, role string) *http.Request {
	t.Helper()
	token, err := NewJWTService().GenerateToken(subject, role, time.Hour)
	require.NoError(t, err, "failed to sign test token")
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}
