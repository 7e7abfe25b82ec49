package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Cocorine/backend-sirene-ecole/internal/domain/services"
	"github.com/Cocorine/backend-sirene-ecole/internal/error/code"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func newTestContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(rec)
	ctx.Request = httptest.NewRequest(http.MethodGet, "/api/ecoles", nil)
	return ctx, rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) (int, string) {
	t.Helper()
	var body struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Code, body.Message
}

func TestFailFromServiceSentinelles(t *testing.T) {
	ctx, rec := newTestContext(t)
	err := services.NotFoundf("école absente")
	failFromService(ctx, err, code.ErrEcoleNotFound, code.ErrAbonnementDejaActif)
	require.Equal(t, http.StatusNotFound, rec.Code)
	businessCode, message := decodeEnvelope(t, rec)
	require.Equal(t, code.ErrEcoleNotFound, businessCode)
	require.Equal(t, err.Error(), message)

	ctx, rec = newTestContext(t)
	err = services.Conflictf("abonnement déjà actif")
	failFromService(ctx, err, code.ErrEcoleNotFound, code.ErrAbonnementDejaActif)
	require.Equal(t, http.StatusConflict, rec.Code)
	businessCode, _ = decodeEnvelope(t, rec)
	require.Equal(t, code.ErrAbonnementDejaActif, businessCode)

	ctx, rec = newTestContext(t)
	failFromService(ctx, services.Validationf("un motif est requis"), code.ErrEcoleNotFound, code.ErrAbonnementDejaActif)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	businessCode, _ = decodeEnvelope(t, rec)
	require.Equal(t, code.ErrValidation, businessCode)
}

// Unknown errors carry driver and SQL text. Clients get the generic message,
// never the underlying error string.
func TestFailFromServiceMasqueLesErreursInternes(t *testing.T) {
	ctx, rec := newTestContext(t)
	driverErr := errors.New("Error 1045: Access denied for user 'root'@'10.0.0.7' (using password: YES)")

	failFromService(ctx, driverErr, code.ErrEcoleNotFound, code.ErrAbonnementDejaActif)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	businessCode, message := decodeEnvelope(t, rec)
	require.Equal(t, code.ErrDatabase, businessCode)
	require.Equal(t, code.GetMessage(code.ErrDatabase), message)
	require.NotContains(t, rec.Body.String(), "Access denied")
}

func TestFailInternalMasqueLesErreursInternes(t *testing.T) {
	ctx, rec := newTestContext(t)

	failInternal(ctx, errors.New("dial tcp 10.0.0.7:3306: connect: connection refused"))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	businessCode, message := decodeEnvelope(t, rec)
	require.Equal(t, code.ErrDatabase, businessCode)
	require.Equal(t, code.GetMessage(code.ErrDatabase), message)
	require.NotContains(t, rec.Body.String(), "connection refused")
}
