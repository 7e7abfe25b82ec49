package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Cocorine/backend-sirene-ecole/internal/domain/models"

	"github.com/stretchr/testify/require"
)

func TestRapportRequestConversionResultat(t *testing.T) {
	ctx, _ := newTestContext(t)
	ctx.Request = httptest.NewRequest(http.MethodPost, "/api/interventions/x/rapport",
		strings.NewReader(`{"diagnostic":"fusible grillé","travaux_effectues":"remplacement du fusible","resultat":"resolu"}`))
	ctx.Request.Header.Set("Content-Type", "application/json")

	var req RapportRequest
	require.NoError(t, ctx.ShouldBindJSON(&req))

	resultat := models.ResultatIntervention(req.Resultat)
	require.Equal(t, models.ResultatResolu, resultat)
	require.True(t, resultat.Valid())
}

func TestRapportRequestResultatInconnu(t *testing.T) {
	ctx, _ := newTestContext(t)
	ctx.Request = httptest.NewRequest(http.MethodPost, "/api/interventions/x/rapport",
		strings.NewReader(`{"diagnostic":"fusible grillé","travaux_effectues":"remplacement","resultat":"abandonne"}`))
	ctx.Request.Header.Set("Content-Type", "application/json")

	var req RapportRequest
	require.Error(t, ctx.ShouldBindJSON(&req))
}
