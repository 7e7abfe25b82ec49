package services

import (
	"testing"

	"github.com/Cocorine/backend-sirene-ecole/internal/domain/models"

	"github.com/stretchr/testify/require"
)

func newInterventionFixture(t *testing.T) (InterfaceInterventionService, *models.Intervention) {
	t.Helper()
	f := newCandidatureFixture(t)

	c, err := f.svc.Soumettre(f.ordre.ID, f.technicien1.ID)
	require.NoError(t, err)
	intervention, err := f.svc.Accepter(c.ID, "admin-test")
	require.NoError(t, err)

	return NewInterventionService(f.db, newTestConfig()), intervention
}

func TestInterventionDemarrer(t *testing.T) {
	svc, intervention := newInterventionFixture(t)

	demarree, err := svc.Demarrer(intervention.ID)
	require.NoError(t, err)
	require.Equal(t, models.InterventionEnCours, demarree.Statut)
	require.NotNil(t, demarree.DateDebut)

	// already running
	_, err = svc.Demarrer(intervention.ID)
	require.ErrorIs(t, err, ErrConflict)
}

func TestInterventionRedigerRapport(t *testing.T) {
	svc, intervention := newInterventionFixture(t)

	// the report requires a running intervention
	_, err := svc.RedigerRapport(intervention.ID, RapportData{Resultat: models.ResultatResolu})
	require.ErrorIs(t, err, ErrConflict)

	_, err = svc.Demarrer(intervention.ID)
	require.NoError(t, err)

	_, err = svc.RedigerRapport(intervention.ID, RapportData{Resultat: "bricole"})
	require.ErrorIs(t, err, ErrValidation)

	rapport, err := svc.RedigerRapport(intervention.ID, RapportData{
		Diagnostic:       "haut-parleur grillé",
		TravauxEffectues: "remplacement du haut-parleur",
		Resultat:         models.ResultatResolu,
	})
	require.NoError(t, err)
	require.Equal(t, models.RapportBrouillon, rapport.Statut)

	terminee, err := svc.GetByID(intervention.ID)
	require.NoError(t, err)
	require.Equal(t, models.InterventionTerminee, terminee.Statut)
	require.NotNil(t, terminee.DateFin)

	// one report per intervention
	_, err = svc.RedigerRapport(intervention.ID, RapportData{Resultat: models.ResultatResolu})
	require.ErrorIs(t, err, ErrConflict)
}

func TestInterventionNotes(t *testing.T) {
	svc, intervention := newInterventionFixture(t)

	_, err := svc.NoterIntervention(intervention.ID, 0, "")
	require.ErrorIs(t, err, ErrValidation)
	_, err = svc.NoterIntervention(intervention.ID, 6, "")
	require.ErrorIs(t, err, ErrValidation)

	notee, err := svc.NoterIntervention(intervention.ID, 4, "rapide et propre")
	require.NoError(t, err)
	require.NotNil(t, notee.NoteEcole)
	require.Equal(t, 4, *notee.NoteEcole)

	_, err = svc.Demarrer(intervention.ID)
	require.NoError(t, err)
	rapport, err := svc.RedigerRapport(intervention.ID, RapportData{Resultat: models.ResultatPartiellementResolu})
	require.NoError(t, err)

	valide, err := svc.NoterRapport(rapport.ID, 5, "rapport complet")
	require.NoError(t, err)
	require.Equal(t, models.RapportValide, valide.Statut)
	require.NotNil(t, valide.ReviewNote)
	require.Equal(t, 5, *valide.ReviewNote)
}
