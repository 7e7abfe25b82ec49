package services

import (
	"errors"
	"testing"

	"github.com/Cocorine/backend-sirene-ecole/internal/domain/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newPanneFixture(t *testing.T) (InterfacePanneService, *gorm.DB, *models.Sirene, *models.Site) {
	t.Helper()
	db := newTestDB(t)
	cfg := newTestConfig()
	ville := seedVille(t, db, "Cotonou")
	_, site := seedEcoleAvecSite(t, db, ville.ID)
	sirene := seedSireneAffectee(t, db, site.ID, "SN-PANNE-001")
	return NewPanneService(db, cfg, newTestNotif(db, cfg)), db, sirene, site
}

func TestPanneDeclarer(t *testing.T) {
	svc, db, sirene, site := newPanneFixture(t)

	panne, err := svc.Declarer(sirene.ID, "ne sonne plus", models.PrioriteHaute)
	require.NoError(t, err)
	require.Equal(t, models.PanneEnAttente, panne.Statut)
	require.Equal(t, site.ID, panne.SiteID)

	// the device is flagged as broken
	var refreshed models.Sirene
	require.NoError(t, db.First(&refreshed, "id = ?", sirene.ID).Error)
	require.Equal(t, models.SireneEnPanne, refreshed.Statut)
}

func TestPanneDeclarerDefaultsPriorite(t *testing.T) {
	svc, _, sirene, _ := newPanneFixture(t)

	panne, err := svc.Declarer(sirene.ID, "grésille", "")
	require.NoError(t, err)
	require.Equal(t, models.PrioriteMoyenne, panne.Priorite)

	_, err = svc.Declarer(sirene.ID, "grésille", "urgente")
	require.ErrorIs(t, err, ErrValidation)
}

func TestPanneDeclarerSireneNonAffectee(t *testing.T) {
	db := newTestDB(t)
	cfg := newTestConfig()
	svc := NewPanneService(db, cfg, newTestNotif(db, cfg))

	sirene := &models.Sirene{NumeroSerie: "SN-LIBRE", Statut: models.SireneDisponible}
	require.NoError(t, db.Create(sirene).Error)

	_, err := svc.Declarer(sirene.ID, "ne sonne plus", models.PrioriteBasse)
	require.ErrorIs(t, err, ErrConflict)
}

func TestPanneValiderCreeOrdreMission(t *testing.T) {
	svc, db, sirene, site := newPanneFixture(t)

	panne, err := svc.Declarer(sirene.ID, "ne sonne plus", models.PrioriteHaute)
	require.NoError(t, err)

	validee, err := svc.Valider(panne.ID, 0)
	require.NoError(t, err)
	require.Equal(t, models.PanneValidee, validee.Statut)
	require.NotNil(t, validee.DateValidation)
	require.NotNil(t, validee.OrdreMission)
	require.Equal(t, site.VilleID, validee.OrdreMission.VilleID)
	require.Equal(t, models.OrdreEnAttente, validee.OrdreMission.Statut)
	require.Equal(t, 1, validee.OrdreMission.NombreTechniciensRequis)

	// one order per report, a second validation is refused
	_, err = svc.Valider(panne.ID, 0)
	require.ErrorIs(t, err, ErrConflict)

	var ordres int64
	require.NoError(t, db.Model(&models.OrdreMission{}).Where("panne_id = ?", panne.ID).Count(&ordres).Error)
	require.EqualValues(t, 1, ordres)
}

func TestPanneValiderNombreTechniciens(t *testing.T) {
	svc, _, sirene, _ := newPanneFixture(t)

	panne, err := svc.Declarer(sirene.ID, "ne sonne plus", models.PrioriteHaute)
	require.NoError(t, err)

	_, err = svc.Valider(panne.ID, -1)
	require.ErrorIs(t, err, ErrValidation)
	_, err = svc.Valider(panne.ID, 11)
	require.ErrorIs(t, err, ErrValidation)

	validee, err := svc.Valider(panne.ID, 3)
	require.NoError(t, err)
	require.Equal(t, 3, validee.OrdreMission.NombreTechniciensRequis)
}

func TestPanneCloturerRetablieLaSirene(t *testing.T) {
	svc, db, sirene, _ := newPanneFixture(t)

	panne, err := svc.Declarer(sirene.ID, "ne sonne plus", models.PrioriteMoyenne)
	require.NoError(t, err)
	_, err = svc.Valider(panne.ID, 0)
	require.NoError(t, err)

	cloturee, err := svc.Cloturer(panne.ID)
	require.NoError(t, err)
	require.Equal(t, models.PanneCloturee, cloturee.Statut)

	var refreshed models.Sirene
	require.NoError(t, db.First(&refreshed, "id = ?", sirene.ID).Error)
	require.Equal(t, models.SireneAffectee, refreshed.Statut)

	// closed is terminal
	_, err = svc.Valider(panne.ID, 0)
	require.ErrorIs(t, err, ErrConflict)
	_, err = svc.Cloturer(panne.ID)
	require.ErrorIs(t, err, ErrConflict)
}

func TestPanneGetByIDInconnue(t *testing.T) {
	svc, _, _, _ := newPanneFixture(t)
	_, err := svc.GetByID("absente")
	require.True(t, errors.Is(err, ErrNotFound))
}
