package services

import (
	"testing"

	"github.com/Cocorine/backend-sirene-ecole/internal/domain/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newSireneFixture(t *testing.T) (InterfaceSireneService, *gorm.DB, *models.Site) {
	t.Helper()
	db := newTestDB(t)
	svc := NewSireneService(db, newTestConfig())
	ville := seedVille(t, db, "Abomey")
	_, site := seedEcoleAvecSite(t, db, ville.ID)
	return svc, db, site
}

func TestSireneCreateSerieUnique(t *testing.T) {
	svc, _, _ := newSireneFixture(t)

	require.ErrorIs(t, svc.Create(&models.Sirene{}), ErrValidation)

	sirene := &models.Sirene{NumeroSerie: "SN-FLOTTE-001", Modele: "SX-200"}
	require.NoError(t, svc.Create(sirene))
	require.Equal(t, models.SireneDisponible, sirene.Statut)

	doublon := &models.Sirene{NumeroSerie: "SN-FLOTTE-001"}
	require.ErrorIs(t, svc.Create(doublon), ErrConflict)
}

func TestSireneAffecterASite(t *testing.T) {
	svc, db, site := newSireneFixture(t)
	sirene := seedSireneDisponible(t, db, "SN-FLOTTE-002")

	affectee, err := svc.AffecterASite(sirene.ID, site.ID)
	require.NoError(t, err)
	require.Equal(t, models.SireneAffectee, affectee.Statut)
	require.Equal(t, site.ID, *affectee.SiteID)

	// no longer available
	_, err = svc.AffecterASite(sirene.ID, site.ID)
	require.ErrorIs(t, err, ErrConflict)

	disponibles, err := svc.GetDisponibles()
	require.NoError(t, err)
	require.Empty(t, disponibles)
}

func TestSireneAffecterSiteInconnu(t *testing.T) {
	svc, db, _ := newSireneFixture(t)
	sirene := seedSireneDisponible(t, db, "SN-FLOTTE-003")

	_, err := svc.AffecterASite(sirene.ID, "n-existe-pas")
	require.ErrorIs(t, err, ErrSiteInconnu)
	require.ErrorIs(t, err, ErrNotFound)

	// the failed assignment did not touch the device
	libre, err := svc.GetByID(sirene.ID)
	require.NoError(t, err)
	require.Equal(t, models.SireneDisponible, libre.Statut)
	require.Nil(t, libre.SiteID)
}

func TestSireneGetAllFiltreParStatut(t *testing.T) {
	svc, db, site := newSireneFixture(t)
	seedSireneDisponible(t, db, "SN-FLOTTE-004")
	seedSireneAffectee(t, db, site.ID, "SN-FLOTTE-005")

	_, total, err := svc.GetAll(1, 10, "")
	require.NoError(t, err)
	require.EqualValues(t, 2, total)

	sirenes, total, err := svc.GetAll(1, 10, string(models.SireneDisponible))
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Equal(t, "SN-FLOTTE-004", sirenes[0].NumeroSerie)
}
