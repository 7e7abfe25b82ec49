package services

import (
	"testing"

	"github.com/Cocorine/backend-sirene-ecole/internal/domain/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// candidatureFixture wires a validated fault report (hence an open mission
// order) plus two technicians in the city's pool.
type candidatureFixture struct {
	db          *gorm.DB
	svc         InterfaceCandidatureService
	ordres      InterfaceOrdreMissionService
	ordre       *models.OrdreMission
	technicien1 *models.Technicien
	technicien2 *models.Technicien
}

func newCandidatureFixture(t *testing.T) *candidatureFixture {
	t.Helper()
	db := newTestDB(t)
	cfg := newTestConfig()
	notif := newTestNotif(db, cfg)

	ville := seedVille(t, db, "Porto-Novo")
	_, site := seedEcoleAvecSite(t, db, ville.ID)
	sirene := seedSireneAffectee(t, db, site.ID, "SN-CAND-001")

	pannes := NewPanneService(db, cfg, notif)
	panne, err := pannes.Declarer(sirene.ID, "sirène muette", models.PrioriteHaute)
	require.NoError(t, err)
	validee, err := pannes.Valider(panne.ID, 0)
	require.NoError(t, err)

	return &candidatureFixture{
		db:          db,
		svc:         NewCandidatureService(db, cfg, notif),
		ordres:      NewOrdreMissionService(db, cfg),
		ordre:       validee.OrdreMission,
		technicien1: seedTechnicien(t, db, ville.ID, "Awa"),
		technicien2: seedTechnicien(t, db, ville.ID, "Bio"),
	}
}

func TestCandidatureSoumettre(t *testing.T) {
	f := newCandidatureFixture(t)

	candidature, err := f.svc.Soumettre(f.ordre.ID, f.technicien1.ID)
	require.NoError(t, err)
	require.Equal(t, models.CandidatureEnAttente, candidature.Statut)

	// same technician, same order: duplicate
	_, err = f.svc.Soumettre(f.ordre.ID, f.technicien1.ID)
	require.ErrorIs(t, err, ErrConflict)

	// another technician may still bid
	_, err = f.svc.Soumettre(f.ordre.ID, f.technicien2.ID)
	require.NoError(t, err)
}

func TestCandidatureSoumettreFenetreCloturee(t *testing.T) {
	f := newCandidatureFixture(t)

	_, err := f.ordres.CloturerCandidatures(f.ordre.ID, "admin-test")
	require.NoError(t, err)

	_, err = f.svc.Soumettre(f.ordre.ID, f.technicien1.ID)
	require.ErrorIs(t, err, ErrConflict)

	// reopening lets bids in again
	_, err = f.ordres.RouvrirCandidatures(f.ordre.ID, "admin-test")
	require.NoError(t, err)
	_, err = f.svc.Soumettre(f.ordre.ID, f.technicien1.ID)
	require.NoError(t, err)
}

func TestCandidatureAccepter(t *testing.T) {
	f := newCandidatureFixture(t)

	c1, err := f.svc.Soumettre(f.ordre.ID, f.technicien1.ID)
	require.NoError(t, err)
	c2, err := f.svc.Soumettre(f.ordre.ID, f.technicien2.ID)
	require.NoError(t, err)

	intervention, err := f.svc.Accepter(c1.ID, "admin-test")
	require.NoError(t, err)
	require.Equal(t, models.InterventionAssignee, intervention.Statut)
	require.Equal(t, f.technicien1.ID, intervention.TechnicienID)
	require.Equal(t, f.ordre.PanneID, intervention.PanneID)

	var ordre models.OrdreMission
	require.NoError(t, f.db.First(&ordre, "id = ?", f.ordre.ID).Error)
	require.Equal(t, models.OrdreEnCours, ordre.Statut)
	require.Equal(t, 1, ordre.NombreTechniciensAcceptes)
	require.NotNil(t, ordre.TechnicienID)
	require.Equal(t, f.technicien1.ID, *ordre.TechnicienID)

	// the order is full: accepting the second bid fails and creates nothing
	_, err = f.svc.Accepter(c2.ID, "admin-test")
	require.ErrorIs(t, err, ErrConflict)

	var interventions int64
	require.NoError(t, f.db.Model(&models.Intervention{}).Count(&interventions).Error)
	require.EqualValues(t, 1, interventions)
}

func TestCandidatureAccepterOrdreDeuxTechniciens(t *testing.T) {
	db := newTestDB(t)
	cfg := newTestConfig()
	notif := newTestNotif(db, cfg)

	ville := seedVille(t, db, "Natitingou")
	_, site := seedEcoleAvecSite(t, db, ville.ID)
	sirene := seedSireneAffectee(t, db, site.ID, "SN-CAND-002")

	pannes := NewPanneService(db, cfg, notif)
	panne, err := pannes.Declarer(sirene.ID, "sirène muette", models.PrioriteHaute)
	require.NoError(t, err)
	validee, err := pannes.Valider(panne.ID, 2)
	require.NoError(t, err)
	require.Equal(t, 2, validee.OrdreMission.NombreTechniciensRequis)
	ordreID := validee.OrdreMission.ID

	svc := NewCandidatureService(db, cfg, notif)
	t1 := seedTechnicien(t, db, ville.ID, "Awa")
	t2 := seedTechnicien(t, db, ville.ID, "Bio")
	t3 := seedTechnicien(t, db, ville.ID, "Codjo")

	c1, err := svc.Soumettre(ordreID, t1.ID)
	require.NoError(t, err)
	c2, err := svc.Soumettre(ordreID, t2.ID)
	require.NoError(t, err)
	c3, err := svc.Soumettre(ordreID, t3.ID)
	require.NoError(t, err)

	// first accept: the order keeps waiting for its second technician
	_, err = svc.Accepter(c1.ID, "admin-test")
	require.NoError(t, err)
	var ordre models.OrdreMission
	require.NoError(t, db.First(&ordre, "id = ?", ordreID).Error)
	require.Equal(t, models.OrdreEnAttente, ordre.Statut)
	require.Equal(t, 1, ordre.NombreTechniciensAcceptes)
	require.NotNil(t, ordre.TechnicienID)
	require.Equal(t, t1.ID, *ordre.TechnicienID)

	// second accept fills the order; the lead technician stays the first
	_, err = svc.Accepter(c2.ID, "admin-test")
	require.NoError(t, err)
	require.NoError(t, db.First(&ordre, "id = ?", ordreID).Error)
	require.Equal(t, models.OrdreEnCours, ordre.Statut)
	require.Equal(t, 2, ordre.NombreTechniciensAcceptes)
	require.Equal(t, t1.ID, *ordre.TechnicienID)

	// full: the third bid can no longer be accepted
	_, err = svc.Accepter(c3.ID, "admin-test")
	require.ErrorIs(t, err, ErrConflict)

	var interventions int64
	require.NoError(t, db.Model(&models.Intervention{}).Count(&interventions).Error)
	require.EqualValues(t, 2, interventions)
}

func TestCandidatureRefuser(t *testing.T) {
	f := newCandidatureFixture(t)

	c, err := f.svc.Soumettre(f.ordre.ID, f.technicien1.ID)
	require.NoError(t, err)

	refusee, err := f.svc.Refuser(c.ID, "admin-test")
	require.NoError(t, err)
	require.Equal(t, models.CandidatureRefusee, refusee.Statut)

	// refused is terminal
	_, err = f.svc.Accepter(c.ID, "admin-test")
	require.ErrorIs(t, err, ErrConflict)
}

func TestCandidatureRetirer(t *testing.T) {
	f := newCandidatureFixture(t)

	c, err := f.svc.Soumettre(f.ordre.ID, f.technicien1.ID)
	require.NoError(t, err)

	// the reason is mandatory
	_, err = f.svc.Retirer(c.ID, "")
	require.ErrorIs(t, err, ErrValidation)

	retiree, err := f.svc.Retirer(c.ID, "indisponible cette semaine")
	require.NoError(t, err)
	require.Equal(t, models.CandidatureRetiree, retiree.Statut)
	require.Equal(t, "indisponible cette semaine", retiree.MotifRetrait)
	require.NotNil(t, retiree.DateRetrait)

	// a withdrawn bid may be resubmitted
	_, err = f.svc.Soumettre(f.ordre.ID, f.technicien1.ID)
	require.NoError(t, err)
}
