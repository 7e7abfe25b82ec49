package models

import "time"

// StatutCandidature is the state of a technician's bid on a mission order.
type StatutCandidature string

const (
	CandidatureEnAttente StatutCandidature = "en_attente"
	CandidatureAcceptee  StatutCandidature = "acceptee"
	CandidatureRefusee   StatutCandidature = "refusee"
	CandidatureRetiree   StatutCandidature = "retiree"
)

var candidatureTransitions = map[StatutCandidature][]StatutCandidature{
	CandidatureEnAttente: {CandidatureAcceptee, CandidatureRefusee, CandidatureRetiree},
	CandidatureAcceptee:  {},
	CandidatureRefusee:   {},
	CandidatureRetiree:   {},
}

// CanTransitionTo reports whether the transition is allowed.
func (s StatutCandidature) CanTransitionTo(next StatutCandidature) bool {
	for _, allowed := range candidatureTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// MissionTechnicien is a candidature: one technician bidding for one mission
// order. The composite index keeps one live candidature per pair.
type MissionTechnicien struct {
	BaseModel
	OrdreMissionID  string            `gorm:"type:varchar(36);not null;index:idx_candidature_ordre_technicien" json:"ordre_mission_id"`
	TechnicienID    string            `gorm:"type:varchar(36);not null;index:idx_candidature_ordre_technicien" json:"technicien_id"`
	Statut          StatutCandidature `gorm:"type:varchar(20);default:'en_attente'" json:"statut"`
	DateAcceptation *time.Time        `json:"date_acceptation,omitempty"`
	DateCloture     *time.Time        `json:"date_cloture,omitempty"`
	DateRetrait     *time.Time        `json:"date_retrait,omitempty"`
	MotifRetrait    string            `gorm:"type:text" json:"motif_retrait"`

	OrdreMission *OrdreMission `gorm:"foreignKey:OrdreMissionID" json:"ordre_mission,omitempty"`
	Technicien   *Technicien   `gorm:"foreignKey:TechnicienID" json:"technicien,omitempty"`
}

func (MissionTechnicien) TableName() string {
	return "missions_techniciens"
}
