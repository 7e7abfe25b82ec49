package models

// Ville is a city with its pool of technicians.
type Ville struct {
	BaseModel
	Nom  string `gorm:"type:varchar(100);not null" json:"nom"`
	Code string `gorm:"type:varchar(10);unique" json:"code"`

	Techniciens []Technicien `gorm:"foreignKey:VilleID" json:"techniciens,omitempty"`
	Sites       []Site       `gorm:"foreignKey:VilleID" json:"sites,omitempty"`
}

func (Ville) TableName() string {
	return "villes"
}
