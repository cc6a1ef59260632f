package model

// Record is one set of identity fields extracted from an intake request.
// Records are append-only: once stored they are never updated or deleted.
type Record struct {
	ID         int64  `gorm:"column:id;primaryKey;autoIncrement" json:"id,omitempty"`
	Name       string `gorm:"column:numele" json:"numele"`
	GivenName  string `gorm:"column:prenumele" json:"prenumele"`
	BirthDate  string `gorm:"column:data_nasterii" json:"data_nasterii"`
	Address    string `gorm:"column:adresa" json:"adresa"`
	NationalID string `gorm:"column:cnp" json:"cnp"`
}

func (r Record) TableName() string {
	return "person_data"
}
