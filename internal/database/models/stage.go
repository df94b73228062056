package models

// Stage is one named, ordered step in the global pipeline. Positions are
// 1-based and unique; position 1 is where every new service starts.
type Stage struct {
	Base
	Name     string `gorm:"not null" json:"name"`
	Position int    `gorm:"uniqueIndex;not null" json:"position"`
}

func (Stage) TableName() string {
	return "stages"
}
