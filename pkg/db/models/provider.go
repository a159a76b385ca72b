package models

// Provider is a donating party. Rows are seeded, never edited by the API.
type Provider struct {
	ProviderID int64  `gorm:"column:provider_id;primaryKey"`
	Name       string `gorm:"column:name;not null"`
	Contact    string `gorm:"column:contact"`
	Type       string `gorm:"column:type;not null"`
	Location   string `gorm:"column:location"`
}

func (Provider) TableName() string { return "providers" }
