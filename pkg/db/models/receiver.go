package models

// Receiver is a party that claims listings.
type Receiver struct {
	ReceiverID int64  `gorm:"column:receiver_id;primaryKey"`
	Name       string `gorm:"column:name;not null"`
	Contact    string `gorm:"column:contact"`
	Location   string `gorm:"column:location"`
}

func (Receiver) TableName() string { return "receivers" }
