package model

// System holds the panel-wide traffic counters, one row.
type System struct {
	ID       int64 `gorm:"primaryKey" json:"id"`
	Uplink   int64 `gorm:"not null;default:0" json:"uplink"`
	Downlink int64 `gorm:"not null;default:0" json:"downlink"`
}

func (System) TableName() string {
	return "system"
}

// Total returns uplink plus downlink in bytes.
func (s System) Total() int64 {
	return s.Uplink + s.Downlink
}
