package models

import "time"

// OfflinePeriod records one service going offline through the batched offline
// submit. ComeBackAt is nil for untilManualReactivation; every other come-back
// option resolves to a concrete timestamp at submit time.
type OfflinePeriod struct {
	ID             uint       `json:"id" gorm:"primaryKey"`
	ServiceID      uint       `json:"serviceId" gorm:"index"`
	Reason         string     `json:"reason"`
	OfflineType    string     `json:"offlineType"` // immediate | scheduled
	ComeBackOption string     `json:"comeBackOption"`
	ComeBackAt     *time.Time `json:"comeBackAt"`
	ReactivatedAt  *time.Time `json:"reactivatedAt"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}
