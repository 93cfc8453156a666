package dto

// OfflineScheduleRequest is the transient schedule composed in the offline
// modal and submitted as one batched request. DelayMinutes only matters for
// the fixedDelay come-back option.
type OfflineScheduleRequest struct {
	ServiceIDs     []uint `json:"serviceIds" binding:"required"`
	Reason         string `json:"reason" binding:"required"`
	ComeBackOption string `json:"comeBackOption" binding:"required"`
	DelayMinutes   int    `json:"delayMinutes"`
}

// OnlineServiceResponse is one row of the selectable set for the offline modal.
type OnlineServiceResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Type int    `json:"type"`
	Area string `json:"area"`
}
