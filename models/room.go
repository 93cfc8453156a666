package models

import (
	"encoding/json"
	"time"
)

type Room struct {
	RoomID      uint            `json:"id" gorm:"primaryKey"`
	ServiceID   uint            `json:"serviceId"`
	RoomNo      string          `json:"roomNo"`
	Beds        int             `json:"beds"`
	Description string          `json:"description"`
	Photos      json.RawMessage `json:"photos" gorm:"type:json"` // photo URLs
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updatedAt"`
}

// PhotoURLs decodes the stored photo column
func (r *Room) PhotoURLs() ([]string, error) {
	if len(r.Photos) == 0 {
		return nil, nil
	}
	var urls []string
	if err := json.Unmarshal(r.Photos, &urls); err != nil {
		return nil, err
	}
	return urls, nil
}
