package models

import (
	"encoding/json"
	"fmt"
	"time"
)

type Service struct {
	ID              uint            `json:"id" gorm:"primaryKey"`
	ProviderID      uint            `json:"providerId"`
	Provider        Provider        `json:"provider" gorm:"foreignKey:ProviderID"`
	Type            int             `json:"type"` // 0: hostel, 1: tiffin
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	OfferText       string          `json:"offerText"`
	PerDayPrice     int             `json:"perDayPrice"`
	WeeklyPrice     int             `json:"weeklyPrice"`
	MonthlyPrice    int             `json:"monthlyPrice"`
	SecurityDeposit int             `json:"securityDeposit"`
	Amenities       json.RawMessage `json:"amenities" gorm:"type:json"` // wire display labels
	Photos          json.RawMessage `json:"photos" gorm:"type:json"`    // service-level photo URLs
	Area            string          `json:"area"`
	Landmark        string          `json:"landmark"`
	Address         string          `json:"address"`
	Phone           string          `json:"phone"`
	Whatsapp        string          `json:"whatsapp"`
	Rules           string          `json:"rules"`
	OpeningTime     string          `json:"openingTime"` // "HH:MM", used by nextOpeningTime come-back
	Status          int             `json:"status"`
	Rooms           []Room          `json:"rooms" gorm:"foreignKey:ServiceID"`
	OfflinePeriods  []OfflinePeriod `json:"offlinePeriods" gorm:"foreignKey:ServiceID"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (s *Service) ValidateType() error {
	if s.Type < 0 || s.Type > 1 {
		return fmt.Errorf("invalid Type: %d, must be 0 (hostel) or 1 (tiffin)", s.Type)
	}
	return nil
}

func (s *Service) ValidateStatus() error {
	if s.Status < 1 || s.Status > 2 {
		return fmt.Errorf("invalid Status: %d, must be 1 (online) or 2 (offline)", s.Status)
	}
	return nil
}

// PhotoURLs decodes the stored photo column
func (s *Service) PhotoURLs() ([]string, error) {
	if len(s.Photos) == 0 {
		return nil, nil
	}
	var urls []string
	if err := json.Unmarshal(s.Photos, &urls); err != nil {
		return nil, err
	}
	return urls, nil
}

// AmenityLabels decodes the stored amenity column
func (s *Service) AmenityLabels() ([]string, error) {
	if len(s.Amenities) == 0 {
		return nil, nil
	}
	var labels []string
	if err := json.Unmarshal(s.Amenities, &labels); err != nil {
		return nil, err
	}
	return labels, nil
}
