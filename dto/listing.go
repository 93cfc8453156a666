package dto

import (
	"stayserve/models"
	"time"
)

// Pricing carries the tiered pricing block of step one. At least one tier must
// be non-zero for the draft to validate.
type Pricing struct {
	PerDay          int    `json:"perDay"`
	Weekly          int    `json:"weekly"`
	Monthly         int    `json:"monthly"`
	SecurityDeposit int    `json:"securityDeposit"`
	OfferText       string `json:"offerText"`
}

// RoomDraft is one nested room entity inside a draft. A room that already
// exists server-side keeps its persisted id and IsNewRoom=false; a room created
// in this session carries a locally generated id and IsNewRoom=true.
type RoomDraft struct {
	ID          string            `json:"id"`
	IsNewRoom   bool              `json:"isNewRoom"`
	RoomNo      string            `json:"roomNo"`
	Beds        int               `json:"beds"`
	Description string            `json:"description"`
	Photos      []models.PhotoRef `json:"photos"`
}

// StepOnePayload is the full snapshot of the first form step: basic info,
// pricing, rooms and amenities. Callers always submit the whole step, never a
// field-level patch.
type StepOnePayload struct {
	Name        string            `json:"name"`
	Type        int               `json:"type"`
	Description string            `json:"description"`
	Pricing     Pricing           `json:"pricing"`
	Rooms       []RoomDraft       `json:"rooms"`
	Amenities   []string          `json:"amenities"` // internal keys
	Photos      []models.PhotoRef `json:"photos"`    // service-level
}

type Location struct {
	Area     string `json:"area"`
	Landmark string `json:"landmark"`
	Address  string `json:"address"`
}

type Contact struct {
	Phone    string `json:"phone"`
	Whatsapp string `json:"whatsapp"`
}

// StepTwoPayload is the full snapshot of the second form step.
type StepTwoPayload struct {
	Location    Location `json:"location"`
	Contact     Contact  `json:"contact"`
	Rules       string   `json:"rules"`
	OpeningTime string   `json:"openingTime"`
}

// ListingDraft is the merged view of both steps. It only exists once both
// steps have been set at least once.
type ListingDraft struct {
	StepOne StepOnePayload `json:"stepOne"`
	StepTwo StepTwoPayload `json:"stepTwo"`
}

// DraftView is what the draft endpoint returns while the flow is in progress.
type DraftView struct {
	Complete bool            `json:"complete"`
	StepOne  *StepOnePayload `json:"stepOne,omitempty"`
	StepTwo  *StepTwoPayload `json:"stepTwo,omitempty"`
}

// ServiceDetailResponse is the read model for one service.
type ServiceDetailResponse struct {
	ID              uint           `json:"id"`
	Type            int            `json:"type"`
	Name            string         `json:"name"`
	Description     string         `json:"description"`
	OfferText       string         `json:"offerText"`
	PerDayPrice     int            `json:"perDayPrice"`
	WeeklyPrice     int            `json:"weeklyPrice"`
	MonthlyPrice    int            `json:"monthlyPrice"`
	SecurityDeposit int            `json:"securityDeposit"`
	Amenities       []string       `json:"amenities"`
	Photos          []string       `json:"photos"`
	Area            string         `json:"area"`
	Landmark        string         `json:"landmark"`
	Address         string         `json:"address"`
	Phone           string         `json:"phone"`
	Whatsapp        string         `json:"whatsapp"`
	Rules           string         `json:"rules"`
	OpeningTime     string         `json:"openingTime"`
	Status          int            `json:"status"`
	Rooms           []RoomResponse `json:"rooms"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}

type RoomResponse struct {
	ID          uint     `json:"id"`
	RoomNo      string   `json:"roomNo"`
	Beds        int      `json:"beds"`
	Description string   `json:"description"`
	Photos      []string `json:"photos"`
}

// SearchResult is one row of the area fuzzy search.
type SearchResult struct {
	ID         uint    `json:"id"`
	Name       string  `json:"name"`
	Type       int     `json:"type"`
	Area       string  `json:"area"`
	Landmark   string  `json:"landmark"`
	Status     int     `json:"status"`
	Similarity float64 `json:"similarity"`
}
