package models

import (
	stderrors "errors"
	"fmt"
)

// amenityLabels maps the internal amenity keys to the display-label vocabulary
// the backend stores. The mapping is closed in both directions: an unknown key
// or label is rejected at the boundary instead of being silently dropped.
var amenityLabels = map[string]string{
	"wifi":              "Wi-Fi",
	"laundry":           "Laundry",
	"hot_water":         "Hot Water",
	"parking":           "Parking",
	"cctv":              "CCTV",
	"power_backup":      "Power Backup",
	"attached_bathroom": "Attached Bathroom",
	"housekeeping":      "Housekeeping",
	"study_table":       "Study Table",
	"meals_included":    "Meals Included",
	"veg_only":          "Pure Veg",
	"home_delivery":     "Home Delivery",
	"sunday_special":    "Sunday Special",
	"monthly_menu":      "Monthly Menu",
}

var amenityKeys = func() map[string]string {
	keys := make(map[string]string, len(amenityLabels))
	for k, label := range amenityLabels {
		keys[label] = k
	}
	return keys
}()

var ErrUnknownAmenity = stderrors.New("unknown amenity")

// AmenityLabel resolves an internal key to its wire label
func AmenityLabel(key string) (string, error) {
	label, ok := amenityLabels[key]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownAmenity, key)
	}
	return label, nil
}

// AmenityKey resolves a wire label back to its internal key
func AmenityKey(label string) (string, error) {
	key, ok := amenityKeys[label]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownAmenity, label)
	}
	return key, nil
}

// AmenitiesToWire maps a set of internal keys to wire labels, preserving order
func AmenitiesToWire(keys []string) ([]string, error) {
	labels := make([]string, 0, len(keys))
	for _, k := range keys {
		label, err := AmenityLabel(k)
		if err != nil {
			return nil, err
		}
		labels = append(labels, label)
	}
	return labels, nil
}

// AmenitiesFromWire maps a set of wire labels back to internal keys
func AmenitiesFromWire(labels []string) ([]string, error) {
	keys := make([]string, 0, len(labels))
	for _, label := range labels {
		key, err := AmenityKey(label)
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, nil
}
