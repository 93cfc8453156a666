package services

import (
	"context"
	"fmt"
	"time"

	"stayserve/dto"
)

// draftTTL keeps an abandoned session from living forever
const draftTTL = 24 * time.Hour

// DraftStore holds the partial listing accumulated across the two form steps.
// One provider has at most one active draft; the store is single-writer per
// provider by construction, so no locking discipline is applied.
type DraftStore struct {
	cache Cache
}

func NewDraftStore(cache Cache) *DraftStore {
	return &DraftStore{cache: cache}
}

func stepOneKey(providerID uint) string {
	return fmt.Sprintf("draft:stepone:%d", providerID)
}

func stepTwoKey(providerID uint) string {
	return fmt.Sprintf("draft:steptwo:%d", providerID)
}

// SetStepOne replaces the whole step-one snapshot. There is no field-level
// merging: callers always submit the full step.
func (s *DraftStore) SetStepOne(ctx context.Context, providerID uint, payload *dto.StepOnePayload) error {
	return s.cache.SetJSON(ctx, stepOneKey(providerID), payload, draftTTL)
}

// SetStepTwo replaces the whole step-two snapshot
func (s *DraftStore) SetStepTwo(ctx context.Context, providerID uint, payload *dto.StepTwoPayload) error {
	return s.cache.SetJSON(ctx, stepTwoKey(providerID), payload, draftTTL)
}

// GetStepOne returns the stored step one, or nil when it was never set
func (s *DraftStore) GetStepOne(ctx context.Context, providerID uint) (*dto.StepOnePayload, error) {
	var payload dto.StepOnePayload
	found, err := s.cache.GetJSON(ctx, stepOneKey(providerID), &payload)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &payload, nil
}

// GetStepTwo returns the stored step two, or nil when it was never set
func (s *DraftStore) GetStepTwo(ctx context.Context, providerID uint) (*dto.StepTwoPayload, error) {
	var payload dto.StepTwoPayload
	found, err := s.cache.GetJSON(ctx, stepTwoKey(providerID), &payload)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &payload, nil
}

// GetComplete returns the merged draft, or nil until both steps have been set
// at least once. Completeness is presence, not validity.
func (s *DraftStore) GetComplete(ctx context.Context, providerID uint) (*dto.ListingDraft, error) {
	one, err := s.GetStepOne(ctx, providerID)
	if err != nil {
		return nil, err
	}
	two, err := s.GetStepTwo(ctx, providerID)
	if err != nil {
		return nil, err
	}
	if one == nil || two == nil {
		return nil, nil
	}
	return &dto.ListingDraft{StepOne: *one, StepTwo: *two}, nil
}

// View returns the in-progress state for the draft screen
func (s *DraftStore) View(ctx context.Context, providerID uint) (*dto.DraftView, error) {
	one, err := s.GetStepOne(ctx, providerID)
	if err != nil {
		return nil, err
	}
	two, err := s.GetStepTwo(ctx, providerID)
	if err != nil {
		return nil, err
	}
	return &dto.DraftView{
		Complete: one != nil && two != nil,
		StepOne:  one,
		StepTwo:  two,
	}, nil
}

// Clear resets the session. Called on successful submission, explicit cancel,
// and when a brand-new add-service flow starts, so sessions never leak into
// each other.
func (s *DraftStore) Clear(ctx context.Context, providerID uint) error {
	return s.cache.Delete(ctx, stepOneKey(providerID), stepTwoKey(providerID))
}
