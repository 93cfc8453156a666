package services

import (
	"context"
	"testing"

	"stayserve/constants"
	"stayserve/dto"
	"stayserve/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stepOneFixture() *dto.StepOnePayload {
	return &dto.StepOnePayload{
		Name:        "Sunrise Boys Hostel",
		Type:        constants.ServiceTypeHostel,
		Description: "Clean rooms near the engineering college",
		Pricing:     dto.Pricing{Monthly: 6500, SecurityDeposit: 2000},
		Amenities:   []string{"wifi", "laundry"},
		Rooms: []dto.RoomDraft{
			{
				ID:        "local-1",
				IsNewRoom: true,
				RoomNo:    "101",
				Beds:      3,
				Photos:    []models.PhotoRef{models.NewPhoto("a.jpg")},
			},
		},
	}
}

func stepTwoFixture() *dto.StepTwoPayload {
	return &dto.StepTwoPayload{
		Location: dto.Location{Area: "Kothrud", Address: "12 Paud Road, Pune"},
		Contact:  dto.Contact{Phone: "9876543210"},
	}
}

func TestGetCompleteNilUntilBothStepsSet(t *testing.T) {
	ctx := context.Background()
	store := NewDraftStore(newMemCache())

	draft, err := store.GetComplete(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, draft)

	require.NoError(t, store.SetStepOne(ctx, 1, stepOneFixture()))

	draft, err = store.GetComplete(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, draft)

	require.NoError(t, store.SetStepTwo(ctx, 1, stepTwoFixture()))

	draft, err = store.GetComplete(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, draft)
	assert.Equal(t, "Sunrise Boys Hostel", draft.StepOne.Name)
	assert.Equal(t, "Kothrud", draft.StepTwo.Location.Area)
}

func TestStepsCanArriveInAnyOrder(t *testing.T) {
	ctx := context.Background()
	store := NewDraftStore(newMemCache())

	require.NoError(t, store.SetStepTwo(ctx, 1, stepTwoFixture()))
	require.NoError(t, store.SetStepOne(ctx, 1, stepOneFixture()))

	draft, err := store.GetComplete(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, draft)
}

func TestSetStepOneReplacesWholeSnapshot(t *testing.T) {
	ctx := context.Background()
	store := NewDraftStore(newMemCache())

	require.NoError(t, store.SetStepOne(ctx, 1, stepOneFixture()))

	replacement := stepOneFixture()
	replacement.Name = "Moonlight Girls Hostel"
	replacement.Rooms = nil
	require.NoError(t, store.SetStepOne(ctx, 1, replacement))

	got, err := store.GetStepOne(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Moonlight Girls Hostel", got.Name)
	assert.Empty(t, got.Rooms)
}

func TestDraftsAreScopedPerProvider(t *testing.T) {
	ctx := context.Background()
	store := NewDraftStore(newMemCache())

	require.NoError(t, store.SetStepOne(ctx, 1, stepOneFixture()))

	got, err := store.GetStepOne(ctx, 2)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestViewReportsCompleteness(t *testing.T) {
	ctx := context.Background()
	store := NewDraftStore(newMemCache())

	view, err := store.View(ctx, 1)
	require.NoError(t, err)
	assert.False(t, view.Complete)
	assert.Nil(t, view.StepOne)
	assert.Nil(t, view.StepTwo)

	require.NoError(t, store.SetStepOne(ctx, 1, stepOneFixture()))
	require.NoError(t, store.SetStepTwo(ctx, 1, stepTwoFixture()))

	view, err = store.View(ctx, 1)
	require.NoError(t, err)
	assert.True(t, view.Complete)
	require.NotNil(t, view.StepOne)
	require.NotNil(t, view.StepTwo)
}

func TestClearRemovesBothSteps(t *testing.T) {
	ctx := context.Background()
	store := NewDraftStore(newMemCache())

	require.NoError(t, store.SetStepOne(ctx, 1, stepOneFixture()))
	require.NoError(t, store.SetStepTwo(ctx, 1, stepTwoFixture()))
	require.NoError(t, store.Clear(ctx, 1))

	draft, err := store.GetComplete(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, draft)

	view, err := store.View(ctx, 1)
	require.NoError(t, err)
	assert.False(t, view.Complete)
}

func TestPhotoRefsSurviveTheRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewDraftStore(newMemCache())

	payload := stepOneFixture()
	payload.Photos = []models.PhotoRef{
		models.ExistingPhoto("https://cdn.test/upload/v1/services/old.jpg"),
		models.NewPhoto("new.jpg"),
	}
	require.NoError(t, store.SetStepOne(ctx, 1, payload))

	got, err := store.GetStepOne(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got.Photos, 2)
	assert.Equal(t, models.PhotoExisting, got.Photos[0].Origin)
	assert.Equal(t, models.PhotoNew, got.Photos[1].Origin)
}
