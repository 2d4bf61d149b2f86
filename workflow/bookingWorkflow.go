package workflow

import (
	"context"
	"errors"
	"time"

	"github.com/craftfolio/studio_backend/config"
	"github.com/craftfolio/studio_backend/models"
	"github.com/craftfolio/studio_backend/utils"
	"gorm.io/gorm"
)

// Booking operations serialize per account: two invitees grabbing the same
// slot race between the overlap check and the insert, so creation holds a
// Redis lock for the account first.

func BookSlot(ctx context.Context, input *models.NewBooking) (*models.Booking, error) {

	logger := config.GetLogger()
	db := config.GetDB()

	accountId, ok := utils.GetAccountIdFromContext(ctx)
	if !ok || accountId == "" {
		return nil, errors.New("account id is required")
	}

	release, err := utils.AccountLock(ctx, accountId, "booking", "bookingWorkflow.go", "BookSlot")
	if err != nil {
		return nil, err
	}
	defer release()

	booking, err := models.CreateBooking(ctx, input)
	if err != nil {
		return nil, err
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return models.EnqueueEventInTx(ctx, tx, accountId, "booking.created", models.EventReferenceBooking, booking.ID, booking)
	})
	if err != nil {
		config.LogWarn(logger, "bookingWorkflow.go", "BookSlot", "EnqueueEvent", err)
	}
	return booking, nil
}

// BookPublicSlot is the unauthenticated path from the public scheduling
// page: the account comes from the page slug, and a configured access code
// must match before anything else runs.
func BookPublicSlot(ctx context.Context, slug string, accessCode string, input *models.NewBooking) (*models.Booking, error) {

	settings, err := models.GetScheduleSettingsBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !settings.VerifyScheduleAccessCode(accessCode) {
		return nil, errors.New("invalid access code")
	}

	return BookSlot(utils.SetAccountIdInContext(ctx, settings.AccountId), input)
}

// AvailableSlots lists bookable times for a public page's meeting type on a
// given date.
func AvailableSlots(ctx context.Context, slug string, meetingTypeId int, date time.Time) ([]models.TimeSlot, error) {

	settings, err := models.GetScheduleSettingsBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	scoped := utils.SetAccountIdInContext(ctx, settings.AccountId)
	meetingType, err := models.GetMeetingType(scoped, meetingTypeId)
	if err != nil {
		return nil, err
	}

	dayFrom := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
	dayTo := dayFrom.AddDate(0, 0, 3)
	status := models.BookingStatusScheduled
	existing, err := models.GetBookings(scoped, &models.BookingFilter{
		Status: &status,
		From:   &dayFrom,
		To:     &dayTo,
	})
	if err != nil {
		return nil, err
	}

	return models.GenerateTimeSlots(settings, meetingType, date, existing, time.Now()), nil
}

// CompleteBooking marks a meeting held and emits the completion event.
func CompleteBooking(ctx context.Context, bookingId int) (*models.Booking, error) {
	return transitionBookingWithEvent(ctx, bookingId, "booking.completed", func() (*models.Booking, error) {
		return models.CompleteBooking(ctx, bookingId)
	})
}

// CancelBooking voids a meeting and emits the cancellation event.
func CancelBooking(ctx context.Context, bookingId int, reason string) (*models.Booking, error) {
	return transitionBookingWithEvent(ctx, bookingId, "booking.canceled", func() (*models.Booking, error) {
		return models.CancelBooking(ctx, bookingId, reason)
	})
}

func transitionBookingWithEvent(ctx context.Context, bookingId int, eventType string, transition func() (*models.Booking, error)) (*models.Booking, error) {

	logger := config.GetLogger()
	db := config.GetDB()

	accountId, ok := utils.GetAccountIdFromContext(ctx)
	if !ok || accountId == "" {
		return nil, errors.New("account id is required")
	}

	booking, err := transition()
	if err != nil {
		return nil, err
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return models.EnqueueEventInTx(ctx, tx, accountId, eventType, models.EventReferenceBooking, booking.ID, booking)
	})
	if err != nil {
		config.LogWarn(logger, "bookingWorkflow.go", "transitionBookingWithEvent", eventType, err)
	}
	return booking, nil
}
