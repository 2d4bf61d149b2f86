package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/craftfolio/studio_backend/config"
	"github.com/craftfolio/studio_backend/utils"
)

// Booking is a confirmed reservation against a meeting type. Meeting details
// are snapshotted at creation so later edits to the offering do not rewrite
// past bookings.
type Booking struct {
	ID              int           `gorm:"primary_key" json:"id"`
	AccountId       string        `gorm:"index;not null" json:"account_id"`
	BookingNumber   string        `gorm:"size:50;uniqueIndex;not null" json:"booking_number"`
	MeetingTypeId   int           `gorm:"index;not null" json:"meeting_type_id"`
	ClientId        int           `gorm:"default:0" json:"client_id"`
	InviteeName     string        `gorm:"size:255;not null" json:"invitee_name"`
	InviteeEmail    string        `gorm:"size:255;not null" json:"invitee_email"`
	InviteePhone    string        `gorm:"size:50" json:"invitee_phone"`
	Notes           string        `gorm:"type:text" json:"notes"`
	MeetingName     string        `gorm:"size:255" json:"meeting_name"`
	Location        LocationType  `gorm:"type:enum('Zoom','Google Meet','Phone','In-Person')" json:"location"`
	LocationDetail  string        `gorm:"size:500" json:"location_detail"`
	DurationMinutes int           `json:"duration_minutes"`
	StartsAt        time.Time     `gorm:"index;not null" json:"starts_at"`
	EndsAt          time.Time     `gorm:"not null" json:"ends_at"`
	Status          BookingStatus `gorm:"type:enum('Scheduled','Completed','Canceled');not null;default:'Scheduled'" json:"status"`
	CompletedAt     *time.Time    `json:"completed_at"`
	CanceledAt      *time.Time    `json:"canceled_at"`
	CancelReason    string        `gorm:"size:500" json:"cancel_reason"`
	CreatedAt       time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
	MeetingType     *MeetingType  `gorm:"foreignKey:MeetingTypeId" json:"meeting_type,omitempty"`
}

type NewBooking struct {
	MeetingTypeId int       `json:"meeting_type_id" binding:"required"`
	ClientId      int       `json:"client_id"`
	InviteeName   string    `json:"invitee_name" binding:"required"`
	InviteeEmail  string    `json:"invitee_email" binding:"required"`
	InviteePhone  string    `json:"invitee_phone"`
	Notes         string    `json:"notes"`
	StartsAt      time.Time `json:"starts_at" binding:"required"`
}

func (input *NewBooking) validate(ctx context.Context, accountId string) error {
	if err := utils.ValidateResourceId[MeetingType](ctx, accountId, input.MeetingTypeId); err != nil {
		return errors.New("meeting type not found")
	}
	if input.ClientId > 0 {
		if err := utils.ValidateResourceId[Client](ctx, accountId, input.ClientId); err != nil {
			return errors.New("client not found")
		}
	}
	if !utils.IsValidEmail(input.InviteeEmail) {
		return errors.New("invalid invitee email")
	}
	if input.StartsAt.Before(time.Now()) {
		return errors.New("booking start must be in the future")
	}
	return nil
}

// nextBookingNumber derives a human-facing reference like BK-0007 from the
// account's booking count.
func nextBookingNumber(ctx context.Context, accountId string) (string, error) {
	count, err := utils.ResourceCountWhere[Booking](ctx, accountId, "1 = 1")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("BK-%04d", count+1), nil
}

// CreateBooking inserts a reservation after checking the requested window
// does not overlap an existing scheduled booking. Callers serialize
// concurrent creates per account with an account lock.
func CreateBooking(ctx context.Context, input *NewBooking) (*Booking, error) {

	db := config.GetDB()
	accountId, ok := utils.GetAccountIdFromContext(ctx)
	if !ok || accountId == "" {
		return nil, errors.New("account id is required")
	}
	if err := input.validate(ctx, accountId); err != nil {
		return nil, err
	}

	meetingType, err := utils.FetchModel[MeetingType](ctx, accountId, input.MeetingTypeId)
	if err != nil {
		return nil, err
	}
	if !utils.DereferencePtr(meetingType.IsActive) {
		return nil, errors.New("meeting type is not open for booking")
	}

	startsAt := input.StartsAt.UTC()
	endsAt := startsAt.Add(time.Duration(meetingType.DurationMinutes) * time.Minute)

	// Overlap: an existing scheduled booking whose window intersects ours.
	overlapping, err := utils.ResourceCountWhere[Booking](ctx, accountId,
		"status = ? AND starts_at < ? AND ends_at > ?", BookingStatusScheduled, endsAt, startsAt)
	if err != nil {
		return nil, err
	}
	if overlapping > 0 {
		return nil, errors.New("the selected time is no longer available")
	}

	bookingNumber, err := nextBookingNumber(ctx, accountId)
	if err != nil {
		return nil, err
	}

	booking := Booking{
		AccountId:       accountId,
		BookingNumber:   bookingNumber,
		MeetingTypeId:   input.MeetingTypeId,
		ClientId:        input.ClientId,
		InviteeName:     input.InviteeName,
		InviteeEmail:    input.InviteeEmail,
		InviteePhone:    input.InviteePhone,
		Notes:           input.Notes,
		MeetingName:     meetingType.Name,
		Location:        meetingType.Location,
		LocationDetail:  meetingType.LocationDetail,
		DurationMinutes: meetingType.DurationMinutes,
		StartsAt:        startsAt,
		EndsAt:          endsAt,
		Status:          BookingStatusScheduled,
	}
	if err := db.WithContext(ctx).Create(&booking).Error; err != nil {
		if utils.IsDuplicateEntry(err) {
			return nil, errors.New("booking number collision, please retry")
		}
		return nil, err
	}
	return &booking, nil
}

func GetBooking(ctx context.Context, id int) (*Booking, error) {

	accountId, ok := utils.GetAccountIdFromContext(ctx)
	if !ok || accountId == "" {
		return nil, errors.New("account id is required")
	}
	return utils.FetchModel[Booking](ctx, accountId, id, "MeetingType")
}

// GetBookings lists bookings with optional conjunctive filters.
func GetBookings(ctx context.Context, filter *BookingFilter) ([]*Booking, error) {

	db := config.GetDB()
	accountId, ok := utils.GetAccountIdFromContext(ctx)
	if !ok || accountId == "" {
		return nil, errors.New("account id is required")
	}

	dbCtx := db.WithContext(ctx).Where("account_id = ?", accountId)
	if filter != nil {
		if filter.Status != nil {
			dbCtx = dbCtx.Where("status = ?", *filter.Status)
		}
		if filter.MeetingTypeId != nil && *filter.MeetingTypeId > 0 {
			dbCtx = dbCtx.Where("meeting_type_id = ?", *filter.MeetingTypeId)
		}
		if filter.From != nil {
			dbCtx = dbCtx.Where("starts_at >= ?", filter.From.UTC())
		}
		if filter.To != nil {
			dbCtx = dbCtx.Where("starts_at < ?", filter.To.UTC())
		}
	}

	var results []*Booking
	if err := dbCtx.Order("starts_at ASC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

type BookingFilter struct {
	Status        *BookingStatus `json:"status"`
	MeetingTypeId *int           `json:"meeting_type_id"`
	From          *time.Time     `json:"from"`
	To            *time.Time     `json:"to"`
}

// CompleteBooking marks a scheduled booking as held. Transitions are one way.
func CompleteBooking(ctx context.Context, id int) (*Booking, error) {
	return transitionBooking(ctx, id, BookingStatusCompleted, "")
}

// CancelBooking voids a scheduled booking with an optional reason.
func CancelBooking(ctx context.Context, id int, reason string) (*Booking, error) {
	return transitionBooking(ctx, id, BookingStatusCanceled, reason)
}

func transitionBooking(ctx context.Context, id int, target BookingStatus, reason string) (*Booking, error) {

	accountId, ok := utils.GetAccountIdFromContext(ctx)
	if !ok || accountId == "" {
		return nil, errors.New("account id is required")
	}

	booking, err := utils.FetchModel[Booking](ctx, accountId, id)
	if err != nil {
		return nil, err
	}
	if !booking.Status.CanTransitionTo(target) {
		return nil, ErrorInvalidStatusTransition
	}

	now := time.Now()
	updates := map[string]interface{}{"Status": target}
	switch target {
	case BookingStatusCompleted:
		updates["CompletedAt"] = &now
	case BookingStatusCanceled:
		updates["CanceledAt"] = &now
		updates["CancelReason"] = reason
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Model(booking).Updates(updates).Error; err != nil {
		return nil, err
	}
	booking.Status = target
	return booking, nil
}
