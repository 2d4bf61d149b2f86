package models

import "errors"

type ProposalStatus string

const (
	ProposalStatusDraft    ProposalStatus = "Draft"
	ProposalStatusSent     ProposalStatus = "Sent"
	ProposalStatusViewed   ProposalStatus = "Viewed"
	ProposalStatusAccepted ProposalStatus = "Accepted"
	ProposalStatusDeclined ProposalStatus = "Declined"
)

func (s ProposalStatus) IsValid() bool {
	switch s {
	case ProposalStatusDraft, ProposalStatusSent, ProposalStatusViewed,
		ProposalStatusAccepted, ProposalStatusDeclined:
		return true
	}
	return false
}

type ContractStatus string

const (
	ContractStatusDraft    ContractStatus = "Draft"
	ContractStatusSent     ContractStatus = "Sent"
	ContractStatusSigned   ContractStatus = "Signed"
	ContractStatusDeclined ContractStatus = "Declined"
	ContractStatusExpired  ContractStatus = "Expired"
	ContractStatusArchived ContractStatus = "Archived"
)

func (s ContractStatus) IsValid() bool {
	switch s {
	case ContractStatusDraft, ContractStatusSent, ContractStatusSigned,
		ContractStatusDeclined, ContractStatusExpired, ContractStatusArchived:
		return true
	}
	return false
}

type BookingStatus string

const (
	BookingStatusScheduled BookingStatus = "Scheduled"
	BookingStatusCompleted BookingStatus = "Completed"
	BookingStatusCanceled  BookingStatus = "Canceled"
)

func (s BookingStatus) IsValid() bool {
	switch s {
	case BookingStatusScheduled, BookingStatusCompleted, BookingStatusCanceled:
		return true
	}
	return false
}

// Booking status moves one way only: Scheduled -> Completed or
// Scheduled -> Canceled. There is no path back to Scheduled.
var ErrorInvalidStatusTransition = errors.New("invalid booking status transition")

func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	if s != BookingStatusScheduled {
		return false
	}
	return next == BookingStatusCompleted || next == BookingStatusCanceled
}

type LocationType string

const (
	LocationTypeZoom       LocationType = "Zoom"
	LocationTypeGoogleMeet LocationType = "Google Meet"
	LocationTypePhone      LocationType = "Phone"
	LocationTypeInPerson   LocationType = "In-Person"
)

func (l LocationType) IsValid() bool {
	switch l {
	case LocationTypeZoom, LocationTypeGoogleMeet, LocationTypePhone, LocationTypeInPerson:
		return true
	}
	return false
}

type PaymentPlanType string

const (
	PaymentPlanTypeHalves    PaymentPlanType = "50-50"
	PaymentPlanTypeThirds    PaymentPlanType = "33-33-33"
	PaymentPlanTypeCustom    PaymentPlanType = "custom"
	PaymentPlanTypeMilestone PaymentPlanType = "milestone"
)

func (t PaymentPlanType) IsValid() bool {
	switch t {
	case PaymentPlanTypeHalves, PaymentPlanTypeThirds, PaymentPlanTypeCustom, PaymentPlanTypeMilestone:
		return true
	}
	return false
}

type BlockType string

const (
	BlockTypeGoals        BlockType = "goals"
	BlockTypeSuccess      BlockType = "success"
	BlockTypeDeliverables BlockType = "deliverables"
	BlockTypeTimeline     BlockType = "timeline"
	BlockTypeCustom       BlockType = "custom"
)

func (t BlockType) IsValid() bool {
	switch t {
	case BlockTypeGoals, BlockTypeSuccess, BlockTypeDeliverables, BlockTypeTimeline, BlockTypeCustom:
		return true
	}
	return false
}

// Outbox event reference types.
const (
	EventReferenceProposal  = "Proposal"
	EventReferenceContract  = "Contract"
	EventReferenceBooking   = "Booking"
	EventReferenceAnalytics = "AnalyticsEvent"
)

// Outbox publish states.
const (
	OutboxPublishStatusPending   = "Pending"
	OutboxPublishStatusPublished = "Published"
	OutboxPublishStatusDead      = "Dead"
)
