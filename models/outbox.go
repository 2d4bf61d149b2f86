package models

import (
	"context"
	"encoding/json"
	"time"

	"github.com/craftfolio/studio_backend/config"
	"github.com/craftfolio/studio_backend/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EventOutboxRecord holds a domain event written in the same transaction as
// the state change it describes. A background dispatcher drains pending rows
// to Pub/Sub, so a publish failure never loses the event.
type EventOutboxRecord struct {
	ID            int        `gorm:"primary_key" json:"id"`
	AccountId     string     `gorm:"index;not null" json:"account_id"`
	EventType     string     `gorm:"size:100;not null" json:"event_type"`
	ReferenceType string     `gorm:"size:50;not null" json:"reference_type"`
	ReferenceId   int        `gorm:"not null" json:"reference_id"`
	Payload       string     `gorm:"type:text" json:"payload"`
	Status        string     `gorm:"size:20;index;not null;default:'Pending'" json:"status"`
	Attempts      int        `gorm:"default:0" json:"attempts"`
	CorrelationId string     `gorm:"size:100" json:"correlation_id"`
	PublishedAt   *time.Time `json:"published_at"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func correlationIdFromContextOrNew(ctx context.Context) string {
	if id, ok := utils.GetCorrelationIdFromContext(ctx); ok && id != "" {
		return id
	}
	return uuid.NewString()
}

// EnqueueEventInTx appends an outbox row inside the caller's transaction.
// The payload is marshaled here so callers pass domain values directly.
func EnqueueEventInTx(ctx context.Context, tx *gorm.DB, accountId string, eventType string, referenceType string, referenceId int, payload any) error {

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	record := EventOutboxRecord{
		AccountId:     accountId,
		EventType:     eventType,
		ReferenceType: referenceType,
		ReferenceId:   referenceId,
		Payload:       string(body),
		Status:        OutboxPublishStatusPending,
		CorrelationId: correlationIdFromContextOrNew(ctx),
	}
	return tx.Create(&record).Error
}

// FetchPendingOutbox pulls a batch of undelivered events across accounts,
// oldest first.
func FetchPendingOutbox(ctx context.Context, limit int) ([]*EventOutboxRecord, error) {

	db := config.GetDB()
	var records []*EventOutboxRecord
	err := db.WithContext(utils.SetSkipTenantScopeInContext(ctx, true)).
		Where("status = ?", OutboxPublishStatusPending).
		Order("id ASC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// MarkOutboxPublished stamps a record delivered.
func MarkOutboxPublished(ctx context.Context, id int) error {

	db := config.GetDB()
	now := time.Now()
	return db.WithContext(utils.SetSkipTenantScopeInContext(ctx, true)).
		Model(&EventOutboxRecord{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"Status":      OutboxPublishStatusPublished,
			"PublishedAt": &now,
		}).Error
}

// MarkOutboxFailed counts an attempt, parking the record as Dead once it
// exhausts maxAttempts. Dead records stay queryable for manual replay.
func MarkOutboxFailed(ctx context.Context, id int, attempts int, maxAttempts int) error {

	db := config.GetDB()
	status := OutboxPublishStatusPending
	if attempts+1 >= maxAttempts {
		status = OutboxPublishStatusDead
	}
	return db.WithContext(utils.SetSkipTenantScopeInContext(ctx, true)).
		Model(&EventOutboxRecord{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"Status":   status,
			"Attempts": attempts + 1,
		}).Error
}

// RevertDeadOutbox moves dead records back to pending so the dispatcher
// retries them.
func RevertDeadOutbox(ctx context.Context, ids []int) (int64, error) {

	db := config.GetDB()
	result := db.WithContext(utils.SetSkipTenantScopeInContext(ctx, true)).
		Model(&EventOutboxRecord{}).
		Where("id IN ? AND status = ?", ids, OutboxPublishStatusDead).
		Updates(map[string]interface{}{
			"Status":   OutboxPublishStatusPending,
			"Attempts": 0,
		})
	return result.RowsAffected, result.Error
}

// ToEventMessage converts an outbox row to the wire message.
func (r *EventOutboxRecord) ToEventMessage() config.EventMessage {
	return config.EventMessage{
		ID:            r.ID,
		AccountId:     r.AccountId,
		OccurredAt:    r.CreatedAt,
		ReferenceId:   r.ReferenceId,
		ReferenceType: r.ReferenceType,
		EventType:     r.EventType,
		Payload:       []byte(r.Payload),
		CorrelationId: r.CorrelationId,
	}
}
