package middlewares

import (
	"context"

	"github.com/craftfolio/studio_backend/models"
	"github.com/graph-gophers/dataloader/v7"
	"gorm.io/gorm"
)

type meetingTypeReader struct {
	db *gorm.DB
}

func (r *meetingTypeReader) getMeetingTypes(ctx context.Context, ids []int) []*dataloader.Result[*models.MeetingType] {
	var results []models.MeetingType

	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&results).Error
	if err != nil {
		return handleError[*models.MeetingType](len(ids), err)
	}
	return generateLoaderResults(results, ids, func(m models.MeetingType) int { return m.ID })
}

// GetMeetingType resolves one meeting type through the request batch.
func GetMeetingType(ctx context.Context, id int) (*models.MeetingType, error) {
	loaders := For(ctx)
	return loaders.MeetingTypeLoader.Load(ctx, id)()
}

// GetMeetingTypes resolves many meeting types through the request batch.
func GetMeetingTypes(ctx context.Context, ids []int) ([]*models.MeetingType, []error) {
	loaders := For(ctx)
	return loaders.MeetingTypeLoader.LoadMany(ctx, ids)()
}
