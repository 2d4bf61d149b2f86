package middlewares

import (
	"context"
	"time"

	"github.com/craftfolio/studio_backend/config"
	"github.com/craftfolio/studio_backend/models"
	"github.com/gin-gonic/gin"
	"github.com/graph-gophers/dataloader/v7"
	"gorm.io/gorm"
)

type ctxKey string

const loadersKey = ctxKey("dataloaders")

// Loaders batch per-request record lookups so list endpoints resolving the
// same referenced rows hit the database once per batch.
type Loaders struct {
	MeetingTypeLoader      *dataloader.Loader[int, *models.MeetingType]
	ClientLoader           *dataloader.Loader[int, *models.Client]
	ContractTemplateLoader *dataloader.Loader[int, *models.ContractTemplate]
}

func NewLoaders(conn *gorm.DB) *Loaders {
	meetingTypeReader := &meetingTypeReader{db: conn}
	clientReader := &clientReader{db: conn}
	templateReader := &contractTemplateReader{db: conn}

	return &Loaders{
		MeetingTypeLoader:      dataloader.NewBatchedLoader(meetingTypeReader.getMeetingTypes, dataloader.WithWait[int, *models.MeetingType](time.Millisecond)),
		ClientLoader:           dataloader.NewBatchedLoader(clientReader.getClients, dataloader.WithWait[int, *models.Client](time.Millisecond)),
		ContractTemplateLoader: dataloader.NewBatchedLoader(templateReader.getContractTemplates, dataloader.WithWait[int, *models.ContractTemplate](time.Millisecond)),
	}
}

func LoaderMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		loader := NewLoaders(config.GetDB())
		ctx := context.WithValue(c.Request.Context(), loadersKey, loader)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func For(ctx context.Context) *Loaders {
	return ctx.Value(loadersKey).(*Loaders)
}

// handleError creates array of result with the same error repeated for as many items requested
func handleError[T any](itemsLength int, err error) []*dataloader.Result[T] {
	result := make([]*dataloader.Result[T], itemsLength)
	for i := 0; i < itemsLength; i++ {
		result[i] = &dataloader.Result[T]{Error: err}
	}
	return result
}

// generateLoaderResults aligns db rows back to the requested id order.
func generateLoaderResults[T any](results []T, ids []int, idOf func(T) int) []*dataloader.Result[*T] {
	resultMap := make(map[int]T, len(results))
	for _, result := range results {
		resultMap[idOf(result)] = result
	}

	loaderResults := make([]*dataloader.Result[*T], 0, len(ids))
	for _, id := range ids {
		data, found := resultMap[id]
		if !found {
			loaderResults = append(loaderResults, &dataloader.Result[*T]{Data: nil})
			continue
		}
		loaderResults = append(loaderResults, &dataloader.Result[*T]{Data: &data})
	}
	return loaderResults
}
