package middlewares

import (
	"context"

	"github.com/craftfolio/studio_backend/models"
	"github.com/graph-gophers/dataloader/v7"
	"gorm.io/gorm"
)

type clientReader struct {
	db *gorm.DB
}

func (r *clientReader) getClients(ctx context.Context, ids []int) []*dataloader.Result[*models.Client] {
	var results []models.Client

	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&results).Error
	if err != nil {
		return handleError[*models.Client](len(ids), err)
	}
	return generateLoaderResults(results, ids, func(c models.Client) int { return c.ID })
}

type contractTemplateReader struct {
	db *gorm.DB
}

func (r *contractTemplateReader) getContractTemplates(ctx context.Context, ids []int) []*dataloader.Result[*models.ContractTemplate] {
	var results []models.ContractTemplate

	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&results).Error
	if err != nil {
		return handleError[*models.ContractTemplate](len(ids), err)
	}
	return generateLoaderResults(results, ids, func(t models.ContractTemplate) int { return t.ID })
}

// GetClient resolves one client through the request batch.
func GetClient(ctx context.Context, id int) (*models.Client, error) {
	loaders := For(ctx)
	return loaders.ClientLoader.Load(ctx, id)()
}

// GetContractTemplate resolves one template through the request batch.
func GetContractTemplate(ctx context.Context, id int) (*models.ContractTemplate, error) {
	loaders := For(ctx)
	return loaders.ContractTemplateLoader.Load(ctx, id)()
}
