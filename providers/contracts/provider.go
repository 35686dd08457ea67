package contracts

import (
	"context"

	"github.com/readmegen/readmegen/providers/models"
)

type ICompletionProvider interface {
	Complete(ctx context.Context, request *models.CompletionRequest) (*models.CompletionResponse, error)
}
