package contracts

import (
	"context"

	"github.com/readmegen/readmegen/dir_scanner/models"
)

type IDirectoryScanner interface {
	Scan(ctx context.Context, rootPath string) (*models.DirectoryInventory, error)
}
