package inventoryService

import (
	"time"

	"StokAsistan/internal/api/assistant"
	inventoryRepository "StokAsistan/internal/api/inventory/repository"
	"StokAsistan/pkg/utils"

	"github.com/sirupsen/logrus"
)

// IInventoryService is the PostgreSQL backed capability context of the assistant.
type IInventoryService interface {
	assistant.Inventory
}

const defaultCurrency = "TRY"

type inventoryService struct {
	log                 *logrus.Logger
	inventoryRepository inventoryRepository.Repository
	utils               utils.IUtils

	now func() time.Time
}

func NewInventoryService(log *logrus.Logger, ir inventoryRepository.Repository, utils utils.IUtils) IInventoryService {
	return &inventoryService{
		log:                 log,
		inventoryRepository: ir,
		utils:               utils,
		now:                 time.Now,
	}
}
