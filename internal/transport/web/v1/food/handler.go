package food

import (
	"log"

	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/cache"
	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/domain"
)

type Handler struct {
	Log     *log.Logger
	Foods   domain.FoodsRepo
	Storage domain.BlobStorage
	Cache   *cache.Service

	EntityTTL int // секунд
}
