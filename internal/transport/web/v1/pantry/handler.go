package pantry

import (
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/domain"
)

type Handler struct {
	Log    *log.Logger
	Pantry domain.PantryRepo
}

type itemRequest struct {
	FoodID    uuid.UUID  `json:"food_id"`
	Quantity  float64    `json:"quantity"`
	Unit      string     `json:"unit"`
	Location  string     `json:"location"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

func (req itemRequest) valid() bool {
	return req.FoodID != uuid.Nil && req.Quantity >= 0 &&
		domain.ValidUnit(req.Unit) && domain.ValidLocation(req.Location)
}
