package consumer

import (
	"encoding/json"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/unitrack/equipment-tracker/reservation-service/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EquipmentConsumer struct {
	db *gorm.DB
}

func NewEquipmentConsumer(db *gorm.DB) *EquipmentConsumer {
	return &EquipmentConsumer{db: db}
}

// Start listens for messages and upserts equipment into the local read model.
func (ec *EquipmentConsumer) Start(msgs <-chan amqp.Delivery) {
	go func() {
		for msg := range msgs {
			ec.handleMessage(msg)
		}
		log.Println("[EquipmentConsumer] channel closed, stopping consumer")
	}()
}

func (ec *EquipmentConsumer) handleMessage(msg amqp.Delivery) {
	var equipment models.Equipment
	if err := json.Unmarshal(msg.Body, &equipment); err != nil {
		log.Printf("[EquipmentConsumer] failed to unmarshal: %v", err)
		msg.Nack(false, false)
		return
	}

	// Upsert: insert or update on conflict (same ID from Inventory Service)
	result := ec.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "category", "office", "serial_number", "updated_at"}),
	}).Create(&equipment)

	if result.Error != nil {
		log.Printf("[EquipmentConsumer] failed to upsert equipment %d: %v", equipment.ID, result.Error)
		msg.Nack(false, true) // requeue
		return
	}

	log.Printf("[EquipmentConsumer] synced equipment %d: %s", equipment.ID, equipment.Name)
	msg.Ack(false)
}
