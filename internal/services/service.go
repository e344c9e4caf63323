package services

import (
	"smartdry/config"
	"smartdry/internal/database"
	"smartdry/internal/events"
)

type Service struct {
	Identity    *IdentityService
	Transaction *TransactionService
	Scheduler   *SchedulerService
	MQTT        *MQTTService
	Slack       *SlackService
}

func New(db database.DB, config config.Config, eventBus *events.EventBus) (Service, error) {
	transactionService := NewTransactionService(db)

	identityService, err := NewIdentityService(config)
	if err != nil {
		return Service{}, err
	}

	mqttService, err := NewMQTTService(config)
	if err != nil {
		return Service{}, err
	}

	return Service{
		Identity:    identityService,
		Transaction: transactionService,
		Scheduler:   NewSchedulerService(),
		MQTT:        mqttService,
		Slack:       NewSlackService(config),
	}, nil
}
