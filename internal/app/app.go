package app

import (
	"context"

	"smartdry/config"
	"smartdry/internal/controllers"
	cycleController "smartdry/internal/controllers/cycles"
	"smartdry/internal/database"
	"smartdry/internal/events"
	"smartdry/internal/handlers/middleware"
	"smartdry/internal/jobs"
	"smartdry/internal/logger"
	"smartdry/internal/models"
	"smartdry/internal/repositories"
	"smartdry/internal/services"
)

type App struct {
	Database   database.DB
	Middleware middleware.Middleware
	EventBus   *events.EventBus
	Config     config.Config

	Services     services.Service
	Repositories repositories.Repository
	Controllers  controllers.Controllers
}

func New() (*App, error) {
	log := logger.New("app").Function("New")

	config, err := config.New()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}

	db, err := database.New(config)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	eventBus := events.New(db.Cache.General, config)

	service, err := services.New(db, config, eventBus)
	if err != nil {
		return &App{}, log.Err("failed to create services", err)
	}

	repos := repositories.New(db)
	ctrls := controllers.New(service, repos, eventBus)
	middleware := middleware.New(db, eventBus, config, repos)

	if err := wireDeviceReports(service, ctrls); err != nil {
		return &App{}, log.Err("failed to register MQTT handlers", err)
	}

	if config.SchedulerEnabled {
		snapshotSweep := jobs.NewSnapshotSweepJob(repos.Cycle, repos.Snapshot, services.Hourly)
		if err := service.Scheduler.AddJob(snapshotSweep); err != nil {
			return &App{}, log.Err("failed to register snapshot sweep job", err)
		}

		deviceOffline := jobs.NewDeviceOfflineJob(repos.Device, eventBus, services.Hourly)
		if err := service.Scheduler.AddJob(deviceOffline); err != nil {
			return &App{}, log.Err("failed to register device offline job", err)
		}

		if err := service.Scheduler.Start(context.Background()); err != nil {
			return &App{}, log.Err("failed to start scheduler", err)
		}
		log.Info("Scheduler started", "jobs", service.Scheduler.GetJobCount())
	}

	app := &App{
		Database:     db,
		Middleware:   middleware,
		EventBus:     eventBus,
		Config:       config,
		Services:     service,
		Repositories: repos,
		Controllers:  ctrls,
	}

	if err := app.validate(); err != nil {
		return &App{}, log.Err("failed to validate app", err)
	}

	return app, nil
}

// wireDeviceReports routes MQTT traffic from the dryers into the same
// controller operations the HTTP device endpoints use.
func wireDeviceReports(service services.Service, ctrls controllers.Controllers) error {
	sensor := func(deviceID string, data models.ReadingData) error {
		_, err := ctrls.Sensor.Ingest(context.Background(), deviceID, data)
		return err
	}

	progress := func(deviceID string, cycleID int, report services.ProgressReport) error {
		request := &cycleController.UpdateProgressRequest{Progress: &report.Progress}
		if report.Sensors != nil {
			request.Moisture = &report.Sensors.Moisture
			request.Temperature = &report.Sensors.Temperature
			request.Weight = &report.Sensors.Weight
		}
		_, err := ctrls.Cycle.UpdateProgress(context.Background(), deviceID, cycleID, request)
		return err
	}

	return service.MQTT.RegisterHandlers(sensor, progress)
}

func (a *App) validate() error {
	log := logger.New("app").Function("validate")

	if a.Database.SQL == nil {
		return log.ErrMsg("database is nil")
	}

	if a.Config == (config.Config{}) {
		return log.ErrMsg("config is nil")
	}

	nilChecks := []any{
		a.EventBus,
		a.Services.Transaction,
		a.Services.Scheduler,
		a.Controllers.User,
		a.Controllers.Device,
		a.Controllers.Cycle,
		a.Controllers.Sensor,
		a.Controllers.Notification,
		a.Repositories.User,
		a.Repositories.Device,
		a.Repositories.Cycle,
		a.Repositories.Snapshot,
		a.Repositories.SensorReading,
		a.Repositories.Notification,
	}

	for _, check := range nilChecks {
		if check == nil {
			return log.ErrMsg("nil check failed")
		}
	}

	return nil
}

func (a *App) Close() (err error) {
	if a.EventBus != nil {
		if closeErr := a.EventBus.Close(); closeErr != nil {
			err = closeErr
		}
	}

	if a.Services.Scheduler != nil {
		if closeErr := a.Services.Scheduler.Stop(context.Background()); closeErr != nil {
			err = closeErr
		}
	}

	a.Services.MQTT.Close()

	if closeErr := a.Services.Identity.Close(); closeErr != nil {
		err = closeErr
	}

	if dbErr := a.Database.Close(); dbErr != nil {
		err = dbErr
	}

	return err
}
