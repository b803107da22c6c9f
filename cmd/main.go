package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ecotrack-lk/backend/internal/auth"
	"github.com/ecotrack-lk/backend/internal/clients"
	"github.com/ecotrack-lk/backend/internal/config"
	"github.com/ecotrack-lk/backend/internal/db"
	"github.com/ecotrack-lk/backend/internal/handlers"
	"github.com/ecotrack-lk/backend/internal/models"
	"github.com/ecotrack-lk/backend/internal/notify"
	"github.com/ecotrack-lk/backend/internal/scheduler"
)

const mongoDatabase = "ecotrack"

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	rootCmd := &cobra.Command{
		Use:   "ecotrack",
		Short: "EcoTrack LK - vehicle maintenance tracker and flood early-warning backend",
		Long: `Backend serving the vehicle emissions/maintenance tracker and the
Kelani basin flood early-warning dashboard. Vehicle and maintenance data
lives in MongoDB; stations, gauge readings, weather and alerts live in
PostgreSQL.`,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(initDBCmd())
	rootCmd.AddCommand(seedCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// serveCmd starts the REST API server.
func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()

			mongoClient, err := db.ConnectMongo()
			if err != nil {
				return fmt.Errorf("mongo connection failed: %w", err)
			}
			defer mongoClient.Disconnect(context.Background())
			logrus.Info("Connected to MongoDB")

			pg, err := db.ConnectPostgres()
			if err != nil {
				return fmt.Errorf("postgres connection failed: %w", err)
			}
			defer pg.Close()
			logrus.Info("Connected to PostgreSQL")

			authService, err := auth.NewService()
			if err != nil {
				return fmt.Errorf("auth service init failed: %w", err)
			}

			mongoDB := mongoClient.Database(mongoDatabase)
			floodStore := &db.FloodStore{DB: pg}

			deps := handlers.Deps{
				AuthService: authService,
				Standards:   &db.MongoStandardCollection{Collection: mongoDB.Collection("maintenance_standards")},
				Vehicles:    &db.MongoVehicleCollection{Collection: mongoDB.Collection("vehicles")},
				History:     &db.MongoServiceHistoryCollection{Collection: mongoDB.Collection("service_history")},
				Users:       &db.MongoUserCollection{Collection: mongoDB.Collection("users")},
				Flood:       floodStore,

				Weather:      clients.NewWeatherClient(cfg.OpenWeatherBaseURL, cfg.OpenWeatherAPIKey),
				FloodMonitor: clients.NewFloodMonitorClient(cfg.GFMSBaseURL, cfg.NASAEarthdataToken),
				ML:           clients.NewMLClient(cfg.MLServiceURL),
			}

			if cfg.TwilioAccountSID != "" && cfg.TwilioAuthToken != "" {
				deps.Messaging = clients.NewMessagingClient(cfg.TwilioBaseURL, cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioWhatsAppFrom)
			} else {
				logrus.Warn("Twilio credentials not set, maintenance messages disabled")
			}

			if cfg.MQTTBroker != "" {
				publisher, pubErr := notify.NewPublisher(cfg.MQTTBroker, cfg.MQTTClientID)
				if pubErr != nil {
					logrus.WithError(pubErr).Warn("MQTT broker unreachable, alert broadcast disabled")
				} else {
					deps.Alerts = publisher
					defer publisher.Disconnect()
					logrus.WithField("broker", cfg.MQTTBroker).Info("MQTT alert publisher connected")
				}
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			poller := scheduler.NewWeatherPoller(deps.Weather, floodStore)
			go poller.Run(ctx)

			server := handlers.NewServer(deps)
			httpServer := &http.Server{
				Addr:    ":" + cfg.Port,
				Handler: server.Router(),
			}

			errCh := make(chan error, 1)
			go func() {
				logrus.WithField("port", cfg.Port).Info("HTTP server listening")
				errCh <- httpServer.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			logrus.Info("Shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return httpServer.Shutdown(shutdownCtx)
		},
	}
}

// initDBCmd creates the PostgreSQL schema.
func initDBCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init-db",
		Short: "Create the PostgreSQL schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			config.Load()

			pg, err := db.ConnectPostgres()
			if err != nil {
				return fmt.Errorf("postgres connection failed: %w", err)
			}
			defer pg.Close()

			store := &db.FloodStore{DB: pg}
			if err := store.InitSchema(context.Background()); err != nil {
				return fmt.Errorf("schema creation failed: %w", err)
			}
			logrus.Info("PostgreSQL schema ready")
			return nil
		},
	}
}

// seedCmd loads demo stations and maintenance standards.
func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load demo stations and maintenance standards",
		RunE: func(cmd *cobra.Command, args []string) error {
			config.Load()
			ctx := context.Background()

			pg, err := db.ConnectPostgres()
			if err != nil {
				return fmt.Errorf("postgres connection failed: %w", err)
			}
			defer pg.Close()

			store := &db.FloodStore{DB: pg}
			if err := store.InitSchema(ctx); err != nil {
				return fmt.Errorf("schema creation failed: %w", err)
			}
			for _, st := range seedStations {
				id, err := store.InsertStation(ctx, st)
				if err != nil {
					return fmt.Errorf("seed station %q: %w", st.Name, err)
				}
				logrus.WithFields(logrus.Fields{"station": st.Name, "id": id}).Info("Station seeded")
			}

			mongoClient, err := db.ConnectMongo()
			if err != nil {
				return fmt.Errorf("mongo connection failed: %w", err)
			}
			defer mongoClient.Disconnect(ctx)

			standards := &db.MongoStandardCollection{
				Collection: mongoClient.Database(mongoDatabase).Collection("maintenance_standards"),
			}
			inserted, err := standards.BulkInsertStandards(ctx, seedStandards)
			if err != nil {
				return fmt.Errorf("seed standards: %w", err)
			}
			logrus.WithField("inserted", inserted).Info("Maintenance standards seeded")
			return nil
		},
	}
}

// seedStations lists the Kelani river gauging stations with their official
// threshold levels in meters.
var seedStations = []models.Station{
	{Name: "Nagalagam Street", Latitude: 6.9601, Longitude: 79.8780, AlertLevel: 1.0, MinorFloodLevel: 1.5, MajorFloodLevel: 2.2},
	{Name: "Hanwella", Latitude: 6.9097, Longitude: 80.0815, AlertLevel: 7.0, MinorFloodLevel: 9.0, MajorFloodLevel: 10.5},
	{Name: "Glencourse", Latitude: 6.9786, Longitude: 80.1775, AlertLevel: 14.0, MinorFloodLevel: 17.0, MajorFloodLevel: 19.0},
	{Name: "Kithulgala", Latitude: 6.9914, Longitude: 80.4124, AlertLevel: 15.0, MinorFloodLevel: 18.0, MajorFloodLevel: 20.0},
	{Name: "Holombuwa", Latitude: 7.1856, Longitude: 80.2647, AlertLevel: 8.0, MinorFloodLevel: 10.0, MajorFloodLevel: 12.0},
	{Name: "Deraniyagala", Latitude: 6.9336, Longitude: 80.3381, AlertLevel: 12.0, MinorFloodLevel: 14.0, MajorFloodLevel: 16.0},
}

// seedStandards is a starter rule set covering the four vehicle types.
var seedStandards = []models.MaintenanceStandard{
	{VehicleType: "bike", MaintenanceItem: "Engine oil change", TimeIntervalMonths: "3", DistanceKmRange: "2000-3000", PollutionImpact: []string{"HC", "CO"}},
	{VehicleType: "bike", MaintenanceItem: "Air filter clean/replace", TimeIntervalMonths: "6", DistanceKmRange: "5000-8000", PollutionImpact: []string{"CO"}},
	{VehicleType: "bike", MaintenanceItem: "Spark plug replace", TimeIntervalMonths: "0", DistanceKmRange: "8000-10000", PollutionImpact: []string{"HC"}},
	{VehicleType: "bike", MaintenanceItem: "Catalytic converter check", TimeIntervalMonths: "12", DistanceKmRange: "0", PollutionImpact: []string{"HC", "CO", "NOx"}},
	{VehicleType: "car", MaintenanceItem: "Engine oil change", TimeIntervalMonths: "6", DistanceKmRange: "5000-10000", PollutionImpact: []string{"HC", "CO"}},
	{VehicleType: "car", MaintenanceItem: "Air filter clean/replace", TimeIntervalMonths: "12", DistanceKmRange: "15000-20000", PollutionImpact: []string{"CO"}},
	{VehicleType: "car", MaintenanceItem: "Spark plug replace", TimeIntervalMonths: "0", DistanceKmRange: "30000-50000", PollutionImpact: []string{"HC"}},
	{VehicleType: "car", MaintenanceItem: "Catalytic converter check", TimeIntervalMonths: "24", DistanceKmRange: "0", PollutionImpact: []string{"HC", "CO", "NOx"}},
	{VehicleType: "car", MaintenanceItem: "O₂ sensor replacement", TimeIntervalMonths: "0", DistanceKmRange: "80000-100000", PollutionImpact: []string{"NOx"}},
	{VehicleType: "van", MaintenanceItem: "Engine oil change", TimeIntervalMonths: "6", DistanceKmRange: "5000-8000", PollutionImpact: []string{"HC", "CO"}},
	{VehicleType: "van", MaintenanceItem: "DPF regeneration/clean", TimeIntervalMonths: "0", DistanceKmRange: "20000-30000", PollutionImpact: []string{"PM"}},
	{VehicleType: "truck", MaintenanceItem: "Engine oil change", TimeIntervalMonths: "3", DistanceKmRange: "8000-12000", PollutionImpact: []string{"HC", "CO"}},
	{VehicleType: "truck", MaintenanceItem: "Exhaust system inspection", TimeIntervalMonths: "12", DistanceKmRange: "0", PollutionImpact: []string{"PM", "NOx"}},
}
