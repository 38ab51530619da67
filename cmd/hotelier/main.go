package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/google/uuid"

	"hotelier/internal/app/commands"
	"hotelier/internal/app/handlers/stays"
	"hotelier/internal/app/middleware"
	appoutbox "hotelier/internal/app/outbox"
	"hotelier/internal/app/queries"
	"hotelier/internal/app/rateshop"
	"hotelier/internal/app/uow"
	domaincatalog "hotelier/internal/domain/catalog"
	"hotelier/internal/infra/broker/kafka"
	"hotelier/internal/infra/config"
	mongodb "hotelier/internal/infra/db/mongo"
	"hotelier/internal/infra/obs"
	infraoutbox "hotelier/internal/infra/outbox"
	"hotelier/internal/infra/storage/memory"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env := getenv("APP_ENV", "dev")
	logger := obs.NewLogger(env)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("configuration invalid", "error", err)
		os.Exit(1)
	}

	app, relay, err := buildApplication(ctx, cfg, logger)
	if err != nil {
		logger.Error("application wiring failed", "error", err)
		os.Exit(1)
	}
	logger.Info("application wired", "storage", cfg.StorageMode,
		"commands", app.Commands != nil, "queries", app.Queries != nil)

	if relay != nil {
		logger.Info("outbox relay starting", "interval", cfg.OutboxPollInterval)
		if err := relay.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("outbox relay failed", "error", err)
			os.Exit(1)
		}
	} else {
		logger.Info("memory storage active, no relay to run")
		<-ctx.Done()
	}
	logger.Info("shut down")
}

type application struct {
	Commands commands.Bus
	Queries  queries.Bus
}

func buildApplication(ctx context.Context, cfg config.Config, logger *slog.Logger) (application, *infraoutbox.Worker, error) {
	switch cfg.StorageMode {
	case "mongo":
		return buildMongoApplication(ctx, cfg, logger)
	default:
		app, err := buildMemoryApplication(ctx, cfg, logger)
		return app, nil, err
	}
}

func buildMongoApplication(ctx context.Context, cfg config.Config, logger *slog.Logger) (application, *infraoutbox.Worker, error) {
	client, err := mongodb.New(cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		return application{}, nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx); err != nil {
		return application{}, nil, fmt.Errorf("mongo ping: %w", err)
	}

	catalogRepo := mongodb.NewCatalogRepository(client.DB)
	availabilityRepo := mongodb.NewAvailabilityRepository(client.DB)
	uowFactory := mongodb.Factory{
		DB:               client.DB,
		GuestRepo:        mongodb.NewGuestRepository(client.DB),
		ReservationRepo:  mongodb.NewReservationRepository(client.DB),
		BookingRepo:      mongodb.NewBookingRepository(client.DB),
		AvailabilityRepo: availabilityRepo,
	}
	outboxStore := infraoutbox.NewStore(client.DB)
	idStore := mongodb.NewIdempotencyStore(client.DB, cfg.IdempotencyTTL)

	engine := &rateshop.Engine{
		Rooms:        catalogRepo,
		Rates:        catalogRepo,
		Discounts:    catalogRepo,
		Availability: availabilityRepo,
	}
	app := wireBuses(uowFactory, engine, catalogRepo, outboxStore, idStore)

	producer, err := kafka.NewProducer(cfg.KafkaBrokers, nil)
	if err != nil {
		return application{}, nil, fmt.Errorf("kafka producer: %w", err)
	}
	relay := &infraoutbox.Worker{
		Store:       outboxStore,
		Producer:    producer,
		Interval:    cfg.OutboxPollInterval,
		TopicPrefix: cfg.KafkaTopicPrefix,
		ID:          uuid.NewString(),
		Backoff:     cfg.RetryBackoff,
	}
	logger.Info("mongo storage wired", "db", cfg.MongoDB)
	return app, relay, nil
}

func buildMemoryApplication(ctx context.Context, cfg config.Config, logger *slog.Logger) (application, error) {
	catalog := memory.NewCatalog()
	availabilityRepo := memory.NewAvailabilityRepository()
	uowFactory := memory.Factory{
		GuestRepo:        memory.NewGuestRepository(),
		ReservationRepo:  memory.NewReservationRepository(),
		BookingRepo:      memory.NewBookingRepository(),
		AvailabilityRepo: availabilityRepo,
	}
	outboxStore := memory.NewOutbox()
	idStore := memory.NewIdempotencyStore()

	fixturesPath := getenv("CATALOG_FIXTURES", filepath.Join("data", "catalog.json"))
	if err := loadCatalogFixtures(catalog, fixturesPath, logger); err != nil {
		logger.Warn("catalog fixtures load failed", "error", err, "path", fixturesPath)
	}

	engine := &rateshop.Engine{
		Rooms:        catalog,
		Rates:        catalog,
		Discounts:    catalog,
		Availability: availabilityRepo,
	}
	return wireBuses(uowFactory, engine, catalog, outboxStore, idStore), nil
}

func wireBuses(uowFactory uow.UoWFactory, engine *rateshop.Engine, discounts domaincatalog.DiscountSource, box appoutbox.Outbox, idStore middleware.IdempotencyStore) application {
	encoder := appoutbox.JSONEventEncoder{IDGenerator: uuid.NewString}

	commandBus := commands.NewInMemoryBus()
	commands.RegisterHandler(commandBus, stays.CreateReservationCommand{}.Key(), &stays.CreateReservationHandler{
		UoWFactory: uowFactory,
		Engine:     engine,
		Outbox:     box,
		Encoder:    encoder,
	})
	commands.RegisterHandler(commandBus, stays.CreateBookingCommand{}.Key(), &stays.CreateBookingHandler{
		UoWFactory: uowFactory,
		Engine:     engine,
		Outbox:     box,
		Encoder:    encoder,
	})
	commands.RegisterHandler(commandBus, stays.CheckInCommand{}.Key(), &stays.CheckInHandler{
		UoWFactory: uowFactory,
		Outbox:     box,
		Encoder:    encoder,
	})
	commands.RegisterHandler(commandBus, stays.CheckOutCommand{}.Key(), &stays.CheckOutHandler{
		UoWFactory: uowFactory,
		Discounts:  discounts,
		Outbox:     box,
		Encoder:    encoder,
	})

	queryBus := queries.NewInMemoryBus()
	queries.RegisterHandler(queryBus, stays.RateShopQuery{}.Key(), &stays.RateShopHandler{Engine: engine})
	queries.RegisterHandler(queryBus, stays.ActiveReservationsQuery{}.Key(), &stays.ActiveReservationsHandler{UoWFactory: uowFactory})
	queries.RegisterHandler(queryBus, stays.ReservationsByRangeQuery{}.Key(), &stays.ReservationsByRangeHandler{UoWFactory: uowFactory})
	queries.RegisterHandler(queryBus, stays.ArrivalsQuery{}.Key(), &stays.ArrivalsHandler{UoWFactory: uowFactory})

	commandBusWithMiddleware := middleware.ChainCommands(
		commandBus,
		middleware.Idempotency(idStore, nil),
		middleware.Transaction(uowFactory, nil),
		middleware.OutboxFlush(box),
	)

	return application{Commands: commandBusWithMiddleware, Queries: queryBus}
}

func loadCatalogFixtures(catalog *memory.Catalog, path string, logger *slog.Logger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Info("catalog fixtures file not found, skipping", "path", path)
			return nil
		}
		return fmt.Errorf("read fixtures: %w", err)
	}

	var fixtures catalogFixtures
	if err := json.Unmarshal(data, &fixtures); err != nil {
		return fmt.Errorf("decode fixtures: %w", err)
	}
	for _, room := range fixtures.Rooms {
		catalog.AddRoom(domaincatalog.Room{
			HotelID:     room.HotelID,
			RoomID:      room.RoomID,
			RoomNumber:  room.RoomNumber,
			RoomType:    room.RoomType,
			NumPerson:   room.NumPerson,
			MaxMattress: room.MaxMattress,
		})
	}
	for _, rate := range fixtures.Rates {
		catalog.AddRate(domaincatalog.Rate{
			HotelID:       rate.HotelID,
			RoomID:        rate.RoomID,
			PerDayCharge:  rate.PerDayCharge,
			EarlyCheckIn:  rate.EarlyCheckIn,
			LateCheckOut:  rate.LateCheckOut,
			ExtraMattress: rate.ExtraMattress,
		})
	}
	for _, coupon := range fixtures.Coupons {
		catalog.AddCoupon(domaincatalog.Coupon{
			HotelID:     coupon.HotelID,
			Code:        coupon.Code,
			DiscountPer: coupon.DiscountPer,
			IsValid:     coupon.IsValid,
		})
	}
	for _, voucher := range fixtures.Vouchers {
		catalog.AddVoucher(domaincatalog.Voucher{
			HotelID: voucher.HotelID,
			Code:    voucher.Code,
			Amount:  voucher.Amount,
			IsValid: voucher.IsValid,
		})
	}
	logger.Info("catalog fixtures imported",
		"rooms", len(fixtures.Rooms),
		"rates", len(fixtures.Rates),
		"coupons", len(fixtures.Coupons),
		"vouchers", len(fixtures.Vouchers),
	)
	return nil
}

type catalogFixtures struct {
	Rooms []struct {
		HotelID     int64 `json:"hotel_id"`
		RoomID      int64 `json:"room_id"`
		RoomNumber  int   `json:"room_number"`
		RoomType    int   `json:"room_type"`
		NumPerson   int   `json:"num_person"`
		MaxMattress int   `json:"max_mattress"`
	} `json:"rooms"`
	Rates []struct {
		HotelID       int64   `json:"hotel_id"`
		RoomID        int64   `json:"room_id"`
		PerDayCharge  float64 `json:"per_day_charge"`
		EarlyCheckIn  float64 `json:"early_check_in"`
		LateCheckOut  float64 `json:"late_check_out"`
		ExtraMattress float64 `json:"extra_mattress"`
	} `json:"rates"`
	Coupons []struct {
		HotelID     int64   `json:"hotel_id"`
		Code        string  `json:"code"`
		DiscountPer float64 `json:"discount_per"`
		IsValid     bool    `json:"is_valid"`
	} `json:"coupons"`
	Vouchers []struct {
		HotelID int64   `json:"hotel_id"`
		Code    string  `json:"code"`
		Amount  float64 `json:"amount"`
		IsValid bool    `json:"is_valid"`
	} `json:"vouchers"`
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
