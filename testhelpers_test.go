//go:build integration

package main_test

import (
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	kafkamodule "github.com/testcontainers/testcontainers-go/modules/kafka"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/tecchohotel/service-booking/internal/application"
	bookingDomain "github.com/tecchohotel/service-booking/internal/domain/booking"
	bookingEvents "github.com/tecchohotel/service-booking/internal/events"
	"github.com/tecchohotel/service-booking/internal/repository"
	"github.com/tecchohotel/service-booking/internal/storage"
	"github.com/tecchohotel/service-booking/pkg/database"
	"github.com/tecchohotel/service-booking/pkg/events"
	"github.com/tecchohotel/service-booking/pkg/kafka"
)

// testInfra holds shared test infrastructure.
type testInfra struct {
	DB           *gorm.DB
	KafkaBrokers []string
	Cleanup      func()
}

// ledgerStack holds wired-up ledger components.
type ledgerStack struct {
	Ledger          *application.LedgerService
	Consumer        *bookingEvents.FrontDeskEventConsumer
	CleanupProducer func()
}

// setupContainers starts PostgreSQL and Kafka testcontainers, applies the
// SQL migrations and returns a connected GORM DB.
func setupContainers(t *testing.T) *testInfra {
	t.Helper()
	ctx := context.Background()
	logger := zap.NewNop()

	pgReq := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "test_booking",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: pgReq,
		Started:          true,
	})
	require.NoError(t, err, "failed to start PostgreSQL container")

	pgHost, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	pgPort, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dbConfig := database.Config{
		Driver:   database.DriverPostgres,
		Host:     pgHost,
		Port:     pgPort.Port(),
		User:     "test",
		Password: "test",
		DBName:   "test_booking",
		SSLMode:  "disable",
	}

	var db *gorm.DB
	require.Eventually(t, func() bool {
		var err error
		db, err = database.Connect(dbConfig, logger)
		return err == nil
	}, 30*time.Second, 1*time.Second, "PostgreSQL not ready for connections")

	require.NoError(t, database.RunMigrations(dbConfig.DatabaseURL(), "migrations", logger))

	// confluent-local supports KRaft natively.
	kafkaContainer, err := kafkamodule.Run(ctx, "confluentinc/confluent-local:7.5.0")
	require.NoError(t, err, "failed to start Kafka container")

	kafkaBrokers, err := kafkaContainer.Brokers(ctx)
	require.NoError(t, err, "failed to get Kafka brokers")

	createTopics(t, kafkaBrokers, events.TopicBookingEvents, events.TopicFrontDeskEvents)

	cleanup := func() {
		if err := kafkaContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate Kafka container: %v", err)
		}
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate PostgreSQL container: %v", err)
		}
	}

	return &testInfra{
		DB:           db,
		KafkaBrokers: kafkaBrokers,
		Cleanup:      cleanup,
	}
}

// setupLedgerStack wires the ledger over repo with a real producer and
// front-desk consumer.
func setupLedgerStack(t *testing.T, repo bookingDomain.BookingRepository, brokers []string) *ledgerStack {
	t.Helper()
	logger, _ := zap.NewDevelopment()

	producer := kafka.NewProducer(brokers, logger)
	ledger := application.NewLedgerService(
		repo,
		bookingDomain.NewStandardPricingStrategy(),
		bookingDomain.UUIDGenerator{},
		bookingDomain.NewTimestampNumberGenerator(time.Now),
		producer,
		logger,
	)

	groupID := fmt.Sprintf("test-booking-%s", uuid.New().String()[:8])
	consumer := bookingEvents.NewFrontDeskEventConsumer(brokers, groupID, ledger, logger)

	return &ledgerStack{
		Ledger:          ledger,
		Consumer:        consumer,
		CleanupProducer: func() { _ = producer.Close() },
	}
}

func newSQLRepo(db *gorm.DB) bookingDomain.BookingRepository {
	return repository.NewGormBookingRepository(db)
}

func newKVRepo(db *gorm.DB) bookingDomain.BookingRepository {
	return repository.NewKVBookingRepository(storage.NewGormStore(db))
}

var guest = &application.SessionUser{ID: uuid.New(), Email: "ana@example.com", Name: "ana"}

func familyRoomDraft() bookingDomain.Draft {
	d := bookingDomain.NewDraft(bookingDomain.RoomSnapshot{ID: 3, Name: "Family Room", PriceCents: 39900})
	d.CheckIn = bookingDomain.MustParseDate("2025-07-10")
	d.CheckOut = bookingDomain.MustParseDate("2025-07-12")
	d.RoomCount = 2
	d.SpaService = true
	d.AirportPickup = true
	d.GuestName = "Ana Lima"
	d.GuestAge = 34
	return d
}

func checkoutDetails() bookingDomain.CheckoutDetails {
	return bookingDomain.CheckoutDetails{
		Name:       "Ana Lima",
		Email:      "ana@example.com",
		CardNumber: "4111-1111-1111-9876",
		Expiry:     "11/29",
		CVV:        "321",
	}
}

// setStoredStatus rewrites a row's status, for states no action reaches.
func setStoredStatus(t *testing.T, db *gorm.DB, id uuid.UUID, status string) {
	t.Helper()
	require.NoError(t, db.Model(&repository.BookingModel{}).
		Where("id = ?", id).
		Update("status", status).Error)
}

// publishTestEvent publishes a CloudEvent to Kafka.
func publishTestEvent(t *testing.T, brokers []string, topic, source, eventType string, data interface{}) {
	t.Helper()
	logger, _ := zap.NewDevelopment()
	producer := kafka.NewProducer(brokers, logger)
	defer func() { _ = producer.Close() }()

	ce, err := kafka.NewCloudEvent(source, eventType, data)
	require.NoError(t, err, "failed to create cloud event")

	err = producer.PublishEvent(context.Background(), topic, ce)
	require.NoError(t, err, "failed to publish event")
}

// waitForBookingStatus polls the ledger until the record's status matches.
func waitForBookingStatus(t *testing.T, repo bookingDomain.BookingRepository, bookingID uuid.UUID, expected bookingDomain.BookingStatus, timeout time.Duration) *bookingDomain.Record {
	t.Helper()
	var result *bookingDomain.Record
	require.Eventually(t, func() bool {
		rec, err := repo.FindByID(context.Background(), bookingID)
		if err != nil {
			return false
		}
		if rec.Status() == expected {
			result = rec
			return true
		}
		return false
	}, timeout, 200*time.Millisecond, "booking did not transition to %s", expected)
	return result
}

// consumeOneEvent reads from a Kafka topic until it finds an event of the
// expected type about subject.
func consumeOneEvent(t *testing.T, brokers []string, topic, expectedType, subject string, timeout time.Duration) kafka.CloudEvent {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	groupID := fmt.Sprintf("test-assert-%s", uuid.New().String()[:8])
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     brokers,
		GroupID:     groupID,
		Topic:       topic,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafkago.FirstOffset,
	})
	defer func() { _ = reader.Close() }()

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				t.Fatalf("timed out waiting for event type %q on topic %q", expectedType, topic)
			}
			continue
		}
		ce, err := kafka.ParseCloudEvent(msg.Value)
		if err != nil {
			continue
		}
		if ce.Type == expectedType && ce.Subject == subject {
			return ce
		}
	}
}

// createTopics pre-creates Kafka topics so producers don't fail with "Unknown Topic".
func createTopics(t *testing.T, brokers []string, topics ...string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", brokers[0])
	require.NoError(t, err, "failed to dial Kafka for topic creation")
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err, "failed to get Kafka controller")

	controllerConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, fmt.Sprintf("%d", controller.Port)))
	require.NoError(t, err, "failed to connect to Kafka controller")
	defer controllerConn.Close()

	topicConfigs := make([]kafkago.TopicConfig, len(topics))
	for i, topic := range topics {
		topicConfigs[i] = kafkago.TopicConfig{
			Topic:             topic,
			NumPartitions:     1,
			ReplicationFactor: 1,
		}
	}
	err = controllerConn.CreateTopics(topicConfigs...)
	require.NoError(t, err, "failed to create Kafka topics")

	time.Sleep(1 * time.Second)
}
