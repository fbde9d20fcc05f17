package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	bookingDomain "github.com/tecchohotel/service-booking/internal/domain/booking"
	"github.com/tecchohotel/service-booking/pkg/domain"
)

// BookingModel is the GORM model for the bookings table.
type BookingModel struct {
	ID              uuid.UUID      `gorm:"type:varchar(36);primaryKey"`
	BookingNumber   string         `gorm:"uniqueIndex;not null;size:20"`
	UserEmail       string         `gorm:"index;not null;size:255"`
	UserName        string         `gorm:"size:255"`
	Status          string         `gorm:"not null;size:30;index"`
	RoomID          int            `gorm:"not null;index"`
	Room            datatypes.JSON `gorm:"not null"`
	CheckIn         *time.Time     `gorm:"type:date"`
	CheckOut        *time.Time     `gorm:"type:date"`
	Adults          int            `gorm:"not null"`
	Children        int            `gorm:"not null"`
	RoomCount       int            `gorm:"not null"`
	AddOns          datatypes.JSON `gorm:"not null"`
	GuestName       string         `gorm:"size:255"`
	GuestAge        int            `gorm:"not null"`
	SpecialRequests string         `gorm:"size:1000"`
	Contact         datatypes.JSON `gorm:"not null"`
	PaymentMethod   string         `gorm:"size:30"`
	PaymentLastFour string         `gorm:"size:4"`
	Nights          int            `gorm:"not null"`
	TotalCents      int64          `gorm:"not null"`
	Currency        string         `gorm:"not null;size:3;default:'USD'"`
	BookingDate     time.Time      `gorm:"type:date;not null"`
	Version         int64          `gorm:"not null;default:1"`
	CreatedAt       time.Time      `gorm:"not null;index"`
	UpdatedAt       time.Time      `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// GormBookingRepository is the GORM-based implementation of BookingRepository.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// FindByID retrieves a record by its unique identifier.
func (r *GormBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.Record, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("id = ?", id.String()).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", id.String())
		}
		return nil, fmt.Errorf("failed to find booking by ID: %w", err)
	}
	return toDomainRecord(&model)
}

// FindByNumber retrieves a record by its booking number.
func (r *GormBookingRepository) FindByNumber(ctx context.Context, number string) (*bookingDomain.Record, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("booking_number = ?", number).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", number)
		}
		return nil, fmt.Errorf("failed to find booking by number: %w", err)
	}
	return toDomainRecord(&model)
}

// FindByUserEmail retrieves every record owned by email in insertion order.
func (r *GormBookingRepository) FindByUserEmail(ctx context.Context, email string) ([]*bookingDomain.Record, error) {
	if email == "" {
		return []*bookingDomain.Record{}, nil
	}

	var models []BookingModel
	if err := r.db.WithContext(ctx).
		Where("LOWER(user_email) = LOWER(?)", email).
		Order("created_at ASC").
		Order("booking_number ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find user bookings: %w", err)
	}
	return toDomainRecords(models)
}

// ListAll retrieves all records with pagination, newest first (admin).
func (r *GormBookingRepository) ListAll(ctx context.Context, page, limit int) ([]*bookingDomain.Record, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	var models []BookingModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("booking_number DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}

	records, err := toDomainRecords(models)
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// CountByStatus returns record counts grouped by status (admin).
func (r *GormBookingRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}
	var results []statusCount
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).
		Select("status, count(*) as count").
		Group("status").
		Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to count by status: %w", err)
	}

	counts := make(map[string]int64)
	for _, sc := range results {
		counts[sc.Status] = sc.Count
	}
	return counts, nil
}

// Save appends a new record.
func (r *GormBookingRepository) Save(ctx context.Context, rec *bookingDomain.Record) error {
	model, err := toBookingModel(rec)
	if err != nil {
		return fmt.Errorf("failed to convert booking to model: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.NewConflictError(fmt.Sprintf("booking %s already exists", rec.BookingNumber()))
		}
		return fmt.Errorf("failed to save booking: %w", err)
	}
	return nil
}

// Update persists a status change with optimistic locking. The caller has
// already called IncrementVersion, so the stored row must be one behind.
func (r *GormBookingRepository) Update(ctx context.Context, rec *bookingDomain.Record) error {
	expectedVersion := rec.Version() - 1
	result := r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Where("id = ? AND version = ?", rec.ID().String(), expectedVersion).
		Updates(map[string]interface{}{
			"status":     string(rec.Status()),
			"version":    rec.Version(),
			"updated_at": rec.UpdatedAt(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update booking: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return domain.NewConflictError("booking was modified by another transaction")
	}

	return nil
}

// --- Conversion Helpers ---

func toBookingModel(rec *bookingDomain.Record) (*BookingModel, error) {
	d := rec.Draft()

	roomJSON, err := json.Marshal(d.Room)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal room: %w", err)
	}

	addOnsJSON, err := json.Marshal(d.AddOns())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal add-ons: %w", err)
	}

	contactJSON, err := json.Marshal(rec.Contact())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal contact: %w", err)
	}

	return &BookingModel{
		ID:              rec.ID(),
		BookingNumber:   rec.BookingNumber(),
		UserEmail:       rec.UserEmail(),
		UserName:        rec.UserName(),
		Status:          string(rec.Status()),
		RoomID:          d.Room.ID,
		Room:            datatypes.JSON(roomJSON),
		CheckIn:         datePtr(d.CheckIn),
		CheckOut:        datePtr(d.CheckOut),
		Adults:          d.Adults,
		Children:        d.Children,
		RoomCount:       d.RoomCount,
		AddOns:          datatypes.JSON(addOnsJSON),
		GuestName:       d.GuestName,
		GuestAge:        d.GuestAge,
		SpecialRequests: d.SpecialRequests,
		Contact:         datatypes.JSON(contactJSON),
		PaymentMethod:   rec.Payment().Method,
		PaymentLastFour: rec.Payment().LastFour,
		Nights:          rec.Nights(),
		TotalCents:      rec.TotalCents(),
		Currency:        domain.CurrencyUSD,
		BookingDate:     rec.BookingDate().Time(),
		Version:         rec.Version(),
		CreatedAt:       rec.CreatedAt(),
		UpdatedAt:       rec.UpdatedAt(),
	}, nil
}

func toDomainRecord(m *BookingModel) (*bookingDomain.Record, error) {
	var room bookingDomain.RoomSnapshot
	if err := json.Unmarshal(m.Room, &room); err != nil {
		return nil, fmt.Errorf("failed to unmarshal room: %w", err)
	}

	var addOns bookingDomain.AddOns
	if err := json.Unmarshal(m.AddOns, &addOns); err != nil {
		return nil, fmt.Errorf("failed to unmarshal add-ons: %w", err)
	}

	var contact bookingDomain.GuestContact
	if err := json.Unmarshal(m.Contact, &contact); err != nil {
		return nil, fmt.Errorf("failed to unmarshal contact: %w", err)
	}

	status, err := bookingDomain.ParseBookingStatus(m.Status)
	if err != nil {
		return nil, err
	}

	draft := bookingDomain.Draft{
		Room:            room,
		CheckIn:         dateFromPtr(m.CheckIn),
		CheckOut:        dateFromPtr(m.CheckOut),
		Adults:          m.Adults,
		Children:        m.Children,
		RoomCount:       m.RoomCount,
		FoodService:     addOns.FoodService,
		SpaService:      addOns.SpaService,
		AirportPickup:   addOns.AirportPickup,
		GuestName:       m.GuestName,
		GuestAge:        m.GuestAge,
		SpecialRequests: m.SpecialRequests,
		TotalCents:      m.TotalCents,
	}

	return bookingDomain.ReconstructRecord(
		m.ID,
		m.BookingNumber,
		m.UserEmail,
		m.UserName,
		status,
		draft,
		m.Nights,
		contact,
		bookingDomain.PaymentSummary{Method: m.PaymentMethod, LastFour: m.PaymentLastFour},
		bookingDomain.NewDate(m.BookingDate),
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}

func toDomainRecords(models []BookingModel) ([]*bookingDomain.Record, error) {
	records := make([]*bookingDomain.Record, len(models))
	for i := range models {
		rec, err := toDomainRecord(&models[i])
		if err != nil {
			return nil, err
		}
		records[i] = rec
	}
	return records, nil
}

func datePtr(d bookingDomain.Date) *time.Time {
	if d.IsZero() {
		return nil
	}
	t := d.Time()
	return &t
}

func dateFromPtr(t *time.Time) bookingDomain.Date {
	if t == nil {
		return bookingDomain.Date{}
	}
	return bookingDomain.NewDate(*t)
}
