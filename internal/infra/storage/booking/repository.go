package booking

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/ccs-paris/CCS-SchedulingService/internal/domain"
	"github.com/ccs-paris/CCS-SchedulingService/pkg/dbmetrics"
	"github.com/ccs-paris/CCS-SchedulingService/pkg/psqlbuilder"
)

const bookingColumns = "id, first_name, last_name, email, phone, address, " +
	"primary_service, secondary_services, time_slots, total_amount, discount_percent, " +
	"message, photos, status, client_notified, created_at, updated_at"

// Repository репозиторий для работы с заявками на бронирование.
// Строки услуг, слоты и фото хранятся в JSONB: это денормализованный
// снимок на момент создания заявки, он не джойнится с живым каталогом.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория заявок
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую заявку. ID и таймстемпы назначает БД.
func (r *Repository) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	primaryJSON, err := json.Marshal(b.PrimaryService)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - marshal primary service: %v", ErrEncode, err)
	}
	secondariesJSON, err := json.Marshal(b.SecondaryServices)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - marshal secondary services: %v", ErrEncode, err)
	}
	slotsJSON, err := json.Marshal(b.TimeSlots)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - marshal time slots: %v", ErrEncode, err)
	}
	photosJSON, err := json.Marshal(b.Photos)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - marshal photos: %v", ErrEncode, err)
	}

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"first_name",
			"last_name",
			"email",
			"phone",
			"address",
			"primary_service",
			"secondary_services",
			"time_slots",
			"total_amount",
			"discount_percent",
			"message",
			"photos",
			"status",
			"client_notified",
		).
		Values(
			b.FirstName,
			b.LastName,
			b.Email,
			b.Phone,
			b.Address,
			primaryJSON,
			secondariesJSON,
			slotsJSON,
			b.TotalAmount,
			b.DiscountPercent,
			b.Message,
			photosJSON,
			b.Status,
			b.ClientNotified,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&b.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time

	return b, nil
}

// GetByID получает заявку по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns).
		From("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	bookings, err := r.scanBookings(rows)
	if err != nil {
		return nil, err
	}
	if len(bookings) == 0 {
		return nil, ErrBookingNotFound
	}

	return bookings[0], nil
}

// GetWithFilter получает заявки с фильтрацией по периоду создания и статусу.
// Сортировка: новые первыми.
func (r *Repository) GetWithFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns).
		From("bookings")

	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"created_at": *filter.StartDate})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"created_at": *filter.EndDate})
	}
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	}

	selectBuilder = selectBuilder.OrderBy("created_at DESC")

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetWithFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// UpdateStatus обновляет статус заявки
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// SetClientNotified отмечает, что клиенту отправлено подтверждение.
// Сама отправка писем — зона ответственности внешнего сервиса рассылки.
func (r *Repository) SetClientNotified(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("client_notified", true).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: SetClientNotified - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: SetClientNotified - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: SetClientNotified - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// scanBookings сканирует результаты запроса в слайс заявок
func (r *Repository) scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		var b domain.Booking
		var createdAt, updatedAt sql.NullTime
		var primaryJSON, secondariesJSON, slotsJSON, photosJSON []byte

		err := rows.Scan(
			&b.ID,
			&b.FirstName,
			&b.LastName,
			&b.Email,
			&b.Phone,
			&b.Address,
			&primaryJSON,
			&secondariesJSON,
			&slotsJSON,
			&b.TotalAmount,
			&b.DiscountPercent,
			&b.Message,
			&photosJSON,
			&b.Status,
			&b.ClientNotified,
			&createdAt,
			&updatedAt,
		)

		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}

		if err := json.Unmarshal(primaryJSON, &b.PrimaryService); err != nil {
			return nil, fmt.Errorf("%w: scanBookings - unmarshal primary service: %v", ErrScanRow, err)
		}
		if err := json.Unmarshal(secondariesJSON, &b.SecondaryServices); err != nil {
			return nil, fmt.Errorf("%w: scanBookings - unmarshal secondary services: %v", ErrScanRow, err)
		}
		if err := json.Unmarshal(slotsJSON, &b.TimeSlots); err != nil {
			return nil, fmt.Errorf("%w: scanBookings - unmarshal time slots: %v", ErrScanRow, err)
		}
		if err := json.Unmarshal(photosJSON, &b.Photos); err != nil {
			return nil, fmt.Errorf("%w: scanBookings - unmarshal photos: %v", ErrScanRow, err)
		}

		b.CreatedAt = createdAt.Time
		b.UpdatedAt = updatedAt.Time

		bookings = append(bookings, &b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}
