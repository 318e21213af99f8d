package slot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/ccs-paris/CCS-SchedulingService/internal/domain"
	"github.com/ccs-paris/CCS-SchedulingService/pkg/dbmetrics"
	"github.com/ccs-paris/CCS-SchedulingService/pkg/psqlbuilder"
	"github.com/ccs-paris/CCS-SchedulingService/pkg/types"
)

// pgUniqueViolation код ошибки PostgreSQL для нарушения уникального индекса
const pgUniqueViolation = "23505"

const slotColumns = "id, date, start_time, end_time, status, booking_id, notes, created_at, updated_at"

// Repository репозиторий для работы с записями слотов.
// Запись слота существует только для дат, отклоняющихся от дефолтной
// доступности (блокировка или бронирование); отсутствие записи означает
// implicit available.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория слотов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую запись слота.
// При конкурентной вставке той же пары (date, start_time) уникальный индекс
// отклоняет проигравшего с ErrSlotAlreadyExists.
func (r *Repository) Create(ctx context.Context, record *domain.SlotRecord) (*domain.SlotRecord, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("time_slots").
		Columns(
			"date",
			"start_time",
			"end_time",
			"status",
			"booking_id",
			"notes",
		).
		Values(
			record.Date,
			record.StartTime,
			record.EndTime,
			record.Status,
			record.BookingID,
			record.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&record.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrSlotAlreadyExists
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	record.CreatedAt = createdAt.Time
	record.UpdatedAt = updatedAt.Time

	return record, nil
}

// GetByDateRange получает все записи слотов за период [start, end] включительно.
// Сортировка по дате и времени начала.
func (r *Repository) GetByDateRange(ctx context.Context, start, end time.Time) ([]*domain.SlotRecord, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(slotColumns).
		From("time_slots").
		Where(squirrel.GtOrEq{"date": start}).
		Where(squirrel.LtOrEq{"date": end}).
		OrderBy("date ASC, start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByDateRange - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByDateRange - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanSlots(rows)
}

// GetByDateAndStart получает запись слота по ключу уникальности (date, start_time).
// Внутри транзакции строка блокируется (FOR UPDATE) — это опора
// check-then-act последовательности аллокатора.
func (r *Repository) GetByDateAndStart(ctx context.Context, date time.Time, startTime types.TimeString) (*domain.SlotRecord, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(slotColumns).
		From("time_slots").
		Where(squirrel.Eq{"date": date}).
		Where(squirrel.Eq{"start_time": startTime})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByDateAndStart - build select query: %v", ErrBuildQuery, err)
	}

	record, err := r.scanSlot(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByDateAndStart - scan slot: %v", ErrScanRow, err)
	}

	return record, nil
}

// UpdateStatus обновляет статус записи слота и связанную заявку.
// bookingID = nil отвязывает заявку (например, при освобождении слота).
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.SlotStatus, bookingID *int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("time_slots").
		Set("status", status).
		Set("booking_id", bookingID).
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
		return ErrSlotNotFound
	}

	return nil
}

// UpdateStatusAndNotes обновляет статус и заметки записи слота (админ-операция)
func (r *Repository) UpdateStatusAndNotes(ctx context.Context, id int64, status domain.SlotStatus, notes *string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("time_slots").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id})

	// Пустые заметки не затирают существующие
	if notes != nil {
		updateBuilder = updateBuilder.Set("notes", *notes)
	}
	// Освобожденный или заблокированный слот не должен ссылаться на заявку
	if status == domain.SlotAvailable || status == domain.SlotBlocked {
		updateBuilder = updateBuilder.Set("booking_id", nil)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatusAndNotes - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatusAndNotes - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatusAndNotes - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrSlotNotFound
	}

	return nil
}

// ConfirmByBookingID переводит все ожидающие слоты заявки в confirmed.
// Используется при подтверждении заявки персоналом.
func (r *Repository) ConfirmByBookingID(ctx context.Context, bookingID int64) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("time_slots").
		Set("status", domain.SlotConfirmed).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"booking_id": bookingID}).
		Where(squirrel.Eq{"status": domain.SlotPending}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: ConfirmByBookingID - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: ConfirmByBookingID - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: ConfirmByBookingID - get rows affected: %v", ErrExecQuery, err)
	}

	return rowsAffected, nil
}

// ReleaseByBookingID освобождает все слоты, занятые заявкой.
// Используется при отмене заявки. Заблокированные админом слоты не трогаем.
func (r *Repository) ReleaseByBookingID(ctx context.Context, bookingID int64) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("time_slots").
		Set("status", domain.SlotAvailable).
		Set("booking_id", nil).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"booking_id": bookingID}).
		Where(squirrel.Eq{"status": []domain.SlotStatus{domain.SlotPending, domain.SlotConfirmed}}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: ReleaseByBookingID - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: ReleaseByBookingID - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: ReleaseByBookingID - get rows affected: %v", ErrExecQuery, err)
	}

	return rowsAffected, nil
}

// scanSlot сканирует одну строку в запись слота
func (r *Repository) scanSlot(row *sql.Row) (*domain.SlotRecord, error) {
	var record domain.SlotRecord
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&record.ID,
		&record.Date,
		&record.StartTime,
		&record.EndTime,
		&record.Status,
		&record.BookingID,
		&record.Notes,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	record.CreatedAt = createdAt.Time
	record.UpdatedAt = updatedAt.Time

	return &record, nil
}

// scanSlots сканирует результаты запроса в слайс записей слотов
func (r *Repository) scanSlots(rows *sql.Rows) ([]*domain.SlotRecord, error) {
	records := make([]*domain.SlotRecord, 0)

	for rows.Next() {
		var record domain.SlotRecord
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&record.ID,
			&record.Date,
			&record.StartTime,
			&record.EndTime,
			&record.Status,
			&record.BookingID,
			&record.Notes,
			&createdAt,
			&updatedAt,
		)

		if err != nil {
			return nil, fmt.Errorf("%w: scanSlots - scan row: %v", ErrScanRow, err)
		}

		record.CreatedAt = createdAt.Time
		record.UpdatedAt = updatedAt.Time

		records = append(records, &record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanSlots - rows error: %v", ErrScanRow, err)
	}

	return records, nil
}

// isUniqueViolation проверяет нарушение уникального индекса (date, start_time)
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pgUniqueViolation
	}
	return false
}
