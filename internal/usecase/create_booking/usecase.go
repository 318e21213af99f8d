package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/ccs-paris/CCS-SchedulingService/internal/domain"
	slotRepo "github.com/ccs-paris/CCS-SchedulingService/internal/infra/storage/slot"
	catalogClient "github.com/ccs-paris/CCS-SchedulingService/internal/integrations/catalogservice"
)

// UseCase use case для создания заявки на уборку
type UseCase struct {
	slotRepo        SlotRepository
	bookingRepo     BookingRepository
	catalogClient   CatalogServiceClient
	cache           Cache
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
	leadTimeMinutes int
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotRepository SlotRepository,
	bookingRepo BookingRepository,
	catalogSvc CatalogServiceClient,
	cache Cache,
	txManager TransactionManager,
	leadTimeMinutes int,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotRepo:        slotRepository,
		bookingRepo:     bookingRepo,
		catalogClient:   catalogSvc,
		cache:           cache,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
		leadTimeMinutes: leadTimeMinutes,
	}
}

// Execute выполняет use case создания заявки.
// Захват слотов идет в сериализуемой транзакции: заявка либо получает
// все запрошенные слоты, либо не получает ни одного.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: email=%s, primary=%s, secondaries=%d, slots=%d",
		req.Email, req.PrimaryService.ServiceID, len(req.SecondaryServices), len(req.TimeSlots))

	// Фронт присылает невыбранные опции с нулевым количеством
	req.SecondaryServices = dropEmptyLines(req.SecondaryServices)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Валидация слотов против дневного расписания и временных ограничений
	slots, err := validateSlots(req.TimeSlots, now, uc.leadTimeMinutes)
	if err != nil {
		uc.logger.Warn("CreateBooking: slot validation failed: %v", err)
		return nil, err
	}

	// 4. Разрешаем цены из каталога. Цена обязана разрешиться для каждой
	// строки — заявка с неполной ценой не создается.
	primary, err := uc.resolveLine(ctx, req.PrimaryService, 0)
	if err != nil {
		return nil, err
	}

	// Скидка на дополнительные услуги одна для всех строк
	discount := uc.catalogClient.GetDiscountPercent(ctx)

	secondaries := make([]domain.ServiceLine, 0, len(req.SecondaryServices))
	for _, line := range req.SecondaryServices {
		resolved, err := uc.resolveLine(ctx, line, discount)
		if err != nil {
			return nil, err
		}
		secondaries = append(secondaries, resolved)
	}

	// 5. Считаем итог. Сумма клиента игнорируется, расхождение — повод
	// посмотреть на фронтовый калькулятор, но не причина отказа.
	total := domain.ComputeTotal(
		domain.PriceLine{UnitPrice: primary.UnitPrice, Quantity: primary.Quantity},
		priceLines(secondaries),
		discount,
	)
	if req.TotalAmount != nil && domain.Round2(*req.TotalAmount) != total {
		uc.logger.Warn("CreateBooking: client total %.2f differs from computed %.2f", *req.TotalAmount, total)
	}

	booking := &domain.Booking{
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		Email:             req.Email,
		Phone:             req.Phone,
		Address:           req.Address,
		PrimaryService:    primary,
		SecondaryServices: secondaries,
		TimeSlots:         slots,
		TotalAmount:       total,
		DiscountPercent:   discount,
		Message:           req.Message,
		Photos:            req.Photos,
		Status:            domain.BookingPending,
	}

	// 6. Захватываем слоты и создаем заявку атомарно
	var result *domain.Booking
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		created, err := uc.claimSlotsAndCreate(txCtx, booking, slots)
		if err != nil {
			return err
		}
		result = created
		return nil
	})
	if err != nil {
		var conflict *SlotsConflictError
		if errors.As(err, &conflict) {
			uc.logger.Warn("CreateBooking: rejected, %d conflicting slot(s)", len(conflict.Slots))
		}
		return nil, err
	}

	// 7. Слоты изменились — материализованная доступность устарела
	if err := uc.cache.Invalidate(ctx); err != nil {
		uc.logger.Warn("CreateBooking: cache invalidation failed: %v", err)
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d, total=%.2f", result.ID, result.TotalAmount)

	return &Response{
		ID:                result.ID,
		FirstName:         result.FirstName,
		LastName:          result.LastName,
		Email:             result.Email,
		Phone:             result.Phone,
		Address:           result.Address,
		PrimaryService:    result.PrimaryService,
		SecondaryServices: result.SecondaryServices,
		TimeSlots:         result.TimeSlots,
		TotalAmount:       result.TotalAmount,
		DiscountPercent:   result.DiscountPercent,
		Message:           result.Message,
		Photos:            result.Photos,
		Status:            result.Status,
		CreatedAt:         result.CreatedAt,
		UpdatedAt:         result.UpdatedAt,
	}, nil
}

// claimSlotsAndCreate проверяет и захватывает слоты внутри транзакции.
// Сначала все слоты читаются с блокировкой строк и собираются конфликты:
// клиент получает полный список занятых слотов, а не первый попавшийся.
func (uc *UseCase) claimSlotsAndCreate(
	txCtx context.Context,
	booking *domain.Booking,
	slots []domain.BookingSlot,
) (*domain.Booking, error) {
	records := make([]*domain.SlotRecord, len(slots))
	conflicts := make([]domain.BookingSlot, 0)

	for i, s := range slots {
		rec, err := uc.slotRepo.GetByDateAndStart(txCtx, s.Date, s.StartTime)
		if err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				continue // записи нет — слот неявно доступен
			}
			uc.logger.Error("CreateBooking: failed to get slot %s %s: %v", s.Date.Format(domain.DateFormat), s.StartTime, err)
			return nil, fmt.Errorf("%w: failed to get slot: %v", ErrInternal, err)
		}

		if rec.Status != domain.SlotAvailable {
			conflicts = append(conflicts, s)
			continue
		}
		records[i] = rec
	}

	if len(conflicts) > 0 {
		return nil, &SlotsConflictError{Slots: conflicts}
	}

	created, err := uc.bookingRepo.Create(txCtx, booking)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to create booking: %v", err)
		return nil, fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
	}

	for i, s := range slots {
		if rec := records[i]; rec != nil {
			if err := uc.slotRepo.UpdateStatus(txCtx, rec.ID, domain.SlotPending, &created.ID); err != nil {
				uc.logger.Error("CreateBooking: failed to claim slot id=%d: %v", rec.ID, err)
				return nil, fmt.Errorf("%w: failed to claim slot: %v", ErrInternal, err)
			}
			continue
		}

		_, err := uc.slotRepo.Create(txCtx, &domain.SlotRecord{
			Date:      s.Date,
			StartTime: s.StartTime,
			EndTime:   s.EndTime,
			Status:    domain.SlotPending,
			BookingID: &created.ID,
		})
		if err != nil {
			// Уникальный индекс (date, start_time) — арбитр гонки:
			// конкурент успел вставить запись между нашим чтением и INSERT
			if errors.Is(err, slotRepo.ErrSlotAlreadyExists) {
				return nil, &SlotsConflictError{Slots: []domain.BookingSlot{s}}
			}
			uc.logger.Error("CreateBooking: failed to create slot record: %v", err)
			return nil, fmt.Errorf("%w: failed to create slot record: %v", ErrInternal, err)
		}
	}

	return created, nil
}

// resolveLine разрешает строку заказа через каталог CMS
func (uc *UseCase) resolveLine(ctx context.Context, line RequestLine, discount float64) (domain.ServiceLine, error) {
	service, price, err := uc.catalogClient.ResolveUnitPrice(ctx, line.ServiceID)
	if err != nil {
		switch {
		case errors.Is(err, catalogClient.ErrServiceNotFound):
			uc.logger.Warn("CreateBooking: service id=%s not found", line.ServiceID)
			return domain.ServiceLine{}, fmt.Errorf("%w: %s", ErrServiceNotFound, line.ServiceID)
		case errors.Is(err, catalogClient.ErrPriceNotConfigured):
			uc.logger.Warn("CreateBooking: service id=%s has no resolvable price", line.ServiceID)
			return domain.ServiceLine{}, fmt.Errorf("%w: %s", ErrPriceNotConfigured, line.ServiceID)
		case errors.Is(err, catalogClient.ErrServiceDegraded):
			uc.logger.Error("CreateBooking: catalog is unreachable, cannot resolve price for service id=%s", line.ServiceID)
			return domain.ServiceLine{}, fmt.Errorf("%w: %s", ErrUpstreamUnavailable, line.ServiceID)
		default:
			uc.logger.Error("CreateBooking: failed to resolve price for service id=%s: %v", line.ServiceID, err)
			return domain.ServiceLine{}, fmt.Errorf("%w: failed to resolve price: %v", ErrInternal, err)
		}
	}

	return domain.ServiceLine{
		ServiceID:       service.ID,
		ServiceName:     service.Name,
		Quantity:        line.Quantity,
		UnitPrice:       price,
		DiscountPercent: discount,
	}, nil
}

// priceLines конвертирует строки заказа в вид, понятный прайсингу
func priceLines(lines []domain.ServiceLine) []domain.PriceLine {
	result := make([]domain.PriceLine, len(lines))
	for i, l := range lines {
		result[i] = domain.PriceLine{UnitPrice: l.UnitPrice, Quantity: l.Quantity}
	}
	return result
}
