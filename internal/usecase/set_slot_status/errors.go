package set_slot_status

import "errors"

var (
	// ErrSlotNotInCatalog возвращается, когда время не совпадает
	// ни с одним окном дневного расписания
	ErrSlotNotInCatalog = errors.New("set_slot_status: time is not a catalog slot")

	// ErrInvalidTransition возвращается при недопустимом переходе статуса,
	// например попытке заблокировать слот с активной заявкой
	ErrInvalidTransition = errors.New("set_slot_status: invalid status transition")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("set_slot_status: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("set_slot_status: internal error")
)
