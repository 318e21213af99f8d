package slot

import "errors"

var (
	// ErrSlotNotFound возвращается, когда запись слота не найдена
	ErrSlotNotFound = errors.New("slot.repository: slot not found")

	// ErrSlotAlreadyExists возвращается, когда запись (date, start_time) уже существует.
	// Уникальный индекс БД — единственный арбитр гонки за один и тот же слот:
	// проигравший конкурентный INSERT получает эту ошибку, а не перезаписывает победителя.
	ErrSlotAlreadyExists = errors.New("slot.repository: slot already exists for date and start time")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("slot.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("slot.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("slot.repository: failed to scan row")
)
