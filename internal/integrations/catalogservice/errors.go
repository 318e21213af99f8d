package catalogservice

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена в каталоге CMS
	ErrServiceNotFound = errors.New("catalogservice client: service not found")

	// ErrPriceNotConfigured возвращается, когда у услуги нет разрешимой цены.
	// Отсутствующая цена — жесткая ошибка валидации, а не молчаливый ноль:
	// заявка с нулевой строкой никогда не должна попасть в БД.
	ErrPriceNotConfigured = errors.New("catalogservice client: service has no resolvable price")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("catalogservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от CMS
	ErrInvalidResponse = errors.New("catalogservice client: invalid response")

	// ErrServiceDegraded возвращается, когда CMS недоступна.
	// Для цен это фатально; для скидки вызывающая сторона может
	// использовать дефолтное значение.
	ErrServiceDegraded = errors.New("catalogservice unavailable: graceful degradation applied")
)
