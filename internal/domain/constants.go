package domain

// Scheduling defaults
const (
	// DefaultHorizonDays максимальный горизонт выдачи доступности.
	// Отсчитывается от начала периода после приведения к сегодняшней дате.
	DefaultHorizonDays = 30

	// DefaultLeadTimeMinutes минимальный запас до начала слота в день запроса
	DefaultLeadTimeMinutes = 60

	// DefaultDiscountPercent скидка на дополнительные услуги,
	// применяется если настройки сайта недоступны в CMS
	DefaultDiscountPercent = 20.0
)

// Business validation constants
const (
	MinQuantity       = 1
	MaxQuantity       = 50
	MaxSecondaryLines = 20
	MaxSelectedSlots  = 10
	MaxMessageLength  = 2000
	MaxNotesLength    = 500
	MaxPhotos         = 10
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
