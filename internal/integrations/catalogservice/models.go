package catalogservice

// PricingType способ ценообразования услуги в CMS
type PricingType string

const (
	PricingFixed        PricingType = "fixed"         // фиксированная цена
	PricingPerArea      PricingType = "per_area"      // цена за м²
	PricingMinimumPrice PricingType = "minimum_price" // цена "от"
	PricingQuote        PricingType = "quote"         // только по запросу, без автоматической цены
)

// Service модель услуги из каталога CMS.
// Ядро рассматривает услугу как непрозрачную позицию с ценой:
// нужны только ID, имя для денормализации и разрешенная unit price.
type Service struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Slug        string      `json:"slug"`
	PricingType PricingType `json:"pricingType"`
	Price       *float64    `json:"price"`
}

// SiteSettings настройки сайта из CMS
type SiteSettings struct {
	AdditionalServiceDiscount *float64 `json:"additionalServiceDiscount"`
}

// ErrorResponse модель ошибки от CMS
type ErrorResponse struct {
	Error string `json:"error"`
}
