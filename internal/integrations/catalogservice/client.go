package catalogservice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/ccs-paris/CCS-SchedulingService/internal/domain"
)

// Client клиент для работы с каталогом услуг CMS
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента каталога
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetService получает услугу каталога по ID
func (c *Client) GetService(ctx context.Context, serviceID string) (*Service, error) {
	reqURL := fmt.Sprintf("%s/api/public/services/%s", c.baseURL, url.PathEscape(serviceID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrServiceDegraded, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusNotFound:
		return nil, fmt.Errorf("%w: service_id=%s", ErrServiceNotFound, serviceID)
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	// Парсим ответ
	var service Service
	if err := json.NewDecoder(resp.Body).Decode(&service); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return &service, nil
}

// ResolveUnitPrice получает услугу и разрешает её цену за единицу.
// Услуга без автоматической цены (pricingType=quote или price не задан) —
// это ErrPriceNotConfigured: цена никогда не подменяется нулем.
func (c *Client) ResolveUnitPrice(ctx context.Context, serviceID string) (*Service, float64, error) {
	service, err := c.GetService(ctx, serviceID)
	if err != nil {
		return nil, 0, err
	}

	if service.PricingType == PricingQuote {
		return nil, 0, fmt.Errorf("%w: service_id=%s is quote-only", ErrPriceNotConfigured, serviceID)
	}
	if service.Price == nil || *service.Price <= 0 {
		return nil, 0, fmt.Errorf("%w: service_id=%s has no price", ErrPriceNotConfigured, serviceID)
	}

	return service, *service.Price, nil
}

// GetDiscountPercent получает процент скидки на дополнительные услуги из настроек сайта.
// При недоступности CMS или отсутствии поля возвращает дефолтную скидку —
// скидка, в отличие от цены, имеет задокументированное значение по умолчанию.
func (c *Client) GetDiscountPercent(ctx context.Context) float64 {
	reqURL := fmt.Sprintf("%s/api/public/site-settings", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		c.log.Error("CMS site-settings request build failed, using default discount: %v", err)
		return domain.DefaultDiscountPercent
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("CMS unavailable, using default discount %.0f%%: %v", domain.DefaultDiscountPercent, err)
		return domain.DefaultDiscountPercent
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Warn("CMS site-settings returned status %d, using default discount", resp.StatusCode)
		return domain.DefaultDiscountPercent
	}

	var settings SiteSettings
	if err := json.NewDecoder(resp.Body).Decode(&settings); err != nil {
		c.log.Warn("CMS site-settings decode failed, using default discount: %v", err)
		return domain.DefaultDiscountPercent
	}

	if settings.AdditionalServiceDiscount == nil {
		return domain.DefaultDiscountPercent
	}

	discount := *settings.AdditionalServiceDiscount
	if discount < 0 || discount > 100 {
		c.log.Warn("CMS returned out-of-range discount %.2f, using default", discount)
		return domain.DefaultDiscountPercent
	}

	return discount
}
