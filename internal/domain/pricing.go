package domain

import "math"

// PriceLine is the pricing engine's view of one service line
type PriceLine struct {
	UnitPrice float64
	Quantity  int
}

// ComputeTotal вычисляет итоговую сумму заказа.
// Основная услуга идет по полной цене, все дополнительные — со скидкой
// discountPercent (одинаковой для всех строк, из настроек сайта).
//
// Суммирование идет в полной точности, округление до 2 знаков — один раз
// в конце, чтобы ошибка округления не накапливалась по строкам.
func ComputeTotal(primary PriceLine, secondaries []PriceLine, discountPercent float64) float64 {
	total := primary.UnitPrice * float64(primary.Quantity)

	multiplier := 1 - discountPercent/100
	for _, line := range secondaries {
		total += line.UnitPrice * multiplier * float64(line.Quantity)
	}

	return Round2(total)
}

// Round2 округляет денежную сумму до 2 знаков после запятой
func Round2(amount float64) float64 {
	return math.Round(amount*100) / 100
}
