package cache

import "time"

// Clock интерфейс для получения текущего времени (для тестирования TTL)
type Clock interface {
	Now() time.Time
}

// realClock реальные часы для production
type realClock struct{}

// Now возвращает текущее время
func (realClock) Now() time.Time {
	return time.Now()
}

// RealClock возвращает часы на основе time.Now
func RealClock() Clock {
	return realClock{}
}
