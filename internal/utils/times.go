package utils

import (
	"fmt"
	"math"
	"time"

	"goal-path/internal/models"
)

var (
	location *time.Location
)

func init() {
	// Пытаемся загрузить локацию Москвы
	var err error
	location, err = time.LoadLocation("Europe/Moscow")
	if err != nil {
		// Fallback: UTC+3
		location = time.FixedZone("MSK", 3*60*60)
	}
}

// SetLocation задаёт часовой пояс пользователя, в котором считаются календарные дни
func SetLocation(name string) error {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return err
	}
	location = loc
	return nil
}

func Location() *time.Location {
	return location
}

// Now текущее время в часовом поясе пользователя
func Now() time.Time {
	return time.Now().In(location)
}

func DateOf(t time.Time) string {
	return t.In(location).Format(models.DateLayout)
}

func Today() string {
	return DateOf(time.Now())
}

func Tomorrow() string {
	return DateOf(time.Now().AddDate(0, 0, 1))
}

// ParseDate разбирает YYYY-MM-DD как полночь по UTC
func ParseDate(date string) (time.Time, error) {
	return time.Parse(models.DateLayout, date)
}

// AddDays сдвигает дату YYYY-MM-DD на n дней
func AddDays(date string, n int) (string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, n).Format(models.DateLayout), nil
}

// WeekDates семь дат недели, начиная с понедельника
func WeekDates(date string) ([]string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return nil, err
	}
	offset := (int(t.Weekday()) + 6) % 7
	monday := t.AddDate(0, 0, -offset)

	dates := make([]string, 7)
	for i := range dates {
		dates[i] = monday.AddDate(0, 0, i).Format(models.DateLayout)
	}
	return dates, nil
}

// DaysLeft число дней до дедлайна, округлённое вверх; дедлайн это полночь по UTC
func DaysLeft(deadline string, now time.Time) (int, error) {
	d, err := ParseDate(deadline)
	if err != nil {
		return 0, err
	}
	return int(math.Ceil(d.Sub(now).Hours() / 24)), nil
}

var monthsGenitive = [...]string{
	"января", "февраля", "марта", "апреля", "мая", "июня",
	"июля", "августа", "сентября", "октября", "ноября", "декабря",
}

var weekdays = [...]string{
	"воскресенье", "понедельник", "вторник", "среда", "четверг", "пятница", "суббота",
}

// FormatLongDate "31 декабря 2025"
func FormatLongDate(date string) (string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d %s %d", t.Day(), monthsGenitive[t.Month()-1], t.Year()), nil
}

// FormatShortDate "1 июня"
func FormatShortDate(date string) (string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d %s", t.Day(), monthsGenitive[t.Month()-1]), nil
}

// FormatDayHeader "понедельник, 2 июня"
func FormatDayHeader(date string) (string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s, %d %s", weekdays[t.Weekday()], t.Day(), monthsGenitive[t.Month()-1]), nil
}

// IsEvening вечер начинается в 18:00 по времени пользователя
func IsEvening(now time.Time) bool {
	return now.In(location).Hour() >= 18
}

// GetTimezoneInfo возвращает информацию о временной зоне
func GetTimezoneInfo(now time.Time) string {
	nowLocal := now.In(location)

	_, offset := nowLocal.Zone()
	offsetHours := offset / 3600

	return fmt.Sprintf("🕐 Текущее время: %s (UTC%+d)", nowLocal.Format("15:04"), offsetHours)
}
