package utils

import (
	"testing"
	"time"

	"goal-path/internal/models"
)

func TestWeekDatesStartOnMonday(t *testing.T) {
	dates, err := WeekDates("2025-06-01") // воскресенье
	if err != nil {
		t.Fatal(err)
	}
	if len(dates) != 7 || dates[0] != "2025-05-26" || dates[6] != "2025-06-01" {
		t.Errorf("WeekDates = %v", dates)
	}
}

func TestDaysLeft(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		deadline string
		want     int
	}{
		{"2025-12-31", 213},
		{"2025-06-02", 1},
		{"2025-06-01", 0},
		{"2025-05-01", -30},
	}
	for _, tt := range tests {
		got, err := DaysLeft(tt.deadline, now)
		if err != nil {
			t.Fatal(err)
		}
		if got != tt.want {
			t.Errorf("DaysLeft(%s) = %d, want %d", tt.deadline, got, tt.want)
		}
	}
	if _, err := DaysLeft("не дата", now); err == nil {
		t.Error("expected error for malformed deadline")
	}
}

func TestFormatDates(t *testing.T) {
	long, err := FormatLongDate("2025-12-31")
	if err != nil || long != "31 декабря 2025" {
		t.Errorf("FormatLongDate = %q, %v", long, err)
	}
	header, err := FormatDayHeader("2025-06-02")
	if err != nil || header != "понедельник, 2 июня" {
		t.Errorf("FormatDayHeader = %q, %v", header, err)
	}
}

func TestParseStatus(t *testing.T) {
	tests := map[string]models.Status{
		"completed":  models.Completed,
		"Завершено":  models.Completed,
		"в процессе": models.InProgress,
		"отложено":   models.Postponed,
	}
	for in, want := range tests {
		got, ok := ParseStatus(in)
		if !ok || got != want {
			t.Errorf("ParseStatus(%q) = %q, %v", in, got, ok)
		}
	}
	if _, ok := ParseStatus("готово"); ok {
		t.Error("unknown status accepted")
	}
}

func TestGetTimezoneInfo(t *testing.T) {
	got := GetTimezoneInfo(time.Date(2025, 6, 1, 7, 5, 0, 0, time.UTC))
	if got != "🕐 Текущее время: 10:05 (UTC+3)" {
		t.Errorf("GetTimezoneInfo = %q", got)
	}
}
