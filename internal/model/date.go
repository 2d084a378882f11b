package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Date календарная дата без времени, всегда в UTC
type Date struct {
	time.Time
}

// NewDate создает дату из года, месяца и дня
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf отбрасывает время суток, сохраняя календарную дату в исходной зоне
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate разбирает дату в формате YYYY-MM-DD
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: date %q: %v", ErrInvalidInput, s, err)
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(text []byte) error {
	parsed, err := ParseDate(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalJSON перекрывает метод time.Time, чтобы дата сериализовалась как YYYY-MM-DD
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: date must be a string: %v", ErrInvalidInput, err)
	}
	return d.UnmarshalText([]byte(s))
}

// MonthKey ключ календарного месяца, по которому соединяются транзакции, бюджеты и агрегаты
type MonthKey struct {
	Year  int
	Month time.Month
}

// MonthOf возвращает ключ месяца для даты
func MonthOf(t time.Time) MonthKey {
	return MonthKey{Year: t.Year(), Month: t.Month()}
}

// ParseMonthKey принимает "M/YYYY" и "MM/YYYY"
func ParseMonthKey(s string) (MonthKey, error) {
	monthPart, yearPart, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok {
		return MonthKey{}, fmt.Errorf("%w: month key %q: expected M/YYYY", ErrInvalidInput, s)
	}
	if !isDigits(monthPart) || len(monthPart) > 2 {
		return MonthKey{}, fmt.Errorf("%w: month key %q: bad month", ErrInvalidInput, s)
	}
	month, err := strconv.Atoi(monthPart)
	if err != nil || month < 1 || month > 12 {
		return MonthKey{}, fmt.Errorf("%w: month key %q: month out of range", ErrInvalidInput, s)
	}
	year, err := strconv.Atoi(yearPart)
	if err != nil || len(yearPart) != 4 || !isDigits(yearPart) {
		return MonthKey{}, fmt.Errorf("%w: month key %q: bad year", ErrInvalidInput, s)
	}
	return MonthKey{Year: year, Month: time.Month(month)}, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// String возвращает форму без ведущего нуля, используемую как ключ: "3/2024"
func (k MonthKey) String() string {
	return fmt.Sprintf("%d/%d", int(k.Month), k.Year)
}

// Padded возвращает форму для отображения: "03/2024"
func (k MonthKey) Padded() string {
	return fmt.Sprintf("%02d/%d", int(k.Month), k.Year)
}

func (k MonthKey) Before(other MonthKey) bool {
	if k.Year != other.Year {
		return k.Year < other.Year
	}
	return k.Month < other.Month
}

func (k MonthKey) IsZero() bool {
	return k.Year == 0 && k.Month == 0
}

// Start возвращает первый день месяца
func (k MonthKey) Start() time.Time {
	return time.Date(k.Year, k.Month, 1, 0, 0, 0, 0, time.UTC)
}

func (k MonthKey) Contains(t time.Time) bool {
	return t.Year() == k.Year && t.Month() == k.Month
}

func (k MonthKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *MonthKey) UnmarshalText(text []byte) error {
	parsed, err := ParseMonthKey(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
