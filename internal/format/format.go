package format

import (
	"fmt"
	"strings"
	"time"

	"github.com/ivanoskov/fnhub/internal/model"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Formatter выводит суммы, проценты и даты в выбранной локали
type Formatter struct {
	printer     *message.Printer
	symbol      string
	symbolFirst bool
	dateLayout  string
}

// New создает форматтер. locale - BCP 47 тег, code - ISO 4217 код валюты.
func New(locale, code, dateLayout string) (*Formatter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("failed to parse locale %q: %w", locale, err)
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		return nil, fmt.Errorf("failed to parse currency %q: %w", code, err)
	}
	if dateLayout == "" {
		dateLayout = time.DateOnly
	}

	p := message.NewPrinter(tag)
	base, _ := tag.Base()
	return &Formatter{
		printer:     p,
		symbol:      p.Sprint(currency.Symbol(unit)),
		symbolFirst: base.String() == "en",
		dateLayout:  dateLayout,
	}, nil
}

// Money форматирует сумму с двумя знаками и символом валюты
func (f *Formatter) Money(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	amount := f.printer.Sprint(number.Decimal(d.InexactFloat64(), number.Scale(2)))
	if f.symbolFirst {
		return sign + f.symbol + amount
	}
	return sign + amount + " " + f.symbol
}

// SignedMoney как Money, но с явным плюсом для положительных сумм
func (f *Formatter) SignedMoney(d decimal.Decimal) string {
	if d.IsPositive() {
		return "+" + f.Money(d)
	}
	return f.Money(d)
}

// Percent форматирует целый процент
func (f *Formatter) Percent(p int) string {
	return f.printer.Sprintf("%d%%", p)
}

// PercentDecimal форматирует процент с одним знаком после запятой
func (f *Formatter) PercentDecimal(d decimal.Decimal) string {
	return f.printer.Sprint(number.Decimal(d.InexactFloat64(), number.MaxFractionDigits(1))) + "%"
}

func (f *Formatter) Date(d model.Date) string {
	return d.Format(f.dateLayout)
}

func (f *Formatter) Month(k model.MonthKey) string {
	return k.Padded()
}

func (f *Formatter) Symbol() string {
	return f.symbol
}

// Number форматирует число без символа валюты, для подписей осей
func (f *Formatter) Number(v float64) string {
	return strings.TrimSpace(f.printer.Sprint(number.Decimal(v, number.MaxFractionDigits(0))))
}
