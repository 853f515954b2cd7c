// Package money converts base-currency amounts to the display currency and
// formats them for a locale.
package money

import (
	"errors"
	"fmt"
	"math"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Defaults match the catalog: prices are stored in EUR and shown in COP.
const (
	DefaultExchangeRate         = 4500
	DefaultLocale               = "es-CO"
	DefaultCurrency             = "COP"
	DefaultMonthlyPaymentFactor = 0.022
)

// ErrInvalidRate is returned when the exchange rate is not positive.
var ErrInvalidRate = errors.New("exchange rate must be positive")

// Converter turns base-currency amounts into formatted display strings.
// It is immutable and safe for concurrent use.
type Converter struct {
	rate          float64
	monthlyFactor float64
	tag           language.Tag
	unit          currency.Unit
	printer       *message.Printer
	symbolAfter   bool
}

// Option applies a configuration option to the Converter.
type Option func(*settings)

type settings struct {
	rate          float64
	monthlyFactor float64
	locale        string
	code          string
}

// WithExchangeRate sets the base -> display conversion factor.
func WithExchangeRate(rate float64) Option {
	return func(s *settings) { s.rate = rate }
}

// WithLocale sets the BCP 47 locale used for grouping and symbols.
func WithLocale(locale string) Option {
	return func(s *settings) {
		if locale != "" {
			s.locale = locale
		}
	}
}

// WithCurrency sets the ISO 4217 display currency.
func WithCurrency(code string) Option {
	return func(s *settings) {
		if code != "" {
			s.code = code
		}
	}
}

// WithMonthlyPaymentFactor sets the share of the price shown as a monthly estimate.
func WithMonthlyPaymentFactor(f float64) Option {
	return func(s *settings) {
		if f > 0 {
			s.monthlyFactor = f
		}
	}
}

// New builds a Converter. It fails on a non-positive rate, an unparsable
// locale, or an unknown currency code.
func New(opts ...Option) (*Converter, error) {
	s := settings{
		rate:          DefaultExchangeRate,
		monthlyFactor: DefaultMonthlyPaymentFactor,
		locale:        DefaultLocale,
		code:          DefaultCurrency,
	}
	for _, opt := range opts {
		opt(&s)
	}

	if !(s.rate > 0) || math.IsInf(s.rate, 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRate, s.rate)
	}
	tag, err := language.Parse(s.locale)
	if err != nil {
		return nil, fmt.Errorf("parse locale %q: %w", s.locale, err)
	}
	unit, err := currency.ParseISO(s.code)
	if err != nil {
		return nil, fmt.Errorf("parse currency %q: %w", s.code, err)
	}

	return &Converter{
		rate:          s.rate,
		monthlyFactor: s.monthlyFactor,
		tag:           tag,
		unit:          unit,
		printer:       message.NewPrinter(tag),
		symbolAfter:   symbolAfter(tag),
	}, nil
}

// MustNew is New for package-level defaults; it panics on error.
func MustNew(opts ...Option) *Converter {
	c, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// Convert returns the base amount in display currency, rounded to a whole unit.
// NaN is treated as zero.
func (c *Converter) Convert(base float64) float64 {
	if math.IsNaN(base) {
		return 0
	}
	return math.Round(base * c.rate)
}

// Format renders a display-currency amount with the locale's currency symbol
// and grouping, and zero fractional digits. The symbol goes before or after
// the amount as the locale writes it.
func (c *Converter) Format(display float64) string {
	symbol := c.printer.Sprint(currency.Symbol(c.unit))
	amount := c.printer.Sprint(number.Decimal(math.Round(display), number.MaxFractionDigits(0)))
	if c.symbolAfter {
		return amount + " " + symbol
	}
	return symbol + " " + amount
}

// suffixLanguages write currency amounts as "1.234 €" (CLDR standard
// currency pattern with a trailing symbol).
var suffixLanguages = map[string]bool{
	"bg": true, "ca": true, "cs": true, "da": true, "de": true, "el": true,
	"et": true, "eu": true, "fi": true, "fr": true, "gl": true, "hr": true,
	"hu": true, "it": true, "lt": true, "lv": true, "nb": true, "no": true,
	"pl": true, "ro": true, "ru": true, "sk": true, "sl": true, "sv": true,
	"uk": true,
}

// symbolAfter reports whether tag places the currency symbol after the
// amount. Spanish and Portuguese depend on the region: Spain and Portugal
// suffix, the Americas prefix. Swiss and Liechtenstein variants prefix.
func symbolAfter(tag language.Tag) bool {
	base, _ := tag.Base()
	region, _ := tag.Region()
	switch base.String() {
	case "es":
		return region.String() == "ES"
	case "pt":
		return region.String() == "PT"
	}
	if r := region.String(); r == "CH" || r == "LI" {
		return false
	}
	return suffixLanguages[base.String()]
}

// FormatBase converts then formats a base-currency amount.
func (c *Converter) FormatBase(base float64) string {
	return c.Format(c.Convert(base))
}

// Monthly returns the display-currency monthly estimate for a base price.
func (c *Converter) Monthly(base float64) float64 {
	return math.Round(c.Convert(base) * c.monthlyFactor)
}

// Unit returns the ISO code of the display currency.
func (c *Converter) Unit() string {
	return c.unit.String()
}

// Locale returns the formatting locale.
func (c *Converter) Locale() string {
	return c.tag.String()
}
