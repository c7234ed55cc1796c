package msgformat

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// FormatOptions configures one number or date format. A format table maps
// style names used in messages ("{price, number, money}") to options.
type FormatOptions struct {
	// Style is "decimal", "integer", "percent" or "currency" for numbers and
	// "short", "medium", "long" or "full" for dates.
	Style string `yaml:"style" json:"style"`
	// Currency is the ISO 4217 code used by the currency style.
	Currency string `yaml:"currency,omitempty" json:"currency,omitempty"`
	// MaxFractionDigits limits fraction digits for decimal output when
	// positive.
	MaxFractionDigits int `yaml:"max_fraction_digits,omitempty" json:"max_fraction_digits,omitempty"`
	// Layout is a Go time layout that overrides Style for dates.
	Layout string `yaml:"layout,omitempty" json:"layout,omitempty"`
}

// Formatter formats values for Format tokens of kind "number" and "date".
// It reports false when it cannot format the value.
type Formatter interface {
	Format(locale, kind string, value any, opts FormatOptions) (string, bool)
}

// Func is a caller-supplied formatting function for a custom format kind.
type Func func(locale string, value any, style string) string

// TextFormatter formats numbers through golang.org/x/text and dates through
// per-language layouts.
type TextFormatter struct{}

// Format implements Formatter.
func (TextFormatter) Format(locale, kind string, value any, opts FormatOptions) (string, bool) {
	switch kind {
	case "number":
		return formatNumber(locale, value, opts)
	case "date", "time":
		t, ok := toTime(value)
		if !ok {
			return "", false
		}
		return t.Format(dateLayout(locale, kind, opts)), true
	}
	return "", false
}

func printer(locale string) *message.Printer {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.Und
	}
	return message.NewPrinter(tag)
}

func formatNumber(locale string, value any, opts FormatOptions) (string, bool) {
	v, ok := toFloat(value)
	if !ok {
		return "", false
	}
	p := printer(locale)

	switch opts.Style {
	case "integer":
		return p.Sprint(number.Decimal(math.Round(v), number.MaxFractionDigits(0))), true
	case "percent":
		return p.Sprint(number.Percent(v)), true
	case "currency":
		unit, err := currency.ParseISO(opts.Currency)
		if err != nil {
			return "", false
		}
		return p.Sprint(currency.Symbol(unit.Amount(v))), true
	}

	if opts.MaxFractionDigits > 0 {
		return p.Sprint(number.Decimal(v, number.MaxFractionDigits(opts.MaxFractionDigits))), true
	}
	return p.Sprint(number.Decimal(v)), true
}

// shortLayouts holds numeric date layouts by base language.
var shortLayouts = map[string]string{
	"en": "1/2/06",
	"de": "02.01.06",
	"ru": "02.01.2006",
	"uk": "02.01.2006",
	"pl": "02.01.2006",
	"fr": "02/01/2006",
	"es": "2/1/06",
	"it": "02/01/06",
	"pt": "02/01/2006",
	"nl": "02-01-2006",
	"ja": "2006/01/02",
	"zh": "2006/1/2",
	"ko": "06. 1. 2.",
}

func dateLayout(locale, kind string, opts FormatOptions) string {
	if opts.Layout != "" {
		return opts.Layout
	}
	if kind == "time" {
		switch opts.Style {
		case "short":
			return "15:04"
		default:
			return "15:04:05"
		}
	}
	switch opts.Style {
	case "medium":
		return "Jan 2, 2006"
	case "long":
		return "January 2, 2006"
	case "full":
		return "Monday, January 2, 2006"
	}
	base, _, _ := strings.Cut(strings.ReplaceAll(locale, "_", "-"), "-")
	if layout, ok := shortLayouts[strings.ToLower(base)]; ok {
		return layout
	}
	return time.DateOnly
}

func toTime(v any) (time.Time, bool) {
	switch v := v.(type) {
	case time.Time:
		return v, true
	case *time.Time:
		if v == nil {
			return time.Time{}, false
		}
		return *v, true
	case string:
		t, err := time.Parse(time.RFC3339, v)
		return t, err == nil
	}
	if f, ok := toFloat(v); ok {
		return time.UnixMilli(int64(f)).UTC(), true
	}
	return time.Time{}, false
}

// toFloat converts numeric values, numeric strings and json.Number.
func toFloat(v any) (float64, bool) {
	switch v := v.(type) {
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil && finite(f)
	case string:
		// ParseFloat also accepts "NaN" and "Inf", which are words here.
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil && finite(f)
	}
	return 0, false
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// stringify renders a value for Arg tokens and select keys.
func stringify(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case fmt.Stringer:
		return v.String()
	}
	return fmt.Sprint(v)
}
