package validation

import (
	"encoding/json"
	"errors"
	"html"
	"math"
	"strconv"
	"strings"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const (
	MinQuantity = 1
	MaxQuantity = 99
)

// DefaultLocale is used by FormatPrice. The shop prices are in KRW.
var DefaultLocale = language.Korean

// strictPolicy allows no elements and no attributes. Contents of script,
// style and similar elements are dropped entirely.
var strictPolicy = bluemonday.StrictPolicy()

// angleEscaper keeps stray angle brackets escaped so that no markup can be
// rebuilt from the unescaped text.
var angleEscaper = strings.NewReplacer("<", "&lt;", ">", "&gt;")

// SanitizeInput strips all markup from v and returns plain text.
// Non-string values are converted to their string form first.
func SanitizeInput(v any) string {
	return angleEscaper.Replace(html.UnescapeString(strictPolicy.Sanitize(stringify(v))))
}

// ValidateQuantity clamps v into [MinQuantity, MaxQuantity].
func ValidateQuantity(v any) int {
	return ValidateQuantityRange(v, MinQuantity, MaxQuantity)
}

// ValidateQuantityRange parses v as a base-10 integer and clamps it into
// [min, max]. Anything that does not parse yields min.
func ValidateQuantityRange(v any, min, max int) int {
	n, ok := parseInt(v)
	if !ok {
		return min
	}
	if n < int64(min) {
		return min
	}
	if n > int64(max) {
		return max
	}
	return int(n)
}

// ValidateProduct normalizes an untrusted product record. It reports false when
// v is not a product-shaped value, when id, name or price is missing, or when
// price is not a positive finite number.
//
// An id of 0 is rejected: catalog ids start at 1.
func ValidateProduct(v any) (domain.Product, bool) {
	fields, ok := productFields(v)
	if !ok {
		return domain.Product{}, false
	}

	id, ok := parseInt(fields["id"])
	if !ok || id <= 0 {
		return domain.Product{}, false
	}

	name, present := fields["name"]
	if !present || name == nil {
		return domain.Product{}, false
	}
	if s, isString := name.(string); isString && strings.TrimSpace(s) == "" {
		return domain.Product{}, false
	}

	price, ok := numericValue(fields["price"])
	if !ok || math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return domain.Product{}, false
	}

	return domain.Product{
		ID:          id,
		Name:        SanitizeInput(name),
		Price:       price,
		Volume:      SanitizeInput(orEmpty(fields["volume"])),
		Description: SanitizeInput(orEmpty(fields["description"])),
		Image:       SanitizeInput(orEmpty(fields["image"])),
	}, true
}

// FormatPrice formats v for display using DefaultLocale.
func FormatPrice(v any) string {
	return FormatPriceIn(DefaultLocale, v)
}

// FormatPriceIn formats v with the thousands grouping of tag. Non-numeric and
// non-finite values render as "0"; negative values are shown as 0.
func FormatPriceIn(tag language.Tag, v any) string {
	n, ok := toNumber(v)
	if !ok || math.IsNaN(n) || math.IsInf(n, 0) {
		return "0"
	}
	n = math.Max(0, n)

	p := message.NewPrinter(tag)
	if n == math.Trunc(n) && n < 1<<53 {
		return p.Sprintf("%d", int64(n))
	}
	return p.Sprintf("%v", number.Decimal(n, number.MaxFractionDigits(3)))
}

func productFields(v any) (map[string]any, bool) {
	switch p := v.(type) {
	case map[string]any:
		return p, true
	case domain.Product:
		return fieldsOf(p), true
	case *domain.Product:
		if p == nil {
			return nil, false
		}
		return fieldsOf(*p), true
	default:
		return nil, false
	}
}

func fieldsOf(p domain.Product) map[string]any {
	return map[string]any{
		"id":          p.ID,
		"name":        p.Name,
		"price":       p.Price,
		"volume":      p.Volume,
		"description": p.Description,
		"image":       p.Image,
	}
}

func orEmpty(v any) any {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok && s == "" {
		return ""
	}
	return v
}

func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case interface{ String() string }:
		return x.String()
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// numericValue accepts only values that already are numbers.
func numericValue(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// toNumber converts loosely: nil is 0, booleans are 0 or 1, blank strings are 0.
func toNumber(v any) (float64, bool) {
	if f, ok := numericValue(v); ok {
		return f, true
	}
	switch x := v.(type) {
	case nil:
		return 0, true
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, true
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil && !isRangeErr(err) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// parseInt reads an optional sign and the leading decimal digits of v.
// Floats are truncated toward zero.
func parseInt(v any) (int64, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case float32, float64:
		f, _ := numericValue(x)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		f = math.Trunc(f)
		if f >= math.MaxInt64 {
			return math.MaxInt64, true
		}
		if f <= math.MinInt64 {
			return math.MinInt64, true
		}
		return int64(f), true
	case nil, bool:
		return 0, false
	}

	s := strings.TrimSpace(stringify(v))
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}

	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		if !isRangeErr(err) {
			return 0, false
		}
		if s[0] == '-' {
			return math.MinInt64, true
		}
		return math.MaxInt64, true
	}
	return n, true
}

func isRangeErr(err error) bool {
	return errors.Is(err, strconv.ErrRange)
}
