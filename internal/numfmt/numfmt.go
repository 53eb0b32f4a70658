package numfmt

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/cockroachdb/apd"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultPrecision applies to `f`, `e` and `%` without an explicit precision.
const DefaultPrecision = 6

// Spec is a parsed format string.
type Spec struct {
	Group     bool
	Precision int // -1 when absent
	Type      byte
}

// Parse reads a format string.
func Parse(format string) (Spec, error) {
	spec := Spec{Precision: -1}
	rest := format
	if strings.HasPrefix(rest, ",") {
		spec.Group = true
		rest = rest[1:]
	}
	if strings.HasPrefix(rest, ".") {
		end := 1
		for end < len(rest) && rest[end] >= '0' && rest[end] <= '9' {
			end++
		}
		if end == 1 {
			return Spec{}, fmt.Errorf("invalid format %q: precision has no digits", format)
		}
		p, err := strconv.Atoi(rest[1:end])
		if err != nil || p > 100 {
			return Spec{}, fmt.Errorf("invalid format %q: bad precision", format)
		}
		spec.Precision = p
		rest = rest[end:]
	}
	switch rest {
	case "":
	case "f", "e", "%", "b", "d":
		spec.Type = rest[0]
	default:
		return Spec{}, fmt.Errorf("invalid format %q: unknown type %q", format, rest)
	}
	return spec, nil
}

// Format renders a float with format.
func Format(format string, f float64) (string, error) {
	spec, err := Parse(format)
	if err != nil {
		return "", err
	}
	return spec.Format(f)
}

// FormatInt renders an integer with format.
func FormatInt(format string, i int64) (string, error) {
	spec, err := Parse(format)
	if err != nil {
		return "", err
	}
	return spec.format(new(apd.Decimal).SetInt64(i))
}

// Format renders f. NaN and infinities cannot be formatted.
func (s Spec) Format(f float64) (string, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", fmt.Errorf("cannot format non-finite number %v", f)
	}
	d, err := new(apd.Decimal).SetFloat64(f)
	if err != nil {
		return "", err
	}
	return s.format(d)
}

func (s Spec) precision() int {
	if s.Precision < 0 {
		return DefaultPrecision
	}
	return s.Precision
}

func (s Spec) format(d *apd.Decimal) (string, error) {
	var (
		out string
		err error
	)
	switch s.Type {
	case 'f':
		out, err = fixed(d, s.precision())
	case '%':
		scaled := new(apd.Decimal)
		if _, err := context().Mul(scaled, d, apd.New(100, 0)); err != nil {
			return "", err
		}
		out, err = fixed(scaled, s.precision())
		out += "%"
	case 'e':
		f, _ := d.Float64()
		out = exponent(strconv.FormatFloat(f, 'e', s.precision(), 64))
	case 'd':
		out, err = fixed(d, 0)
	case 'b':
		var text string
		if text, err = fixed(d, 0); err == nil {
			i, perr := strconv.ParseInt(text, 10, 64)
			if perr != nil {
				return "", fmt.Errorf("cannot format %s as binary: %w", d, perr)
			}
			out = strconv.FormatInt(i, 2)
		}
	default:
		if s.Precision < 0 {
			out = canonical(d)
		} else if out, err = fixed(d, s.Precision); err == nil {
			out = trimZeros(out)
		}
	}
	if err != nil {
		return "", err
	}
	if s.Group && s.Type != 'b' && s.Type != 'e' {
		out = group(out)
	}
	return out, nil
}

func context() *apd.Context {
	ctx := apd.BaseContext.WithPrecision(400)
	ctx.Rounding = apd.RoundHalfUp
	return ctx
}

// fixed rounds d half-up to precision fractional digits.
func fixed(d *apd.Decimal, precision int) (string, error) {
	rounded := new(apd.Decimal)
	if _, err := context().Quantize(rounded, d, -int32(precision)); err != nil {
		return "", fmt.Errorf("cannot round %s to %d digits: %w", d, precision, err)
	}
	return rounded.Text('f'), nil
}

func canonical(d *apd.Decimal) string {
	reduced := new(apd.Decimal)
	reduced.Reduce(d)
	return reduced.Text('f')
}

func trimZeros(s string) string {
	if !strings.Contains(s, ".") {
		return s
	}
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

// exponent drops the leading zeros of a Go exponent: 1.5e+03 -> 1.5e+3.
func exponent(s string) string {
	mantissa, exp, ok := strings.Cut(s, "e")
	if !ok || len(exp) < 2 {
		return s
	}
	digits := strings.TrimLeft(exp[1:], "0")
	if digits == "" {
		digits = "0"
	}
	return mantissa + "e" + exp[:1] + digits
}

var printer = message.NewPrinter(language.English)

// group inserts thousands separators into the integer part of s.
func group(s string) string {
	suffix := ""
	if strings.HasSuffix(s, "%") {
		s, suffix = s[:len(s)-1], "%"
	}
	intPart, frac, hasFrac := strings.Cut(s, ".")
	i, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return s + suffix
	}
	grouped := printer.Sprintf("%d", i)
	if intPart == "-0" {
		grouped = "-0"
	}
	if hasFrac {
		grouped += "." + frac
	}
	return grouped + suffix
}
