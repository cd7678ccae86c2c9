package query

import (
	"cmp"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"catalog-backend/internal/model"
)

// numericPrefix matches the longest leading number, as parseFloat reads it:
// sign, mantissa and optional exponent.
var numericPrefix = regexp.MustCompile(`^([+-]?)(\d+\.?\d*|\.\d+)(?:[eE]([+-]?\d+))?`)

// Prices are compared at float64 range and precision.
const (
	maxExp10  = 308
	minExp10  = -324
	sigDigits = 17
	// maxShift bounds exponents before they are added up.
	maxShift = 1 << 40
)

// infinity stands in for a price beyond float64 range. It is greater than
// every finite price, and all such prices compare equal.
func infinity(d decimal.Decimal) decimal.Decimal {
	return decimal.New(int64(d.Sign()), maxExp10+1)
}

// ParsePrice reads a price permissively. Leading whitespace is skipped and
// trailing garbage ignored ("120 INR" is 120); anything without a leading
// number is zero. Magnitudes beyond float64 range saturate, and ones below
// it are zero.
func ParsePrice(s string) decimal.Decimal {
	m := numericPrefix.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return decimal.Zero
	}
	sign, mant, exp := m[1], m[2], m[3]
	if sign == "+" {
		sign = ""
	}
	// "5." and ".5" are valid prefixes.
	mant = strings.TrimSuffix(mant, ".")
	if mant[0] == '.' {
		mant = "0" + mant
	}
	d, err := decimal.NewFromString(sign + mant)
	if err != nil || d.IsZero() {
		return decimal.Zero
	}

	var e int64
	if exp != "" {
		e, err = strconv.ParseInt(exp, 10, 64)
		if err != nil || e > maxShift || e < -maxShift {
			if exp[0] == '-' {
				return decimal.Zero
			}
			return infinity(d)
		}
	}
	e10 := int64(d.NumDigits()) + int64(d.Exponent()) + e - 1
	switch {
	case e10 < minExp10:
		return decimal.Zero
	case e10 > maxExp10:
		return infinity(d)
	}
	d = d.Shift(int32(e))
	if e10 == maxExp10 {
		if f, _ := d.Float64(); math.IsInf(f, 0) {
			return infinity(d)
		}
	}
	return d.Round(int32(sigDigits - 1 - e10))
}

type keyed struct {
	item  model.CatalogItem
	price decimal.Decimal
}

// Sort returns a new slice ordered by order. The sort is stable: ties keep
// their input order. An empty or unknown order returns a copy as given.
func Sort(items []model.CatalogItem, order model.SortOrder) []model.CatalogItem {
	out := make([]model.CatalogItem, len(items))
	copy(out, items)

	switch order {
	case model.SortPriceAsc, model.SortPriceDesc:
		ks := make([]keyed, len(items))
		for i := range items {
			ks[i] = keyed{item: items[i], price: ParsePrice(items[i].Price)}
		}
		slices.SortStableFunc(ks, func(a, b keyed) int {
			if order == model.SortPriceDesc {
				return b.price.Cmp(a.price)
			}
			return a.price.Cmp(b.price)
		})
		for i := range ks {
			out[i] = ks[i].item
		}
	case model.SortNewest:
		slices.SortStableFunc(out, func(a, b model.CatalogItem) int {
			return cmp.Compare(b.Timestamp, a.Timestamp)
		})
	}
	return out
}
