// ABOUTME: Query parameter coercion for the plugins_api endpoint.
// ABOUTME: PHP-compatible integer parsing and bracketed request[...] mappings.

package wporg

import (
	"errors"
	"math"
	"math/big"
	"net/url"
	"strconv"
	"strings"
)

// intval converts s to an int the way PHP's intval() converts a string:
// leading whitespace is skipped, the longest numeric prefix is used and
// anything non-numeric yields 0. Integer overflow saturates; a float
// prefix is truncated toward zero and capped, with infinities giving 0.
func intval(s string) int {
	s = strings.TrimLeft(s, " \t\n\r\v\f")
	num := s[:numericPrefix(s)]
	if num == "" {
		return 0
	}

	if !strings.ContainsAny(num, ".eE") {
		if n, err := strconv.ParseInt(num, 10, 0); err == nil {
			return int(n)
		}
	}

	f, err := strconv.ParseFloat(num, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0
	}
	return capFloat(f)
}

// numericPrefix returns the length of the leading [+-]digits[.digits][e[+-]digits]
// run of s, or 0 when s does not start with a number.
func numericPrefix(s string) int {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	intStart := i
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	digits := i - intStart

	if i < len(s) && s[i] == '.' {
		j := i + 1
		for j < len(s) && isDigit(s[j]) {
			j++
		}
		if frac := j - i - 1; digits > 0 || frac > 0 {
			digits += frac
			i = j
		}
	}
	if digits == 0 {
		return 0
	}

	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		expStart := j
		for j < len(s) && isDigit(s[j]) {
			j++
		}
		if j > expStart {
			i = j
		}
	}
	return i
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func capFloat(f float64) int {
	switch {
	case math.IsNaN(f) || math.IsInf(f, 0):
		return 0
	case f >= math.MaxInt:
		return math.MaxInt
	case f <= math.MinInt:
		return math.MinInt
	}
	return int(f)
}

// lastValue returns the last value given for key. Repeated scalar keys
// resolve to the final occurrence.
func lastValue(q url.Values, key string) (string, bool) {
	vs, ok := q[key]
	if !ok || len(vs) == 0 {
		return "", false
	}
	return vs[len(vs)-1], true
}

// pageParam reads the top-level page number, defaulting to 1 when absent.
func pageParam(q url.Values) int {
	v, ok := lastValue(q, "page")
	if !ok {
		return 1
	}
	return intval(v)
}

// nestedParams collects name[key]=value pairs into a map keyed by key.
// Deeper nesting and list-style name[] keys are ignored. A missing
// mapping yields an empty map.
func nestedParams(q url.Values, name string) map[string]string {
	out := map[string]string{}
	prefix := name + "["
	for k, vs := range q {
		if len(vs) == 0 || !strings.HasPrefix(k, prefix) || !strings.HasSuffix(k, "]") {
			continue
		}
		key := k[len(prefix) : len(k)-1]
		if key == "" || strings.ContainsAny(key, "[]") {
			continue
		}
		out[key] = vs[len(vs)-1]
	}
	return out
}

// offset computes (page-1)*perPage, saturating at the int range rather
// than wrapping.
func offset(page, perPage int) int {
	v := big.NewInt(int64(page))
	v.Sub(v, big.NewInt(1))
	v.Mul(v, big.NewInt(int64(perPage)))

	switch {
	case v.IsInt64() && v.Int64() >= math.MinInt && v.Int64() <= math.MaxInt:
		return int(v.Int64())
	case v.Sign() < 0:
		return math.MinInt
	default:
		return math.MaxInt
	}
}
