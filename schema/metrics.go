package schema

// MetricsMap is a flat mapping from metric name to a numeric, boolean,
// string or nested-map value. Each analyzer produces one MetricsMap.
// The accessors below tolerate the mixed value types that accumulate when
// a map round-trips through JSON (ints become float64, and so on), so the
// calculator never has to type-assert by hand.
type MetricsMap map[string]any

// Merge copies all entries from other into m, overwriting on collision.
func (m MetricsMap) Merge(other MetricsMap) {
	for k, v := range other {
		m[k] = v
	}
}

// Float returns the metric as a float64, or def when absent or non-numeric.
func (m MetricsMap) Float(key string, def float64) float64 {
	v, ok := m[key]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return def
	}
}

// Int returns the metric as an int, or def when absent or non-numeric.
func (m MetricsMap) Int(key string, def int) int {
	v, ok := m[key]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case int:
		return n
	case int32:
		return int(n)
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return def
	}
}

// Bool returns the metric as a bool; absent or non-boolean values are false.
func (m MetricsMap) Bool(key string) bool {
	b, ok := m[key].(bool)
	return ok && b
}

// Sub returns a nested MetricsMap stored under key, or nil when absent.
// Profilers nest their language-specific maps this way (for example the
// Java profiler output lives under "java_analysis").
func (m MetricsMap) Sub(key string) MetricsMap {
	switch sub := m[key].(type) {
	case MetricsMap:
		return sub
	case map[string]any:
		return MetricsMap(sub)
	default:
		return nil
	}
}
