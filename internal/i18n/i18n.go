package i18n

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// NotFound is the sentinel returned when a dotted key cannot be resolved.
// Lookups never fail; a partially translated dictionary renders this value
// (or leaves existing markup untouched, at the binder's discretion).
const NotFound = "undefined"

// Dict is a localized UI dictionary: nested string keys with string leaves,
// addressed by dotted paths such as "modal.downloads". It is read-only after
// parsing and recreated wholesale on every bootstrap.
type Dict map[string]any

// ParseDict decodes a dictionary document. Non-object, non-string leaves are
// rejected up front so lookups stay cheap.
func ParseDict(raw []byte) (Dict, error) {
	var d Dict
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("i18n: parse dictionary: %w", err)
	}
	if err := validate(d, ""); err != nil {
		return nil, err
	}
	return d, nil
}

func validate(m map[string]any, prefix string) error {
	for k, v := range m {
		path := k
		if prefix != "" {
			path = prefix + "." + k
		}
		switch child := v.(type) {
		case string:
		case map[string]any:
			if err := validate(child, path); err != nil {
				return err
			}
		default:
			return fmt.Errorf("i18n: key %q: expected string or object, got %T", path, v)
		}
	}
	return nil
}

// Resolve descends the dictionary one dotted segment at a time. It reports
// false when any intermediate segment is absent or when the final value is
// not a string leaf; it never errors.
func (d Dict) Resolve(path string) (string, bool) {
	if d == nil || path == "" {
		return "", false
	}
	var cur any = map[string]any(d)
	for _, seg := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return "", false
		}
		cur, ok = m[seg]
		if !ok {
			return "", false
		}
	}
	s, ok := cur.(string)
	return s, ok
}

// Get resolves path, substituting NotFound for missing keys.
func (d Dict) Get(path string) string {
	if v, ok := d.Resolve(path); ok {
		return v
	}
	return NotFound
}

// GetOr resolves path, substituting def for missing keys.
func (d Dict) GetOr(path, def string) string {
	if v, ok := d.Resolve(path); ok {
		return v
	}
	return def
}

// Keys returns all dotted leaf paths in sorted order.
func (d Dict) Keys() []string {
	var out []string
	collect(d, "", &out)
	sort.Strings(out)
	return out
}

// Missing returns the keys of base that other does not resolve, in sorted
// order. Feeds the startup translation-coverage report.
func Missing(base, other Dict) []string {
	var out []string
	for _, k := range base.Keys() {
		if _, ok := other.Resolve(k); !ok {
			out = append(out, k)
		}
	}
	return out
}

func collect(m map[string]any, prefix string, out *[]string) {
	for k, v := range m {
		path := k
		if prefix != "" {
			path = prefix + "." + k
		}
		switch child := v.(type) {
		case string:
			*out = append(*out, path)
		case map[string]any:
			collect(child, path, out)
		}
	}
}

// Negotiate chooses the best supported language from an Accept-Language
// header value, honoring q-values. It returns fallback when nothing matches.
func Negotiate(acceptLang string, supported []string, fallback string) string {
	set := make(map[string]struct{}, len(supported))
	for _, l := range supported {
		set[strings.ToLower(l)] = struct{}{}
	}
	type langPref struct {
		base string
		q    float64
		pos  int
	}
	prefs := make([]langPref, 0, 8)
	for i, raw := range strings.Split(acceptLang, ",") {
		p := strings.TrimSpace(raw)
		if p == "" {
			continue
		}
		q := 1.0
		if sc := strings.IndexByte(p, ';'); sc != -1 {
			params := strings.TrimSpace(p[sc+1:])
			p = strings.TrimSpace(p[:sc])
			if strings.HasPrefix(params, "q=") {
				if v, err := parseQValue(strings.TrimPrefix(params, "q=")); err == nil {
					q = v
				}
			}
		}
		base := p
		if dash := strings.IndexByte(p, '-'); dash != -1 {
			base = p[:dash]
		}
		prefs = append(prefs, langPref{base: strings.ToLower(base), q: q, pos: i})
	}
	sort.SliceStable(prefs, func(i, j int) bool {
		if prefs[i].q == prefs[j].q {
			return prefs[i].pos < prefs[j].pos
		}
		return prefs[i].q > prefs[j].q
	})
	for _, lp := range prefs {
		if _, ok := set[lp.base]; ok {
			return lp.base
		}
	}
	return fallback
}

// parseQValue parses a qvalue per RFC 7231 (0.0 to 1.0).
func parseQValue(s string) (float64, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "1", "1.0", "1.00":
		return 1.0, nil
	case "0", "0.0", "0.00":
		return 0.0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}
	return v, nil
}
