package brief

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"boardbrief/internal/core"
	"boardbrief/internal/departments"
)

const (
	keyDataMaxKeys      = 8
	keyDataMaxArrayLen  = 10
	keyDataMaxStringLen = 400
	keyDataMaxNestedLen = 200
)

var notSpecifiedRe = regexp.MustCompile(`(?i)^not\s+specified`)

// itemFromMap converts one raw parsed item into a typed BriefItem. The
// conversion is tolerant: wrong-typed fields degrade to their zero
// values instead of failing the item.
func itemFromMap(m map[string]any) core.BriefItem {
	item := core.BriefItem{
		Title:          asString(m["title"]),
		Source:         asString(m["source"]),
		Link:           asString(m["link"]),
		Theme:          asString(m["theme"]),
		Priority:       asString(m["priority"]),
		WhyItMatters:   asString(m["why_it_matters"]),
		Region:         asString(m["region"]),
		Category:       asString(m["category"]),
		ArticleSummary: asString(m["article_summary"]),
	}

	if kd, ok := m["key_data"].(map[string]any); ok {
		item.KeyData = kd
	}
	item.RiskRegister = riskEntries(m["risk_register"])
	item.OpportunityRegister = opportunityEntries(m["opportunity_register"])
	item.RelevantDepartments = validDepartments(asStringSlice(m["relevant_departments"]))
	item.StrategicActions = actionMap(m["strategic_actions"])
	return item
}

// NormalizeKeyData cleans a raw key_data object: trims strings, drops
// "Not specified" placeholders, caps string lengths and array sizes,
// and bounds the object to a handful of keys. Returns nil when nothing
// meaningful survives so the field serializes as absent.
func NormalizeKeyData(raw map[string]any) map[string]any {
	if len(raw) == 0 {
		return nil
	}
	keys := make([]string, 0, len(raw))
	for key := range raw {
		keys = append(keys, key)
	}
	// Map iteration order is random; sort so the same oversized input
	// always keeps the same keys.
	sort.Strings(keys)

	out := make(map[string]any, len(raw))
	for _, key := range keys {
		if len(out) >= keyDataMaxKeys {
			break
		}
		if cleaned, ok := cleanKeyDataValue(raw[key], keyDataMaxStringLen); ok {
			out[key] = cleaned
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func cleanKeyDataValue(value any, maxLen int) (any, bool) {
	switch v := value.(type) {
	case string:
		s := strings.TrimSpace(v)
		if s == "" || notSpecifiedRe.MatchString(s) {
			return nil, false
		}
		if len(s) > maxLen {
			s = s[:maxLen]
		}
		return s, true
	case float64, bool:
		return v, true
	case []any:
		cleaned := make([]any, 0, len(v))
		for _, el := range v {
			if len(cleaned) >= keyDataMaxArrayLen {
				break
			}
			if c, ok := cleanKeyDataValue(el, keyDataMaxNestedLen); ok {
				cleaned = append(cleaned, c)
			}
		}
		if len(cleaned) == 0 {
			return nil, false
		}
		return cleaned, true
	case map[string]any:
		nested := make(map[string]any, len(v))
		for k, el := range v {
			if c, ok := cleanKeyDataValue(el, keyDataMaxNestedLen); ok {
				nested[k] = c
			}
		}
		if len(nested) == 0 {
			return nil, false
		}
		return nested, true
	default:
		return nil, false
	}
}

// CalibrateActions trims strategic_actions to the priority budget and
// prunes departments the item itself does not list as relevant. Action
// order is preserved and duplicates are removed case-insensitively,
// first occurrence winning.
func CalibrateActions(item *core.BriefItem) {
	if len(item.StrategicActions) == 0 {
		return
	}
	budget := item.ActionCap()

	relevant := map[string]bool{}
	for _, id := range item.RelevantDepartments {
		relevant[id] = true
	}

	calibrated := make(map[string][]string, len(item.StrategicActions))
	for dept, actions := range item.StrategicActions {
		if len(relevant) > 0 && !relevant[dept] {
			continue
		}
		deduped := dedupeActions(actions)
		if len(deduped) > budget {
			deduped = deduped[:budget]
		}
		if len(deduped) > 0 {
			calibrated[dept] = deduped
		}
	}

	if len(calibrated) == 0 {
		item.StrategicActions = nil
		return
	}
	item.StrategicActions = calibrated
}

func dedupeActions(actions []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(actions))
	for _, a := range actions {
		a = strings.TrimSpace(a)
		if a == "" {
			continue
		}
		key := strings.ToLower(a)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, a)
	}
	return out
}

// validDepartments drops identifiers that are not in the department
// registry, keeping order.
func validDepartments(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if departments.Valid(departments.ID(id)) {
			out = append(out, id)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func riskEntries(value any) []core.RiskEntry {
	raw, ok := value.([]any)
	if !ok {
		return nil
	}
	out := make([]core.RiskEntry, 0, len(raw))
	for _, el := range raw {
		m, ok := el.(map[string]any)
		if !ok {
			continue
		}
		entry := core.RiskEntry{
			Name:       asString(m["name"]),
			Type:       asString(m["type"]),
			Drivers:    asString(m["drivers"]),
			Likelihood: asString(m["likelihood"]),
			Impact:     asString(m["impact"]),
			Timeframe:  asString(m["timeframe"]),
			Mitigation: asString(m["mitigation"]),
		}
		if entry.Name == "" {
			continue
		}
		out = append(out, entry)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func opportunityEntries(value any) []core.OpportunityEntry {
	raw, ok := value.([]any)
	if !ok {
		return nil
	}
	out := make([]core.OpportunityEntry, 0, len(raw))
	for _, el := range raw {
		m, ok := el.(map[string]any)
		if !ok {
			continue
		}
		entry := core.OpportunityEntry{
			Name:      asString(m["name"]),
			Thesis:    asString(m["thesis"]),
			Magnitude: asString(m["magnitude"]),
			Timeframe: asString(m["timeframe"]),
			Actions:   asString(m["actions"]),
		}
		if entry.Name == "" {
			continue
		}
		out = append(out, entry)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func actionMap(value any) map[string][]string {
	raw, ok := value.(map[string]any)
	if !ok || len(raw) == 0 {
		return nil
	}
	out := make(map[string][]string, len(raw))
	for dept, v := range raw {
		actions := asStringSlice(v)
		if len(actions) > 0 {
			out[dept] = actions
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func asString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strings.TrimSuffix(fmt.Sprintf("%v", v), ".0")
	default:
		return ""
	}
}

func asStringSlice(value any) []string {
	switch v := value.(type) {
	case []any:
		out := make([]string, 0, len(v))
		for _, el := range v {
			if s := asString(el); s != "" {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return v
	default:
		return nil
	}
}
