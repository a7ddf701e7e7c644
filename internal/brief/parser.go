package brief

import (
	"encoding/json"
	"regexp"
	"strings"

	"boardbrief/internal/logger"
)

// Envelope is the untyped shape of a model response. Items stay as raw
// maps here; typed conversion and field validation happen in the
// normalizer so a single malformed item never sinks the whole batch.
type Envelope struct {
	Items []map[string]any `json:"items"`
}

var (
	fencedJSONRe    = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")
	fencedGenericRe = regexp.MustCompile("(?s)```\\s*(.*?)\\s*```")
	trailingCommaRe = regexp.MustCompile(`,\s*([\]}])`)
)

// Parse recovers an Envelope from raw model text. It tries progressively
// rougher strategies and never returns an error: a response that resists
// every strategy yields an empty Envelope, leaving the yield check to
// the caller.
func Parse(text string) Envelope {
	if env, ok := tryDecode(text); ok {
		return env
	}

	// The model often wraps valid JSON in a markdown fence.
	if block := extractFenced(text); block != "" {
		if env, ok := tryDecode(block); ok {
			return env
		}
	}

	// Last resort: slice from the items object onward and strip
	// trailing commas, the most common truncation artifact.
	if repaired := repairSubstring(text); repaired != "" {
		if env, ok := tryDecode(repaired); ok {
			logger.Warn("brief parser recovered response via substring repair")
			return env
		}
	}

	logger.Warn("brief parser could not recover any items from response", "length", len(text))
	return Envelope{}
}

// parseObject recovers a bare JSON object from a secondary-call
// response, using the same fence and substring fallbacks as Parse.
// Returns nil when nothing decodes.
func parseObject(text string) map[string]any {
	if obj, ok := tryDecodeObject(text); ok {
		return obj
	}
	if block := extractFenced(text); block != "" {
		if obj, ok := tryDecodeObject(block); ok {
			return obj
		}
	}
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		candidate := trailingCommaRe.ReplaceAllString(text[start:end+1], "$1")
		if obj, ok := tryDecodeObject(candidate); ok {
			return obj
		}
	}
	return nil
}

func tryDecodeObject(text string) (map[string]any, bool) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &obj); err != nil {
		return nil, false
	}
	return obj, true
}

func tryDecode(text string) (Envelope, bool) {
	var env Envelope
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &env); err != nil {
		return Envelope{}, false
	}
	return env, true
}

func extractFenced(text string) string {
	if m := fencedJSONRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	if m := fencedGenericRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}

func repairSubstring(text string) string {
	start := strings.Index(text, `{"items"`)
	if start < 0 {
		return ""
	}
	end := strings.LastIndex(text, "}")
	if end < start {
		return ""
	}
	candidate := text[start : end+1]
	return trailingCommaRe.ReplaceAllString(candidate, "$1")
}
