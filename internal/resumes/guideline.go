package resumes

import (
	"encoding/json"
	"fmt"
	"strings"
)

const guidelineCount = 3

var guidelineEndings = []string{"작성해 주세요", "서술해 주세요"}

// ParseGuidelines decodes a model response into exactly three guideline
// strings. The model is asked for a list literal; single quotes are
// normalized to double quotes and code fences stripped before decoding.
func ParseGuidelines(raw string) ([]string, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = stripCodeFence(cleaned)
	cleaned = strings.ReplaceAll(cleaned, "'", `"`)

	var guidelines []string
	if err := json.Unmarshal([]byte(cleaned), &guidelines); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGuidelineFormat, err)
	}
	if len(guidelines) != guidelineCount {
		return nil, fmt.Errorf("%w: got %d guidelines", ErrGuidelineFormat, len(guidelines))
	}
	for _, g := range guidelines {
		if !hasGuidelineEnding(g) {
			return nil, fmt.Errorf("%w: %q has no accepted closing phrase", ErrGuidelineFormat, g)
		}
	}
	return guidelines, nil
}

func hasGuidelineEnding(guideline string) bool {
	g := strings.TrimSpace(guideline)
	g = strings.TrimSuffix(g, ".")
	for _, ending := range guidelineEndings {
		if strings.HasSuffix(g, ending) {
			return true
		}
	}
	return false
}

func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
