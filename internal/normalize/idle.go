package normalize

import (
	"strings"

	"champ-model-viewer/internal/patterns"
)

// SelectIdleClip picks the clip to pose a model at rest.
//
// Clip names labeled idle — minus transition clips — are searched with the
// ranked patterns first; when no idle-labeled clip exists the ranked search
// runs over every clip name; failing that, the first clip wins. An empty
// result means no clips at all: the model displays in its authored bind
// pose. The tier order is tuned against a large irregular asset corpus —
// treat it as opaque.
func SelectIdleClip(names []string, t *patterns.Tables) string {
	if len(names) == 0 {
		return ""
	}

	normalized := make([]string, len(names))
	for i, n := range names {
		normalized[i] = patterns.NormalizeName(n)
	}

	var idle []int // indices of idle-labeled, non-transition clips
	for i, n := range normalized {
		if !strings.Contains(n, "idle") {
			continue
		}
		if isTransition(n, t) {
			continue
		}
		idle = append(idle, i)
	}

	for _, re := range t.IdleRanks {
		for _, i := range idle {
			if re.MatchString(normalized[i]) {
				return names[i]
			}
		}
	}

	// No idle-labeled clip: run the same ranked search over everything.
	for _, re := range t.IdleRanks {
		for i, n := range normalized {
			if re.MatchString(n) {
				return names[i]
			}
		}
	}

	return names[0]
}

func isTransition(normalized string, t *patterns.Tables) bool {
	for _, sub := range t.IdleExclude {
		if strings.Contains(normalized, sub) {
			return true
		}
	}
	return false
}
