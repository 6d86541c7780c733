package differ

import (
	"strings"

	"github.com/wI2L/jsondiff"
)

// Translate patches to english
func Translate(patches jsondiff.Patch) []string {
	if len(patches) == 0 {
		return nil
	}

	var translations []string
	seen := make(map[string]bool)

	for _, op := range patches {
		translation := translateOperation(op)
		if translation != "" && !seen[translation] {
			seen[translation] = true
			translations = append(translations, translation)
		}
	}

	return translations
}

func translateOperation(op jsondiff.Operation) string {
	path := strings.ToLower(op.Path)

	switch {
	case strings.Contains(path, "/spec/security"):
		return "plan security type changed"
	case strings.Contains(path, "/pre/") || strings.Contains(path, "/post/") ||
		strings.HasSuffix(path, "/pre") || strings.HasSuffix(path, "/post"):
		return "policy chain changed"
	case strings.Contains(path, "/proxy/groups"):
		return "upstream endpoints changed"
	case strings.Contains(path, "/proxy/virtualhosts"):
		return "entrypoint paths changed"
	case strings.Contains(path, "/spec/flows"):
		return "flow configuration changed"
	case strings.HasSuffix(path, "/spec/version"):
		return "API version changed"
	case strings.HasSuffix(path, "/spec/lifecyclestate"):
		return "lifecycle state changed"
	case strings.Contains(path, "/spec/analytics"):
		return "analytics configuration changed"
	case strings.Contains(path, "/metadata/"):
		return "resource metadata changed"
	}

	switch op.Type {
	case jsondiff.OperationAdd:
		return "configuration added at " + op.Path
	case jsondiff.OperationRemove:
		return "configuration removed at " + op.Path
	case jsondiff.OperationReplace:
		return "configuration changed at " + op.Path
	default:
		return ""
	}
}
