package generator

import "sort"

// sensitiveKeys are accepted in a node config but never rendered, so they
// are not carried over from imported state.
var sensitiveKeys = map[string]bool{
	"password": true,
}

// stateAttributeKeys maps provider attribute names to the config keys that
// set them, where the two differ.
var stateAttributeKeys = map[Kind]map[string]string{
	KindEBS: {"type": "volume_type"},
	KindRDS: {"db_name": "name"},
}

// CompatibleConfig keeps the entries of raw that kind understands and that
// decode cleanly on their own. It is used to turn resource attributes read
// from a state file into node config.
func CompatibleConfig(kind Kind, raw map[string]any) map[string]any {
	if newSpec(kind) == nil {
		return nil
	}

	attrs := renameStateAttributes(kind, raw)
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(map[string]any)
	for _, k := range keys {
		v := attrs[k]
		if v == nil || sensitiveKeys[k] || isEmpty(v) {
			continue
		}
		_, unused, err := decodeSpec(kind, map[string]any{k: v})
		if err != nil || len(unused) > 0 {
			continue
		}
		out[k] = v
	}
	return out
}

// renameStateAttributes returns raw with provider attribute names replaced by
// config keys. A renamed value only fills a key raw leaves empty.
func renameStateAttributes(kind Kind, raw map[string]any) map[string]any {
	renames := stateAttributeKeys[kind]
	out := make(map[string]any, len(raw))
	for k, v := range raw {
		if _, ok := renames[k]; !ok {
			out[k] = v
		}
	}
	for from, to := range renames {
		v, ok := raw[from]
		if !ok || v == nil || isEmpty(v) {
			continue
		}
		if existing, ok := out[to]; ok && existing != nil && !isEmpty(existing) {
			continue
		}
		out[to] = v
	}
	return out
}

func isEmpty(v any) bool {
	switch val := v.(type) {
	case string:
		return val == ""
	case []any:
		return len(val) == 0
	case map[string]any:
		return len(val) == 0
	}
	return false
}
