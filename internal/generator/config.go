package generator

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// resourceSpec is the decoded configuration of one node with its defaults
// applied.
type resourceSpec interface {
	emit(f *fragment, name string)
	variables(name, title string) []variable
}

type variable struct {
	name        string
	description string
	sensitive   bool
}

func newSpec(kind Kind) resourceSpec {
	switch kind {
	case KindEC2:
		return newEC2Config()
	case KindS3:
		return newS3Config()
	case KindRDS:
		return newRDSConfig()
	case KindLambda:
		return newLambdaConfig()
	case KindDynamoDB:
		return newDynamoDBConfig()
	case KindEBS:
		return newEBSConfig()
	case KindECS:
		return newECSConfig()
	case KindSubnet:
		return newSubnetConfig()
	case KindSecurityGroup:
		return newSecurityGroupConfig()
	case KindCDN:
		return newCDNConfig()
	case KindCloudWatchLogs:
		return newCloudWatchLogsConfig()
	}
	return nil
}

// decodeSpec overlays raw onto the defaults of kind. A present key replaces
// its default outright, so an empty list clears a default list; a null value
// keeps the default. Keys the kind does not know are returned sorted so
// callers can report them.
func decodeSpec(kind Kind, raw map[string]any) (resourceSpec, []string, error) {
	spec := newSpec(kind)
	if spec == nil {
		return nil, nil, fmt.Errorf("unsupported kind %q", kind)
	}

	input := make(map[string]any, len(raw))
	for k, v := range raw {
		if v != nil {
			input[k] = v
		}
	}

	var md mapstructure.Metadata
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.DecodeHookFuncType(tagListHook),
		WeaklyTypedInput: true,
		ZeroFields:       true,
		Metadata:         &md,
		Result:           spec,
	})
	if err != nil {
		return nil, nil, err
	}
	if err := dec.Decode(input); err != nil {
		return nil, nil, err
	}

	sort.Strings(md.Unused)
	return spec, md.Unused, nil
}

// decodeErrorMessages flattens a mapstructure error into its individual
// messages.
func decodeErrorMessages(err error) []string {
	if merr, ok := err.(*mapstructure.Error); ok {
		msgs := make([]string, len(merr.Errors))
		copy(msgs, merr.Errors)
		sort.Strings(msgs)
		return msgs
	}
	return []string{err.Error()}
}

var stringMapType = reflect.TypeOf(map[string]string{})

// tagListHook accepts tags written as a list of "key=value" strings.
func tagListHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != stringMapType || from.Kind() != reflect.Slice {
		return data, nil
	}

	items := reflect.ValueOf(data)
	out := make(map[string]string, items.Len())
	for i := 0; i < items.Len(); i++ {
		entry := fmt.Sprint(items.Index(i).Interface())
		k, v, ok := strings.Cut(entry, "=")
		if !ok {
			return nil, fmt.Errorf("tag %q is not in key=value form", entry)
		}
		out[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return out, nil
}

// dashed turns a normalized identifier into a name AWS accepts where
// underscores are not allowed. Case is kept.
func dashed(name string) string {
	return strings.ReplaceAll(name, "_", "-")
}
