package yamlstore

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

const timestampTag = "tag:yaml.org,2002:timestamp"

// timestampFormats are the layouts accepted for !!timestamp scalars, most
// specific first. Emission always uses RFC 3339.
var timestampFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Timestamp is a time.Time that round-trips through YAML as a
// !!timestamp-tagged scalar instead of a quoted string.
type Timestamp struct {
	time.Time
}

func (t Timestamp) MarshalYAML() (any, error) {
	return &yaml.Node{
		Kind:  yaml.ScalarNode,
		Tag:   timestampTag,
		Value: t.UTC().Format(time.RFC3339),
	}, nil
}

func (t *Timestamp) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := parseTimestamp(node.Value)
	if err != nil {
		return err
	}

	t.Time = parsed
	return nil
}

func parseTimestamp(value string) (time.Time, error) {
	for _, layout := range timestampFormats {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: invalid timestamp %q", ErrDecode, value)
}

// Marshal serializes data to YAML. time.Time values anywhere in the
// structure are emitted as !!timestamp scalars. The output never contains
// anchors or aliases: the value is copied into plain maps and slices before
// encoding, so the encoder has no shared references to alias.
func Marshal(data any) ([]byte, error) {
	out, err := yaml.Marshal(withTimestamps(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncode, err)
	}

	return out, nil
}

// Unmarshal parses YAML into generic Go values: mappings become
// map[string]any, sequences []any, and !!timestamp scalars time.Time.
func Unmarshal(data []byte) (any, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	if root.Kind == 0 || len(root.Content) == 0 {
		return nil, nil
	}

	return decodeNode(root.Content[0])
}

func withTimestamps(value any) any {
	switch v := value.(type) {
	case time.Time:
		return Timestamp{v}
	case *time.Time:
		if v == nil {
			return nil
		}
		return Timestamp{*v}
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = withTimestamps(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = withTimestamps(item)
		}
		return out
	default:
		return value
	}
}

func decodeNode(node *yaml.Node) (any, error) {
	switch node.Kind {
	case yaml.AliasNode:
		return decodeNode(node.Alias)

	case yaml.MappingNode:
		out := make(map[string]any, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			var key string
			if err := node.Content[i].Decode(&key); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrDecode, err)
			}

			value, err := decodeNode(node.Content[i+1])
			if err != nil {
				return nil, err
			}
			out[key] = value
		}
		return out, nil

	case yaml.SequenceNode:
		out := make([]any, 0, len(node.Content))
		for _, item := range node.Content {
			value, err := decodeNode(item)
			if err != nil {
				return nil, err
			}
			out = append(out, value)
		}
		return out, nil

	case yaml.ScalarNode:
		if node.LongTag() == timestampTag {
			return parseTimestamp(node.Value)
		}

		var value any
		if err := node.Decode(&value); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDecode, err)
		}
		return value, nil

	default:
		return nil, fmt.Errorf("%w: unsupported node kind %d", ErrDecode, node.Kind)
	}
}
