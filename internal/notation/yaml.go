package notation

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-metagen/internal/value"
)

var yamlLinePattern = regexp.MustCompile(`line (\d+)(?:, column (\d+))?: `)

func parseYAML(text string) (*value.Mapping, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(text), &doc); err != nil {
		return nil, yamlError(err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return value.NewMapping(), nil
	}

	root := resolveYAMLAlias(doc.Content[0])
	if root.Kind == yaml.ScalarNode && root.ShortTag() == "!!null" {
		return value.NewMapping(), nil
	}
	if root.Kind != yaml.MappingNode {
		return nil, newParseError(YAML, root.Line, root.Column, "top-level value must be a mapping", nil)
	}

	out, err := yamlMapping(root)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func yamlError(err error) *ParseError {
	msg := strings.TrimPrefix(err.Error(), "yaml: ")
	msg = strings.TrimPrefix(msg, "unmarshal errors:\n")
	msg = strings.TrimSpace(msg)

	var line, col int
	if match := yamlLinePattern.FindStringSubmatchIndex(msg); match != nil {
		line, _ = strconv.Atoi(msg[match[2]:match[3]])
		if match[4] >= 0 {
			col, _ = strconv.Atoi(msg[match[4]:match[5]])
		}
		msg = msg[:match[0]] + msg[match[1]:]
	}
	return newParseError(YAML, line, col, strings.TrimSpace(msg), err)
}

func resolveYAMLAlias(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

func yamlValue(n *yaml.Node) (value.Value, error) {
	n = resolveYAMLAlias(n)
	if n == nil {
		return value.Null(), nil
	}

	switch n.Kind {
	case yaml.ScalarNode:
		return yamlScalar(n)
	case yaml.SequenceNode:
		items := make([]value.Value, 0, len(n.Content))
		for _, child := range n.Content {
			item, err := yamlValue(child)
			if err != nil {
				return value.Value{}, err
			}
			items = append(items, item)
		}
		return value.Sequence(items...), nil
	case yaml.MappingNode:
		m, err := yamlMapping(n)
		if err != nil {
			return value.Value{}, err
		}
		return value.MappingValue(m), nil
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return value.Null(), nil
		}
		return yamlValue(n.Content[0])
	default:
		return value.Null(), nil
	}
}

func yamlScalar(n *yaml.Node) (value.Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return value.Null(), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return value.Value{}, newParseError(YAML, n.Line, n.Column, "invalid boolean "+strconv.Quote(n.Value), err)
		}
		return value.Bool(b), nil
	case "!!int", "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return value.Value{}, newParseError(YAML, n.Line, n.Column, "invalid number "+strconv.Quote(n.Value), err)
		}
		return value.Number(f), nil
	default:
		// !!str, !!timestamp, !!binary and application tags keep their source text.
		return value.String(n.Value), nil
	}
}

// yamlMapping applies merge keys the way YAML 1.1 defines them: explicit keys
// always win, earlier merge sources win over later ones, and merged entries
// take the position of the merge key.
func yamlMapping(n *yaml.Node) (*value.Mapping, error) {
	explicit := map[string]bool{}
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := resolveYAMLAlias(n.Content[i])
		if isYAMLMerge(key) {
			continue
		}
		if name, ok := yamlKey(key); ok {
			explicit[name] = true
		}
	}

	out := value.NewMapping()
	merged := map[string]bool{}
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := resolveYAMLAlias(n.Content[i])
		val := n.Content[i+1]

		if isYAMLMerge(key) {
			if err := mergeYAML(out, val, explicit, merged); err != nil {
				return nil, err
			}
			continue
		}

		name, ok := yamlKey(key)
		if !ok {
			// complex keys have no plain equivalent
			continue
		}
		item, err := yamlValue(val)
		if err != nil {
			return nil, err
		}
		out.Set(name, item)
	}
	return out, nil
}

func mergeYAML(out *value.Mapping, source *yaml.Node, explicit, merged map[string]bool) error {
	source = resolveYAMLAlias(source)
	if source == nil {
		return nil
	}

	var sources []*yaml.Node
	switch source.Kind {
	case yaml.MappingNode:
		sources = []*yaml.Node{source}
	case yaml.SequenceNode:
		for _, child := range source.Content {
			sources = append(sources, resolveYAMLAlias(child))
		}
	default:
		return newParseError(YAML, source.Line, source.Column, "merge value must be a mapping or a sequence of mappings", nil)
	}

	for _, src := range sources {
		if src == nil || src.Kind != yaml.MappingNode {
			return newParseError(YAML, source.Line, source.Column, "merge value must be a mapping or a sequence of mappings", nil)
		}
		m, err := yamlMapping(src)
		if err != nil {
			return err
		}
		m.Each(func(key string, v value.Value) bool {
			if explicit[key] || merged[key] {
				return true
			}
			merged[key] = true
			out.Set(key, v)
			return true
		})
	}
	return nil
}

func isYAMLMerge(n *yaml.Node) bool {
	return n != nil && n.Kind == yaml.ScalarNode && n.Value == "<<" &&
		(n.Tag == "" || n.Tag == "!" || n.ShortTag() == "!!merge")
}

func yamlKey(n *yaml.Node) (string, bool) {
	if n == nil || n.Kind != yaml.ScalarNode {
		return "", false
	}
	if n.ShortTag() == "!!null" {
		return "null", true
	}
	return n.Value, true
}

func encodeYAML(m *value.Mapping) (string, error) {
	node := yamlNode(value.MappingValue(m))
	raw, err := yaml.Marshal(node)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func yamlNode(v value.Value) *yaml.Node {
	switch v.Kind() {
	case value.KindBool:
		b, _ := v.AsBool()
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(b)}
	case value.KindNumber:
		f, _ := v.AsNumber()
		return yamlNumberNode(f)
	case value.KindString:
		s, _ := v.AsString()
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
	case value.KindSequence:
		items, _ := v.AsSequence()
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range items {
			node.Content = append(node.Content, yamlNode(item))
		}
		return node
	case value.KindMapping:
		m, _ := v.AsMapping()
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		m.Each(func(key string, item value.Value) bool {
			node.Content = append(node.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
				yamlNode(item),
			)
			return true
		})
		return node
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
}

func yamlNumberNode(f float64) *yaml.Node {
	switch {
	case math.IsNaN(f):
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: ".nan"}
	case math.IsInf(f, 1):
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: ".inf"}
	case math.IsInf(f, -1):
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: "-.inf"}
	case f == math.Trunc(f) && math.Abs(f) < 1e15:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(int64(f), 10)}
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: strconv.FormatFloat(f, 'g', -1, 64)}
	}
}
