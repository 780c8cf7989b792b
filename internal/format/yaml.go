package format

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"
)

// WriteYAML writes a YAML sequence of mappings, keeping key order.
func WriteYAML(w io.Writer, records []Record) error {
	seq := &yaml.Node{Kind: yaml.SequenceNode}
	for _, r := range records {
		m := &yaml.Node{Kind: yaml.MappingNode}
		for _, f := range r {
			m.Content = append(m.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f.Key},
				yamlScalar(f.Value),
			)
		}
		seq.Content = append(seq.Content, m)
	}
	doc := &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{seq}}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}

func yamlScalar(v any) *yaml.Node {
	n := &yaml.Node{Kind: yaml.ScalarNode}
	switch t := v.(type) {
	case nil:
		n.Tag, n.Value = "!!null", "null"
	case bool:
		n.Tag, n.Value = "!!bool", strconv.FormatBool(t)
	case string:
		n.Tag, n.Value = "!!str", t
	case int:
		n.Tag, n.Value = "!!int", strconv.Itoa(t)
	case int8:
		n.Tag, n.Value = "!!int", strconv.Itoa(int(t))
	case int64:
		n.Tag, n.Value = "!!int", strconv.FormatInt(t, 10)
	case float64:
		n.Tag = "!!float"
		switch {
		case math.IsNaN(t):
			n.Value = ".nan"
		case math.IsInf(t, 1):
			n.Value = ".inf"
		case math.IsInf(t, -1):
			n.Value = "-.inf"
		default:
			n.Value = strconv.FormatFloat(t, 'f', -1, 64)
		}
	default:
		n.Tag, n.Value = "!!str", fmt.Sprintf("%v", v)
	}
	return n
}
