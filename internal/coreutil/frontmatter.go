package coreutil

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const frontmatterDelim = "---"

// FrontmatterField is one ordered key/value pair in a frontmatter block.
// Order is preserved on encode so a decode∘encode round trip reproduces
// the same bytes, per the frontmatter round-trip property.
type FrontmatterField struct {
	Key   string
	Value interface{}
}

// EncodeFrontmatter renders fields as a YAML mapping delimited by "---\n"
// … "\n---\n", followed by body. The YAML subset used (string, number,
// boolean, null, flow/block sequences and mappings, ISO-8601 timestamps)
// is whatever gopkg.in/yaml.v3 emits for Go scalars, slices and maps.
func EncodeFrontmatter(fields []FrontmatterField, body string) (string, error) {
	mapping := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, f := range fields {
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f.Key}
		valNode := &yaml.Node{}
		if err := valNode.Encode(f.Value); err != nil {
			return "", fmt.Errorf("encode frontmatter field %q: %w", f.Key, err)
		}
		mapping.Content = append(mapping.Content, keyNode, valNode)
	}

	yamlBytes, err := yaml.Marshal(mapping)
	if err != nil {
		return "", fmt.Errorf("marshal frontmatter: %w", err)
	}

	var b strings.Builder
	b.WriteString(frontmatterDelim)
	b.WriteByte('\n')
	b.Write(yamlBytes)
	b.WriteString(frontmatterDelim)
	b.WriteByte('\n')
	b.WriteString(body)
	return b.String(), nil
}

// DecodeFrontmatter parses a file's contents into its ordered frontmatter
// fields and the remaining body. Returns an error if the leading "---\n"
// … "\n---\n" delimiters are missing or the YAML between them is invalid.
func DecodeFrontmatter(content string) ([]FrontmatterField, string, error) {
	if !strings.HasPrefix(content, frontmatterDelim+"\n") {
		return nil, "", fmt.Errorf("missing frontmatter open delimiter")
	}
	rest := content[len(frontmatterDelim)+1:]

	closeIdx := strings.Index(rest, "\n"+frontmatterDelim+"\n")
	if closeIdx < 0 {
		// Tolerate a file that ends exactly at the closing delimiter with
		// no trailing body.
		if strings.HasSuffix(rest, "\n"+frontmatterDelim) {
			closeIdx = len(rest) - len("\n"+frontmatterDelim)
			yamlPart := rest[:closeIdx]
			fields, err := decodeYAMLMapping(yamlPart)
			return fields, "", err
		}
		return nil, "", fmt.Errorf("missing frontmatter close delimiter")
	}

	yamlPart := rest[:closeIdx]
	body := rest[closeIdx+len("\n"+frontmatterDelim+"\n"):]

	fields, err := decodeYAMLMapping(yamlPart)
	if err != nil {
		return nil, "", err
	}
	return fields, body, nil
}

func decodeYAMLMapping(yamlPart string) ([]FrontmatterField, error) {
	var node yaml.Node
	if err := yaml.Unmarshal([]byte(yamlPart), &node); err != nil {
		return nil, fmt.Errorf("parse frontmatter yaml: %w", err)
	}
	if len(node.Content) == 0 {
		return nil, nil
	}
	mapping := node.Content[0]
	if mapping.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("frontmatter is not a mapping")
	}

	fields := make([]FrontmatterField, 0, len(mapping.Content)/2)
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		key := mapping.Content[i].Value
		var val interface{}
		if err := mapping.Content[i+1].Decode(&val); err != nil {
			return nil, fmt.Errorf("decode frontmatter field %q: %w", key, err)
		}
		fields = append(fields, FrontmatterField{Key: key, Value: val})
	}
	return fields, nil
}

// FieldsMap converts ordered fields to a lookup map, for callers that only
// need random access rather than order (e.g. extracting a single key).
func FieldsMap(fields []FrontmatterField) map[string]interface{} {
	m := make(map[string]interface{}, len(fields))
	for _, f := range fields {
		m[f.Key] = f.Value
	}
	return m
}
