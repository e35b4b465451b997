package parser

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// NodeKind identifies the JSON type of a Node.
type NodeKind int

const (
	NodeNull NodeKind = iota
	NodeBool
	NodeNumber
	NodeString
	NodeArray
	NodeObject
)

func (k NodeKind) String() string {
	switch k {
	case NodeNull:
		return "null"
	case NodeBool:
		return "boolean"
	case NodeNumber:
		return "number"
	case NodeString:
		return "string"
	case NodeArray:
		return "array"
	case NodeObject:
		return "object"
	default:
		return "unknown"
	}
}

// Node is a decoded document value that keeps object keys in document order.
// Emission order follows declaration order, so plain Go maps are not enough.
type Node struct {
	Kind   NodeKind
	Bool   bool
	Number string
	String string
	Items  []*Node
	Keys   []string
	Fields map[string]*Node
}

// Get returns the value stored under key when n is an object.
func (n *Node) Get(key string) (*Node, bool) {
	if n == nil || n.Kind != NodeObject {
		return nil, false
	}
	v, ok := n.Fields[key]
	return v, ok
}

// Lookup follows a chain of object keys.
func (n *Node) Lookup(path ...string) (*Node, bool) {
	cur := n
	for _, key := range path {
		next, ok := cur.Get(key)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

func (n *Node) set(key string, v *Node) {
	if _, dup := n.Fields[key]; !dup {
		n.Keys = append(n.Keys, key)
	}
	n.Fields[key] = v
}

func newObjectNode() *Node {
	return &Node{Kind: NodeObject, Fields: map[string]*Node{}}
}

func decodeJSON(data []byte) (*Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty document")
		}
		return nil, err
	}
	return decodeJSONValue(dec, tok)
}

func decodeJSONValue(dec *json.Decoder, tok json.Token) (*Node, error) {
	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			n := newObjectNode()
			for dec.More() {
				kt, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := kt.(string)
				if !ok {
					return nil, fmt.Errorf("unexpected object key token %v", kt)
				}
				vt, err := dec.Token()
				if err != nil {
					return nil, err
				}
				child, err := decodeJSONValue(dec, vt)
				if err != nil {
					return nil, fmt.Errorf("%s: %w", key, err)
				}
				n.set(key, child)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return n, nil
		case '[':
			n := &Node{Kind: NodeArray}
			for i := 0; dec.More(); i++ {
				it, err := dec.Token()
				if err != nil {
					return nil, err
				}
				child, err := decodeJSONValue(dec, it)
				if err != nil {
					return nil, fmt.Errorf("[%d]: %w", i, err)
				}
				n.Items = append(n.Items, child)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return n, nil
		}
		return nil, fmt.Errorf("unexpected delimiter %q", rune(v))
	case string:
		return &Node{Kind: NodeString, String: v}, nil
	case json.Number:
		return &Node{Kind: NodeNumber, Number: v.String()}, nil
	case float64:
		return &Node{Kind: NodeNumber, Number: fmt.Sprint(v)}, nil
	case bool:
		return &Node{Kind: NodeBool, Bool: v}, nil
	case nil:
		return &Node{Kind: NodeNull}, nil
	default:
		return nil, fmt.Errorf("unexpected token %v", tok)
	}
}

func decodeYAML(data []byte) (*Node, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	if root.Kind == 0 {
		return nil, fmt.Errorf("empty document")
	}
	return fromYAMLNode(&root)
}

func fromYAMLNode(y *yaml.Node) (*Node, error) {
	switch y.Kind {
	case yaml.DocumentNode:
		if len(y.Content) == 0 {
			return &Node{Kind: NodeNull}, nil
		}
		return fromYAMLNode(y.Content[0])
	case yaml.AliasNode:
		if y.Alias == nil {
			return &Node{Kind: NodeNull}, nil
		}
		return fromYAMLNode(y.Alias)
	case yaml.MappingNode:
		n := newObjectNode()
		for i := 0; i+1 < len(y.Content); i += 2 {
			key := y.Content[i].Value
			child, err := fromYAMLNode(y.Content[i+1])
			if err != nil {
				return nil, fmt.Errorf("%s: %w", key, err)
			}
			n.set(key, child)
		}
		return n, nil
	case yaml.SequenceNode:
		n := &Node{Kind: NodeArray}
		for i, c := range y.Content {
			child, err := fromYAMLNode(c)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			n.Items = append(n.Items, child)
		}
		return n, nil
	case yaml.ScalarNode:
		switch y.ShortTag() {
		case "!!null":
			return &Node{Kind: NodeNull}, nil
		case "!!bool":
			var b bool
			if err := y.Decode(&b); err != nil {
				return nil, err
			}
			return &Node{Kind: NodeBool, Bool: b}, nil
		case "!!int", "!!float":
			return &Node{Kind: NodeNumber, Number: y.Value}, nil
		default:
			return &Node{Kind: NodeString, String: y.Value}, nil
		}
	default:
		return nil, fmt.Errorf("unsupported YAML node at line %d", y.Line)
	}
}
