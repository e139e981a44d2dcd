// Package tree holds fully built trees and renders them as text diagrams,
// Mermaid graphs or JSON. Because the whole tree is known up front, the text
// printer always knows which node is the last of its siblings.
package tree

import (
	"fmt"
	"strings"
)

// Property is a key with one or more values attached to a [Node].
type Property struct {
	Key    string `json:"key" yaml:"key"`
	Values []any  `json:"values" yaml:"values"`
	// Multi renders the values as a parenthesised list even if there is
	// only one.
	Multi bool `json:"multi,omitempty" yaml:"multi,omitempty"`
}

// NewProperty creates a Property.
func NewProperty(key string, multi bool, values ...any) Property {
	return Property{Key: key, Values: values, Multi: multi}
}

func (p Property) String() string {
	if !p.Multi && len(p.Values) == 1 {
		return fmt.Sprintf("%s=%v", p.Key, p.Values[0])
	}
	vals := make([]string, len(p.Values))
	for i, v := range p.Values {
		vals[i] = fmt.Sprint(v)
	}
	return fmt.Sprintf("%s=(%s)", p.Key, strings.Join(vals, ", "))
}

// Node is a single entry of a tree.
type Node struct {
	Name       string     `json:"name" yaml:"name"`
	ID         string     `json:"id,omitempty" yaml:"id,omitempty"`
	Properties []Property `json:"properties,omitempty" yaml:"properties,omitempty"`
	// Comments are printed as additional lines below the header.
	Comments []string `json:"comments,omitempty" yaml:"comments,omitempty"`
	Children []*Node  `json:"children,omitempty" yaml:"children,omitempty"`
}

// NewNode creates a Node without properties or children.
func NewNode(name, id string) *Node {
	return &Node{Name: name, ID: id}
}

// AddChild appends a new child to n and returns it.
func (n *Node) AddChild(name, id string, properties []Property) *Node {
	child := &Node{Name: name, ID: id, Properties: properties}
	n.Children = append(n.Children, child)
	return child
}

// Header returns the first line printed for n.
func (n *Node) Header() string {
	var sb strings.Builder
	sb.WriteString(n.Name)
	if n.ID != "" {
		sb.WriteString(" #")
		sb.WriteString(n.ID)
	}
	for _, p := range n.Properties {
		if len(p.Values) == 0 {
			continue
		}
		sb.WriteByte(' ')
		sb.WriteString(p.String())
	}
	return sb.String()
}

// Walk calls fn for n and all of its descendants in pre-order. Returning
// false from fn skips the children of that node.
func (n *Node) Walk(fn func(n *Node, depth int) bool) {
	n.walk(fn, 0)
}

func (n *Node) walk(fn func(n *Node, depth int) bool, depth int) {
	if !fn(n, depth) {
		return
	}
	for _, child := range n.Children {
		child.walk(fn, depth+1)
	}
}
