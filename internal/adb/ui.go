package adb

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"wakeplay/internal/host"
)

// UINode is one node of a uiautomator dump.
type UINode struct {
	Text        string   `xml:"text,attr"`
	ResourceID  string   `xml:"resource-id,attr"`
	Class       string   `xml:"class,attr"`
	Package     string   `xml:"package,attr"`
	ContentDesc string   `xml:"content-desc,attr"`
	Clickable   string   `xml:"clickable,attr"`
	Enabled     string   `xml:"enabled,attr"`
	Bounds      string   `xml:"bounds,attr"`
	Nodes       []UINode `xml:"node"`
}

type uiHierarchy struct {
	XMLName xml.Name `xml:"hierarchy"`
	Nodes   []UINode `xml:"node"`
}

var boundsPattern = regexp.MustCompile(`\[(-?\d+),(-?\d+)\]\[(-?\d+),(-?\d+)\]`)

// Center returns the middle of the node's bounds.
func (n UINode) Center() (x, y int, ok bool) {
	m := boundsPattern.FindStringSubmatch(n.Bounds)
	if len(m) != 5 {
		return 0, 0, false
	}
	x1, _ := strconv.Atoi(m[1])
	y1, _ := strconv.Atoi(m[2])
	x2, _ := strconv.Atoi(m[3])
	y2, _ := strconv.Atoi(m[4])
	if x2 <= x1 || y2 <= y1 {
		return 0, 0, false
	}
	return (x1 + x2) / 2, (y1 + y2) / 2, true
}

// parseHierarchy decodes uiautomator output, skipping anything adb prints
// around the XML document.
func parseHierarchy(out string) ([]UINode, error) {
	start := strings.Index(out, "<?xml")
	if start == -1 {
		start = strings.Index(out, "<hierarchy")
	}
	if start == -1 {
		return nil, fmt.Errorf("no UI hierarchy in dump output")
	}
	out = out[start:]
	if end := strings.LastIndex(out, ">"); end != -1 {
		out = out[:end+1]
	}

	var root uiHierarchy
	dec := xml.NewDecoder(bytes.NewReader([]byte(out)))
	dec.Strict = false
	if err := dec.Decode(&root); err != nil {
		return nil, fmt.Errorf("failed to parse UI hierarchy: %w", err)
	}
	return root.Nodes, nil
}

// findNode returns the best node for sel: an exact (case-insensitive) match
// first, then a node whose text or description contains the wanted value.
// Editable fields are skipped for text matches since they echo typed input.
func findNode(nodes []UINode, sel host.Selector) (UINode, bool) {
	if n, ok := walk(nodes, func(n UINode) bool { return matches(n, sel, strings.EqualFold) }); ok {
		return n, true
	}
	return walk(nodes, func(n UINode) bool { return matches(n, sel, containsFold) })
}

func walk(nodes []UINode, match func(UINode) bool) (UINode, bool) {
	for _, n := range nodes {
		if match(n) {
			if _, _, ok := n.Center(); ok {
				return n, true
			}
		}
		if found, ok := walk(n.Nodes, match); ok {
			return found, true
		}
	}
	return UINode{}, false
}

func matches(n UINode, sel host.Selector, eq func(a, b string) bool) bool {
	if sel.Text == "" && sel.Description == "" {
		return false
	}
	if sel.Package != "" && n.Package != sel.Package {
		return false
	}
	if n.Enabled == "false" {
		return false
	}
	if sel.Text != "" && (isEditable(n) || !eq(n.Text, sel.Text)) {
		return false
	}
	if sel.Description != "" && !eq(n.ContentDesc, sel.Description) {
		return false
	}
	return true
}

func isEditable(n UINode) bool {
	return strings.HasSuffix(n.Class, "EditText")
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
