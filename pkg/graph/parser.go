package graph

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ParseEdgeList reads a whitespace-separated edge list into a directed graph.
// Each line is "from to [prob]"; when the probability column is missing the
// edge carries no probability attribute and consumers fall back to their
// configured default. Blank lines and lines starting with '#' are skipped.
func ParseEdgeList(r io.Reader) (*Graph, error) {
	g := NewGraph()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		switch len(fields) {
		case 1:
			// Isolated node
			g.AddNode(fields[0])
		case 2:
			g.AddNode(fields[0])
			g.AddNode(fields[1])
			key := EdgeKey{From: fields[0], To: fields[1]}
			if _, exists := g.Edges[key]; !exists {
				g.Edges[key] = make(Attrs)
				g.outgoing[fields[0]] = append(g.outgoing[fields[0]], fields[1])
				fromNode := g.Nodes[fields[0]]
				fromNode.OutDegree++
				g.Nodes[fields[0]] = fromNode
				toNode := g.Nodes[fields[1]]
				toNode.InDegree++
				g.Nodes[fields[1]] = toNode
			}
		case 3:
			prob, err := strconv.ParseFloat(fields[2], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid probability %q: %w", lineNum, fields[2], err)
			}
			if err := g.AddEdge(fields[0], fields[1], prob); err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNum, err)
			}
		default:
			return nil, fmt.Errorf("line %d: expected 'from to [prob]', got %d fields", lineNum, len(fields))
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read edge list: %w", err)
	}

	return g, nil
}

// LoadEdgeList reads an edge list file from disk
func LoadEdgeList(path string) (*Graph, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open edge list file: %w", err)
	}
	defer file.Close()

	g, err := ParseEdgeList(file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return g, nil
}
