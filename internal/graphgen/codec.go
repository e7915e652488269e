package graphgen

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Write serialises g: the vertex count on the first line, then one
// "u v capacity" line per edge in slice order.
func Write(w io.Writer, g *Graph) error {
	bw := bufio.NewWriter(w)
	buf := appendHeader(make([]byte, 0, 64), g.Vertices)
	if _, err := bw.Write(buf); err != nil {
		return err
	}
	for _, e := range g.Edges {
		buf = appendEdge(buf[:0], e)
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func appendHeader(buf []byte, v int) []byte {
	buf = strconv.AppendInt(buf, int64(v), 10)
	return append(buf, '\n')
}

func appendEdge(buf []byte, e Edge) []byte {
	buf = strconv.AppendInt(buf, int64(e.From), 10)
	buf = append(buf, ' ')
	buf = strconv.AppendInt(buf, int64(e.To), 10)
	buf = append(buf, ' ')
	buf = strconv.AppendInt(buf, int64(e.Capacity), 10)
	return append(buf, '\n')
}

// ReadHeader reads only the vertex count line of a graph file.
func ReadHeader(r io.Reader) (int, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return 0, err
	}
	line = strings.TrimSpace(line)
	v, err := strconv.Atoi(line)
	if err != nil || v < 1 {
		return 0, fmt.Errorf("invalid vertex count %q: %w", line, ErrMalformed)
	}
	return v, nil
}

// Read parses a graph file. Blank lines are skipped; any other line that is
// not three integers with both endpoints in [0, V) is rejected.
func Read(r io.Reader) (*Graph, error) {
	scanner := bufio.NewScanner(r)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("missing vertex count: %w", ErrMalformed)
	}
	v, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
	if err != nil || v < 1 {
		return nil, fmt.Errorf("line 1: invalid vertex count %q: %w", scanner.Text(), ErrMalformed)
	}

	g := &Graph{Vertices: v}
	for lineNo := 2; scanner.Scan(); lineNo++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 3 {
			return nil, fmt.Errorf("line %d: expected 3 fields, got %d: %w", lineNo, len(fields), ErrMalformed)
		}
		var nums [3]int
		for i, f := range fields {
			n, err := strconv.Atoi(f)
			if err != nil {
				return nil, fmt.Errorf("line %d: %q is not an integer: %w", lineNo, f, ErrMalformed)
			}
			nums[i] = n
		}
		if nums[0] < 0 || nums[0] >= v || nums[1] < 0 || nums[1] >= v {
			return nil, fmt.Errorf("line %d: endpoint out of range [0,%d): %w", lineNo, v, ErrMalformed)
		}
		g.Edges = append(g.Edges, Edge{From: nums[0], To: nums[1], Capacity: nums[2]})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return g, nil
}
