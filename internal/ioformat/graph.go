// Package ioformat implements the graph and rat-position text file
// readers (§6). Both formats skip leading '#'-prefixed comment lines
// (ignoring leading whitespace) before every record, including the
// header.
package ioformat

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"ratsim/internal/graph"
	"ratsim/internal/simerr"
)

// lineScanner reads non-comment lines one at a time, tracking the 1-based
// line number of the last line returned, for error messages.
type lineScanner struct {
	sc   *bufio.Scanner
	line int
}

func newLineScanner(r io.Reader) *lineScanner {
	return &lineScanner{sc: bufio.NewScanner(r)}
}

func isComment(s string) bool {
	t := strings.TrimSpace(s)
	return strings.HasPrefix(t, "#")
}

// next returns the next non-comment, non-empty line, or ("", false) at EOF.
func (ls *lineScanner) next() (string, bool) {
	for ls.sc.Scan() {
		ls.line++
		line := ls.sc.Text()
		if strings.TrimSpace(line) == "" || isComment(line) {
			continue
		}
		return line, true
	}
	return "", false
}

// ReadGraph parses the graph file format: a header "nnode nedge
// [tile_size]" followed by nedge "head tail" lines with non-decreasing
// head, then builds the CSR graph with a synthesized self-edge first in
// every node's block (§4.2/§6).
func ReadGraph(r io.Reader) (*graph.Graph, error) {
	ls := newLineScanner(r)

	header, ok := ls.next()
	if !ok {
		return nil, &simerr.BadGraphFileError{Line: 1, Reason: "missing header"}
	}
	var nnode, nedge, tileSize int
	n, _ := fmt.Sscanf(header, "%d %d %d", &nnode, &nedge, &tileSize)
	if n < 2 {
		return nil, &simerr.BadGraphFileError{Line: ls.line, Reason: "Malformed graph file header"}
	}

	g, err := graph.New(nnode, nedge, tileSize)
	if err != nil {
		return nil, err
	}

	nid := -1
	eid := 0
	for i := 0; i < nedge; i++ {
		line, ok := ls.next()
		if !ok {
			return nil, &simerr.BadGraphFileError{Line: ls.line + 1, Reason: "unexpected end of file"}
		}
		var hid, tid int
		if n, _ := fmt.Sscanf(line, "%d %d", &hid, &tid); n != 2 {
			return nil, &simerr.BadGraphFileError{Line: ls.line, Reason: "malformed edge line"}
		}
		if hid < 0 || hid >= nnode {
			return nil, &simerr.BadGraphFileError{Line: ls.line, Reason: fmt.Sprintf("invalid head index %d", hid)}
		}
		if tid < 0 || tid >= nnode {
			return nil, &simerr.BadGraphFileError{Line: ls.line, Reason: fmt.Sprintf("invalid tail index %d", tid)}
		}
		if hid < nid {
			return nil, &simerr.BadGraphFileError{Line: ls.line, Reason: fmt.Sprintf("head index %d out of order", hid)}
		}
		for nid < hid {
			nid++
			g.NeighborStart[nid] = eid
			g.Neighbor[eid] = nid
			eid++
		}
		g.Neighbor[eid] = tid
		eid++
	}
	// Any trailing isolated nodes still need their self-edge block opened.
	for nid < nnode-1 {
		nid++
		g.NeighborStart[nid] = eid
		g.Neighbor[eid] = nid
		eid++
	}
	g.NeighborStart[nnode] = eid

	return g, nil
}
