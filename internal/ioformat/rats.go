package ioformat

import (
	"fmt"
	"io"

	"ratsim/internal/population"
	"ratsim/internal/simerr"
)

// ReadRatPositions parses the rat position file format: a header "nnode
// nrat" (nnode must match the graph's node count) followed by nrat lines
// each holding one agent's initial node index (§6).
func ReadRatPositions(r io.Reader, graphNNode int, globalSeed uint64) (*population.Population, error) {
	ls := newLineScanner(r)

	header, ok := ls.next()
	if !ok {
		return nil, &simerr.BadRatFileError{Line: 1, Reason: "missing header"}
	}
	var nnode, nrat int
	if n, _ := fmt.Sscanf(header, "%d %d", &nnode, &nrat); n != 2 {
		return nil, &simerr.BadRatFileError{Line: ls.line, Reason: "malformed rat file header"}
	}
	if nnode != graphNNode {
		return nil, &simerr.SizeMismatchError{GraphNodes: graphNNode, RatNodes: nnode}
	}

	pop, err := population.New(nnode, nrat, globalSeed)
	if err != nil {
		return nil, err
	}

	positions := make([]int, nrat)
	for r := 0; r < nrat; r++ {
		line, ok := ls.next()
		if !ok {
			return nil, &simerr.BadRatFileError{Line: ls.line + 1, Reason: "unexpected end of file"}
		}
		var nid int
		if n, _ := fmt.Sscanf(line, "%d", &nid); n != 1 {
			return nil, &simerr.BadRatFileError{Line: ls.line, Reason: "malformed position line"}
		}
		if nid < 0 || nid >= nnode {
			return nil, &simerr.BadRatFileError{Line: ls.line, Reason: fmt.Sprintf("invalid node index %d", nid)}
		}
		positions[r] = nid
	}

	if err := pop.SetPositions(positions); err != nil {
		return nil, err
	}
	return pop, nil
}
