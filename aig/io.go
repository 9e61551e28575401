package aig

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// This file implements a textual, AIGER-inspired load/dump format used
// only by test fixtures (testutil/fixtures.go) and the CLI's -in/-out files.
// It is deliberately simpler than binary AIGER: one literal per line,
// little-endian-style "2*id + inversion" literals exactly as AIGER
// defines them, but in ASCII instead of AIGER's packed delta encoding,
// since nothing here needs to interoperate with external AIGER tools.
//
// Header:   aag M I L O A     (M = max var index, I/L/O/A = counts)
// Inputs:   I lines, one literal each
// Latches:  L lines, "<out-lit> <next-lit>"
// Outputs:  O lines, one literal each
// Ands:     A lines, "<lhs-lit> <rhs0-lit> <rhs1-lit>"

func lit(r Ref) int {
	l := int(r.ID) * 2
	if r.Inv {
		l++
	}
	return l
}

func unlit(l int) Ref {
	return Ref{ID: ID(l / 2), Inv: l%2 == 1}
}

// Dump writes m in the textual AIGER-ish format described above.
func (m *Manager) Dump(w io.Writer) error {
	bw := bufio.NewWriter(w)
	maxVar := len(m.nodes) - 1
	if _, err := fmt.Fprintf(bw, "aag %d %d %d %d %d\n",
		maxVar, len(m.pis), len(m.los), len(m.pos), m.countAnds()); err != nil {
		return err
	}
	for _, id := range m.pis {
		if _, err := fmt.Fprintf(bw, "%d\n", lit(Ref{ID: id})); err != nil {
			return err
		}
	}
	for i, outID := range m.los {
		inID := m.lis[i]
		next := m.nodes[inID].Fanin0
		if _, err := fmt.Fprintf(bw, "%d %d\n", lit(Ref{ID: outID}), lit(next)); err != nil {
			return err
		}
	}
	for _, po := range m.pos {
		if _, err := fmt.Fprintf(bw, "%d\n", lit(po)); err != nil {
			return err
		}
	}
	for i := range m.nodes {
		n := &m.nodes[i]
		if n.Type != TypeAnd {
			continue
		}
		if _, err := fmt.Fprintf(bw, "%d %d %d\n", lit(Ref{ID: n.ID}), lit(n.Fanin0), lit(n.Fanin1)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func (m *Manager) countAnds() int {
	n := 0
	for i := range m.nodes {
		if m.nodes[i].Type == TypeAnd {
			n++
		}
	}
	return n
}

// Load reads the textual format produced by Dump and returns a fresh
// Manager. Node ids in the file are reused verbatim as ids in the result,
// so And nodes must appear after both of their fanins — the same
// topological constraint CreateAnd enforces when building a graph
// programmatically.
func Load(r io.Reader) (*Manager, error) {
	sc := bufio.NewScanner(r)
	if !sc.Scan() {
		return nil, fmt.Errorf("aig: empty input")
	}
	fields := strings.Fields(sc.Text())
	if len(fields) != 6 || fields[0] != "aag" {
		return nil, fmt.Errorf("aig: malformed header %q", sc.Text())
	}
	counts := make([]int, 5)
	for i := 0; i < 5; i++ {
		v, err := strconv.Atoi(fields[i+1])
		if err != nil {
			return nil, fmt.Errorf("aig: malformed header count %q: %w", fields[i+1], err)
		}
		counts[i] = v
	}
	maxVar, numI, numL, numO, numA := counts[0], counts[1], counts[2], counts[3], counts[4]

	m := &Manager{strash: make(map[strashKey]ID, maxVar+1)}
	m.nodes = make([]Node, 1, maxVar+1)
	m.nodes[0] = Node{ID: 0, Type: TypeConst1, Phase: true}

	readLit := func(what string) (int, error) {
		if !sc.Scan() {
			return 0, fmt.Errorf("aig: unexpected EOF reading %s", what)
		}
		v, err := strconv.Atoi(strings.TrimSpace(sc.Text()))
		if err != nil {
			return 0, fmt.Errorf("aig: malformed %s literal %q: %w", what, sc.Text(), err)
		}
		return v, nil
	}

	grow := func(id ID) {
		for len(m.nodes) <= int(id) {
			m.nodes = append(m.nodes, Node{ID: ID(len(m.nodes))})
		}
	}

	for i := 0; i < numI; i++ {
		l, err := readLit("input")
		if err != nil {
			return nil, err
		}
		id := ID(l / 2)
		grow(id)
		m.nodes[id] = Node{ID: id, Type: TypePI}
		m.pis = append(m.pis, id)
	}
	for i := 0; i < numL; i++ {
		if !sc.Scan() {
			return nil, fmt.Errorf("aig: unexpected EOF reading latch")
		}
		parts := strings.Fields(sc.Text())
		if len(parts) != 2 {
			return nil, fmt.Errorf("aig: malformed latch line %q", sc.Text())
		}
		outLit, err := strconv.Atoi(parts[0])
		if err != nil {
			return nil, fmt.Errorf("aig: malformed latch output %q: %w", parts[0], err)
		}
		nextLit, err := strconv.Atoi(parts[1])
		if err != nil {
			return nil, fmt.Errorf("aig: malformed latch next %q: %w", parts[1], err)
		}
		outID := ID(outLit / 2)
		grow(outID)
		m.nodes[outID] = Node{ID: outID, Type: TypeLatchOut}
		m.los = append(m.los, outID)
		// the latch-input node is synthesized with an id beyond maxVar so it
		// never collides with an AND id from the file
		inID := ID(maxVar + 1 + i)
		grow(inID)
		m.nodes[inID] = Node{ID: inID, Type: TypeLatchIn, Fanin0: unlit(nextLit)}
		m.nodes[outID].LatchNext = inID
		m.lis = append(m.lis, inID)
	}
	for i := 0; i < numO; i++ {
		l, err := readLit("output")
		if err != nil {
			return nil, err
		}
		m.pos = append(m.pos, unlit(l))
	}
	for i := 0; i < numA; i++ {
		if !sc.Scan() {
			return nil, fmt.Errorf("aig: unexpected EOF reading and-gate")
		}
		parts := strings.Fields(sc.Text())
		if len(parts) != 3 {
			return nil, fmt.Errorf("aig: malformed and-gate line %q", sc.Text())
		}
		vals := make([]int, 3)
		for j, p := range parts {
			v, err := strconv.Atoi(p)
			if err != nil {
				return nil, fmt.Errorf("aig: malformed and-gate literal %q: %w", p, err)
			}
			vals[j] = v
		}
		lhsID := ID(vals[0] / 2)
		f0, f1 := unlit(vals[1]), unlit(vals[2])
		grow(lhsID)
		fa, fb := &m.nodes[f0.ID], &m.nodes[f1.ID]
		lvl := fa.Level
		if fb.Level > lvl {
			lvl = fb.Level
		}
		m.nodes[lhsID] = Node{
			ID:     lhsID,
			Type:   TypeAnd,
			Fanin0: f0,
			Fanin1: f1,
			Level:  lvl + 1,
			Phase:  (fa.Phase != f0.Inv) && (fb.Phase != f1.Inv),
		}
		fa.fanoutCnt++
		fb.fanoutCnt++
		key := strashKey{f0, f1}
		if f0.ID > f1.ID || (f0.ID == f1.ID && f0.Inv) {
			key = strashKey{f1, f0}
		}
		m.strash[key] = lhsID
	}
	return m, nil
}
