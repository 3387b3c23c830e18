package passes

import "github.com/opd-ai/qbridge/circuit"

// mergeFunc decides what happens when cur immediately follows prev on every
// wire of both. ok reports a match; keep reports whether merged replaces prev
// (otherwise both ops disappear).
type mergeFunc func(prev, cur circuit.Op) (merged circuit.Op, keep, ok bool)

// peephole merges wire-adjacent pairs with merge until no pair matches. Every
// merge shortens the sequence, so the loop ends once a scan leaves the length
// unchanged.
func peephole(ops []circuit.Op, width int, merge mergeFunc) []circuit.Op {
	for {
		out := peepholeScan(ops, width, merge)
		if len(out) == len(ops) {
			return out
		}
		ops = out
	}
}

// peepholeScan is a single scan. Cascades of removals are handled in the same
// scan because a removed op exposes the one before it on each wire. Barriers
// stay on the wire stacks and block merging.
func peepholeScan(ops []circuit.Op, width int, merge mergeFunc) []circuit.Op {
	res := make([]circuit.Op, 0, len(ops))
	alive := make([]bool, 0, len(ops))
	wires := make([][]int, width)

	top := func(q int) int {
		if s := wires[q]; len(s) > 0 {
			return s[len(s)-1]
		}
		return -1
	}

	for _, op := range ops {
		if p := adjacentPredecessor(op, res, top); p >= 0 {
			if merged, keep, ok := merge(res[p], op); ok {
				if keep {
					res[p] = merged
				} else {
					alive[p] = false
					for _, q := range res[p].Qubits {
						wires[q] = wires[q][:len(wires[q])-1]
					}
				}
				continue
			}
		}

		idx := len(res)
		res = append(res, op)
		alive = append(alive, true)
		for _, q := range op.Qubits {
			wires[q] = append(wires[q], idx)
		}
	}

	out := make([]circuit.Op, 0, len(res))
	for i, op := range res {
		if alive[i] {
			out = append(out, op)
		}
	}
	return out
}

// adjacentPredecessor returns the index of the op that is last on every wire
// of op and spans exactly the same wires, or -1.
func adjacentPredecessor(op circuit.Op, res []circuit.Op, top func(int) int) int {
	if len(op.Qubits) == 0 {
		return -1
	}
	p := top(op.Qubits[0])
	if p < 0 || len(res[p].Qubits) != len(op.Qubits) {
		return -1
	}
	for _, q := range op.Qubits[1:] {
		if top(q) != p {
			return -1
		}
	}
	return p
}

// cancelInverses removes pairs of identical self-inverse gates. SWAP is
// symmetric in its wires.
func cancelInverses(prev, cur circuit.Op) (circuit.Op, bool, bool) {
	if prev.Gate != cur.Gate || !cur.Gate.SelfInverse() {
		return circuit.Op{}, false, false
	}
	if prev.Equal(cur) || cur.Gate == circuit.GateSwap {
		return circuit.Op{}, false, true
	}
	return circuit.Op{}, false, false
}

// fusePhases merges T·T into S and S·S into Z on the same wire.
func fusePhases(prev, cur circuit.Op) (circuit.Op, bool, bool) {
	if prev.Gate != cur.Gate {
		return circuit.Op{}, false, false
	}
	switch cur.Gate {
	case circuit.GateT:
		return circuit.Op{Gate: circuit.GateS, Qubits: cur.Qubits}, true, true
	case circuit.GateS:
		return circuit.Op{Gate: circuit.GateZ, Qubits: cur.Qubits}, true, true
	}
	return circuit.Op{}, false, false
}
