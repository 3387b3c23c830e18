package circuit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGateProperties(t *testing.T) {
	tests := []struct {
		gate        Gate
		name        string
		arity       int
		selfInverse bool
	}{
		{GateH, "h", 1, true},
		{GateX, "x", 1, true},
		{GateY, "y", 1, true},
		{GateZ, "z", 1, true},
		{GateS, "s", 1, false},
		{GateT, "t", 1, false},
		{GateCX, "cx", 2, true},
		{GateSwap, "swap", 2, true},
		{GateBarrier, "barrier", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.gate.String())
			assert.Equal(t, tt.arity, tt.gate.Arity())
			assert.Equal(t, tt.selfInverse, tt.gate.SelfInverse())

			parsed, err := ParseGate(" " + tt.name + " ")
			require.NoError(t, err)
			assert.Equal(t, tt.gate, parsed)
		})
	}

	assert.Equal(t, "gate(99)", Gate(99).String())
	_, err := ParseGate("toffoli")
	assert.ErrorIs(t, err, ErrInvalidOperation)
}

func TestOpString(t *testing.T) {
	assert.Equal(t, "h q[3]", Op{Gate: GateH, Qubits: []int{3}}.String())
	assert.Equal(t, "cx q[0],q[1]", Op{Gate: GateCX, Qubits: []int{0, 1}}.String())
	assert.Equal(t, "barrier q[0],q[1],q[2]", Op{Gate: GateBarrier, Qubits: []int{0, 1, 2}}.String())
}

func TestOpEqual(t *testing.T) {
	a := Op{Gate: GateCX, Qubits: []int{0, 1}}
	assert.True(t, a.Equal(Op{Gate: GateCX, Qubits: []int{0, 1}}))
	assert.False(t, a.Equal(Op{Gate: GateCX, Qubits: []int{1, 0}}))
	assert.False(t, a.Equal(Op{Gate: GateSwap, Qubits: []int{0, 1}}))
	assert.False(t, a.Equal(Op{Gate: GateCX, Qubits: []int{0}}))
}
