// Package workload provides the CPU-bound kernels the stress workers run.
// Each kernel burns wall-clock time proportional to its intensity
// parameter; results are published to package-level sinks so the work
// cannot be optimized away.
package workload

import (
	"bytes"
	"crypto/sha256"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/airmon1101/kiln/internal/ports"
)

// Discard sinks for kernel results.
var (
	sinkInt    int64
	sinkDigest [sha256.Size]byte
	sinkNorm   float64
)

// SimpleArithmetic is the phase-1 kernel: a light increment loop for a
// gradual temperature rise.
func SimpleArithmetic(intensity int) {
	x := int64(0)
	for i := 0; i < intensity*500; i++ {
		x++
	}
	sinkInt = x
}

// ComplexArithmetic is the phase-2 kernel: a multiply loop for moderate
// load.
func ComplexArithmetic(intensity int) {
	x := int64(1)
	for i := 0; i < intensity*1000; i++ {
		x *= 2
	}
	sinkInt = x
}

// MatrixProduct is the phase-3 kernel: a dense multiply of two random
// square matrices of side 15*intensity.
func MatrixProduct(intensity int) {
	n := MatrixSide(intensity)
	a := mat.NewDense(n, n, randomSlice(n*n))
	b := mat.NewDense(n, n, randomSlice(n*n))
	var c mat.Dense
	c.Mul(a, b)
	sinkNorm = c.At(0, 0)
}

// MatrixSide returns the matrix dimension for a given intensity.
func MatrixSide(intensity int) int {
	return 15 * intensity
}

// IntensiveHashing is the phase-4 kernel: repeated SHA-256 over a buffer
// that grows with intensity, for extreme load.
func IntensiveHashing(intensity int) {
	data := bytes.Repeat([]byte("stress_data"), intensity*10)
	for i := 0; i < intensity*20; i++ {
		sinkDigest = sha256.Sum256(data)
	}
}

func randomSlice(n int) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = rand.Float64()
	}
	return s
}

// Table is the phase dispatch table: adding a tier is a data change, not
// a control-flow change.
func Table() ports.WorkloadTable {
	return ports.WorkloadTable{
		1: SimpleArithmetic,
		2: ComplexArithmetic,
		3: MatrixProduct,
		4: IntensiveHashing,
	}
}
