package ports

// Generator burns CPU for one unit of work scaled by intensity. The
// output is discarded; only the wall-clock cost matters.
type Generator func(intensity int)

// MaxPhase is the highest difficulty tier a workload table covers.
const MaxPhase = 4

// WorkloadTable maps a phase number to its generator. Index 0 is unused
// so that table[phase] reads directly; a nil entry means no-op.
type WorkloadTable [MaxPhase + 1]Generator

// Generator returns the generator for phase, or nil when the phase is
// outside the table. Workers treat nil as a no-op iteration.
func (t WorkloadTable) Generator(phase int) Generator {
	if phase < 1 || phase > MaxPhase {
		return nil
	}
	return t[phase]
}
