package tracer

import "math"

// The BlockScheduler interface is implemented by all block scheduling algorithms.
type BlockScheduler interface {
	// Split frame into blocks of variable height and assign to the pool
	// of tracers using feedback collected from previous frames.
	//
	// This function returns the block height assignment for each tracer
	// in the input list. Assignments always add up to frameH.
	Schedule(tracers []Tracer, frameH uint32) []uint32
}

// The naive scheduler splits the frame using the speed estimate of each tracer.
type naiveScheduler struct{}

// Create a new naive scheduler instance.
func NaiveScheduler() BlockScheduler {
	return &naiveScheduler{}
}

// Assign rows proportionally to the tracer speed estimates. Each tracer gets
// at least one row while the frame has rows to spare and any leftover rows
// are assigned to the first tracer.
func (sch *naiveScheduler) Schedule(tracers []Tracer, frameH uint32) []uint32 {
	weights := make([]float64, len(tracers))
	for idx, tr := range tracers {
		weights[idx] = float64(tr.Speed())
	}
	return distributeRows(weights, frameH)
}

// The perfect scheduler assumes that the volume of tracing work between two
// subsequent frames is approximately the same.
type perfectScheduler struct {
	numTracers int
}

// Create a new perfect scheduler instance.
func PerfectScheduler() BlockScheduler {
	return &perfectScheduler{}
}

// Split frame into blocks of variable height and assign to the pool
// of tracers using feedback collected from previous frames.
//
// When previous frame information is available the scheduler uses the
// following formula for estimating the workload for tracer w and frame i+1:
// w_i, f_i+1 = (blockH,w_i / time,w_i) / Σ(blockH_i / time_i)
func (sch *perfectScheduler) Schedule(tracers []Tracer, frameH uint32) []uint32 {
	// If this is the first time we try to schedule or the number of tracers
	// has changed we need to reset the block assignments
	if sch.numTracers != len(tracers) {
		sch.numTracers = len(tracers)
		return NaiveScheduler().Schedule(tracers, frameH)
	}

	// Use last frame statistics
	weights := make([]float64, len(tracers))
	for idx, tr := range tracers {
		stats := tr.Stats()
		if stats.BlockH == 0 || stats.RenderTime <= 0 {
			return NaiveScheduler().Schedule(tracers, frameH)
		}
		weights[idx] = float64(stats.BlockH) / float64(stats.RenderTime)
	}

	return distributeRows(weights, frameH)
}

// Split frameH rows between len(weights) blocks so that each block height is
// proportional to its weight.
func distributeRows(weights []float64, frameH uint32) []uint32 {
	blockAssignment := make([]uint32, len(weights))
	if len(weights) == 0 {
		return blockAssignment
	}

	var total float64
	for _, w := range weights {
		total += w
	}

	// Fall back to an even split if weights carry no information
	if total <= 0 || math.IsInf(total, 0) || math.IsNaN(total) {
		for idx := range weights {
			weights[idx] = 1.0
		}
		total = float64(len(weights))
	}

	scaler := float64(frameH) / total
	var scheduledRows uint32
	for idx, w := range weights {
		blockAssignment[idx] = uint32(math.Max(1.0, math.Floor(w*scaler)))
		scheduledRows += blockAssignment[idx]
	}

	// In case rows don't add up to the frame height append the missing ones to the first tracer
	if scheduledRows <= frameH {
		blockAssignment[0] += frameH - scheduledRows
		return blockAssignment
	}

	// The one-row minimum overbooked the frame; take rows back from the largest blocks
	for ; scheduledRows > frameH; scheduledRows-- {
		maxIdx := 0
		for idx, rows := range blockAssignment {
			if rows >= blockAssignment[maxIdx] {
				maxIdx = idx
			}
		}
		blockAssignment[maxIdx]--
	}

	return blockAssignment
}
