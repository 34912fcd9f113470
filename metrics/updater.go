package metrics

import "time"

// UpdateOK records a successful Tree.Update call and its latency.
func (m *Metrics) UpdateOK(d time.Duration) {
	if m == nil {
		return
	}
	m.Updates.WithLabelValues("ok").Inc()
	m.UpdateDuration.Observe(d.Seconds())
}

// UpdateErr records a failed Tree.Update call.
func (m *Metrics) UpdateErr() {
	if m == nil {
		return
	}
	m.Updates.WithLabelValues("error").Inc()
}

// GetResult records a Tree.Get call, labeled by whether the key resolved.
func (m *Metrics) GetResult(found bool) {
	if m == nil {
		return
	}
	if found {
		m.Gets.WithLabelValues("found").Inc()
	} else {
		m.Gets.WithLabelValues("not_found").Inc()
	}
}

// ProofCompiled records a MerkleProof compilation, its latency and program size.
func (m *Metrics) ProofCompiled(d time.Duration, programBytes int) {
	if m == nil {
		return
	}
	m.Compiled.Inc()
	m.CompileDuration.Observe(d.Seconds())
	m.ProgramSize.Observe(float64(programBytes))
}

// VerifyOK records a successful proof verification and its latency.
func (m *Metrics) VerifyOK(d time.Duration) {
	if m == nil {
		return
	}
	m.Verifications.WithLabelValues("ok").Inc()
	m.VerifyDuration.Observe(d.Seconds())
}

// VerifyErr records a failed proof verification.
func (m *Metrics) VerifyErr(d time.Duration) {
	if m == nil {
		return
	}
	m.Verifications.WithLabelValues("error").Inc()
	m.VerifyDuration.Observe(d.Seconds())
}

// StoreIOError records a Store backend failure for the named operation
// (get_branch, insert_branch, remove_branch, get_leaf, insert_leaf, remove_leaf).
func (m *Metrics) StoreIOError(operation string) {
	if m == nil {
		return
	}
	m.IOErrors.WithLabelValues(operation).Inc()
}

// BatchInserted records a BatchState Insert call, labeled by outcome.
func (m *Metrics) BatchInserted(capacity int, ok bool) {
	if m == nil {
		return
	}
	m.Capacity.Set(float64(capacity))
	if ok {
		m.Inserts.WithLabelValues("ok").Inc()
	} else {
		m.Inserts.WithLabelValues("insufficient_capacity").Inc()
	}
}
