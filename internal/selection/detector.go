package selection

// ChangeDetector tells dependent views when a selection needs recomputing.
// It compares the selection size against the size seen at the previous check
// and also remembers explicit changes marked in between.
type ChangeDetector struct {
	lastCount int
	dirty     bool
}

// Mark records that a command altered the selection
func (d *ChangeDetector) Mark() {
	d.dirty = true
}

// Check reports whether s changed since the previous Check and resets the state
func (d *ChangeDetector) Check(s Set) bool {
	changed := d.dirty || s.Len() != d.lastCount
	d.lastCount = s.Len()
	d.dirty = false
	return changed
}
