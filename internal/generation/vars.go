package generation

import "maps"

// Reserved variable names.
const (
	VarAddress    = "address"
	VarSnapshotAt = "snapshotAt"
	VarCardData   = "cardData"
)

// Vars are the variables a build runs with: the normalized address, the
// snapshot time, and any enrichment added by pre-prompt hooks. Vars values are
// immutable; With returns a modified copy.
type Vars struct {
	Address    string
	SnapshotAt string
	extra      map[string]string
}

// NewVars returns vars for address and snapshotAt with no enrichment.
func NewVars(address, snapshotAt string) Vars {
	return Vars{Address: address, SnapshotAt: snapshotAt}
}

// With returns a copy of v with key set to value. Setting address or
// snapshotAt updates the corresponding field.
func (v Vars) With(key, value string) Vars {
	switch key {
	case VarAddress:
		v.Address = value
		return v
	case VarSnapshotAt:
		v.SnapshotAt = value
		return v
	}
	extra := make(map[string]string, len(v.extra)+1)
	maps.Copy(extra, v.extra)
	extra[key] = value
	v.extra = extra
	return v
}

// Lookup returns the value stored under key.
func (v Vars) Lookup(key string) (string, bool) {
	switch key {
	case VarAddress:
		return v.Address, v.Address != ""
	case VarSnapshotAt:
		return v.SnapshotAt, v.SnapshotAt != ""
	}
	val, ok := v.extra[key]
	return val, ok
}

// Extra returns a copy of the enrichment variables.
func (v Vars) Extra() map[string]string {
	return maps.Clone(v.extra)
}

func (v Vars) complete() bool {
	return v.Address != "" && v.SnapshotAt != ""
}
