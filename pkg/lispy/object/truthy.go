package object

// Truthy implements the invariant rule of spec.md §3.1: every value is
// truthy except false and nil.
func Truthy(v Value) bool {
	switch v := v.(type) {
	case Nil:
		return false
	case Boolean:
		return v.Value
	default:
		return true
	}
}
