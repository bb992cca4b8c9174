package object

// NumericEqual implements `=`: numeric magnitude comparison across integer
// and float, per spec.md §3.1.
func NumericEqual(a, b Value) bool {
	af, aok := AsFloat(a)
	bf, bok := AsFloat(b)
	if !aok || !bok {
		return false
	}
	return af == bf
}

// AsFloat extracts a is a Number (Integer or Float) as a float64.
func AsFloat(v Value) (float64, bool) {
	switch v := v.(type) {
	case Integer:
		return float64(v.Value), true
	case Float:
		return v.Value, true
	default:
		return 0, false
	}
}

// IsNumber reports whether v is an Integer or Float.
func IsNumber(v Value) bool {
	_, ok := AsFloat(v)
	return ok
}

// DeepEqual implements `equal?`: deep structural equality across all value
// kinds, treating Vector and List as distinct types even when
// element-equal, per spec.md §3.1.
func DeepEqual(a, b Value) bool {
	switch av := a.(type) {
	case Nil:
		_, ok := b.(Nil)
		return ok
	case Boolean:
		bv, ok := b.(Boolean)
		return ok && av.Value == bv.Value
	case Integer:
		switch bv := b.(type) {
		case Integer:
			return av.Value == bv.Value
		case Float:
			return float64(av.Value) == bv.Value
		}
		return false
	case Float:
		switch bv := b.(type) {
		case Integer:
			return av.Value == float64(bv.Value)
		case Float:
			return av.Value == bv.Value
		}
		return false
	case String:
		bv, ok := b.(String)
		return ok && av.Value == bv.Value
	case Symbol:
		bv, ok := b.(Symbol)
		return ok && av.Name == bv.Name
	case *List:
		bv, ok := b.(*List)
		if !ok || len(av.Elements) != len(bv.Elements) {
			return false
		}
		for i := range av.Elements {
			if !DeepEqual(av.Elements[i], bv.Elements[i]) {
				return false
			}
		}
		return true
	case *Vector:
		bv, ok := b.(*Vector)
		if !ok || len(av.Elements) != len(bv.Elements) {
			return false
		}
		for i := range av.Elements {
			if !DeepEqual(av.Elements[i], bv.Elements[i]) {
				return false
			}
		}
		return true
	case *Map:
		bv, ok := b.(*Map)
		if !ok || len(av.Order) != len(bv.Order) {
			return false
		}
		for _, k := range av.Order {
			ap := av.Pairs[k]
			bp, ok := bv.Pairs[k]
			if !ok || !DeepEqual(ap.Value, bp.Value) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}
