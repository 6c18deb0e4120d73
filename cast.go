package tempus

// CastTime converts src to variant T, rounding to the nearest tick of T with
// halves rounded up. Sentinels map to the corresponding sentinel of T. An
// instant outside the range of T is a *RangeError; the batch casts in
// package vec yield INVALID instead.
//
// Casting to a variant whose resolution is at least as fine as the source's
// and back yields the original value. Casting through a coarser variant
// yields the original, a value within one source tick, or INVALID; it never
// wraps into an unrelated instant.
func CastTime[T TimeType[T]](src AnyTime) (T, error) {
	var zero T
	if k := src.Kind(); k != KindValid {
		return zero.withKind(k), nil
	}
	t, ok := zero.fromExact(src.exact())
	if !ok {
		return t, newRangeError("cast", zero.ElementType().Name, src.String())
	}
	return t, nil
}

// Compare orders two instants of possibly different variants, exactly. ok
// is false if either is a sentinel.
func Compare(a, b AnyTime) (cmp int, ok bool) {
	if a.Kind() != KindValid || b.Kind() != KindValid {
		return 0, false
	}
	return a.exact().Cmp(b.exact()), true
}

// Equal reports whether a and b are the same instant, or sentinels of the
// same kind, regardless of variant.
func Equal(a, b AnyTime) bool {
	ka, kb := a.Kind(), b.Kind()
	if ka != KindValid || kb != KindValid {
		return ka == kb
	}
	return a.exact().Cmp(b.exact()) == 0
}

// Less reports whether a and b are valid and a precedes b.
func Less(a, b AnyTime) bool {
	c, ok := Compare(a, b)
	return ok && c < 0
}
