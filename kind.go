package tempus

// Kind classifies a value as valid or as one of the two sentinels. Sentinels
// are terminal: arithmetic on INVALID yields INVALID and arithmetic on
// MISSING yields MISSING.
type Kind uint8

//go:generate stringer -type=Kind -trimprefix=Kind

const (
	// KindValid is a real calendrical quantity.
	KindValid Kind = iota
	// KindInvalid is the result of an undefined or out-of-range computation.
	KindInvalid
	// KindMissing is an explicitly absent value.
	KindMissing
)

// Unit describes what one raw tick of an element type measures.
type Unit uint8

//go:generate stringer -type=Unit -trimprefix=Unit

const (
	UnitDay Unit = iota
	UnitDaytick
	UnitTick
)

// ElementType describes the binary layout of a Date, Daytime or Time variant
// so that array runtimes can store values as bare integers.
type ElementType struct {
	Name   string
	Bits   int
	Signed bool
	Unit   Unit
	// Base is the datenum of raw value zero; zero for daytimes.
	Base int
	// Denominator is the number of raw ticks per second, or 1 for dates,
	// whose raw unit is the day.
	Denominator uint64
	// Invalid and Missing are the raw bit patterns of the sentinels,
	// sign-extended to 64 bits for signed layouts.
	Invalid uint64
	Missing uint64
}

// Resolution returns the smallest representable increment in seconds.
func (et ElementType) Resolution() float64 {
	if et.Unit == UnitDay {
		return 86400
	}
	return 1 / float64(et.Denominator)
}

// Sentinel is implemented by every Date, Daytime and Time type.
type Sentinel[V any] interface {
	Kind() Kind
	withKind(k Kind) V
}

// Invalid returns the INVALID sentinel of type V.
func Invalid[V Sentinel[V]]() V {
	var zero V
	return zero.withKind(KindInvalid)
}

// Missing returns the MISSING sentinel of type V.
func Missing[V Sentinel[V]]() V {
	var zero V
	return zero.withKind(KindMissing)
}
