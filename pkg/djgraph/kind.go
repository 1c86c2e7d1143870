package djgraph

import "fmt"

// Kind labels a DJ-graph edge as Dominance, BackJoin, or CrossJoin.
//
// Kind supports == but deliberately not <: edge kinds have no order, and
// wrapping the tag in a struct makes an ordered comparison a compile
// error. The zero Kind is invalid; every edge produced by [Build] carries
// one of the three exported values.
type Kind struct {
	kind uint8
}

var (
	// Dominance labels a dominator-tree edge: From immediately
	// dominates To.
	Dominance = Kind{1}

	// BackJoin labels a non-tree edge whose destination dominates its
	// source. The destination is a loop header.
	BackJoin = Kind{2}

	// CrossJoin labels a non-tree edge whose destination does not
	// dominate its source.
	CrossJoin = Kind{3}
)

// Valid reports whether k is one of the three edge kinds.
func (k Kind) Valid() bool { return k.kind >= 1 && k.kind <= 3 }

// String returns the full kind name: "dominance", "back-join", or
// "cross-join". The zero value stringifies as "invalid".
func (k Kind) String() string {
	switch k {
	case Dominance:
		return "dominance"
	case BackJoin:
		return "back-join"
	case CrossJoin:
		return "cross-join"
	default:
		return "invalid"
	}
}

// Abbrev returns the short form used in DOT labels: "D", "BJ", or "CJ".
func (k Kind) Abbrev() string {
	switch k {
	case Dominance:
		return "D"
	case BackJoin:
		return "BJ"
	case CrossJoin:
		return "CJ"
	default:
		return "?"
	}
}

// ParseKind converts a kind name (as produced by [Kind.String]) back into
// a Kind. It is the inverse used by the document decoder.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "dominance":
		return Dominance, nil
	case "back-join":
		return BackJoin, nil
	case "cross-join":
		return CrossJoin, nil
	default:
		return Kind{}, fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// MarshalText implements encoding.TextMarshaler so kinds serialize as
// their names in JSON.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: zero kind", ErrUnknownKind)
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
