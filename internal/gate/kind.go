package gate

import (
	"errors"
	"fmt"
)

// ErrUnknownGateKind is returned when a kind name cannot be parsed or a kind is
// missing from a catalog's vocabulary.
var ErrUnknownGateKind = errors.New("unknown gate kind")

// Kind identifies an operation kind. The zero value is Start.
type Kind uint8

const (
	// Start is the sentinel that opens every dependency graph.
	Start Kind = iota
	// End is the sentinel that closes every dependency graph.
	End
	Identity
	PauliX
	PauliY
	PauliZ
	Hadamard
	RX
	RY
	RZ
	Rot
	U3
	CU3
	CNOT
	CZ
	SWAP

	kindCount
)

var kindNames = [kindCount]string{
	Start:    "START",
	End:      "END",
	Identity: "Identity",
	PauliX:   "PauliX",
	PauliY:   "PauliY",
	PauliZ:   "PauliZ",
	Hadamard: "Hadamard",
	RX:       "RX",
	RY:       "RY",
	RZ:       "RZ",
	Rot:      "Rot",
	U3:       "U3",
	CU3:      "C(U3)",
	CNOT:     "CNOT",
	CZ:       "CZ",
	SWAP:     "SWAP",
}

var kindsByName = func() map[string]Kind {
	m := make(map[string]Kind, kindCount)
	for k := Kind(0); k < kindCount; k++ {
		m[kindNames[k]] = k
	}
	return m
}()

// ParseKind resolves a canonical kind name such as "RX" or "C(U3)".
func ParseKind(name string) (Kind, error) {
	k, ok := kindsByName[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownGateKind, name)
	}
	return k, nil
}

// ParseKinds resolves a list of names, failing on the first unknown one.
func ParseKinds(names []string) ([]Kind, error) {
	kinds := make([]Kind, 0, len(names))
	for _, name := range names {
		k, err := ParseKind(name)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

// String returns the canonical name of the kind.
func (k Kind) String() string {
	if k >= kindCount {
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
	return kindNames[k]
}

// Valid reports whether k is a member of the enumeration.
func (k Kind) Valid() bool {
	return k < kindCount
}

// IsSentinel reports whether k is Start or End.
func (k Kind) IsSentinel() bool {
	return k == Start || k == End
}

// Arity is the number of operand registers an operation of this kind occupies.
// Sentinels span every register and report 0.
func (k Kind) Arity() int {
	switch k {
	case Start, End:
		return 0
	case Identity, PauliX, PauliY, PauliZ, Hadamard, RX, RY, RZ, Rot, U3:
		return 1
	case CU3, CNOT, CZ, SWAP:
		return 2
	default:
		panic(fmt.Sprintf("gate: arity of invalid kind %d", uint8(k)))
	}
}

// Params is the number of continuous parameters the kind takes.
func (k Kind) Params() int {
	switch k {
	case Start, End, Identity, PauliX, PauliY, PauliZ, Hadamard, CNOT, CZ, SWAP:
		return 0
	case RX, RY, RZ:
		return 1
	case Rot, U3, CU3:
		return 3
	default:
		panic(fmt.Sprintf("gate: params of invalid kind %d", uint8(k)))
	}
}

// TwoRegister reports whether the kind belongs to the two-register class.
func (k Kind) TwoRegister() bool {
	return k.Arity() == 2
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownGateKind, uint8(k))
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
