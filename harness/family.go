package harness

import "fmt"

// Family is one benchmark dimension.
type Family int

// Families run in declaration order.
const (
	FamilyCPU Family = iota
	FamilyMemory
	FamilyDisk
)

// Families returns all families in execution order.
func Families() []Family {
	return []Family{FamilyCPU, FamilyMemory, FamilyDisk}
}

func (f Family) String() string {
	switch f {
	case FamilyCPU:
		return "cpu"
	case FamilyMemory:
		return "memory"
	case FamilyDisk:
		return "disk"
	default:
		return fmt.Sprintf("family(%d)", int(f))
	}
}

// FirstID returns the lowest worker id of f when each family has n workers.
// Ids are assigned consecutively: CPU gets 0..n-1, memory n..2n-1 and disk
// 2n..3n-1.
func (f Family) FirstID(n int) int {
	return int(f) * n
}

// MarshalText implements encoding.TextMarshaler.
func (f Family) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Family) UnmarshalText(text []byte) error {
	for _, fam := range Families() {
		if fam.String() == string(text) {
			*f = fam

			return nil
		}
	}

	return fmt.Errorf("unknown family %q", text)
}
