package rewrite

import (
	"fmt"

	"fortio.org/safecast"
)

// Namer hands out fresh identifiers of the form __<base><n>. The counter is
// shared by all bases and only moves forward until Reset.
type Namer struct {
	next uint32
}

func (n *Namer) Fresh(base string) string {
	if n.next == ^uint32(0) {
		Violationf("fresh name counter exhausted")
	}
	n.next++
	return fmt.Sprintf("__%s%d", base, n.next)
}

// Issued reports how many names were handed out since the last Reset.
func (n *Namer) Issued() int {
	v, err := safecast.Conv[int](n.next)
	if err != nil {
		return int(^uint(0) >> 1)
	}
	return v
}

func (n *Namer) Reset() {
	n.next = 0
}
