package rewrite

import "fmt"

// ContractViolation signals that a pass reached a node shape it assumed could
// not occur. It aborts the pass for the whole tree.
type ContractViolation struct {
	Pass string
	Msg  string
}

func (v *ContractViolation) Error() string {
	if v.Pass == "" {
		return "contract violation: " + v.Msg
	}
	return fmt.Sprintf("%s: contract violation: %s", v.Pass, v.Msg)
}

// Violationf panics with a *ContractViolation; Engine.Run turns it into an error.
func Violationf(format string, args ...any) {
	panic(&ContractViolation{Msg: fmt.Sprintf(format, args...)})
}
