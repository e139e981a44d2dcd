package treefmt

import (
	"errors"
	"fmt"
)

var (
	// ErrStructuralGap is returned by [Formatter.Descend] under [GapFail]
	// when the current level has no node to hang the new level from.
	ErrStructuralGap = errors.New("descend without a parent node")

	// ErrUnbalanced is returned by [Formatter.Close] when levels entered with
	// Descend were never left.
	ErrUnbalanced = errors.New("unbalanced descend/ascend")
)

// ContractViolation is the panic value used when a caller breaks the call
// protocol of a [Formatter], for example by ascending past the root.
type ContractViolation struct {
	Op        string
	Depth     int
	StackSize int
	Reason    string
}

func (c *ContractViolation) Error() string {
	return fmt.Sprintf("treefmt: %s: %s (depth %d, stack size %d)", c.Op, c.Reason, c.Depth, c.StackSize)
}
