package layer

import "fmt"

// ContractViolation is the panic value raised when a caller passes a layer
// outside the declared domain. It is never returned as an error: callers on the
// hot path are trusted to stay in range.
type ContractViolation struct {
	Op    string
	Value uint32
	Limit uint32
}

func (c *ContractViolation) Error() string {
	return fmt.Sprintf("layer: %s: index %d out of range [0, %d)", c.Op, c.Value, c.Limit)
}

func violate(op string, v, limit uint32) {
	panic(&ContractViolation{Op: op, Value: v, Limit: limit})
}

// CheckObjectLayer panics with a *ContractViolation when l is not below n. Code
// holding layers on behalf of a world uses it to fail the same way this package
// does.
func CheckObjectLayer(op string, l ObjectLayer, n uint32) {
	if contractChecks && uint32(l) >= n {
		violate(op, uint32(l), n)
	}
}

// CheckBroadPhaseLayer is CheckObjectLayer for buckets.
func CheckBroadPhaseLayer(op string, l BroadPhaseLayer, n uint32) {
	if contractChecks && uint32(l) >= n {
		violate(op, uint32(l), n)
	}
}
