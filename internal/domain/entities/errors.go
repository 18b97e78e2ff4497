package entities

import "fmt"

// ContractViolation is the panic value raised when a caller breaks the
// construction protocol (closing the root, finishing with open groupings,
// appending a frame twice, building without a model). It signals a bug in
// the caller, not a data problem, and is never returned as an error.
type ContractViolation struct {
	Op      string
	Message string
}

func (e *ContractViolation) Error() string {
	return fmt.Sprintf("contract violation in %s: %s", e.Op, e.Message)
}

// NewContractViolation creates a new contract violation.
func NewContractViolation(op, format string, args ...any) *ContractViolation {
	return &ContractViolation{
		Op:      op,
		Message: fmt.Sprintf(format, args...),
	}
}
