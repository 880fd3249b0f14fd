package element

import (
	"fmt"

	"github.com/nodalsim/mnacore/pkg/mnaerr"
)

func pinOutOfRangeError(pinIndex int) error {
	return mnaerr.NewConfigurationError("connect", fmt.Sprintf("pin index %d out of range [0,2)", pinIndex))
}
