// Provides common dedupe errors definitions.
package dedupe_errors

import "github.com/pkg/errors"

var (
	ErrClosed = errors.New("dedupe: index is closed")
)

// UseAfterClose builds the panic value for an operation invoked on a
// torn down index. errors.Is(err, ErrClosed) holds for the result.
func UseAfterClose(op string) error {
	return errors.Wrapf(ErrClosed, "dedupe: %s", op)
}
