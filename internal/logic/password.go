package logic

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/slaner/DataChest/internal/chest"
	"github.com/slaner/DataChest/internal/keys"
)

// promptPassword reads a password from the terminal without echo and returns it as a literal text source.
func promptPassword(in *os.File, out io.Writer) (string, error) {
	fd := int(in.Fd()) //nolint:gosec // file descriptors fit in int

	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("%w: --ask-password needs an interactive terminal", chest.ErrInvalidParameter)
	}

	fmt.Fprint(out, "Password: ")

	b, err := term.ReadPassword(fd)

	fmt.Fprintln(out)

	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}

	return keys.PrefixText + string(b), nil
}
