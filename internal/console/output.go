package console

import (
	"fmt"
	"io"

	"github.com/ib-77/railyard/pkg/rop/matrix"
)

// WriteMatrix prints title followed by m, one row per line.
func WriteMatrix(w io.Writer, title string, m matrix.Matrix) error {
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}
	_, err := io.WriteString(w, m.String())
	return err
}

func ItemLine(v int) string {
	return fmt.Sprintf("Processed item: %d", v)
}
