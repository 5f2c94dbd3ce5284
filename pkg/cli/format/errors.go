package format

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/strato-sh/strato/pkg/types"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	hintColor    = color.New(color.FgYellow, color.Italic)
)

// RenderError prints a CLI error with a heading that reflects its kind
// and, where useful, a hint for recovering.
func RenderError(w io.Writer, err error) {
	if err == nil {
		return
	}

	switch {
	case errors.Is(err, types.ErrPromptDeclined):
		fmt.Fprintln(w, "Aborted.")

	case types.IsUsageError(err):
		errorColor.Fprint(w, "Usage error: ")
		fmt.Fprintln(w, err.Error())

	case types.IsTeardownAbortedError(err):
		warningColor.Fprint(w, "Teardown blocked: ")
		fmt.Fprintln(w, err.Error())
		hintColor.Fprintln(w, "No destructive call was made.")

	case types.IsNotSupportedError(err):
		errorColor.Fprint(w, "Not supported: ")
		fmt.Fprintln(w, err.Error())

	default:
		errorColor.Fprint(w, "Error: ")
		fmt.Fprintln(w, err.Error())
	}
}
