package errors

import (
	stderrors "errors"
	"fmt"
	"sort"
	"strings"
)

// IsCoded reports whether err, or anything it wraps, is an *Error
func IsCoded(err error) bool {
	var coded *Error
	return stderrors.As(err, &coded)
}

// Is reports whether the outermost coded error in err's chain carries code
func Is(err error, code Code) bool {
	var coded *Error
	if !stderrors.As(err, &coded) {
		return false
	}
	return coded.Code.Equals(code)
}

// GetContext extracts context from the outermost coded error
func GetContext(err error) map[string]string {
	var coded *Error
	if stderrors.As(err, &coded) {
		return coded.Context
	}
	return nil
}

// GetCode returns the code string of the outermost coded error, or ""
func GetCode(err error) string {
	var coded *Error
	if stderrors.As(err, &coded) {
		return coded.Code.String()
	}
	return ""
}

// FormatError renders err for multi-line log output
func FormatError(err error) string {
	var coded *Error
	if !stderrors.As(err, &coded) {
		return err.Error()
	}

	parts := []string{
		fmt.Sprintf("Code: %s", coded.Code),
		fmt.Sprintf("Message: %s", coded.Message),
	}

	if len(coded.Context) > 0 {
		keys := make([]string, 0, len(coded.Context))
		for k := range coded.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		parts = append(parts, "Context:")
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("  %s: %v", k, coded.Context[k]))
		}
	}

	if coded.Cause != nil {
		parts = append(parts, fmt.Sprintf("Cause: %v", coded.Cause))
	}

	return strings.Join(parts, "\n")
}

// AsError converts any error to *Error. Coded errors found anywhere in the
// chain are returned as-is; everything else becomes common.internal.
//
//	if err := stage(); err != nil {
//	    return errors.AsError(err).AddContext("file_id", id)
//	}
func AsError(err error) *Error {
	if err == nil {
		return nil
	}

	var coded *Error
	if stderrors.As(err, &coded) {
		return coded
	}

	return New(CommonInternal, err.Error(), err)
}
