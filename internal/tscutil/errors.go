package tscutil

import "strings"

// FlattenErrors joins the messages of the non-nil errors with "; ", or returns
// the empty string if there are none.
func FlattenErrors(errs ...error) string {
	strs := make([]string, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			strs = append(strs, err.Error())
		}
	}
	return strings.Join(strs, "; ")
}
