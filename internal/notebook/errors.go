package notebook

import "strings"

// BadUploadError is a structured rejection of one archive entry: the content
// or the record failed validation. It carries field-level causes and never
// aborts the batch it occurred in.
type BadUploadError struct {
	Message string
	Causes  []string
}

func (e *BadUploadError) Error() string {
	if len(e.Causes) == 0 {
		return e.Message
	}
	return e.Message + ": " + strings.Join(e.Causes, "; ")
}
