package errors

import "errors"

var (
	ErrStructural        = errors.New("log does not match the expected format")
	ErrHistoryNotFound   = errors.New("history with provided id was not found")
	ErrAlreadyImported   = errors.New("log was already imported")
	ErrEmptyLogDir       = errors.New("no logs found under the provided path")
	ErrPathOutsideLogDir = errors.New("import path must stay inside the log directory")
	ErrInternal          = errors.New("internal error")
)
