package depm

// FileError is an error that occurred while processing a specific source file.
type FileError struct {
	File *SourceFile
	Err  error
}

func (fe *FileError) Error() string {
	return fe.File.ReprPath + ": " + fe.Err.Error()
}

func (fe *FileError) Unwrap() error {
	return fe.Err
}
