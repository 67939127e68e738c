package depm

import (
	"io/fs"
	"path/filepath"
	"sort"

	"ulang/common"
	"ulang/syntax"
)

// SourceFile represents a U source file.
type SourceFile struct {
	// The index of the file in its module's file list.
	ID int

	// The absolute path to the file.
	AbsPath string

	// The path used to refer to the file in diagnostics: it is relative to the
	// project root.
	ReprPath string

	// The source text of the file.
	Src []byte

	// The tokens of the file.
	Tokens []*syntax.Token
}

// Text returns the source text of the given token.
func (sf *SourceFile) Text(tok *syntax.Token) string {
	return tok.Text(sf.Src)
}

// NewSourceFile creates a source file from already loaded source text.
func NewSourceFile(id int, absPath, reprPath string, src []byte) (*SourceFile, error) {
	toks, err := syntax.Tokenize(src)
	if err != nil {
		return nil, err
	}

	return &SourceFile{
		ID:       id,
		AbsPath:  absPath,
		ReprPath: reprPath,
		Src:      src,
		Tokens:   toks,
	}, nil
}

// DiscoverSources finds every U source file below root in lexical path order.
// The files are returned without being read.
func DiscoverSources(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path != root && d.Name() == common.OutputDirName {
				return filepath.SkipDir
			}

			return nil
		}

		if filepath.Ext(path) == common.SourceFileExt {
			paths = append(paths, path)
		}

		return nil
	})

	sort.Strings(paths)
	return paths, err
}

// LoadSource reads and tokenizes the source file at absPath.  The source file
// is returned even when tokenizing fails so its text can be used to display
// the error.
func LoadSource(id int, root, absPath string) (*SourceFile, error) {
	reprPath, err := filepath.Rel(root, absPath)
	if err != nil {
		reprPath = absPath
	}

	src, toks, err := syntax.TokenizeFile(absPath)
	sf := &SourceFile{
		ID:       id,
		AbsPath:  absPath,
		ReprPath: reprPath,
		Src:      src,
		Tokens:   toks,
	}

	return sf, err
}
