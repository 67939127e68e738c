package depm

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml"
	"golang.org/x/mod/semver"

	"ulang/common"
)

// ProjectFile is a loaded project file: the project descriptor plus the build
// settings it declares.
type ProjectFile struct {
	// The absolute path to the project file and its enclosing directory.
	Path, Root string

	Project Project

	Allocator          string
	Deallocator        string
	Entry              string
	DisallowDeprecated bool
	DisallowWarnings   bool

	LangEdition Version
	UseStd      bool
	StdEdition  Version
}

// tomlProjectFile represents a project file as it is encoded in TOML.
type tomlProjectFile struct {
	Project *tomlProject `toml:"project"`
	Build   *tomlBuild   `toml:"build"`
	Lang    *tomlLang    `toml:"lang"`
}

type tomlProject struct {
	ID      string `toml:"id"`
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

type tomlBuild struct {
	Allocator          string `toml:"allocator,omitempty"`
	Deallocator        string `toml:"deallocator,omitempty"`
	Entry              string `toml:"entry,omitempty"`
	DisallowDeprecated bool   `toml:"disallow-deprecated"`
	DisallowWarnings   bool   `toml:"disallow-warnings"`
}

type tomlLang struct {
	Edition    string `toml:"edition"`
	UseStd     bool   `toml:"use-std"`
	StdEdition string `toml:"std-edition,omitempty"`
}

// FindProjectFile locates the project file for path.  If path is a file it is
// returned as is.  If it is a directory, its `u.toml` is preferred over the
// first `.uproj` file it contains.
func FindProjectFile(path string) (string, error) {
	finfo, err := os.Stat(path)
	if err != nil {
		return "", err
	}

	if !finfo.IsDir() {
		return filepath.Abs(path)
	}

	tomlPath := filepath.Join(path, common.ProjectFileName)
	if _, err := os.Stat(tomlPath); err == nil {
		return filepath.Abs(tomlPath)
	}

	matches, err := filepath.Glob(filepath.Join(path, "*"+common.LegacyProjectFileExt))
	if err != nil {
		return "", err
	} else if len(matches) == 0 {
		return "", fmt.Errorf("no project file found in `%s`", path)
	}

	return filepath.Abs(matches[0])
}

// LoadProject loads and validates the project file at path: either a TOML
// `u.toml` file or a key=value `.uproj` file.
func LoadProject(path string) (*ProjectFile, error) {
	abspath, err := FindProjectFile(path)
	if err != nil {
		return nil, err
	}

	buff, err := os.ReadFile(abspath)
	if err != nil {
		return nil, err
	}

	tpf := &tomlProjectFile{}
	if filepath.Ext(abspath) == common.LegacyProjectFileExt {
		if tpf, err = parseLegacyProject(buff); err != nil {
			return nil, fmt.Errorf("error parsing project file at `%s`: %s", abspath, err)
		}
	} else if err := toml.Unmarshal(buff, tpf); err != nil {
		return nil, fmt.Errorf("error parsing project file at `%s`: %s", abspath, err)
	}

	pf := &ProjectFile{
		Path: abspath,
		Root: filepath.Dir(abspath),
	}

	if err := validateProject(pf, tpf); err != nil {
		return nil, fmt.Errorf("invalid project file at `%s`: %s", abspath, err)
	}

	return pf, nil
}

// validateProject checks that the project file contents are valid and moves
// them into pf.
func validateProject(pf *ProjectFile, tpf *tomlProjectFile) error {
	if tpf.Project == nil || tpf.Project.ID == "" {
		return errors.New("missing project id")
	}

	if !IsValidIdentifier(tpf.Project.ID) {
		return errors.New("project id must be a valid identifier")
	}

	pf.Project.ID = tpf.Project.ID
	pf.Project.Name = tpf.Project.Name
	if pf.Project.Name == "" {
		pf.Project.Name = pf.Project.ID
	}

	var err error
	if pf.Project.Version, err = ParseVersion(tpf.Project.Version, "1.0.0"); err != nil {
		return err
	}

	if tpf.Build != nil {
		pf.Allocator = tpf.Build.Allocator
		pf.Deallocator = tpf.Build.Deallocator
		pf.Entry = tpf.Build.Entry
		pf.DisallowDeprecated = tpf.Build.DisallowDeprecated
		pf.DisallowWarnings = tpf.Build.DisallowWarnings
	}

	lang := tpf.Lang
	if lang == nil {
		lang = &tomlLang{}
	}

	if pf.LangEdition, err = ParseVersion(lang.Edition, common.DefaultLangEdition); err != nil {
		return err
	}

	pf.UseStd = lang.UseStd
	if pf.StdEdition, err = ParseVersion(lang.StdEdition, common.DefaultLangEdition); err != nil {
		return err
	}

	return nil
}

// ParseVersion parses a `major.minor.revision` version string.  An empty string
// is replaced by def.
func ParseVersion(s, def string) (Version, error) {
	if s == "" {
		s = def
	}

	canon := "v" + s
	if !semver.IsValid(canon) || semver.Canonical(canon) != canon || semver.Prerelease(canon) != "" {
		return Version{}, fmt.Errorf("`%s` is not a valid major.minor.revision version", s)
	}

	var parts [3]uint32
	for i, part := range strings.SplitN(strings.TrimPrefix(canon, "v"), ".", 3) {
		n, err := strconv.ParseUint(part, 10, 32)
		if err != nil {
			return Version{}, fmt.Errorf("version component `%s` out of range", part)
		}

		parts[i] = uint32(n)
	}

	return Version{Major: parts[0], Minor: parts[1], Revision: parts[2]}, nil
}

// -----------------------------------------------------------------------------

// parseLegacyProject parses a key=value project file into the same form as a
// TOML project file.  Blank lines and lines starting with `#` are ignored.
func parseLegacyProject(buff []byte) (*tomlProjectFile, error) {
	tpf := &tomlProjectFile{
		Project: &tomlProject{},
		Build:   &tomlBuild{},
		Lang:    &tomlLang{},
	}

	sc := bufio.NewScanner(bytes.NewReader(buff))
	for ln := 1; sc.Scan(); ln++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("line %d: expected `key=value`", ln)
		}

		key, value = strings.TrimSpace(key), strings.TrimSpace(value)
		switch key {
		case "id":
			tpf.Project.ID = value
		case "name":
			tpf.Project.Name = value
		case "version":
			tpf.Project.Version = value
		case "allocator":
			tpf.Build.Allocator = value
		case "deallocator":
			tpf.Build.Deallocator = value
		case "entry":
			tpf.Build.Entry = value
		case "disallow_deprecated", "disallow_warnings", "use_std":
			b, err := strconv.ParseBool(value)
			if err != nil {
				return nil, fmt.Errorf("line %d: `%s` must be a boolean", ln, key)
			}

			switch key {
			case "disallow_deprecated":
				tpf.Build.DisallowDeprecated = b
			case "disallow_warnings":
				tpf.Build.DisallowWarnings = b
			default:
				tpf.Lang.UseStd = b
			}
		case "lang_edition":
			tpf.Lang.Edition = value
		case "std_edition":
			tpf.Lang.StdEdition = value
		default:
			return nil, fmt.Errorf("line %d: unknown key `%s`", ln, key)
		}
	}

	return tpf, sc.Err()
}

// -----------------------------------------------------------------------------

// InitProject creates a new TOML project file for a project with the given id
// in the directory at path.
func InitProject(id, path string) (string, error) {
	projFilePath := filepath.Join(path, common.ProjectFileName)

	_, err := os.Stat(projFilePath)
	if err == nil {
		return "", errors.New("project file already exists")
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("project file error: %s", err)
	}

	if !IsValidIdentifier(id) {
		return "", errors.New("project id must be a valid identifier")
	}

	if err := os.MkdirAll(path, 0755); err != nil {
		return "", err
	}

	tpf := &tomlProjectFile{
		Project: &tomlProject{ID: id, Name: id, Version: "1.0.0"},
		Build:   &tomlBuild{Entry: "main"},
		Lang:    &tomlLang{Edition: common.DefaultLangEdition},
	}

	f, err := os.Create(projFilePath)
	if err != nil {
		return "", fmt.Errorf("error creating project file: %s", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(tpf); err != nil {
		return "", fmt.Errorf("error encoding TOML: %s", err)
	}

	return projFilePath, nil
}

// IsValidIdentifier returns whether or not a given string would be a valid
// identifier (project id, namespace name, etc.)
func IsValidIdentifier(idstr string) bool {
	if idstr == "" {
		return false
	}

	if idstr[0] == '_' || ('a' <= idstr[0] && idstr[0] <= 'z') || ('A' <= idstr[0] && idstr[0] <= 'Z') {
		for _, c := range idstr[1:] {
			if c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9') {
				continue
			}

			return false
		}

		return true
	}

	return false
}
