package common

// UVersion is the current compiler version as a string.
const UVersion string = "0.1.0"

// ProjectFileName is the name of a TOML project file.
const ProjectFileName string = "u.toml"

// LegacyProjectFileExt is the file extension of a key=value project file.
const LegacyProjectFileExt string = ".uproj"

// SourceFileExt is the file extension for a U source file.
const SourceFileExt string = ".u"

// ModuleFileExt is the file extension for a compiled module file.
const ModuleFileExt string = ".uir"

// OutputDirName is the name of the default output directory inside a project.
const OutputDirName string = "bin"

// DefaultLangEdition is the language edition assumed when a project does not
// name one.
const DefaultLangEdition string = "2024.1.0"
