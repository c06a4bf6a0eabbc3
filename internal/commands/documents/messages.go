package documentscmd

import (
	"path/filepath"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	processFileMessageType      = "metagen.documents.process_file"
	processDirectoryMessageType = "metagen.documents.process_directory"
)

// ProcessFileCommand runs a single document through the metadata pipeline.
type ProcessFileCommand struct {
	// Path is the document path, relative to the service base path or absolute.
	Path string `json:"path"`
}

// Type implements command.Message.
func (ProcessFileCommand) Type() string { return processFileMessageType }

// Validate ensures a path is present before handlers execute.
func (cmd ProcessFileCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Path, validation.Required, validation.By(notBlank("metagen.documents.process_file.path_required", "path is required"))),
	)
}

// ProcessDirectoryCommand walks Directory and processes every matching
// document.
type ProcessDirectoryCommand struct {
	Directory string `json:"directory"`
	// Pattern overrides the configured glob.
	Pattern string `json:"pattern,omitempty"`
	// Recursive overrides the configured recursion when set.
	Recursive *bool `json:"recursive,omitempty"`
	// FailOnError turns per-document failures into a command error.
	FailOnError bool `json:"fail_on_error,omitempty"`
}

// Type implements command.Message.
func (ProcessDirectoryCommand) Type() string { return processDirectoryMessageType }

// Validate ensures directory input is present and the pattern compiles.
func (cmd ProcessDirectoryCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Directory, validation.Required, validation.By(notBlank("metagen.documents.process_directory.directory_required", "directory is required"))),
		validation.Field(&cmd.Pattern, validation.By(func(value any) error {
			pattern, _ := value.(string)
			if pattern == "" {
				return nil
			}
			if _, err := filepath.Match(pattern, ""); err != nil {
				return validation.NewError("metagen.documents.process_directory.pattern_invalid", "pattern is not a valid glob")
			}
			return nil
		})),
	)
}

func notBlank(code, message string) validation.RuleFunc {
	return func(value any) error {
		if s, _ := value.(string); strings.TrimSpace(s) == "" {
			return validation.NewError(code, message)
		}
		return nil
	}
}
