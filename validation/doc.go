// Package validation checks configuration structs against their
// `validate` struct tags using go-playground/validator.
//
// Field names in errors are taken from the `prop` tag, so a failure points
// at the property key the user wrote:
//
//	type FileConfig struct {
//	    Path string `prop:"lh.file.path" validate:"required"`
//	}
//	err := validation.Validate(cfg) // INVALID_CONFIG_VALUE naming lh.file.path
package validation
