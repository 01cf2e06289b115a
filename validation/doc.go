// Package validation checks configuration structs against their `validate`
// struct tags using go-playground/validator.
//
//	type Settings struct {
//	    Name string `mapstructure:"name" validate:"required"`
//	}
//	err := validation.Validate(&cfg)
//
// Errors are INVALID_INPUT AppErrors; the "fields" detail holds one
// FieldError per failed constraint, keyed by configuration path.
package validation
