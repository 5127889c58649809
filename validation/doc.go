// Package validation checks request input before any work starts.
//
// Struct tag validation uses go-playground/validator with two extra tags,
// notblank and objectkey:
//
//	type Request struct {
//	    Filename string `json:"filename" validate:"required,notblank,objectkey"`
//	}
//	err := validation.Validate(req)
//
// Programmatic checks collect errors:
//
//	v := validation.New()
//	v.Required("filename", name).ObjectKey("filename", name)
//	if appErr := v.Validate(); appErr != nil { ... }
package validation
