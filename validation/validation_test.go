package validation

import (
	"strings"
	"testing"

	"github.com/kbukum/transcriber/errors"
)

func TestObjectKey(t *testing.T) {
	tests := []struct {
		key   string
		valid bool
	}{
		{"call.mp3", true},
		{"calls/2024/call.mp3", true},
		{"llamada con espacios.ogg", true},
		{"", false},
		{"   ", false},
		{"/etc/passwd", false},
		{"../secret.mp3", false},
		{"calls/../../x.mp3", false},
		{"calls/./x.mp3", false},
		{"calls/", false},
		{"a\\b.mp3", false},
		{"bad\x00name.mp3", false},
		{"line\nbreak.mp3", false},
		{strings.Repeat("a", MaxObjectKeyLength+1), false},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			err := ObjectKey(tt.key)
			if (err == nil) != tt.valid {
				t.Errorf("ObjectKey(%q) = %v, want valid=%v", tt.key, err, tt.valid)
			}
		})
	}
}

func TestStem(t *testing.T) {
	tests := map[string]string{
		"call.mp3":            "call",
		"calls/a.mp3":         "calls/a",
		"calls.v2/a":          "calls.v2/a",
		"archive.tar.gz":      "archive.tar",
		"no_extension":        "no_extension",
		"calls.d/a.final.wav": "calls.d/a.final",
	}
	for in, want := range tests {
		if got := Stem(in); got != want {
			t.Errorf("Stem(%q) = %q, want %q", in, got, want)
		}
	}
}

type request struct {
	Filename string `json:"filename" validate:"required,notblank,objectkey"`
}

func TestValidate_Struct(t *testing.T) {
	tests := []struct {
		name     string
		req      request
		wantCode errors.ErrorCode
	}{
		{"valid", request{Filename: "call.mp3"}, ""},
		{"missing", request{}, errors.ErrCodeMissingField},
		{"blank", request{Filename: "  "}, errors.ErrCodeMissingField},
		{"traversal", request{Filename: "../x.mp3"}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.req)
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			ae, ok := errors.AsAppError(err)
			if !ok {
				t.Fatalf("expected AppError, got %v", err)
			}
			if ae.Code != tt.wantCode || ae.Kind != errors.KindValidation || ae.HTTPStatus != 400 {
				t.Errorf("got code=%s kind=%s status=%d", ae.Code, ae.Kind, ae.HTTPStatus)
			}
			if !strings.Contains(ae.Message, "filename") {
				t.Errorf("message %q does not name the json field", ae.Message)
			}
		})
	}
}

func TestFilename(t *testing.T) {
	if err := Filename("filename", "call.mp3"); err != nil {
		t.Errorf("valid: %v", err)
	}
	ae, _ := errors.AsAppError(Filename("filename", ""))
	if ae == nil || ae.Code != errors.ErrCodeMissingField {
		t.Errorf("blank: %v", ae)
	}
	ae, _ = errors.AsAppError(Filename("filename", "/abs.mp3"))
	if ae == nil || ae.Code != errors.ErrCodeInvalidInput {
		t.Errorf("absolute: %v", ae)
	}
}

func TestValidatorChaining(t *testing.T) {
	v := New().
		Required("filename", "").
		MaxLength("note", "too long", 3).
		Custom(false, "bucket", "is not served")

	if !v.HasErrors() || len(v.Errors()) != 3 {
		t.Fatalf("errors = %v", v.Errors())
	}
	appErr := v.Validate()
	if appErr == nil || appErr.Kind != errors.KindValidation {
		t.Fatalf("appErr = %v", appErr)
	}
	if New().Required("filename", "call.mp3").Validate() != nil {
		t.Error("expected no error")
	}
}

func TestToSnakeCase(t *testing.T) {
	if got := toSnakeCase("SampleRateHz"); got != "sample_rate_hz" {
		t.Errorf("got %q", got)
	}
}
