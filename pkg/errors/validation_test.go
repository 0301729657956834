package errors

import (
	"testing"
)

func TestValidateOutputPath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "out.png", false},
		{"nested", "renders/portrait.svg", false},
		{"absolute", "/tmp/out.json", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 1100)), true},
		{"null byte", "out\x00.png", true},
		{"newline", "out\n.png", true},
		{"directory", "renders/", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputPath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateOutputPath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("ValidateOutputPath(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestValidateImageFilename(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"png", "portrait.png", false},
		{"jpeg upper", "PHOTO.JPEG", false},
		{"webp", "cat.webp", false},
		{"tiff", "scan.tif", false},

		{"empty", "", true},
		{"with path /", "path/to/file.png", true},
		{"with path \\", "path\\file.png", true},
		{"no extension", "portrait", true},
		{"svg", "vector.svg", true},
		{"control char", "a\x01.png", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateImageFilename(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateImageFilename(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []Code{
		ErrCodeInvalidInput,
		ErrCodeInvalidImage,
		ErrCodeInvalidConfig,
		ErrCodeInvalidFormat,
		ErrCodeInvalidPlan,
		ErrCodeInvalidPath,
		ErrCodeEmptyLayout,
		ErrCodeNotFound,
		ErrCodeFileNotFound,
		ErrCodeNetwork,
		ErrCodeTimeout,
		ErrCodeCancelled,
		ErrCodeInternal,
		ErrCodeUnsupported,
	}

	seen := make(map[Code]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("Duplicate error code: %s", code)
		}
		seen[code] = true
	}
}
