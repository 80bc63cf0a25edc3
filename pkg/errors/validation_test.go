package errors

import "testing"

func TestValidateOutputPath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"valid relative", "out/catalog.yaml", false},
		{"valid absolute", "/tmp/catalog.yaml", false},
		{"empty", "", true},
		{"null byte", "out\x00.yaml", true},
		{"control character", "out\x07.yaml", true},
		{"too long", string(make([]byte, 501)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputPath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateOutputPath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("error code = %v, want %v", GetCode(err), ErrCodeInvalidPath)
			}
		})
	}
}

func TestValidateEquipmentID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"valid", "EQ-001", false},
		{"free-form", "Panel LP-1 (Main)", false},
		{"empty", "", true},
		{"control character", "EQ\x01", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEquipmentID(tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateEquipmentID(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
		})
	}
}
