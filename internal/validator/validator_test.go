package validator

import "testing"

func TestValidateSeatID(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		seat    string
		wantErr bool
	}{
		{"A1", false},
		{"B12", false},
		{"AB123", false},
		{"a1", true},
		{"1A", true},
		{"A", true},
		{"12", true},
		{"A1234", true},
		{"", true},
		{"A-1", true},
	}

	for _, tt := range tests {
		t.Run(tt.seat, func(t *testing.T) {
			err := v.Var(tt.seat, "seat_id")
			if (err != nil) != tt.wantErr {
				t.Errorf("seat %q: got err = %v, wantErr = %v", tt.seat, err, tt.wantErr)
			}
		})
	}
}
