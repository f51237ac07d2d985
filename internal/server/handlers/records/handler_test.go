package records

import "testing"

func TestNormalizeID(t *testing.T) {
	tests := []struct {
		name    string
		id      any
		want    string
		wantErr bool
	}{
		{name: "string", id: "first-post", want: "first-post"},
		{name: "integer number", id: float64(42), want: "42"},
		{name: "fractional number", id: float64(1.5), want: "1.5"},
		{name: "empty string", id: "", wantErr: true},
		{name: "reserved route segment", id: "uncommitted", wantErr: true},
		{name: "unsupported type", id: true, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizeID(tt.id)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("normalizeID failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
