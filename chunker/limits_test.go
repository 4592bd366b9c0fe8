package chunker_test

import (
	"errors"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/MasterOfBinary/gochunk/chunker"
)

func TestLimits_Validate(t *testing.T) {
	tests := []struct {
		name    string
		limits  chunker.Limits
		wantErr bool
	}{
		{"valid", chunker.Limits{CountLimit: 500, SizeLimit: 5 << 20}, false},
		{"fractional size", chunker.Limits{CountLimit: 1, SizeLimit: 0.5}, false},
		{"zero value", chunker.Limits{}, true},
		{"no count", chunker.Limits{SizeLimit: 10}, true},
		{"negative size", chunker.Limits{CountLimit: 10, SizeLimit: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.limits.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, chunker.ErrInvalidLimits) {
				t.Errorf("expected ErrInvalidLimits, got %v", err)
			}
		})
	}
}

func TestLimits_YAML(t *testing.T) {
	var l chunker.Limits
	if err := yaml.Unmarshal([]byte("countLimit: 500\nsizeLimit: 4980736\n"), &l); err != nil {
		t.Fatal(err)
	}
	if l.CountLimit != 500 || l.SizeLimit != 4980736 {
		t.Errorf("unexpected limits: %+v", l)
	}
}
