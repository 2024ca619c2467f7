package cli

import (
	"reflect"
	"testing"
)

func TestExpandTagPattern(t *testing.T) {
	tags := []string{"github", "gitlab", "bank", "wifi code"}

	tests := []struct {
		name    string
		pattern string
		want    []string
		wantErr bool
	}{
		{"exact match", "bank", []string{"bank"}, false},
		{"exact match with space", "wifi code", []string{"wifi code"}, false},
		{"exact miss", "gmail", nil, true},
		{"glob prefix", "git*", []string{"github", "gitlab"}, false},
		{"glob single char", "git?ub", []string{"github"}, false},
		{"glob no match", "aws*", nil, true},
		{"invalid pattern", "[", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpandTagPattern(tt.pattern, tags)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ExpandTagPattern failed: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExpandTagPattern(%q) = %v, want %v", tt.pattern, got, tt.want)
			}
		})
	}
}
