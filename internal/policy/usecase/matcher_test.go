package usecase

import "testing"

func TestMatchPath(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		path    string
		want    bool
	}{
		{"ExactMatch", "/services/app/db", "/services/app/db", true},
		{"WildcardSegment", "/services/app/*", "/services/app/db", true},
		{"WildcardNeverCrossesSlash", "/services/app/*", "/services/app/db/password", false},
		{"WildcardInMiddle", "/services/*/db", "/services/x/db", true},
		{"WildcardInMiddleNoMatch", "/services/*/db", "/services/db", false},
		{"TrailingSlashNormalised", "/services/app/", "/services/app", true},
		{"CaseSensitive", "/services/App", "/services/app", false},
		{"EmptyPattern", "", "/services/app", false},
		{"EmptyPath", "/services/app", "", false},
		{"DifferentSegmentCount", "/services/app", "/services/app/db", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MatchPath(tt.pattern, tt.path); got != tt.want {
				t.Errorf("MatchPath(%q, %q) = %v, want %v", tt.pattern, tt.path, got, tt.want)
			}
		})
	}
}
