package bot

import "testing"

func TestSplitCommand(t *testing.T) {
	tests := []struct {
		content  string
		wantCmd  string
		wantArgs string
	}{
		{content: "!lookup John Doe", wantCmd: "!lookup", wantArgs: "John Doe"},
		{content: "!LOOKUP John Doe", wantCmd: "!lookup", wantArgs: "John Doe"},
		{content: "!check", wantCmd: "!check", wantArgs: ""},
		{content: "!check   5", wantCmd: "!check", wantArgs: "5"},
		{content: "!score Jane Roe\nEngineer", wantCmd: "!score", wantArgs: "Jane Roe\nEngineer"},
		{content: "John Doe", wantCmd: "", wantArgs: "John Doe"},
		{content: "", wantCmd: "", wantArgs: ""},
	}
	for _, tt := range tests {
		cmd, args := splitCommand(tt.content)
		if cmd != tt.wantCmd || args != tt.wantArgs {
			t.Errorf("splitCommand(%q) = %q,%q, want %q,%q", tt.content, cmd, args, tt.wantCmd, tt.wantArgs)
		}
	}
}

func TestNeedsPlaceholder(t *testing.T) {
	tests := []struct {
		name    string
		content string
		waiting bool
		want    bool
	}{
		{name: "profile url", content: "https://linkedin.com/in/jane-roe", want: true},
		{name: "name shaped", content: "Jane Roe", want: true},
		{name: "noise", content: "what do you mean", want: false},
		{name: "noise while url owed", content: "what do you mean", waiting: true, want: true},
		{name: "headline shaped", content: "CEO | Entrepreneur | Visionary", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := needsPlaceholder(tt.content, tt.waiting); got != tt.want {
				t.Errorf("needsPlaceholder(%q, %v) = %v, want %v", tt.content, tt.waiting, got, tt.want)
			}
		})
	}
}

func TestShortID(t *testing.T) {
	a, b := shortID(), shortID()
	if len(a) != 8 || len(b) != 8 {
		t.Fatalf("shortID lengths = %d,%d, want 8", len(a), len(b))
	}
	if a == b {
		t.Error("consecutive ids collided")
	}
}
