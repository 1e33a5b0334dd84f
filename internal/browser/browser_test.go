package browser

import "testing"

func TestValidateRejectsNonHTTP(t *testing.T) {
	tests := []struct {
		url     string
		want    string
		wantErr bool
	}{
		{url: "https://www.svt.se/nyheter/1", want: "https://www.svt.se/nyheter/1"},
		{url: "http://example.com", want: "http://example.com"},
		{url: "//cdn.example.se/a", want: "https://cdn.example.se/a"},
		{url: "file:///etc/passwd", wantErr: true},
		{url: "javascript:alert(1)", wantErr: true},
		{url: "ftp://example.com", wantErr: true},
		{url: "/placeholder.svg?height=400&width=600", wantErr: true},
		{url: "https://", wantErr: true},
		{url: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := Validate(tt.url)
		if tt.wantErr {
			if err == nil {
				t.Errorf("Validate(%q): expected error", tt.url)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("Validate(%q) = %q, %v", tt.url, got, err)
		}
	}
}

func TestOpenRejectsBeforeLaunching(t *testing.T) {
	if err := Open("file:///etc/passwd"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestCommandPerPlatform(t *testing.T) {
	cases := map[string]string{
		"darwin":  "open",
		"windows": "rundll32",
		"linux":   "xdg-open",
		"freebsd": "xdg-open",
	}
	for goos, want := range cases {
		cmd := command(goos, "https://example.com")
		if len(cmd.Args) == 0 || cmd.Args[0] != want {
			t.Fatalf("%s: args = %v", goos, cmd.Args)
		}
		if cmd.Args[len(cmd.Args)-1] != "https://example.com" {
			t.Fatalf("%s: url not last arg: %v", goos, cmd.Args)
		}
	}
}
