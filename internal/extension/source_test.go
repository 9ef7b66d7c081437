package extension

import "testing"

func TestParseSource(t *testing.T) {
	tests := []struct {
		arg  string
		want Source
	}{
		{"hello", FromName("hello")},
		{"my-ext", FromName("my-ext")},
		{"./hello", FromPath("./hello")},
		{"../hello", FromPath("../hello")},
		{".", FromPath(".")},
		{"..", FromPath("..")},
		{"/opt/ext/hello", FromPath("/opt/ext/hello")},
		{"dir/hello", FromPath("dir/hello")},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			if got := ParseSource(tt.arg); got != tt.want {
				t.Errorf("ParseSource(%q) = %+v, want %+v", tt.arg, got, tt.want)
			}
		})
	}
}

func TestSourceKindString(t *testing.T) {
	tests := []struct {
		got  string
		want string
	}{
		{SourcePath.String(), "path"},
		{SourceName.String(), "name"},
		{FromName("hello").String(), "name hello"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}
