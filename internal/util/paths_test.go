package util

import (
	"reflect"
	"testing"
)

func TestNormalizeDocPath(t *testing.T) {
	tests := []struct {
		name    string
		baseDir string
		path    string
		want    string
		wantOK  bool
	}{
		{
			name:    "relative path",
			baseDir: "/docs",
			path:    "guide.md",
			want:    "guide.md",
			wantOK:  true,
		},
		{
			name:    "relative path with leading dot",
			baseDir: "/docs",
			path:    "./notes/a.md",
			want:    "notes/a.md",
			wantOK:  true,
		},
		{
			name:    "relative path with redundant slashes",
			baseDir: "/docs",
			path:    "notes//a.md",
			want:    "notes/a.md",
			wantOK:  true,
		},
		{
			name:    "interior dotdot resolving inside",
			baseDir: "/docs",
			path:    "notes/../guide.md",
			want:    "guide.md",
			wantOK:  true,
		},
		{
			name:    "absolute path under base",
			baseDir: "/docs",
			path:    "/docs/sub/guide.md",
			want:    "sub/guide.md",
			wantOK:  true,
		},
		{
			name:    "absolute path outside base",
			baseDir: "/docs",
			path:    "/etc/passwd",
			want:    "/etc/passwd",
			wantOK:  false,
		},
		{
			name:    "absolute path equal to base",
			baseDir: "/docs",
			path:    "/docs",
			want:    "/docs",
			wantOK:  false,
		},
		{
			name:    "climbing above base",
			baseDir: "/docs",
			path:    "../secrets.md",
			want:    "../secrets.md",
			wantOK:  false,
		},
		{
			name:    "interior dotdot climbing out",
			baseDir: "/docs",
			path:    "notes/../../secrets.md",
			want:    "../secrets.md",
			wantOK:  false,
		},
		{
			name:    "bare dot",
			baseDir: "/docs",
			path:    ".",
			want:    ".",
			wantOK:  false,
		},
		{
			name:    "empty path",
			baseDir: "/docs",
			path:    "",
			want:    "",
			wantOK:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizeDocPath(tt.baseDir, tt.path)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("NormalizeDocPath() = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestPathSegments(t *testing.T) {
	tests := []struct {
		name string
		path string
		want []string
	}{
		{
			name: "nested path",
			path: "a/b/c.md",
			want: []string{"a", "b", "c.md"},
		},
		{
			name: "absolute path",
			path: "/a/b.md",
			want: []string{"a", "b.md"},
		},
		{
			name: "redundant slashes",
			path: "a//b.md",
			want: []string{"a", "b.md"},
		},
		{
			name: "single segment",
			path: "guide.md",
			want: []string{"guide.md"},
		},
		{
			name: "bare dot",
			path: ".",
			want: nil,
		},
		{
			name: "empty",
			path: "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PathSegments(tt.path)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("PathSegments() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestCommonPrefixLen(t *testing.T) {
	tests := []struct {
		name string
		a    []string
		b    []string
		want int
	}{
		{
			name: "shared prefix",
			a:    []string{"docs", "api", "rest.md"},
			b:    []string{"docs", "api", "grpc.md"},
			want: 2,
		},
		{
			name: "no overlap",
			a:    []string{"docs", "a.md"},
			b:    []string{"guides", "a.md"},
			want: 0,
		},
		{
			name: "identical",
			a:    []string{"docs", "a.md"},
			b:    []string{"docs", "a.md"},
			want: 2,
		},
		{
			name: "empty side",
			a:    nil,
			b:    []string{"docs"},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CommonPrefixLen(tt.a, tt.b)
			if got != tt.want {
				t.Errorf("CommonPrefixLen() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestBasenameAndExtension(t *testing.T) {
	if got := Basename("docs/api/rest.md"); got != "rest.md" {
		t.Errorf("Basename() = %q, want %q", got, "rest.md")
	}
	if got := StripExtension("rest.md"); got != "rest" {
		t.Errorf("StripExtension() = %q, want %q", got, "rest")
	}
	if got := StripExtension("README"); got != "README" {
		t.Errorf("StripExtension() = %q, want %q", got, "README")
	}
	if got := Extension("docs/REST.MD"); got != ".md" {
		t.Errorf("Extension() = %q, want %q", got, ".md")
	}
	if got := Extension("docs/noext"); got != "" {
		t.Errorf("Extension() = %q, want empty", got)
	}
}
