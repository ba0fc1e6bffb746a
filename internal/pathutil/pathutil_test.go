package pathutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"/", "/"},
		{"//", "/"},
		{`\`, "/"},
		{"/root/src/", "/root/src"},
		{"/root//src///a.ts", "/root/src/a.ts"},
		{`C:\Users\dev\project\`, "C:/Users/dev/project"},
		{`mixed\sep/path//`, "mixed/sep/path"},
		{"relative/dir", "relative/dir"},
		{"..", ".."},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in), "Normalize(%q)", tt.in)
	}
}

func TestRelativize(t *testing.T) {
	tests := []struct {
		path, root, want string
	}{
		{"/root", "/root", "."},
		{"/root/", "/root", "."},
		{"/root/src/a.ts", "/root", "src/a.ts"},
		{`\root\src\a.ts`, "/root/", "src/a.ts"},
		{"/rootless/a.ts", "/root", "/rootless/a.ts"},
		{"/elsewhere/x", "/root", "/elsewhere/x"},
		{"/a/b", "/", "a/b"},
		{"/", "/", "."},
		{"src/a.ts", ".", "src/a.ts"},
		{"./src/a.ts", ".", "src/a.ts"},
		{"/abs/a.ts", ".", "/abs/a.ts"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Relativize(tt.path, tt.root), "Relativize(%q, %q)", tt.path, tt.root)
	}
}

func TestWithin(t *testing.T) {
	assert.True(t, Within("/root", "/root"))
	assert.True(t, Within("/root/a", "/root"))
	assert.False(t, Within("/rootx/a", "/root"))
	assert.False(t, Within("/other", "/root"))
	assert.True(t, Within("src", "."))
	assert.False(t, Within("../src", "."))
	assert.False(t, Within("/a", ""))
}

func TestDirBaseJoin(t *testing.T) {
	assert.Equal(t, "/root/src", Dir("/root/src/a.ts"))
	assert.Equal(t, "/", Dir("/root"))
	assert.Equal(t, ".", Dir("a.ts"))
	assert.Equal(t, "src", Dir("src/a.ts"))

	assert.Equal(t, "a.ts", Base("/root/src/a.ts"))
	assert.Equal(t, "a.ts", Base("a.ts"))
	assert.Equal(t, "/", Base("/"))

	assert.Equal(t, "/a", Join("/", "a"))
	assert.Equal(t, "a", Join(".", "a"))
	assert.Equal(t, "/root/a", Join("/root", "a"))
}

func TestDepth(t *testing.T) {
	assert.Equal(t, 0, Depth("."))
	assert.Equal(t, 0, Depth("src"))
	assert.Equal(t, 1, Depth("src/a.ts"))
	assert.Equal(t, 3, Depth("a/b/c/d"))
}

func TestRoot(t *testing.T) {
	assert.Equal(t, ".", Root(""))
	assert.Equal(t, "/", Root("//"))
	assert.Equal(t, "C:/proj", Root(`C:\proj\`))
}
