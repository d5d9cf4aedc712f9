package gitbookconverter

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizePath(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"notion page id", "My Page 1a2b3c4d5e6f7890a1b2c3d4e5f67890.md", "My-Page.md"},
		{"empty", "", "untitled"},
		{"dot", ".", "untitled"},
		{"nested export", "Page a1b2c3d4e5f6a1b2c3d4e5f6a1b2c3d4/Sub Page.md", filepath.Join("Page", "Sub-Page.md")},
		{"uuid suffix", "Roadmap 123e4567-e89b-12d3-a456-426614174000", "Roadmap"},
		{"uuid without hyphens on a directory", "Team 123e4567e89b12d3a456426614174000/Notes.md", filepath.Join("Team", "Notes.md")},
		{"short hex suffix", "Notes 0123456789abcdef.md", "Notes.md"},
		{"parenthesized hex", "Meeting (abc123).md", "Meeting.md"},
		{"short parenthesized value kept", "Meeting (1).md", "Meeting-(1).md"},
		{"reserved characters", `Q&A: Why? <draft>.md`, "Q&A-Why-draft.md"},
		{"pipes and quotes", `a|b"c*d.csv`, "a-b-c-d.csv"},
		{"non ascii dropped", "Café Menu.md", "Caf-Menu.md"},
		{"only non ascii", "日本語.md", "untitled.md"},
		{"hyphens joined after folding", "a - é - b.md", "a-b.md"},
		{"misencoded ellipsis", "Wait" + misencodedEllipsis + " what.md", "Wait...-what.md"},
		{"empty segments dropped", "a//b.md", filepath.Join("a", "b.md")},
		{"dot segments dropped", "./a/./b.md", filepath.Join("a", "b.md")},
		{"identifier only name", "0123456789abcdef0123456789abcdef.png", "untitled.png"},
		{"hex-looking title is stripped", "deadbeefdeadbeef/Intro.md", filepath.Join("untitled", "Intro.md")},
		{"hidden file kept", ".md", ".md"},
		{"extension without stem change", "image.PNG", "image.PNG"},
		{"leading and trailing hyphens trimmed", "--draft--.md", "draft.md"},
		{"parent segment kept in place", "a/../b.md", filepath.Join("a", "untitled", "b.md")},
		{"parent segments do not escape", "Page/../../etc/passwd.md", filepath.Join("Page", "untitled", "untitled", "etc", "passwd.md")},
		{"trailing parent segment", "a/..", filepath.Join("a", "untitled")},
		{"parent only", "..", "untitled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizePath(tt.input))
		})
	}
}

func TestSanitizeName(t *testing.T) {
	assert.Equal(t, "Guide", SanitizeName("Guide 0123456789abcdef0123456789abcdef"))
	assert.Equal(t, "v1.2", SanitizeName("v1.2"))
	assert.Equal(t, "untitled", SanitizeName("   "))
	assert.Equal(t, "untitled", SanitizeName("."))
	assert.Equal(t, "untitled", SanitizeName(".."))
	assert.Equal(t, "a-b", SanitizeName(`a\b`))
}

func TestSanitizePath_Invariants(t *testing.T) {
	inputs := []string{
		"",
		".",
		"..md",
		"   ",
		"***",
		"a  b  c",
		"x <> y",
		"Ünïcödé/Ordner 0123456789abcdef0123456789abcdef/Datei ?.md",
		"Page (deadbeef)/Sub — page.md",
		`back\slash name.csv`,
		"emoji 🎉 party.gif",
		"-",
		"a - - - b",
		"tab\tseparated.md",
		"..",
		"a/..",
		"a/../b.md",
		"Page/../../x.md",
	}

	for _, input := range inputs {
		result := SanitizePath(input)
		assert.NotEmpty(t, result, "input %q", input)

		for _, segment := range strings.Split(result, string(filepath.Separator)) {
			assert.NotEmpty(t, segment, "input %q", input)
			assert.NotEqual(t, ".", segment, "input %q", input)
			assert.NotEqual(t, "..", segment, "input %q", input)
			assert.NotContains(t, segment, "--", "input %q", input)
			assert.False(t, strings.ContainsAny(segment, `<>:"/\|?*`), "input %q produced %q", input, segment)
			for _, r := range segment {
				assert.Less(t, r, rune(128), "input %q produced %q", input, segment)
			}
		}
	}
}
