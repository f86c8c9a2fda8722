package scorer

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyntax_ExactContentMatch(t *testing.T) {
	content := "function login(user) {\n  return session.create(user)\n}\n"

	score, matches := Syntax("login", "auth/session.ts", content)
	assert.Equal(t, 1.0, score)

	require.NotEmpty(t, matches)
	assert.Equal(t, "login", matches[0].Name)
	assert.Contains(t, matches[0].Snippet, "function login(user)")
}

func TestSyntax_PathMatchWithoutContentMatch(t *testing.T) {
	score, matches := Syntax("auth", "src/auth/index.ts", "export {}\n")
	assert.Equal(t, 1.0, score)

	require.Len(t, matches, 1)
	assert.Equal(t, "src/auth/index.ts", matches[0].Snippet)
}

func TestSyntax_FuzzyPathMatch(t *testing.T) {
	// "uam" appears in order in "utils/math.ts" but not contiguously.
	score, matches := Syntax("uam", "utils/math.ts", "no token here\n")
	assert.Equal(t, 0.4, score)

	require.Len(t, matches, 1)
	assert.Equal(t, 0.4, matches[0].Relevance)
}

func TestSyntax_NoMatchIsZero(t *testing.T) {
	score, matches := Syntax("zzz", "utils/math.ts", "function add(a, b) { return a + b }\n")
	assert.Zero(t, score)
	assert.Empty(t, matches)
}

func TestSyntax_DensityIsMeanOverTokens(t *testing.T) {
	// One of two tokens matches exactly.
	score, _ := Syntax("login zebra", "auth/login.ts", "login page\n")
	assert.Equal(t, 0.5, score)
}

func TestSyntax_SnippetCountCapped(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 20; i++ {
		b.WriteString("call login number ")
		b.WriteByte(byte('a' + i))
		b.WriteByte('\n')
	}

	_, matches := Syntax("login", "a.ts", b.String())
	assert.Len(t, matches, 5)
}

func TestSyntax_LongLinesTruncatedInSnippet(t *testing.T) {
	line := "login " + strings.Repeat("x", 300)

	_, matches := Syntax("login", "a.ts", line)
	require.NotEmpty(t, matches)
	assert.LessOrEqual(t, len(matches[0].Snippet), 120)
}

func TestSyntax_NonASCIIContentAroundMatch(t *testing.T) {
	// ToLower grows U+023A (2 bytes -> 3) and shrinks U+0130 (2 -> 1);
	// neither may skew the snippet extraction or panic.
	content := strings.Repeat("Ⱥ", 20) + "\nlogin x\ntail\n"

	score, matches := Syntax("login", "a.ts", content)
	assert.Equal(t, 1.0, score)
	require.NotEmpty(t, matches)
	assert.Equal(t, "login x", matches[0].Snippet)

	content = strings.Repeat("İ", 20) + "\nlogin x\ntail\n"
	_, matches = Syntax("login", "a.ts", content)
	require.NotEmpty(t, matches)
	assert.Equal(t, "login x", matches[0].Snippet)
}

func TestSyntax_SnippetTruncationKeepsValidUTF8(t *testing.T) {
	line := "login " + strings.Repeat("é", 200)

	_, matches := Syntax("login", "a.ts", line)
	require.NotEmpty(t, matches)
	assert.LessOrEqual(t, len(matches[0].Snippet), 120)
	assert.True(t, utf8.ValidString(matches[0].Snippet))
}

func TestSubsequenceMatch(t *testing.T) {
	assert.True(t, subsequenceMatch("utils/math.ts", "uam"))
	assert.True(t, subsequenceMatch("abc", "abc"))
	assert.False(t, subsequenceMatch("abc", "acb"))
	assert.False(t, subsequenceMatch("", "a"))
	assert.False(t, subsequenceMatch("abc", ""))
}
