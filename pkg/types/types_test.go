package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashContent_Deterministic(t *testing.T) {
	a := HashContent("export function login() {}")
	b := HashContent("export function login() {}")
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)

	c := HashContent("export function login() { /* edited */ }")
	assert.NotEqual(t, a, c)
}

func TestHashProject_OrderIndependent(t *testing.T) {
	f1 := NewSourceFile("a.ts", "alpha")
	f2 := NewSourceFile("b.ts", "beta")

	assert.Equal(t,
		HashProject([]SourceFile{f1, f2}),
		HashProject([]SourceFile{f2, f1}))
}

func TestHashProject_ChangesWithContent(t *testing.T) {
	f1 := NewSourceFile("a.ts", "alpha")
	f2 := NewSourceFile("a.ts", "alpha edited")

	assert.NotEqual(t,
		HashProject([]SourceFile{f1}),
		HashProject([]SourceFile{f2}))
}

func TestParsedFile_SymbolNames(t *testing.T) {
	p := ParsedFile{
		Functions: []Declaration{{Name: "login"}, {Name: "validateToken"}},
		Classes:   []Declaration{{Name: "AuthService"}},
		Exports:   []Declaration{{Name: "login"}}, // duplicate of function
	}

	names := p.SymbolNames()
	assert.Equal(t, []string{"login", "validateToken", "AuthService"}, names)
}

func TestParsedFile_Empty(t *testing.T) {
	assert.True(t, ParsedFile{}.Empty())
	assert.False(t, ParsedFile{Calls: []Declaration{{Name: "fetch"}}}.Empty())
}

func TestClamp01(t *testing.T) {
	assert.Equal(t, 0.0, Clamp01(-0.3))
	assert.Equal(t, 1.0, Clamp01(1.7))
	assert.Equal(t, 0.42, Clamp01(0.42))
}

func TestScorePercent(t *testing.T) {
	assert.Equal(t, 57, ScorePercent(0.566))
	assert.Equal(t, 100, ScorePercent(2.0))
	assert.Equal(t, 0, ScorePercent(-1))
}
