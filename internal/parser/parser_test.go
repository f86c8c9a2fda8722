package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_TypeScript(t *testing.T) {
	p := New()

	content := `import { hash } from './crypto';
import express from 'express';

export function login(user: string, pass: string): boolean {
	return validateToken(hash(pass));
}

export class AuthService {
	validate(token: string): boolean {
		return token.length > 0;
	}
}

const check = (t: string) => t !== '';
`

	parsed := p.Parse("auth/login.ts", content)
	require.False(t, parsed.Empty())

	names := parsed.SymbolNames()
	assert.Contains(t, names, "login")
	assert.Contains(t, names, "AuthService")
	assert.Contains(t, names, "validate")
	assert.Contains(t, names, "check")

	require.Len(t, parsed.Imports, 2)
	assert.Equal(t, "./crypto", parsed.Imports[0].Module)
	assert.Equal(t, "express", parsed.Imports[1].Module)
	assert.Equal(t, "express", parsed.Imports[1].Alias)

	exportNames := make([]string, 0)
	for _, e := range parsed.Exports {
		exportNames = append(exportNames, e.Name)
	}
	assert.Contains(t, exportNames, "login")
	assert.Contains(t, exportNames, "AuthService")

	callNames := make([]string, 0)
	for _, c := range parsed.Calls {
		callNames = append(callNames, c.Name)
	}
	assert.Contains(t, callNames, "validateToken")
}

func TestParse_JavaScriptExportClause(t *testing.T) {
	p := New()

	content := `function add(a, b) { return a + b; }
function sub(a, b) { return a - b; }
export { add, sub };
`

	parsed := p.Parse("utils/math.js", content)
	require.Len(t, parsed.Functions, 2)

	exportNames := make([]string, 0)
	for _, e := range parsed.Exports {
		exportNames = append(exportNames, e.Name)
	}
	assert.ElementsMatch(t, []string{"add", "sub"}, exportNames)
}

func TestParse_Python(t *testing.T) {
	p := New()

	content := `import os
from auth.utils import login as auth_login

class SessionStore:
    def save(self, session):
        os.makedirs("/tmp/sessions")

def create_session(user):
    return SessionStore()
`

	parsed := p.Parse("sessions.py", content)
	require.False(t, parsed.Empty())

	names := parsed.SymbolNames()
	assert.Contains(t, names, "SessionStore")
	assert.Contains(t, names, "create_session")
	assert.Contains(t, names, "save")

	modules := make([]string, 0)
	for _, imp := range parsed.Imports {
		modules = append(modules, imp.Module)
	}
	assert.Contains(t, modules, "os")
	assert.Contains(t, modules, "auth.utils")
}

func TestParse_Go(t *testing.T) {
	p := New()

	content := `package auth

import (
	"fmt"
	sess "example.com/internal/session"
)

type Service struct{}

func (s *Service) Login(user string) error {
	return fmt.Errorf("login %s: %w", user, sess.ErrExpired)
}

func helper() {}
`

	parsed := p.Parse("auth/service.go", content)
	require.False(t, parsed.Empty())

	assert.Contains(t, parsed.SymbolNames(), "Service")
	assert.Contains(t, parsed.SymbolNames(), "Login")

	exportNames := make([]string, 0)
	for _, e := range parsed.Exports {
		exportNames = append(exportNames, e.Name)
	}
	assert.Contains(t, exportNames, "Service")
	assert.Contains(t, exportNames, "Login")
	assert.NotContains(t, exportNames, "helper")

	modules := make([]string, 0)
	for _, imp := range parsed.Imports {
		modules = append(modules, imp.Module)
	}
	assert.ElementsMatch(t, []string{"fmt", "example.com/internal/session"}, modules)
}

func TestParse_UnsupportedExtension(t *testing.T) {
	p := New()

	parsed := p.Parse("README.md", "# hello\nsome prose about login")
	assert.True(t, parsed.Empty())
}

func TestParse_GarbageNeverPanics(t *testing.T) {
	p := New()

	assert.NotPanics(t, func() {
		p.Parse("broken.ts", "export function ((((")
		p.Parse("broken.py", "def :::\n\t\t)")
		p.Parse("empty.js", "")
	})
}

func TestSupports(t *testing.T) {
	p := New()

	assert.True(t, p.Supports("a/b/c.tsx"))
	assert.True(t, p.Supports("main.PY")) // case-insensitive extension
	assert.False(t, p.Supports("styles.css"))
	assert.False(t, p.Supports("Makefile"))
}

func TestSupportedExtensions_Sorted(t *testing.T) {
	exts := New().SupportedExtensions()
	require.NotEmpty(t, exts)
	assert.IsNonDecreasing(t, exts)
	assert.Contains(t, exts, ".ts")
	assert.Contains(t, exts, ".go")
}
