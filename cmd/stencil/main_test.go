package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"stencil/internal/source"
	"stencil/internal/token"
)

func TestEntriesListsBuiltins(t *testing.T) {
	var buf bytes.Buffer
	entriesCmd.SetOut(&buf)
	defer entriesCmd.SetOut(nil)

	if err := runEntries(entriesCmd, nil); err != nil {
		t.Fatalf("entries failed: %v", err)
	}
	out := buf.String()
	for _, name := range []string{"echo", "upper", "title", "rename", "describe"} {
		if !strings.Contains(out, name) {
			t.Errorf("entry %q missing from listing:\n%s", name, out)
		}
	}
}

func TestEntriesJSON(t *testing.T) {
	var buf bytes.Buffer
	entriesCmd.SetOut(&buf)
	defer entriesCmd.SetOut(nil)
	if err := entriesCmd.Flags().Set("format", "json"); err != nil {
		t.Fatal(err)
	}
	defer func() { _ = entriesCmd.Flags().Set("format", "pretty") }()

	if err := runEntries(entriesCmd, nil); err != nil {
		t.Fatalf("entries failed: %v", err)
	}
	var listings []entryListing
	if err := json.Unmarshal(buf.Bytes(), &listings); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if len(listings) == 0 {
		t.Fatal("no entries listed")
	}
	for _, l := range listings {
		if l.Kind == "" || l.Shape == "" {
			t.Errorf("incomplete listing: %+v", l)
		}
	}
}

func TestVersionPretty(t *testing.T) {
	var buf bytes.Buffer
	versionCmd.SetOut(&buf)
	defer versionCmd.SetOut(nil)

	if err := versionCmd.RunE(versionCmd, nil); err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.Contains(buf.String(), "stencil") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}

func TestRenderTokens(t *testing.T) {
	toks := token.Stream{
		{Kind: token.Ident, Text: "fn"},
		{Kind: token.CompileError, Text: "boom"},
	}

	var buf bytes.Buffer
	if err := renderTokens(&buf, "text", toks, source.NewFileSet()); err != nil {
		t.Fatalf("text render failed: %v", err)
	}
	want := "fn @compile_error(\"boom\")\n"
	if got := buf.String(); got != want {
		t.Errorf("text output = %q, want %q", got, want)
	}

	if err := renderTokens(&buf, "yaml", toks, nil); err == nil {
		t.Error("unknown format should be rejected")
	}
}

func TestValueOrUnknown(t *testing.T) {
	if got := valueOrUnknown(""); got != "unknown" {
		t.Errorf("valueOrUnknown(\"\") = %q", got)
	}
	if got := valueOrUnknown("abc"); got != "abc" {
		t.Errorf("valueOrUnknown(abc) = %q", got)
	}
}
