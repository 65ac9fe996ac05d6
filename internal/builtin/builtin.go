// Package builtin ships the stock generation routines the CLI exposes.
// They are deliberately small: each exists to exercise one shape of the
// dispatch adapter against real token streams.
package builtin

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"stencil/internal/diag"
	"stencil/internal/expand"
	"stencil/internal/registry"
	"stencil/internal/source"
	"stencil/internal/token"
)

// Spec describes one stock routine and its default configuration.
type Spec struct {
	Name    string
	Config  expand.Config
	Routine expand.Routine
	Doc     string
}

// Specs returns the stock routines in a stable order.
func Specs() []Spec {
	return []Spec{
		{
			Name:    "echo",
			Config:  expand.Config{Kind: expand.KindFunction},
			Routine: expand.Plain(echo),
			Doc:     "returns the input stream unchanged",
		},
		{
			Name:    "upper",
			Config:  expand.Config{Kind: expand.KindFunction, Seed: expand.SeedFromInput},
			Routine: expand.WithEmitter(upper),
			Doc:     "uppercases identifiers, reporting invalid tokens without failing",
		},
		{
			Name:    "title",
			Config:  expand.Config{Kind: expand.KindFunction, Seed: expand.SeedFromInput},
			Routine: expand.Fallible(title),
			Doc:     "title-cases identifiers, fails on an empty input",
		},
		{
			Name:    "rename",
			Config:  expand.Config{Kind: expand.KindAttribute, Seed: expand.SeedFromItem},
			Routine: expand.AttrWithEmitter(rename),
			Doc:     "renames the first capitalized identifier of the item to the attribute argument",
		},
		{
			Name:    "describe",
			Config:  expand.Config{Kind: expand.KindDerive},
			Routine: expand.WithBoth(describe),
			Doc:     "derives a describe function for the first identifier of the item",
		},
	}
}

// RegisterAll registers every stock routine, letting a manifest override the
// dummy seeding. An entry's kind is intrinsic to its routine; a manifest
// that asks for a different kind is rejected.
func RegisterAll(r *registry.Registry, m *registry.Manifest) error {
	for _, spec := range Specs() {
		cfg := spec.Config
		if m != nil {
			if section, ok := m.Config.Entries[spec.Name]; ok {
				resolved, err := section.Resolve()
				if err != nil {
					return fmt.Errorf("builtin %q: %w", spec.Name, err)
				}
				if section.Kind != "" && resolved.Kind != cfg.Kind {
					return fmt.Errorf("builtin %q is a %s entry, manifest says %s", spec.Name, cfg.Kind, resolved.Kind)
				}
				cfg.Seed = resolved.Seed
				if err := (expand.Config{Kind: cfg.Kind, Seed: cfg.Seed}).Validate(); err != nil {
					return fmt.Errorf("builtin %q: %w", spec.Name, err)
				}
			}
		}
		if err := r.Register(spec.Name, cfg, spec.Routine); err != nil {
			return err
		}
	}
	return nil
}

func echo(input token.Stream) token.Stream {
	return input
}

func upper(input token.Stream, em *diag.Emitter) (token.Stream, error) {
	out := input.Clone()
	for i, t := range out {
		switch t.Kind {
		case token.Ident:
			out[i].Text = strings.ToUpper(t.Text)
		case token.Invalid:
			em.Emit(diag.New(t.Span, fmt.Sprintf("cannot uppercase invalid token %q", t.Text)))
		}
	}
	return out, nil
}

func title(input token.Stream) (token.Stream, error) {
	if input.Empty() {
		return nil, diag.CallSite("title needs at least one token")
	}
	caser := cases.Title(language.Und)
	out := input.Clone()
	for i, t := range out {
		if t.Kind == token.Ident {
			out[i].Text = caser.String(t.Text)
		}
	}
	return out, nil
}

func rename(args, item token.Stream, em *diag.Emitter) (token.Stream, error) {
	if len(args) != 1 || args[0].Kind != token.Ident {
		return nil, diag.NewError(
			diag.New(args.SpanOr(source.Span{}), "rename expects exactly one identifier argument").
				WithHelp("write @rename(NewName) above the item"),
		)
	}
	out := item.Clone()
	for i, t := range out {
		if t.Kind == token.Ident && startsUpper(t.Text) {
			old := out[i].Text
			out[i].Text = args[0].Text
			em.Emit(diag.Spanned(t, fmt.Sprintf("renamed %q to %q", old, args[0].Text)).
				WithInfo("emitted for audit, expansion still succeeds"))
			return out, nil
		}
	}
	return nil, diag.New(item.SpanOr(source.Span{}), "item has no renameable identifier")
}

func startsUpper(s string) bool {
	for _, r := range s {
		return unicode.IsUpper(r)
	}
	return false
}

func describe(item token.Stream, em *diag.Emitter, dummy *token.Stream) (token.Stream, error) {
	// Conservative fallback: reproduce the item if we fail past this point.
	*dummy = item.Clone()

	var subject *token.Token
	for i := range item {
		if item[i].Kind == token.Ident {
			subject = &item[i]
			break
		}
	}
	if subject == nil {
		return nil, diag.New(item.SpanOr(source.Span{}), "describe needs a named item")
	}

	out := item.Clone()
	out.Append(
		token.Token{Kind: token.Ident, Span: subject.Span, Text: "fn"},
		token.Token{Kind: token.Ident, Span: subject.Span, Text: subject.Text + "_describe"},
		token.Token{Kind: token.Punct, Span: subject.Span, Text: "("},
		token.Token{Kind: token.Punct, Span: subject.Span, Text: ")"},
	)
	return out, nil
}
