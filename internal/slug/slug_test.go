package slug

import (
	"regexp"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestMake(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Red Shoes", "red-shoes"},
		{"already slug", "blue-hat", "blue-hat"},
		{"punctuation", "  Hello,   World! ", "hello-world"},
		{"vietnamese", "Áo Dài Đỏ", "ao-dai-do"},
		{"accents", "Crème Brûlée", "creme-brulee"},
		{"ampersand", "Salt & Pepper", "salt-and-pepper"},
		{"digits", "iPhone 15 Pro", "iphone-15-pro"},
		{"apostrophe is dropped", "Men's Shoes", "mens-shoes"},
		{"comma without space is dropped", "Hello,World", "helloworld"},
		{"percent is spelled out", "50% Off", "50percent-off"},
		{"dollar is spelled out", "Deals $5", "deals-dollar5"},
		{"ampersand without spaces", "Salt&Pepper", "saltandpepper"},
		{"inner apostrophes", "Rock'n'Roll", "rocknroll"},
		{"hyphen runs collapse", "T-Shirt -- Blue", "t-shirt-blue"},
		{"dots are dropped", "Vol. 2.5", "vol-25"},
		{"underscore is dropped", "snake_case name", "snakecase-name"},
		{"only symbols", "!!!", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Make(tt.in); got != tt.want {
				t.Errorf("Make(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

var slugPattern = regexp.MustCompile(`^([a-z0-9]+(-[a-z0-9]+)*)?$`)

// Property 1: Slugs are URL-safe
func TestProperty_SlugsAreURLSafe(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("every slug is lower-case alphanumerics joined by single hyphens", prop.ForAll(
		func(name string) bool {
			return slugPattern.MatchString(Make(name))
		},
		gen.AnyString(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Property 2: Slug derivation is deterministic and idempotent
func TestProperty_SlugIsIdempotent(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("slugging a slug returns it unchanged", prop.ForAll(
		func(name string) bool {
			s := Make(name)
			return Make(s) == s && Make(name) == s
		},
		gen.AnyString(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
