package main

import (
	"fmt"
	"strings"
)

// Example is a named program that can be loaded into the REPL.
type Example struct {
	Name        string
	Description string
	Source      string
}

const arithmeticPrelude = `let
  succ = \n f x. n f (f x);
  add = \m n. m succ n;
  mul = \m n. m (add n) 0;
in `

var Examples = []Example{
	{
		Name:        "identity",
		Description: "the identity applied to a variable",
		Source:      `(\x. x) y`,
	},
	{
		Name:        "steps",
		Description: "reaches its normal form in exactly four steps",
		Source:      `(\x. x x x) (\y. y) (\z. z)`,
	},
	{
		Name:        "capture",
		Description: "the inner binder is renamed so the free x is not captured",
		Source:      `\x. (\y. \x. y x) x`,
	},
	{
		Name:        "mul",
		Description: "Church multiplication of 3 and 5",
		Source:      arithmeticPrelude + `mul 3 5`,
	},
	{
		Name:        "power",
		Description: "applying numeral 3 to numeral 2 gives 2^3",
		Source:      `3 2`,
	},
	{
		Name:        "pred",
		Description: "Church predecessor of 4 via pairs",
		Source: `let
  pair = \a b s. s a b;
  fst = \p. p (\a b. a);
  snd = \p. p (\a b. b);
  shift = \p. pair (snd p) (\f x. f (snd p f x));
  pred = \n. fst (n shift (pair 0 0));
in pred 4`,
	},
	{
		Name:        "omega",
		Description: "has no normal form; stops at the step limit",
		Source:      `(\x. x x) (\x. x x)`,
	},
}

func FindExample(name string) (Example, bool) {
	for _, ex := range Examples {
		if ex.Name == name {
			return ex, true
		}
	}
	return Example{}, false
}

// ExampleList renders one line per example.
func ExampleList() string {
	var sb strings.Builder
	for _, ex := range Examples {
		sb.WriteString(fmt.Sprintf("  %-9s %s\n", ex.Name, ex.Description))
	}
	return sb.String()
}
