package region

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// typeWords matches the region type words that datasets add or omit freely.
var typeWords = regexp.MustCompile(`(?i)(автономный округ|автономная область|область|край|республика)`)

var dashFolder = strings.NewReplacer("—", "-", "–", "-", "ё", "е", "Ё", "Е")

// FoldName reduces a region name to a comparison key: type words removed,
// dashes unified, ё folded to е, whitespace collapsed, lower-cased.
//
//	FoldName("Краснодарский край")     == "краснодарский"
//	FoldName("Республика Саха (Якутия)") == "саха (якутия)"
func FoldName(name string) string {
	s := typeWords.ReplaceAllString(name, "")
	s = dashFolder.Replace(s)
	s = strings.Join(strings.Fields(s), " ")
	return cases.Lower(language.Russian).String(s)
}

//Personal.AI order the ending
