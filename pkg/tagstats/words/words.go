package words

import (
	"strings"
	"unicode"

	"golang.org/x/net/html"
)

// Tokenizer splits question titles into normalized words for the
// per-tag word aggregation.
type Tokenizer struct {
	stopwords map[string]struct{}
}

// NewTokenizer creates a tokenizer with the given stopword list.
func NewTokenizer(stopwords []string) *Tokenizer {
	stops := make(map[string]struct{}, len(stopwords))
	for _, w := range stopwords {
		stops[strings.ToLower(w)] = struct{}{}
	}
	return &Tokenizer{stopwords: stops}
}

// Tokenize splits a title into lowercased words, removing stopwords.
// Titles in data-dump extracts carry HTML entities and the occasional
// inline tag, so markup is stripped first.
func (t *Tokenizer) Tokenize(title string) []string {
	text := StripMarkup(title)

	var tokens []string
	var current strings.Builder

	flush := func() {
		if current.Len() == 0 {
			return
		}
		word := t.processToken(current.String())
		if word != "" {
			tokens = append(tokens, word)
		}
		current.Reset()
	}

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || r == '-' || r == '+' || r == '#' || r == '.' {
			current.WriteRune(unicode.ToLower(r))
		} else {
			flush()
		}
	}
	flush()

	return tokens
}

// processToken applies cleaning and stopword filtering.
func (t *Tokenizer) processToken(token string) string {
	// Strip punctuation that survived word-splitting ("c++" and "c#"
	// stay intact, a trailing "." or "-" does not).
	word := strings.TrimRight(token, ".-")
	word = strings.TrimLeft(word, "-.")
	if word == "" || len(word) <= 1 {
		return ""
	}

	// Pure-numeric words carry no signal in a word cloud. Mixed words
	// like "python3" or "utf-8" are kept.
	if isNumericOnly(word) {
		return ""
	}

	if t.isStopword(word) {
		return ""
	}

	return word
}

// isNumericOnly returns true if the word contains only digits and
// number punctuation.
func isNumericOnly(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) && r != '-' && r != '.' {
			return false
		}
	}
	return true
}

func (t *Tokenizer) isStopword(word string) bool {
	_, ok := t.stopwords[word]
	return ok
}

// AddStopword adds a word to the stopword list.
func (t *Tokenizer) AddStopword(word string) {
	t.stopwords[strings.ToLower(word)] = struct{}{}
}

// StripMarkup removes HTML tags from a title and decodes entities,
// returning the visible text. Malformed input falls back to the raw
// string.
func StripMarkup(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return s
	}

	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return s
	}

	var buf strings.Builder
	var extractText func(*html.Node)
	extractText = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extractText(c)
		}
	}
	extractText(doc)

	return strings.TrimSpace(buf.String())
}
