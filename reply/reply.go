// Package reply picks a canned answer to a letter.
package reply

import (
	"math/rand/v2"
	"strings"
	"sync"
)

// Chooser returns a reply for a letter.
// It's called after the letter was saved.
type Chooser func(letter, name, country string) string

// Rule maps keywords to reply templates.
// Templates can use {name} and {country}.
type Rule struct {
	Keywords  []string
	Templates []string
}

// NewKeywordChooser returns a Chooser that uses the first rule with a keyword
// found in the letter (case-insensitive) and picks one of its templates at random.
// If no rule matches, one of fallback templates is used.
// rnd can be nil, in which case a random seed is used.
func NewKeywordChooser(rules []Rule, fallback []string, rnd *rand.Rand) Chooser {
	if rnd == nil {
		rnd = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	// *rand.Rand is not safe for concurrent use
	var mu sync.Mutex
	pick := func(templates []string) string {
		if len(templates) == 0 {
			return ""
		}
		mu.Lock()
		i := rnd.IntN(len(templates))
		mu.Unlock()
		return templates[i]
	}

	return func(letter, name, country string) string {
		templates := fallback
		text := strings.ToLower(letter)
	findRule:
		for _, rule := range rules {
			for _, kw := range rule.Keywords {
				if kw != "" && strings.Contains(text, strings.ToLower(kw)) {
					templates = rule.Templates
					break findRule
				}
			}
		}
		return Expand(pick(templates), name, country)
	}
}

// Expand replaces {name} and {country} in template
func Expand(template, name, country string) string {
	if name == "" {
		name = "friend"
	}
	r := strings.NewReplacer("{name}", name, "{country}", country)
	return r.Replace(template)
}

var defaultRules = []Rule{
	{
		Keywords: []string{"bike", "bicycle", "scooter"},
		Templates: []string{
			"Ho ho ho, {name}! The elves are already tuning the wheels of something special.",
			"Dear {name}, a shiny set of wheels is on the workshop list. Remember your helmet!",
		},
	},
	{
		Keywords: []string{"puppy", "dog", "kitten", "cat", "pet"},
		Templates: []string{
			"Dear {name}, animals aren't toys, but I'll ask the reindeer what they think about {country}.",
			"A furry friend is a big promise, {name}. Talk it over with your family, and I'll listen too.",
		},
	},
	{
		Keywords: []string{"lego", "blocks", "toy", "doll", "game"},
		Templates: []string{
			"The elves love building toys, {name}! I'll put your letter at the top of the pile.",
			"Dear {name}, the workshop is busy making games and toys for children in {country}.",
		},
	},
	{
		Keywords: []string{"snow", "peace", "family", "health", "happy"},
		Templates: []string{
			"What a kind wish, {name}. I'll send extra Christmas cheer all the way to {country}.",
		},
	},
}

var defaultFallback = []string{
	"Ho ho ho, {name}! Your letter reached the North Pole safely.",
	"Thank you for writing, {name}! The elves in the mail room send greetings to {country}.",
	"Dear {name}, I've read your letter twice. Be good, and keep an eye on the chimney!",
}

// Default returns a Chooser with the built-in rules
func Default() Chooser {
	return NewKeywordChooser(defaultRules, defaultFallback, nil)
}
