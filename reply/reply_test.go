package reply

import (
	"math/rand/v2"
	"strings"
	"sync"
	"testing"

	"github.com/alecthomas/assert"
)

var testRules = []Rule{
	{Keywords: []string{"Bike"}, Templates: []string{"bike for {name}"}},
	{Keywords: []string{"dog", "cat"}, Templates: []string{"pet for {name} in {country}"}},
}

func TestKeywordChooser(t *testing.T) {
	choose := NewKeywordChooser(testRules, []string{"hello {name}"}, rand.New(rand.NewPCG(1, 2)))
	tests := []string{
		"I want a BIKE", "Ann", "NO", "bike for Ann",
		"a cat please", "Bob", "UK", "pet for Bob in UK",
		"bike and a dog", "Cy", "US", "bike for Cy",
		"socks", "Di", "FR", "hello Di",
		"socks", "", "FR", "hello friend",
	}
	for i := 0; i < len(tests); i += 4 {
		got := choose(tests[i], tests[i+1], tests[i+2])
		assert.Equal(t, tests[i+3], got, "letter: %q", tests[i])
	}
}

func TestKeywordChooserRandom(t *testing.T) {
	templates := []string{"a", "b", "c"}
	choose := NewKeywordChooser(nil, templates, rand.New(rand.NewPCG(7, 7)))
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		seen[choose("x", "n", "c")] = true
	}
	assert.Equal(t, 3, len(seen))
}

func TestKeywordChooserEmpty(t *testing.T) {
	choose := NewKeywordChooser(nil, nil, nil)
	assert.Equal(t, "", choose("x", "n", "c"))
}

func TestDefaultConcurrent(t *testing.T) {
	choose := Default()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s := choose("I'd love a new bike", "Ann", "Norway")
			assert.True(t, strings.Contains(s, "Ann"), "reply: %s", s)
		}()
	}
	wg.Wait()
}

func TestExpand(t *testing.T) {
	assert.Equal(t, "Hi Ann from NO, Ann", Expand("Hi {name} from {country}, {name}", "Ann", "NO"))
}
