package highlight

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runes(ss ...string) [][]rune {
	out := make([][]rune, len(ss))
	for i, s := range ss {
		out[i] = []rune(s)
	}
	return out
}

func TestMatch(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		patterns []string
		caseFold bool
		want     []Span
	}{
		{
			name:     "case folded",
			text:     "ABCabc",
			patterns: []string{"abc"},
			caseFold: true,
			want:     []Span{{0, 3}, {3, 3}},
		},
		{
			name:     "case sensitive",
			text:     "ABCabc",
			patterns: []string{"abc"},
			want:     []Span{{3, 3}},
		},
		{
			name:     "overlapping matches",
			text:     "aaaa",
			patterns: []string{"aa"},
			want:     []Span{{0, 2}, {1, 2}, {2, 2}},
		},
		{
			name:     "pattern order then position",
			text:     "cat dog cat",
			patterns: []string{"dog", "cat"},
			want:     []Span{{4, 3}, {0, 3}, {8, 3}},
		},
		{
			name:     "empty pattern skipped",
			text:     "abc",
			patterns: []string{"", "b"},
			want:     []Span{{1, 1}},
		},
		{
			name:     "pattern longer than text",
			text:     "ab",
			patterns: []string{"abc"},
			want:     nil,
		},
		{
			name:     "non-ascii compared exactly",
			text:     "ÄBC äbc",
			patterns: []string{"äbc"},
			caseFold: true,
			want:     []Span{{4, 3}},
		},
		{
			name:     "rune indexes",
			text:     "日本 cat",
			patterns: []string{"CAT"},
			caseFold: true,
			want:     []Span{{3, 3}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Match([]rune(tt.text), runes(tt.patterns...), tt.caseFold)
			assert.Equal(t, tt.want, got)
			for _, s := range got {
				assert.Positive(t, s.Length)
			}
		})
	}
}

func TestSplitUserBytes(t *testing.T) {
	assert.Equal(t, [][]byte{[]byte("cat"), []byte("dog")}, SplitUserBytes([]byte("cat|dog")))
	assert.Equal(t, [][]byte{[]byte("cat"), []byte("dog")}, SplitUserBytes([]byte("cat||dog")))
	assert.Equal(t, [][]byte{[]byte("cat")}, SplitUserBytes([]byte("|cat|")))
	assert.Nil(t, SplitUserBytes(nil))
}

func TestUserPatterns_Unescaped(t *testing.T) {
	got := UserPatterns([]byte(`a\x7Cb|\x41`))
	assert.Equal(t, runes("a|b", "A"), got)
}

func TestNewPatternSet(t *testing.T) {
	sel := &Selection{FirstField: []byte("1000"), Path: "1000", Text: "foo@example.com"}

	set := NewPatternSet(sel, []byte("bar|baz"), false)
	assert.True(t, set.CaseFold)
	assert.Equal(t, runes("foo@example.com", "bar", "baz"), set.Patterns)

	hist := &Selection{FirstField: []byte("n=3\tfoo"), Path: "n=3", Text: "foo"}
	set = NewPatternSet(hist, nil, true)
	assert.False(t, set.CaseFold)
	assert.Empty(t, set.Patterns)

	noAddr := &Selection{FirstField: []byte(""), Text: "foo"}
	assert.Empty(t, NewPatternSet(noAddr, nil, true).Patterns)
	assert.Empty(t, NewPatternSet(nil, nil, true).Patterns)
}

func TestSettings_Snapshot(t *testing.T) {
	s := NewSettings(true)
	require.NotNil(t, s.Snapshot())
	assert.Empty(t, s.Snapshot().Patterns)

	assert.True(t, s.SetUserBytes([]byte("abc")))
	assert.False(t, s.SetUserBytes([]byte("abc")))

	before := s.Snapshot()
	assert.True(t, s.SetMatchCase(false))
	after := s.Snapshot()

	assert.False(t, before.CaseFold)
	assert.True(t, after.CaseFold)
	assert.Equal(t, []Span{{0, 3}, {3, 3}}, Spans([]rune("ABCabc"), after))
	assert.Equal(t, []Span{{3, 3}}, Spans([]rune("ABCabc"), before))
}

func TestSettings_SelectCopies(t *testing.T) {
	s := NewSettings(true)
	sel := &Selection{FirstField: []byte("10"), Path: "10", Text: "x"}
	s.Select(sel)
	sel.Text = "changed"

	assert.Equal(t, runes("x"), s.Snapshot().Patterns)

	s.Select(nil)
	assert.Empty(t, s.Snapshot().Patterns)
}

func TestSettings_ConcurrentSnapshots(t *testing.T) {
	s := NewSettings(true)
	text := []rune("cat dog")

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			if i%2 == 0 {
				s.SetUserBytes([]byte("cat|dog"))
			} else {
				s.SetUserBytes([]byte("CAT|DOG"))
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			n := len(Spans(text, s.Snapshot()))
			if n != 0 && n != 2 {
				t.Errorf("torn snapshot produced %d spans", n)
				return
			}
		}
	}()
	wg.Wait()
}
