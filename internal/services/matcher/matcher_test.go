package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"ascii lowercase", "Sakura", "sakura"},
		{"strips ascii space", "sa ku ra", "sakura"},
		{"strips ideographic space", "さ　くら", "さくら"},
		{"strips tabs and newlines", "さ\tく\nら", "さくら"},
		{"fullwidth alnum folds", "ＡＢＣ１２３", "abc123"},
		{"fullwidth lowercase folds", "ｓａｋｕｒａ", "sakura"},
		{"katakana folds to hiragana", "サクラ", "さくら"},
		{"mixed kana and width", "サ　クラ　Ｃｈａｎ", "さくらchan"},
		{"hiragana unchanged", "さくら", "さくら"},
		{"kanji unchanged", "田中花子", "田中花子"},
		{"half-width punctuation kept", "さくら(新人)", "さくら(新人)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

// Normalize must be idempotent: applying it twice changes nothing.
func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"サクラ",
		"ｻﾝﾌﾟﾙ",
		"Ｓａｋｕｒａ　Ｃｈａｎ",
		"田中 花子",
		"みく☆",
		"レナ(19)",
	}

	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestMatch(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want bool
	}{
		{"identical hiragana", "さくら", "さくら", true},
		{"katakana vs hiragana", "サクラ", "さくら", true},
		{"fullwidth vs ascii", "Ｍｉｋｕ", "miku", true},
		{"whitespace difference", "さ くら", "さくら", true},
		{"substring shorter in longer", "さくら", "さくらちゃん", true},
		{"substring other direction", "さくらちゃん", "さくら", true},
		{"substring via kana fold", "サクラ", "さくらちゃん", true},
		{"different names", "さくら", "ひなた", false},
		{"single mora no match", "さ", "さくら", false},
		{"single mora exact still no substring", "り", "りん", false},
		{"two runes is enough", "りん", "りんか", true},
		{"empty never matches", "", "さくら", false},
		{"both empty", "", "", false},
		{"unrelated latin", "anna", "beth", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Match(tt.a, tt.b))
		})
	}
}

// Match must be symmetric and reflexive for non-empty names.
func TestMatchSymmetry(t *testing.T) {
	pairs := [][2]string{
		{"さくら", "サクラ"},
		{"さくら", "さくらちゃん"},
		{"miku", "Ｍｉｋｕ"},
		{"さくら", "ひなた"},
		{"a", "ab"},
	}

	for _, p := range pairs {
		assert.Equal(t, Match(p[0], p[1]), Match(p[1], p[0]), "pair %q/%q", p[0], p[1])
	}

	for _, name := range []string{"さくら", "サクラ", "miku", "田中花子"} {
		assert.True(t, Match(name, name), "self-match %q", name)
	}
}
