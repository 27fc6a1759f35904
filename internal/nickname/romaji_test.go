package nickname

import "testing"

func TestKatakanaToRomaji(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"タロウ", "tarou"},
		{"サクラ", "sakura"},
		{"シュン", "shun"},
		{"キョウコ", "kyouko"},
		{"ジョン", "jon"},
		{"ファルコ", "faruko"},
		{"ヴァイス", "vaisu"},
		// Sokuon doubles the next consonant.
		{"ホッタ", "hotta"},
		{"ラッキー", "rakkii"},
		// Long-vowel mark repeats the preceding vowel.
		{"ロー", "roo"},
		{"スーパー", "suupaa"},
		// Leading long-vowel mark has nothing to extend.
		{"ー", ""},
		// Non-kana runes pass through.
		{"Abc123", "Abc123"},
		{"タロウX", "tarouX"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := katakanaToRomaji(tt.in); got != tt.want {
				t.Errorf("katakanaToRomaji(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestHiraganaToKatakana(t *testing.T) {
	if got := hiraganaToKatakana("さくら"); got != "サクラ" {
		t.Errorf("got %q", got)
	}
	if got := hiraganaToKatakana("mixedさchars"); got != "mixedサchars" {
		t.Errorf("got %q", got)
	}
}

func TestCapitalize(t *testing.T) {
	tests := []struct{ in, want string }{
		{"", ""},
		{"tarou", "Tarou"},
		{"Tarou", "Tarou"},
		{"7seas", "7seas"},
	}
	for _, tt := range tests {
		if got := capitalize(tt.in); got != tt.want {
			t.Errorf("capitalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTransliteratorRomaji(t *testing.T) {
	tr, err := NewTransliterator()
	if err != nil {
		t.Fatalf("NewTransliterator: %v", err)
	}

	if got := tr.Romaji(""); got != "" {
		t.Errorf("empty name: got %q", got)
	}
	if got := tr.Romaji("  "); got != "" {
		t.Errorf("blank name: got %q", got)
	}

	// Latin names pass through via the surface fallback.
	if got := tr.Romaji("Alice"); got != "Alice" {
		t.Errorf("latin name: got %q", got)
	}

	// A common-noun name resolves through the dictionary reading.
	got := tr.Romaji("さくら")
	if got != "Sakura" {
		t.Errorf("さくら: got %q", got)
	}
}
