package nickname

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
)

// Transliterator converts a Japanese player name to Hepburn romaji. Names
// are short and frequently coined, so it leans on morphological analysis
// for the reading and falls back to the surface form for anything the
// dictionary does not know.
type Transliterator struct {
	tok *tokenizer.Tokenizer
}

// NewTransliterator builds the kagome tokenizer over the bundled IPA
// dictionary.
func NewTransliterator() (*Transliterator, error) {
	tok, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, fmt.Errorf("nickname transliterator: %w", err)
	}
	return &Transliterator{tok: tok}, nil
}

// Romaji transliterates name. Each morpheme's katakana reading is
// converted to Hepburn romaji and capitalized; morphemes without a
// reading contribute their surface form unchanged, so Latin or already
// romanized names pass through.
func (t *Transliterator) Romaji(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}

	var b strings.Builder
	for _, tk := range t.tok.Tokenize(name) {
		reading, ok := tk.Reading()
		if !ok || reading == "" || reading == "*" {
			b.WriteString(capitalize(katakanaToRomaji(hiraganaToKatakana(tk.Surface))))
			continue
		}
		b.WriteString(capitalize(katakanaToRomaji(reading)))
	}
	return b.String()
}

// romajiDigraphs covers youon combinations and common extended katakana.
// Checked before the single-kana table.
var romajiDigraphs = map[string]string{
	"キャ": "kya", "キュ": "kyu", "キョ": "kyo",
	"シャ": "sha", "シュ": "shu", "ショ": "sho", "シェ": "she",
	"チャ": "cha", "チュ": "chu", "チョ": "cho", "チェ": "che",
	"ニャ": "nya", "ニュ": "nyu", "ニョ": "nyo",
	"ヒャ": "hya", "ヒュ": "hyu", "ヒョ": "hyo",
	"ミャ": "mya", "ミュ": "myu", "ミョ": "myo",
	"リャ": "rya", "リュ": "ryu", "リョ": "ryo",
	"ギャ": "gya", "ギュ": "gyu", "ギョ": "gyo",
	"ジャ": "ja", "ジュ": "ju", "ジョ": "jo", "ジェ": "je",
	"ヂャ": "ja", "ヂュ": "ju", "ヂョ": "jo",
	"ビャ": "bya", "ビュ": "byu", "ビョ": "byo",
	"ピャ": "pya", "ピュ": "pyu", "ピョ": "pyo",
	"ファ": "fa", "フィ": "fi", "フェ": "fe", "フォ": "fo",
	"ウィ": "wi", "ウェ": "we", "ウォ": "wo",
	"ヴァ": "va", "ヴィ": "vi", "ヴェ": "ve", "ヴォ": "vo",
	"ティ": "ti", "ディ": "di", "デュ": "dyu", "トゥ": "tu",
}

var romajiKana = map[rune]string{
	'ア': "a", 'イ': "i", 'ウ': "u", 'エ': "e", 'オ': "o",
	'カ': "ka", 'キ': "ki", 'ク': "ku", 'ケ': "ke", 'コ': "ko",
	'サ': "sa", 'シ': "shi", 'ス': "su", 'セ': "se", 'ソ': "so",
	'タ': "ta", 'チ': "chi", 'ツ': "tsu", 'テ': "te", 'ト': "to",
	'ナ': "na", 'ニ': "ni", 'ヌ': "nu", 'ネ': "ne", 'ノ': "no",
	'ハ': "ha", 'ヒ': "hi", 'フ': "fu", 'ヘ': "he", 'ホ': "ho",
	'マ': "ma", 'ミ': "mi", 'ム': "mu", 'メ': "me", 'モ': "mo",
	'ヤ': "ya", 'ユ': "yu", 'ヨ': "yo",
	'ラ': "ra", 'リ': "ri", 'ル': "ru", 'レ': "re", 'ロ': "ro",
	'ワ': "wa", 'ヲ': "o", 'ン': "n",
	'ガ': "ga", 'ギ': "gi", 'グ': "gu", 'ゲ': "ge", 'ゴ': "go",
	'ザ': "za", 'ジ': "ji", 'ズ': "zu", 'ゼ': "ze", 'ゾ': "zo",
	'ダ': "da", 'ヂ': "ji", 'ヅ': "zu", 'デ': "de", 'ド': "do",
	'バ': "ba", 'ビ': "bi", 'ブ': "bu", 'ベ': "be", 'ボ': "bo",
	'パ': "pa", 'ピ': "pi", 'プ': "pu", 'ペ': "pe", 'ポ': "po",
	'ヴ': "vu",
	'ァ': "a", 'ィ': "i", 'ゥ': "u", 'ェ': "e", 'ォ': "o",
	'ャ': "ya", 'ュ': "yu", 'ョ': "yo",
}

// katakanaToRomaji converts a katakana reading to Hepburn romaji. The
// sokuon doubles the following consonant and the long-vowel mark repeats
// the preceding vowel. Runes outside the tables pass through unchanged.
func katakanaToRomaji(s string) string {
	runes := []rune(s)
	var b strings.Builder
	geminate := false

	for i := 0; i < len(runes); i++ {
		if runes[i] == 'ッ' {
			geminate = true
			continue
		}
		if runes[i] == 'ー' {
			if last, ok := lastVowel(b.String()); ok {
				b.WriteByte(last)
			}
			continue
		}

		var syl string
		if i+1 < len(runes) {
			if d, ok := romajiDigraphs[string(runes[i:i+2])]; ok {
				syl = d
				i++
			}
		}
		if syl == "" {
			if k, ok := romajiKana[runes[i]]; ok {
				syl = k
			} else {
				b.WriteRune(runes[i])
				geminate = false
				continue
			}
		}

		if geminate && len(syl) > 0 && !isVowelByte(syl[0]) {
			b.WriteByte(syl[0])
			geminate = false
		}
		b.WriteString(syl)
	}
	return b.String()
}

func lastVowel(s string) (byte, bool) {
	for i := len(s) - 1; i >= 0; i-- {
		if isVowelByte(s[i]) {
			return s[i], true
		}
	}
	return 0, false
}

func isVowelByte(c byte) bool {
	switch c {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	}
	return false
}

// hiraganaToKatakana maps hiragana runes into the katakana block so the
// surface-form fallback can use the same romaji tables.
func hiraganaToKatakana(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'ぁ' && r <= 'ゖ' {
			return r + ('ァ' - 'ぁ')
		}
		return r
	}, s)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
