package protect

import "testing"

func TestExtractBrackets_none(t *testing.T) {
	frame, spans := ExtractBrackets("ただの文です")
	if frame != "ただの文です" || len(spans) != 0 {
		t.Errorf("got frame %q spans %v", frame, spans)
	}
}

func TestExtractBrackets_single(t *testing.T) {
	frame, spans := ExtractBrackets("新イベント「紅蓮の戦場」が始まった")
	if frame != "新イベント[[B0]]が始まった" {
		t.Errorf("frame = %q", frame)
	}
	if len(spans) != 1 {
		t.Fatalf("spans = %v", spans)
	}
	s := spans[0]
	if s.Index != 0 || s.Open != '「' || s.Close != '」' || s.Inner != "紅蓮の戦場" {
		t.Errorf("span = %+v", s)
	}
	if s.Leading {
		t.Errorf("span is not sentence-initial")
	}
	if s.Anchor != "新イベント" {
		t.Errorf("anchor = %q", s.Anchor)
	}
}

func TestExtractBrackets_multiple(t *testing.T) {
	frame, spans := ExtractBrackets("【告知】明日は『討伐戦』です")
	if frame != "[[B0]]明日は[[B1]]です" {
		t.Errorf("frame = %q", frame)
	}
	if len(spans) != 2 {
		t.Fatalf("spans = %v", spans)
	}
	if spans[0].Inner != "告知" || !spans[0].Leading {
		t.Errorf("span 0 = %+v", spans[0])
	}
	if spans[1].Inner != "討伐戦" || spans[1].Leading {
		t.Errorf("span 1 = %+v", spans[1])
	}
	if spans[1].Open != '『' || spans[1].Close != '』' {
		t.Errorf("span 1 glyphs = %+v", spans[1])
	}
}

func TestExtractBrackets_unmatchedOpenLeftAlone(t *testing.T) {
	frame, spans := ExtractBrackets("これは「閉じない")
	if frame != "これは「閉じない" || len(spans) != 0 {
		t.Errorf("got frame %q spans %v", frame, spans)
	}
}

func TestExtractBrackets_mismatchedPairLeftAlone(t *testing.T) {
	// An open glyph only pairs with its own closer.
	frame, spans := ExtractBrackets("「中身』のまま")
	if frame != "「中身』のまま" || len(spans) != 0 {
		t.Errorf("got frame %q spans %v", frame, spans)
	}
}

func TestExtractBrackets_emptyInner(t *testing.T) {
	frame, spans := ExtractBrackets("空の（）です")
	if frame != "空の[[B0]]です" {
		t.Errorf("frame = %q", frame)
	}
	if len(spans) != 1 || spans[0].Inner != "" {
		t.Errorf("spans = %v", spans)
	}
}

func TestBracketSpanMarker(t *testing.T) {
	s := BracketSpan{Index: 3}
	if got := s.Marker(); got != "[[B3]]" {
		t.Errorf("Marker() = %q", got)
	}
}
