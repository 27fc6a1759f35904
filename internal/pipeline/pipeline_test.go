package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/example/go-chat-translate/internal/dict"
	"github.com/example/go-chat-translate/internal/translate"
)

func newService(t *testing.T, tr translate.Translator, opts ...Option) *Service {
	t.Helper()
	svc, err := New(tr, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return svc
}

type failingTranslator struct{ err error }

func (f failingTranslator) Translate(context.Context, []string) ([]string, error) {
	return nil, f.err
}

type countingTranslator struct {
	calls   int
	batches [][]string
}

func (c *countingTranslator) Translate(_ context.Context, texts []string) ([]string, error) {
	c.calls++
	c.batches = append(c.batches, append([]string(nil), texts...))
	return texts, nil
}

// dropOneTranslator violates the one-output-per-input contract.
type dropOneTranslator struct{}

func (dropOneTranslator) Translate(_ context.Context, texts []string) ([]string, error) {
	return texts[:len(texts)-1], nil
}

func TestProcess_identityPreservesOrder(t *testing.T) {
	svc := newService(t, translate.Mock{})
	svc.SetDictionary(dict.FromTerms(map[string]string{"ギルド": "길드"}))

	resp, err := svc.Process(context.Background(), Request{PID: 1, Text: "今夜ギルドで3人"})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if resp.Translated != "今夜 길드 で 3인" {
		t.Errorf("got %q", resp.Translated)
	}
	if resp.PID != 1 {
		t.Errorf("PID = %d", resp.PID)
	}
}

func TestProcess_singleBatchPerRequest(t *testing.T) {
	tr := &countingTranslator{}
	svc := newService(t, tr)
	svc.SetDictionary(dict.FromTerms(map[string]string{"ギルド": "길드"}))

	_, err := svc.Process(context.Background(), Request{Text: "今夜ギルドで3人 また明日"})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if tr.calls != 1 {
		t.Errorf("translator called %d times, want 1", tr.calls)
	}
}

func TestProcess_protectedChunksBypassTranslator(t *testing.T) {
	upper := translate.Func(strings.ToUpper)
	svc := newService(t, upper)
	svc.SetDictionary(dict.FromTerms(map[string]string{"guild": "길드"}))

	resp, err := svc.Process(context.Background(), Request{Text: "go guild now"})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if !strings.Contains(resp.Translated, "길드") {
		t.Errorf("pinned term missing: %q", resp.Translated)
	}
	if strings.Contains(resp.Translated, "길드") && strings.Contains(resp.Translated, "GUILD") {
		t.Errorf("pinned term leaked to translator: %q", resp.Translated)
	}
	if !strings.Contains(resp.Translated, "GO") {
		t.Errorf("translatable text not translated: %q", resp.Translated)
	}
}

func TestProcess_particleAgreement(t *testing.T) {
	// The model picked the wrong particle for the final consonant.
	tr := translate.Func(func(string) string { return "밥를 먹었다" })
	svc := newService(t, tr)

	resp, err := svc.Process(context.Background(), Request{Text: "ご飯を食べた"})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if resp.Translated != "밥을 먹었다" {
		t.Errorf("got %q", resp.Translated)
	}
}

func TestProcess_nicknameEcho(t *testing.T) {
	svc := newService(t, translate.Mock{})

	resp, err := svc.Process(context.Background(), Request{Text: "hi", Nickname: "Alice"})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if resp.Nickname != "Alice(Alice)" {
		t.Errorf("Nickname = %q", resp.Nickname)
	}

	resp, err = svc.Process(context.Background(), Request{Text: "hi"})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if resp.Nickname != "" {
		t.Errorf("Nickname = %q for request without sender", resp.Nickname)
	}
}

func TestProcess_cachedNicknameSubstituted(t *testing.T) {
	svc := newService(t, translate.Mock{})

	// First message from さくら seeds the cache.
	if _, err := svc.Process(context.Background(), Request{Text: "こんにちは", Nickname: "さくら"}); err != nil {
		t.Fatalf("Process: %v", err)
	}

	// A later message mentioning the name gets the transliteration.
	resp, err := svc.Process(context.Background(), Request{Text: "さくらはどこ"})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if !strings.Contains(resp.Translated, "Sakura") {
		t.Errorf("cached nickname not substituted: %q", resp.Translated)
	}
}

func TestProcess_emptyText(t *testing.T) {
	svc := newService(t, translate.Mock{})
	resp, err := svc.Process(context.Background(), Request{Text: ""})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if resp.Translated != "" {
		t.Errorf("got %q", resp.Translated)
	}
}

func TestProcess_translatorErrorPropagates(t *testing.T) {
	boom := errors.New("backend down")
	svc := newService(t, failingTranslator{err: boom})

	_, err := svc.Process(context.Background(), Request{Text: "何か"})
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped %v", err, boom)
	}
}

func TestProcess_shortBatchErrors(t *testing.T) {
	svc := newService(t, dropOneTranslator{})

	if _, err := svc.Process(context.Background(), Request{Text: "何か"}); err == nil {
		t.Fatal("expected error when an output is dropped")
	}
}

func TestProcess_bracketSplitting(t *testing.T) {
	svc := newService(t, translate.Mock{}, WithBracketSplitting(true))

	resp, err := svc.Process(context.Background(), Request{Text: "新イベント「紅蓮の戦場」開始"})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if resp.Translated != "新イベント「紅蓮の戦場」開始" {
		t.Errorf("got %q", resp.Translated)
	}
}

func TestProcess_bracketMarkerLostKeepsInner(t *testing.T) {
	// The frame translation drops the marker entirely; the inner text
	// must still appear in the output.
	tr := translate.Func(func(s string) string {
		if strings.Contains(s, "[[B0]]") {
			return "이벤트 시작"
		}
		return s
	})
	svc := newService(t, tr, WithBracketSplitting(true))

	resp, err := svc.Process(context.Background(), Request{Text: "イベント「紅蓮」開始"})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if !strings.Contains(resp.Translated, "「紅蓮」") {
		t.Errorf("bracket content dropped: %q", resp.Translated)
	}
}

func TestProcess_trace(t *testing.T) {
	svc := newService(t, translate.Mock{}, WithTrace(true))

	resp, err := svc.Process(context.Background(), Request{Text: "テスト"})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if resp.Trace == nil {
		t.Fatalf("trace missing")
	}
	if resp.Trace.Original != "テスト" || resp.Trace.Final != resp.Translated {
		t.Errorf("trace = %+v", resp.Trace)
	}

	svc = newService(t, translate.Mock{})
	resp, _ = svc.Process(context.Background(), Request{Text: "テスト"})
	if resp.Trace != nil {
		t.Errorf("trace present without WithTrace")
	}
}

func TestRomaji(t *testing.T) {
	svc := newService(t, translate.Mock{})
	if got := svc.Romaji("さくら"); got != "Sakura" {
		t.Errorf("got %q", got)
	}
}
