package service

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	catalogdom "leadscout/internal/services/catalog/domain"
)

type fakeJudge struct {
	content string
	err     error
	calls   int
}

func (f *fakeJudge) Configured() bool { return true }

func (f *fakeJudge) Judge(_ context.Context, _, _ string) (string, error) {
	f.calls++
	return f.content, f.err
}

func svcContext() *catalogdom.ServiceContext {
	return &catalogdom.ServiceContext{
		ID:          "svc-1",
		Name:        "避難所管理クラウド",
		Description: "避難所の開設状況を一元管理するSaaS",
	}
}

func TestKeywords_NoContextUsesDefaults(t *testing.T) {
	t.Parallel()

	s := New(nil, Config{})
	kw, err := s.Keywords(context.Background(), "svc-1", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(kw, defaultKeywords) {
		t.Fatalf("expected static defaults, got %+v", kw)
	}
}

func TestKeywords_GeneratedSetParsed(t *testing.T) {
	t.Parallel()

	j := &fakeJudge{content: "```json\n" +
		`{"must":["避難所"],"should":["防災","訓練"],"not":["中止"],"meta_bias":1}` +
		"\n```"}
	s := New(j, Config{})

	kw, err := s.Keywords(context.Background(), "svc-1", svcContext())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(kw.Must) != 1 || kw.Must[0] != "避難所" {
		t.Fatalf("must tier not parsed: %+v", kw)
	}
	if kw.MetaBias != 1 {
		t.Fatalf("meta bias not parsed: %+v", kw)
	}
}

func TestKeywords_MalformedAndErrorFallToDefaults(t *testing.T) {
	t.Parallel()

	for name, j := range map[string]*fakeJudge{
		"malformed": {content: "not json at all"},
		"empty":     {content: `{"must":[],"should":[],"not":[]}`},
		"error":     {err: errors.New("boom")},
	} {
		s := New(j, Config{})
		kw, err := s.Keywords(context.Background(), "svc-"+name, svcContext())
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", name, err)
		}
		if !reflect.DeepEqual(kw, defaultKeywords) {
			t.Fatalf("%s: expected defaults, got %+v", name, kw)
		}
	}
}

func TestKeywords_CacheHitSkipsGeneration(t *testing.T) {
	t.Parallel()

	j := &fakeJudge{content: `{"must":["避難所"],"should":["防災"],"not":[]}`}
	s := New(j, Config{})

	for i := 0; i < 3; i++ {
		if _, err := s.Keywords(context.Background(), "svc-1", svcContext()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if j.calls != 1 {
		t.Fatalf("expected one generation call, got %d", j.calls)
	}
}

func TestKeywords_TTLExpiryRegenerates(t *testing.T) {
	t.Parallel()

	j := &fakeJudge{content: `{"must":["避難所"],"should":["防災"],"not":[]}`}
	s := New(j, Config{TTL: 10 * time.Minute})

	clock := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return clock }

	if _, err := s.Keywords(context.Background(), "svc-1", svcContext()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	clock = clock.Add(9 * time.Minute)
	if _, err := s.Keywords(context.Background(), "svc-1", svcContext()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if j.calls != 1 {
		t.Fatalf("fresh entry regenerated: %d calls", j.calls)
	}

	clock = clock.Add(2 * time.Minute)
	if _, err := s.Keywords(context.Background(), "svc-1", svcContext()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if j.calls != 2 {
		t.Fatalf("expired entry not regenerated: %d calls", j.calls)
	}
}
