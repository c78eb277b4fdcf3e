package policy

import (
	"context"
	"errors"
	"testing"
)

func TestFailClosedPolicy_Decide(t *testing.T) {
	p := FailClosedPolicy{}
	ctx := context.Background()

	base := Result{Proceed: true}

	cases := []struct {
		name        string
		kind        FailureKind
		innerErr    error
		current     Result
		wantProceed bool
		wantHasErr  bool
	}{
		{"FailNone_passthrough", FailNone, nil, base, true, false},
		{"FailConfigFetch_abort", FailConfigFetch, errors.New("fetch"), base, false, true},
		{"FailConfigMalformed_abort", FailConfigMalformed, errors.New("malformed"), base, false, true},
		{"FailConfigFetch_preserve_existing_err", FailConfigFetch, errors.New("ignored"), Result{Proceed: true, Error: errors.New("already")}, false, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := p.Decide(ctx, tc.kind, tc.innerErr, tc.current)
			if got.Proceed != tc.wantProceed {
				t.Fatalf("Proceed = %v, want %v", got.Proceed, tc.wantProceed)
			}
			if tc.wantHasErr && got.Error == nil {
				t.Fatalf("expected error to be set, got nil")
			}
			if !tc.wantHasErr && got.Error != nil {
				t.Fatalf("expected no error, got %v", got.Error)
			}
		})
	}
}

func TestFailClosedPolicy_ErrorAttachment(t *testing.T) {
	p := FailClosedPolicy{}
	inner := errors.New("inner")
	got := p.Decide(context.Background(), FailConfigMalformed, inner, Result{Proceed: true})
	if got.Error != inner {
		t.Fatalf("expected inner error attached, got %v", got.Error)
	}

	existing := errors.New("existing")
	got = p.Decide(context.Background(), FailConfigFetch, inner, Result{Proceed: true, Error: existing})
	if got.Error != existing {
		t.Fatalf("expected existing error preserved, got %v", got.Error)
	}
}

func TestFailOpenPolicy_AllFailuresProceed(t *testing.T) {
	p := FailOpenPolicy{}
	for _, k := range []FailureKind{FailConfigFetch, FailConfigMalformed} {
		got := p.Decide(context.Background(), k, errors.New("inner"), Result{Proceed: false})
		if !got.Proceed {
			t.Fatalf("kind %v: expected Proceed=true", k)
		}
		if got.Error != nil {
			t.Fatalf("kind %v: expected no error, got %v", k, got.Error)
		}
	}
}

func TestFailOpenPolicy_FailNoneUnchanged(t *testing.T) {
	p := FailOpenPolicy{}
	orig := Result{Proceed: true}
	got := p.Decide(context.Background(), FailNone, nil, orig)
	if got != orig {
		t.Fatalf("expected result unchanged, got %+v", got)
	}
}

func TestParse(t *testing.T) {
	cases := []struct {
		in     string
		want   Policy
		wantOK bool
	}{
		{"", nil, true},
		{"closed", FailClosedPolicy{}, true},
		{"fail-closed", FailClosedPolicy{}, true},
		{"open", FailOpenPolicy{}, true},
		{"fail-open", FailOpenPolicy{}, true},
		{"sideways", nil, false},
	}
	for _, tc := range cases {
		got, ok := Parse(tc.in)
		if ok != tc.wantOK || got != tc.want {
			t.Fatalf("Parse(%q) = %v, %v; want %v, %v", tc.in, got, ok, tc.want, tc.wantOK)
		}
	}
}

func TestFailureKind_String(t *testing.T) {
	if FailConfigFetch.String() != "config_fetch" {
		t.Fatalf("unexpected name %q", FailConfigFetch.String())
	}
	if FailureKind(99).String() != "unknown" {
		t.Fatalf("unexpected name %q", FailureKind(99).String())
	}
}
