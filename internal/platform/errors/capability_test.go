package errors

import (
	"context"
	stderrs "errors"
	"net/http"
	"syscall"
	"testing"
)

func TestFromCapabilityStatus(t *testing.T) {
	cases := []struct {
		status int
		want   ErrorCode
		nilErr bool
	}{
		{http.StatusOK, 0, true},
		{http.StatusCreated, 0, true},
		{http.StatusTooManyRequests, ErrorCodeTooManyRequests, false},
		{http.StatusBadGateway, ErrorCodeUnavailable, false},
		{http.StatusServiceUnavailable, ErrorCodeUnavailable, false},
		{http.StatusRequestTimeout, ErrorCodeUnavailable, false},
		{http.StatusUnauthorized, ErrorCodeUnauthorized, false},
		{http.StatusUnprocessableEntity, ErrorCodeCapability, false},
		{http.StatusBadRequest, ErrorCodeCapability, false},
	}
	for _, tc := range cases {
		err := FromCapabilityStatus(tc.status, "detect")
		if tc.nilErr {
			if err != nil {
				t.Errorf("status %d: want nil, got %v", tc.status, err)
			}
			continue
		}
		if CodeOf(err) != tc.want {
			t.Errorf("status %d: code = %d, want %d", tc.status, CodeOf(err), tc.want)
		}
	}
}

func TestIsTransient(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"unavailable", Unavailablef("x"), true},
		{"rate limited", Newf(ErrorCodeTooManyRequests, "x"), true},
		{"permanent capability", Capabilityf("x"), false},
		{"content policy", ContentPolicyf("x"), false},
		{"deadline", context.DeadlineExceeded, true},
		{"canceled", context.Canceled, false},
		{"conn reset", syscall.ECONNRESET, true},
		{"conn refused", syscall.ECONNREFUSED, true},
		{"plain", stderrs.New("nope"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsTransient(tc.err); got != tc.want {
				t.Fatalf("IsTransient = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestAsCapability(t *testing.T) {
	if AsCapability(nil, "detect") != nil {
		t.Fatalf("nil must stay nil")
	}

	// already classified errors keep their code
	err := AsCapability(Newf(ErrorCodeTooManyRequests, "slow down"), "rewrite")
	if CodeOf(err) != ErrorCodeTooManyRequests {
		t.Fatalf("classified code must carry over, got %d", CodeOf(err))
	}
	if e, _ := As(err); e.Op() != "rewrite" {
		t.Fatalf("op must be attached")
	}

	// transport-level transient errors become Unavailable
	err = AsCapability(syscall.ECONNRESET, "detect")
	if CodeOf(err) != ErrorCodeUnavailable {
		t.Fatalf("reset must classify transient, got %d", CodeOf(err))
	}

	// everything else is a permanent capability failure
	err = AsCapability(stderrs.New("protocol mismatch"), "detect")
	if CodeOf(err) != ErrorCodeCapability {
		t.Fatalf("unknown must classify permanent, got %d", CodeOf(err))
	}
}
