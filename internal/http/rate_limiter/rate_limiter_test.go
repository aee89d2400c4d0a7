package rate_limiter

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestAllow_ThrottlesPerIP(t *testing.T) {
	l := New(0.001, 2)
	request := func(addr string) *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/admin/login/", nil)
		req.RemoteAddr = addr
		return req
	}

	got := []bool{}
	for i := 0; i < 3; i++ {
		got = append(got, l.Allow(request("10.0.0.1:5000")))
	}
	if !got[0] || !got[1] || got[2] {
		t.Errorf("expected true, true, false; got %v", got)
	}

	if l.Allow(request("10.0.0.1:6000")) {
		t.Error("another port on the same host should share the budget")
	}
	if !l.Allow(request("10.0.0.2:5000")) {
		t.Error("another client should not be throttled")
	}
}

func TestSweep_RemovesIdleVisitors(t *testing.T) {
	l := New(1, 1)
	l.GetVisitor("10.0.0.1")
	l.GetVisitor("10.0.0.2")

	l.sweep(time.Now())
	if l.Visitors() != 2 {
		t.Fatalf("fresh visitors should stay, got %d", l.Visitors())
	}

	l.sweep(time.Now().Add(10 * time.Minute))
	if l.Visitors() != 0 {
		t.Errorf("idle visitors should be removed, got %d", l.Visitors())
	}
}
