package security

import (
	"fmt"
	"testing"
	"time"
)

const cleanAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

func newTestClassifier(ttl time.Duration) (*Classifier, *fakeClock) {
	clock := &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	c := NewClassifier(NewLedger(ttl))
	c.now = clock.Now
	return c, clock
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func TestClassifyAllowsCleanRequest(t *testing.T) {
	c, _ := newTestClassifier(time.Hour)
	d := c.Classify("1.2.3.4", "/", "GET", cleanAgent)
	if !d.Allowed {
		t.Fatalf("clean request blocked: %q", d.Reason)
	}
}

func TestClassifyBlockedIsSticky(t *testing.T) {
	c, _ := newTestClassifier(time.Hour)
	c.ledger.Block("1.2.3.4")

	for _, path := range []string{"/", "/health", "/api/chat"} {
		d := c.Classify("1.2.3.4", path, "GET", cleanAgent)
		if d.Allowed || d.Reason != "IP is blocked" {
			t.Fatalf("blocked identity not rejected on %s: %+v", path, d)
		}
	}

	c.ledger.Unblock("1.2.3.4")
	if d := c.Classify("1.2.3.4", "/", "GET", cleanAgent); !d.Allowed {
		t.Fatalf("unblocked identity still rejected: %q", d.Reason)
	}
}

func TestClassifyMaliciousAgent(t *testing.T) {
	c, _ := newTestClassifier(time.Hour)
	d := c.Classify("1.2.3.4", "/", "GET", "sqlmap/1.7.2#stable (https://sqlmap.org)")
	if d.Allowed || d.Reason != "bot user agent detected" {
		t.Fatalf("scanner agent not blocked: %+v", d)
	}

	// weight 5 per hit; second hit crosses the threshold of 10
	c.Classify("1.2.3.4", "/", "GET", "Nikto/2.1.6 scanner harness")
	if !c.ledger.IsBlocked("1.2.3.4") {
		t.Fatal("two scanner hits should cross the score threshold")
	}
}

func TestClassifyMissingAgent(t *testing.T) {
	c, _ := newTestClassifier(time.Hour)

	d := c.Classify("1.2.3.4", "/", "GET", "")
	if d.Allowed || d.Reason != "missing or suspicious user agent" {
		t.Fatalf("empty agent not blocked: %+v", d)
	}
	if d := c.Classify("1.2.3.4", "/", "GET", "short"); d.Allowed {
		t.Fatal("short agent not blocked")
	}
}

func TestClassifyAllowlistedAgentNeverPenalized(t *testing.T) {
	c, _ := newTestClassifier(time.Hour)

	// Contains "curl" from the denylist, but googlebot wins.
	agent := "Googlebot/2.1 (+http://www.google.com/bot.html) curl-compatible"
	for i := 0; i < 50; i++ {
		d := c.Classify("66.249.66.1", "/wp-admin/install.php", "GET", agent)
		if !d.Allowed {
			t.Fatalf("allowlisted agent blocked on request %d: %q", i, d.Reason)
		}
	}
	if blocked, suspicious := c.ledger.Counts(); blocked != 0 || suspicious != 0 {
		t.Fatalf("allowlisted agent accrued state: blocked=%d suspicious=%d", blocked, suspicious)
	}
}

func TestClassifyBurstWindow(t *testing.T) {
	c, clock := newTestClassifier(time.Hour)

	// 11 requests within 9 seconds: the 11th is rejected.
	for i := 0; i < 10; i++ {
		if d := c.Classify("1.2.3.4", "/", "GET", cleanAgent); !d.Allowed {
			t.Fatalf("request %d unexpectedly blocked: %q", i+1, d.Reason)
		}
		clock.Advance(900 * time.Millisecond)
	}
	d := c.Classify("1.2.3.4", "/", "GET", cleanAgent)
	if d.Allowed || d.Reason != "too many rapid requests" {
		t.Fatalf("11th rapid request not blocked: %+v", d)
	}

	// Same 11 requests spread over 12 seconds: none blocked on this rule.
	c2, clock2 := newTestClassifier(time.Hour)
	for i := 0; i < 11; i++ {
		if d := c2.Classify("5.6.7.8", "/", "GET", cleanAgent); !d.Allowed {
			t.Fatalf("spread request %d blocked: %q", i+1, d.Reason)
		}
		clock2.Advance(1200 * time.Millisecond)
	}
}

func TestClassifySensitivePathEscalation(t *testing.T) {
	c, _ := newTestClassifier(time.Hour)

	for i := 0; i < 4; i++ {
		d := c.Classify("1.2.3.4", "/wp-admin/install.php", "GET", cleanAgent)
		if d.Allowed || d.Reason != "blocked path" {
			t.Fatalf("probe %d not blocked as path: %+v", i+1, d)
		}
		if c.ledger.IsBlocked("1.2.3.4") {
			t.Fatalf("identity permanently blocked after only %d probes", i+1)
		}
	}

	// 5th sensitive-path hit flips the permanent block, clean agent or not.
	c.Classify("1.2.3.4", "/wp-admin/install.php", "GET", cleanAgent)
	if !c.ledger.IsBlocked("1.2.3.4") {
		t.Fatal("5 sensitive-path probes should permanently block")
	}
	if d := c.Classify("1.2.3.4", "/", "GET", cleanAgent); d.Allowed {
		t.Fatal("permanently blocked identity allowed through")
	}
}

func TestClassifyBlockedExtension(t *testing.T) {
	c, _ := newTestClassifier(time.Hour)
	for _, path := range []string{"/index.php", "/page.ASP", "/x.jsp", "/bin.cgi"} {
		d := c.Classify("1.2.3.4", path, "GET", cleanAgent)
		if d.Allowed || d.Reason != "blocked extension" {
			t.Fatalf("%s not blocked as extension: %+v", path, d)
		}
	}
}

func TestClassifyStructuralPatterns(t *testing.T) {
	c, _ := newTestClassifier(time.Hour)

	if d := c.Classify("a", "/static//app.js", "GET", cleanAgent); d.Allowed {
		t.Fatal("double slash not rejected")
	}
	if d := c.Classify("b", "/../secret", "GET", cleanAgent); d.Allowed {
		t.Fatal("dot-dot not rejected")
	}

	// Encoded traversal is conclusive: immediate permanent block.
	d := c.Classify("c", "/files/%2e%2e/%2e%2e/etc/passwd", "GET", cleanAgent)
	if d.Allowed || d.Reason != "path traversal attempt" {
		t.Fatalf("encoded traversal not blocked: %+v", d)
	}
	if !c.ledger.IsBlocked("c") {
		t.Fatal("encoded traversal should permanently block")
	}
}

func TestClassifyScoreThresholdAtomicity(t *testing.T) {
	c, _ := newTestClassifier(time.Hour)

	// Hammer one identity with scoring violations from many goroutines; once
	// the combined score crosses the threshold the block must hold for every
	// later request.
	done := make(chan struct{})
	for g := 0; g < 8; g++ {
		go func(g int) {
			defer func() { done <- struct{}{} }()
			for i := 0; i < 10; i++ {
				c.Classify("9.9.9.9", fmt.Sprintf("/probe-%d-%d", g, i), "GET", "wget/1.21.3 harness")
			}
		}(g)
	}
	for g := 0; g < 8; g++ {
		<-done
	}

	if !c.ledger.IsBlocked("9.9.9.9") {
		t.Fatal("identity should be blocked after repeated scoring violations")
	}
	close(done)
}
