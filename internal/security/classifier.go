package security

import (
	"strings"
	"time"
)

// Decision is the classifier verdict for one request.
type Decision struct {
	Allowed bool
	Reason  string
}

var allow = Decision{Allowed: true}

func block(reason string) Decision { return Decision{Reason: reason} }

const (
	scoreThreshold = 10
	pathHitLimit   = 5

	burstWindow = 10 * time.Second
	burstLimit  = 10

	weightBotAgent     = 5
	weightMissingAgent = 2
	weightBurst        = 3

	minAgentLength = 10
)

// allowedAgents are benign crawler signatures. Checked before the denylist so
// a good bot whose agent string also matches a generic pattern is not penalized.
var allowedAgents = []string{
	"googlebot",
	"bingbot",
	"slurp",
	"duckduckbot",
	"baiduspider",
	"yandex",
	"facebookexternalhit",
	"twitterbot",
	"applebot",
}

// maliciousAgents are scanner and scripted-client signatures.
var maliciousAgents = []string{
	"sqlmap",
	"nikto",
	"nmap",
	"masscan",
	"metasploit",
	"hydra",
	"dirbuster",
	"gobuster",
	"wpscan",
	"curl",
	"wget",
	"python-requests",
	"go-http-client",
	"scrapy",
	"httpclient",
	"libwww",
}

// sensitivePaths are credential, config, and admin-panel probe signatures.
var sensitivePaths = []string{
	"wp-admin",
	"wp-login",
	"phpmyadmin",
	"/admin.php",
	"/.env",
	"/.git",
	"/config.",
	"/backup",
	"/dump.sql",
	"/etc/passwd",
	"xmlrpc.php",
	"/shell",
	"/cgi-bin",
}

// blockedExtensions are server-side script extensions this service never serves.
var blockedExtensions = []string{
	".php",
	".asp",
	".aspx",
	".jsp",
	".cgi",
}

// Classifier converts request metadata into an allow/block decision, updating
// the trust ledger as a side effect. The whole rule walk runs under the ledger
// mutex so scoring and the block-threshold check are atomic per identity.
type Classifier struct {
	ledger *Ledger
	now    func() time.Time
}

func NewClassifier(ledger *Ledger) *Classifier {
	return &Classifier{ledger: ledger, now: time.Now}
}

// Classify evaluates the rules in order; the first match wins. Each scoring
// rule re-checks the cumulative threshold so repeated minor violations
// escalate to a permanent block without any single rule firing it.
func (c *Classifier) Classify(identity, path, method, userAgent string) Decision {
	now := c.now()

	c.ledger.mu.Lock()
	defer c.ledger.mu.Unlock()

	rec := c.ledger.getOrCreate(identity, now)

	if rec.Blocked {
		return block("IP is blocked")
	}

	ua := strings.ToLower(userAgent)
	for _, good := range allowedAgents {
		if strings.Contains(ua, good) {
			return allow
		}
	}

	for _, bad := range maliciousAgents {
		if strings.Contains(ua, bad) {
			rec.bump(weightBotAgent)
			return block("bot user agent detected")
		}
	}

	if len(userAgent) < minAgentLength {
		rec.bump(weightMissingAgent)
		return block("missing or suspicious user agent")
	}

	rec.Window = pruneWindow(rec.Window, now)
	rec.Window = append(rec.Window, now)
	if len(rec.Window) > burstLimit {
		rec.bump(weightBurst)
		return block("too many rapid requests")
	}

	lowerPath := strings.ToLower(path)
	for _, probe := range sensitivePaths {
		if strings.Contains(lowerPath, probe) {
			rec.pathHit()
			return block("blocked path")
		}
	}

	for _, ext := range blockedExtensions {
		if strings.HasSuffix(lowerPath, ext) {
			rec.pathHit()
			return block("blocked extension")
		}
	}

	// Percent-encoded traversal is conclusive; plain structural anomalies are
	// rejected without scoring.
	if strings.Contains(lowerPath, "%2e%2e") {
		rec.Blocked = true
		return block("path traversal attempt")
	}
	if strings.Contains(path, "//") || strings.Contains(path, "..") {
		return block("malformed path")
	}

	return allow
}

// bump adds weight to the suspicion score and flips the block flag once the
// cumulative score crosses the threshold.
func (r *TrustRecord) bump(weight int) {
	r.Score += weight
	if r.Score >= scoreThreshold {
		r.Blocked = true
	}
}

// pathHit records a sensitive-path or blocked-extension probe. This is an
// escalation channel independent of the weighted score.
func (r *TrustRecord) pathHit() {
	r.PathHits++
	if r.PathHits >= pathHitLimit {
		r.Blocked = true
	}
}

func pruneWindow(window []time.Time, now time.Time) []time.Time {
	cutoff := now.Add(-burstWindow)
	kept := window[:0]
	for _, t := range window {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	return kept
}
