/*
MIT License

Copyright (c) 2025 Yuval Adar <adary@adary.org>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in all
copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
SOFTWARE.
*/

// Package secrets spots credentials pasted into segment options before a
// configuration is shared.
package secrets

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
)

// Threat describes one reason a value looks sensitive.
type Threat struct {
	Type       string  // "api_key", "jwt", "private_key", "connection_string", "token", "credential", "url_with_params"
	Confidence float64 // 0.0 to 1.0
	Reason     string
}

type pattern struct {
	name  string
	regex *regexp.Regexp
}

// Detector holds the compiled patterns.
type Detector struct {
	patterns []pattern
}

// patternSources are checked in order; the first few are vendor specific.
var patternSources = []struct{ name, expr string }{
	{"jwt", `^[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,}$`},
	{"github_token", `^(ghp_|gho_|ghu_|ghs_|ghr_)[A-Za-z0-9_]{36,}$`},
	{"slack_token", `^xox[baprs]-[0-9a-zA-Z-]{10,}$`},
	{"aws_access_key", `^AKIA[0-9A-Z]{16}$`},
	{"google_api", `^AIza[0-9A-Za-z_-]{35}$`},
	{"stripe_key", `^(sk_|pk_)(test_|live_)?[0-9a-zA-Z]{24,}$`},
	{"sendgrid_key", `^SG\.[a-zA-Z0-9_-]{22}\.[a-zA-Z0-9_-]{43}$`},
	{"mailgun_key", `^key-[a-f0-9]{32}$`},
	{"shopify_token", `^shpat_[a-fA-F0-9]{32}$`},
	{"private_key", `-----BEGIN (RSA |DSA |EC |OPENSSH |PGP )?PRIVATE KEY( BLOCK)?-----`},
	{"db_url", `^(postgres|postgresql|mysql|mongodb|redis)://[^:/]+:[^@]+@[^/]+(/.*)?$`},
	{"bearer_token", `^Bearer [A-Za-z0-9_.-]+$`},
	{"basic_auth", `^Basic [A-Za-z0-9+/]{8,}=*$`},
}

// NewDetector compiles the patterns.
func NewDetector() *Detector {
	d := &Detector{}
	for _, p := range patternSources {
		if regex, err := regexp.Compile(p.expr); err == nil {
			d.patterns = append(d.patterns, pattern{name: p.name, regex: regex})
		}
	}
	return d
}

// Detect inspects one option value. key is the option name and may be empty.
func (d *Detector) Detect(key, value string) []Threat {
	var threats []Threat

	value = strings.TrimSpace(value)
	if value == "" || isReference(value) {
		return threats
	}

	for _, p := range d.patterns {
		if p.regex.MatchString(value) {
			threats = append(threats, classifyThreat(p.name))
		}
	}

	if len(threats) == 0 && isRandomToken(value) {
		threats = append(threats, Threat{
			Type:       "token",
			Confidence: 0.75,
			Reason:     "Long alphanumeric string (potential token)",
		})
	}
	if isUnsafeURL(value) {
		threats = append(threats, Threat{
			Type:       "url_with_params",
			Confidence: 0.65,
			Reason:     "URL with query parameters (may contain tokens)",
		})
	}
	if isSensitiveKey(key) {
		threats = append(threats, Threat{
			Type:       "credential",
			Confidence: 0.9,
			Reason:     "Literal value in option " + key,
		})
	}
	return threats
}

func classifyThreat(name string) Threat {
	switch {
	case name == "jwt":
		return Threat{Type: "jwt", Confidence: 0.95, Reason: "JWT token detected (3-part base64 structure)"}
	case strings.HasPrefix(name, "github"):
		return Threat{Type: "api_key", Confidence: 0.98, Reason: "GitHub access token detected"}
	case strings.HasPrefix(name, "aws"):
		return Threat{Type: "api_key", Confidence: 0.95, Reason: "AWS access key detected"}
	case name == "private_key":
		return Threat{Type: "private_key", Confidence: 0.99, Reason: "Private key detected"}
	case name == "db_url":
		return Threat{Type: "connection_string", Confidence: 0.9, Reason: "Connection string with credentials detected"}
	case strings.HasSuffix(name, "_key") || strings.HasSuffix(name, "_api"):
		return Threat{Type: "api_key", Confidence: 0.9, Reason: "API key detected"}
	default:
		return Threat{Type: "token", Confidence: 0.8, Reason: "API token detected"}
	}
}

// sensitiveKeys are option names whose literal values are credentials.
var sensitiveKeys = []string{
	"api_key", "apikey", "access_token", "refresh_token", "token",
	"password", "secret", "client_secret", "auth_token",
}

func isSensitiveKey(key string) bool {
	key = strings.ToLower(key)
	for _, name := range sensitiveKeys {
		if key == name || strings.HasSuffix(key, "_"+name) {
			return true
		}
	}
	return false
}

// isReference reports values that point at a secret instead of holding it:
// templates such as {{ .Env.OWM_API_KEY }} and $VAR or ${VAR} expansions.
func isReference(value string) bool {
	if strings.Contains(value, "{{") {
		return true
	}
	if strings.HasPrefix(value, "${") && strings.HasSuffix(value, "}") {
		return true
	}
	if strings.HasPrefix(value, "$") && !strings.ContainsAny(value[1:], " $") {
		return true
	}
	return false
}

// isRandomToken matches a single word of 32 to 256 characters that is at
// least 90% alphanumeric, with no spaces.
func isRandomToken(value string) bool {
	if strings.ContainsAny(value, " \t\n\r") {
		return false
	}
	if len(value) < 32 || len(value) > 256 {
		return false
	}

	alphanum := 0
	for _, c := range value {
		switch {
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			alphanum++
		case c == '_' || c == '-' || c == '.':
		default:
			return false
		}
	}
	return float64(alphanum)/float64(len(value)) > 0.9
}

// isUnsafeURL matches http(s) URLs carrying query parameters.
func isUnsafeURL(value string) bool {
	if strings.ContainsAny(value, " \t\n\r") {
		return false
	}
	if !strings.HasPrefix(value, "http://") && !strings.HasPrefix(value, "https://") {
		return false
	}
	q := strings.Index(value, "?")
	return q >= 0 && strings.Contains(value[q:], "=")
}

// IsHighRisk reports whether any threat is confident enough to block a
// silent export.
func IsHighRisk(threats []Threat) bool {
	for _, t := range threats {
		if t.Confidence >= 0.8 {
			return true
		}
	}
	return false
}

// Highest returns the most confident threat.
func Highest(threats []Threat) (Threat, bool) {
	if len(threats) == 0 {
		return Threat{}, false
	}
	best := threats[0]
	for _, t := range threats[1:] {
		if t.Confidence > best.Confidence {
			best = t
		}
	}
	return best, true
}

// Fingerprint identifies a value without revealing it.
func Fingerprint(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])[:12]
}
