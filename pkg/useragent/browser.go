package useragent

import (
	"regexp"
	"strings"
)

const (
	BrowserChrome  = "Chrome"
	BrowserFirefox = "Firefox"
	BrowserSafari  = "Safari"
	BrowserEdge    = "Edge"
	BrowserOpera   = "Opera"
	BrowserSamsung = "Samsung Browser"
	BrowserYandex  = "Yandex"
	BrowserVivaldi = "Vivaldi"
	BrowserBrave   = "Brave"
	BrowserIE      = "Internet Explorer"
	BrowserUnknown = "Unknown"
)

// Browser represents browser information.
type Browser struct {
	Name    string
	Version string
}

type browserPattern struct {
	name     string
	keywords []string
	excludes []string
	version  *regexp.Regexp
}

// Order matters: Chromium derivatives carry "chrome" too and must be checked first.
var browserPatterns = []browserPattern{
	{name: BrowserEdge, keywords: []string{"edg"}, version: regexp.MustCompile(`edg(?:e|a|ios)?/([\d.]+)`)},
	{name: BrowserSamsung, keywords: []string{"samsungbrowser"}, version: regexp.MustCompile(`samsungbrowser/([\d.]+)`)},
	{name: BrowserYandex, keywords: []string{"yabrowser"}, version: regexp.MustCompile(`yabrowser/([\d.]+)`)},
	{name: BrowserVivaldi, keywords: []string{"vivaldi"}, version: regexp.MustCompile(`vivaldi/([\d.]+)`)},
	{name: BrowserBrave, keywords: []string{"brave"}, version: regexp.MustCompile(`brave/([\d.]+)`)},
	{name: BrowserOpera, keywords: []string{"opr/"}, version: regexp.MustCompile(`opr/([\d.]+)`)},
	{name: BrowserOpera, keywords: []string{"opera"}, version: regexp.MustCompile(`opera[/ ]([\d.]+)`)},
	{name: BrowserChrome, keywords: []string{"crios"}, version: regexp.MustCompile(`crios/([\d.]+)`)},
	{name: BrowserChrome, keywords: []string{"chrome"}, version: regexp.MustCompile(`chrome/([\d.]+)`)},
	{name: BrowserFirefox, keywords: []string{"fxios"}, version: regexp.MustCompile(`fxios/([\d.]+)`)},
	{name: BrowserFirefox, keywords: []string{"firefox"}, version: regexp.MustCompile(`firefox/([\d.]+)`)},
	{name: BrowserSafari, keywords: []string{"safari"}, excludes: []string{"chrome", "android"}, version: regexp.MustCompile(`version/([\d.]+)`)},
	{name: BrowserIE, keywords: []string{"msie"}, version: regexp.MustCompile(`msie ([\d.]+)`)},
}

// ParseBrowser detects the browser in a lowercased user agent.
func ParseBrowser(lowerUA string) Browser {
	if strings.Contains(lowerUA, "trident/") && !strings.Contains(lowerUA, "msie") {
		return Browser{Name: BrowserIE, Version: "11.0"}
	}

	for _, p := range browserPatterns {
		if !p.matches(lowerUA) {
			continue
		}
		return Browser{Name: p.name, Version: firstGroup(p.version, lowerUA)}
	}
	return Browser{Name: BrowserUnknown}
}

func (p browserPattern) matches(ua string) bool {
	for _, k := range p.keywords {
		if !strings.Contains(ua, k) {
			return false
		}
	}
	for _, e := range p.excludes {
		if strings.Contains(ua, e) {
			return false
		}
	}
	return true
}

func firstGroup(re *regexp.Regexp, s string) string {
	if re == nil {
		return ""
	}
	m := re.FindStringSubmatch(s)
	if len(m) < 2 {
		return ""
	}
	v := m[1]
	if len(v) > 20 {
		v = v[:20]
	}
	return v
}
