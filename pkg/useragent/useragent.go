package useragent

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	DeviceTypeBot     = "bot"
	DeviceTypeMobile  = "mobile"
	DeviceTypeTablet  = "tablet"
	DeviceTypeDesktop = "desktop"
	DeviceTypeUnknown = "unknown"
)

// UserAgent contains the parsed information from a user agent string.
type UserAgent struct {
	raw        string
	deviceType string
	os         OS
	browser    Browser
	botName    string
}

func (ua UserAgent) String() string      { return ua.raw }
func (ua UserAgent) DeviceType() string  { return ua.deviceType }
func (ua UserAgent) OS() string          { return ua.os.Name }
func (ua UserAgent) OSVersion() string   { return ua.os.Version }
func (ua UserAgent) BrowserName() string { return ua.browser.Name }
func (ua UserAgent) BrowserVer() string  { return ua.browser.Version }
func (ua UserAgent) IsBot() bool         { return ua.deviceType == DeviceTypeBot }

// BotName returns a display name for crawlers, empty for regular clients.
func (ua UserAgent) BotName() string { return ua.botName }

var (
	botPattern = regexp.MustCompile(`([a-z0-9_-]*(?:bot|spider|crawler))\b`)
	titleCase  = cases.Title(language.English)
)

// Parse parses a user agent string. The returned value is always usable;
// the error only reports why some fields are Unknown.
func Parse(raw string) (UserAgent, error) {
	ua := UserAgent{
		raw:        raw,
		deviceType: DeviceTypeUnknown,
		os:         OS{Name: OSUnknown},
		browser:    Browser{Name: BrowserUnknown},
	}
	if strings.TrimSpace(raw) == "" {
		return ua, ErrEmptyUserAgent
	}

	lower := strings.ToLower(raw)
	if m := botPattern.FindStringSubmatch(lower); m != nil {
		ua.deviceType = DeviceTypeBot
		ua.botName = titleCase.String(m[1])
	}

	ua.os = ParseOS(lower)
	ua.browser = ParseBrowser(lower)
	if ua.deviceType != DeviceTypeBot {
		ua.deviceType = deviceType(lower, ua.os.Name)
	}

	if ua.os.Name == OSUnknown && ua.browser.Name == BrowserUnknown && !ua.IsBot() {
		return ua, ErrMalformedUserAgent
	}
	return ua, nil
}

func deviceType(lowerUA, os string) string {
	switch {
	case strings.Contains(lowerUA, "ipad"), strings.Contains(lowerUA, "tablet"):
		return DeviceTypeTablet
	case os == OSAndroid && !strings.Contains(lowerUA, "mobile"):
		return DeviceTypeTablet
	case strings.Contains(lowerUA, "mobile"), strings.Contains(lowerUA, "iphone"):
		return DeviceTypeMobile
	case os == OSWindows, os == OSMacOS, os == OSLinux, os == OSChromeOS:
		return DeviceTypeDesktop
	}
	return DeviceTypeUnknown
}
