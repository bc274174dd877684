package useragent

import (
	"regexp"
	"strings"
)

const (
	OSWindows  = "Windows"
	OSMacOS    = "macOS"
	OSiOS      = "iOS"
	OSAndroid  = "Android"
	OSChromeOS = "Chrome OS"
	OSLinux    = "Linux"
	OSUnknown  = "Unknown"
)

// OS represents an operating system name and version.
type OS struct {
	Name    string
	Version string
}

var (
	windowsVersion = regexp.MustCompile(`windows nt ([\d.]+)`)
	macVersion     = regexp.MustCompile(`mac os x ([\d_.]+)`)
	iosVersion     = regexp.MustCompile(`(?:cpu (?:iphone )?os|iphone os) ([\d_]+)`)
	androidVersion = regexp.MustCompile(`android ([\d.]+)`)
	crosVersion    = regexp.MustCompile(`cros \S+ ([\d.]+)`)
)

// Marketing names for NT kernel versions.
var windowsReleases = map[string]string{
	"10.0": "10",
	"6.3":  "8.1",
	"6.2":  "8",
	"6.1":  "7",
	"6.0":  "Vista",
	"5.1":  "XP",
}

// ParseOS detects the operating system in a lowercased user agent.
func ParseOS(lowerUA string) OS {
	switch {
	case strings.Contains(lowerUA, "windows"):
		v := firstGroup(windowsVersion, lowerUA)
		if name, ok := windowsReleases[v]; ok {
			v = name
		}
		return OS{Name: OSWindows, Version: v}
	case strings.Contains(lowerUA, "iphone"), strings.Contains(lowerUA, "ipad"), strings.Contains(lowerUA, "ipod"):
		return OS{Name: OSiOS, Version: dotted(firstGroup(iosVersion, lowerUA))}
	case strings.Contains(lowerUA, "mac os x"), strings.Contains(lowerUA, "macintosh"):
		return OS{Name: OSMacOS, Version: dotted(firstGroup(macVersion, lowerUA))}
	case strings.Contains(lowerUA, "android"):
		return OS{Name: OSAndroid, Version: firstGroup(androidVersion, lowerUA)}
	case strings.Contains(lowerUA, "cros"):
		return OS{Name: OSChromeOS, Version: firstGroup(crosVersion, lowerUA)}
	case strings.Contains(lowerUA, "linux"), strings.Contains(lowerUA, "x11"):
		return OS{Name: OSLinux}
	}
	return OS{Name: OSUnknown}
}

func dotted(v string) string {
	return strings.ReplaceAll(v, "_", ".")
}
