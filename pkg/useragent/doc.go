// Package useragent extracts the browser, operating system and device class
// from an HTTP User-Agent header.
//
// Parsing is keyword based and tuned for the values stored with a session:
// browser name, OS name and OS version. It never fails hard; unknown parts
// are reported as "Unknown" and an error explains why.
//
//	ua, err := useragent.Parse(r.UserAgent())
//	if err != nil {
//	    // still usable, fields fall back to Unknown
//	}
//	fmt.Println(ua.BrowserName(), ua.OS(), ua.OSVersion())
package useragent
