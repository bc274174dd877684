// Package cookie writes and reads HTTP cookies, optionally signed with
// HMAC-SHA256 or encrypted with AES-256-GCM.
//
// A Manager is created from one or more secrets. The first secret is used
// for new values; all of them are tried when reading so secrets can be
// rotated without logging everybody out.
//
//	m, err := cookie.New([]string{os.Getenv("COOKIE_SECRET")}, cookie.WithSecure(true))
//	if err != nil {
//	    return err
//	}
//	err = m.SetJSON(w, "auth-token", payload, cookie.WithMaxAge(30*24*3600))
//	...
//	var payload Payload
//	err = m.GetJSON(r, "auth-token", &payload)
package cookie
