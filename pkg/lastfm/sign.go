package lastfm

import (
	"crypto/md5"
	"encoding/hex"
	"sort"
	"strings"
)

// Sign computes the api_sig value for a Last.fm API request.
//
// The signature is calculated by:
//  1. Sorting parameter keys byte-wise
//  2. Concatenating key+value pairs with no separators
//  3. Appending the shared API secret
//  4. Taking the lowercase-hex MD5 digest of the result
//
// The api_sig parameter itself is never part of the signed string.
// Output is deterministic regardless of map iteration order.
func Sign(params map[string]string, secret string) string {
	keys := sortedKeys(params)

	var plain strings.Builder
	for _, k := range keys {
		plain.WriteString(k)
		plain.WriteString(params[k])
	}
	plain.WriteString(secret)

	sum := md5.Sum([]byte(plain.String()))
	return hex.EncodeToString(sum[:])
}

// buildForm renders params as the canonical form-encoded body (also used
// verbatim as a GET query string). Parameters appear percent-encoded in
// ascending key order, followed by api_sig when non-empty, followed by
// the fixed format=json.
func buildForm(params map[string]string, sig string) string {
	parts := make([]string, 0, len(params)+2)
	for _, k := range sortedKeys(params) {
		parts = append(parts, Encode(k)+"="+Encode(params[k]))
	}
	if sig != "" {
		parts = append(parts, "api_sig="+sig)
	}
	parts = append(parts, "format=json")
	return strings.Join(parts, "&")
}

func sortedKeys(params map[string]string) []string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
