package tbank

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
)

const (
	tokenField    = "Token"
	passwordField = "Password"
)

// computeToken builds the request signature: all top-level scalar fields plus the
// terminal password as a pseudo-field, sorted lexicographically by key, values
// concatenated in that order and hashed with SHA-256.
func computeToken(fields map[string]string, password string) string {
	merged := make(map[string]string, len(fields)+1)
	for k, v := range fields {
		if k == tokenField {
			continue
		}
		merged[k] = v
	}
	merged[passwordField] = password

	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	h := sha256.New()
	for _, k := range keys {
		h.Write([]byte(merged[k]))
	}

	return hex.EncodeToString(h.Sum(nil))
}

// tokenEqual compares two signatures in constant time.
func tokenEqual(got, want string) bool {
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}

// scalarFields flattens a decoded JSON object to its top-level scalar members,
// skipping nested objects and arrays. Numbers and booleans are rendered the way
// the provider renders them when it computes its own token.
func scalarFields(payload map[string]any) map[string]string {
	fields := make(map[string]string, len(payload))
	for k, v := range payload {
		switch val := v.(type) {
		case string:
			fields[k] = val
		case float64:
			fields[k] = strconv.FormatFloat(val, 'f', -1, 64)
		case bool:
			fields[k] = strconv.FormatBool(val)
		case nil:
			fields[k] = ""
		default:
			// nested objects and arrays are excluded from the signature
		}
	}

	return fields
}

// amountFields is a helper for building signed request field sets.
func amountFields(terminalKey, orderID string, amountKopecks int64, description string) map[string]string {
	return map[string]string{
		"TerminalKey": terminalKey,
		"OrderId":     orderID,
		"Amount":      fmt.Sprintf("%d", amountKopecks),
		"Description": description,
	}
}
