package app

import (
	"net/url"
	"strings"
	"unicode/utf8"
)

const maxQuerySpanName = 512

// postgresDSN is DB_URL after the app's defaults are applied, plus the
// database name reported on query spans. Both URL and key=value forms are
// accepted, as lib/pq accepts both.
type postgresDSN struct {
	conn   string
	dbName string
}

func parsePostgresDSN(raw, applicationName string, disablePreparedBinary bool) postgresDSN {
	raw = strings.TrimSpace(raw)
	defaults := map[string]string{}
	if disablePreparedBinary {
		defaults["disable_prepared_binary_result"] = "yes"
	}
	if applicationName != "" {
		defaults["application_name"] = applicationName
	}

	if parsed, err := url.Parse(raw); err == nil && parsed.Scheme != "" {
		query := parsed.Query()
		for key, value := range defaults {
			if query.Get(key) == "" {
				query.Set(key, value)
			}
		}
		parsed.RawQuery = query.Encode()
		return postgresDSN{
			conn:   parsed.String(),
			dbName: strings.TrimPrefix(parsed.Path, "/"),
		}
	}

	out := postgresDSN{conn: raw}
	present := map[string]bool{}
	for _, token := range strings.Fields(raw) {
		key, value, ok := strings.Cut(token, "=")
		if !ok {
			continue
		}
		present[key] = true
		if key == "dbname" {
			out.dbName = strings.Trim(value, `"'`)
		}
	}
	for _, key := range []string{"disable_prepared_binary_result", "application_name"} {
		value, ok := defaults[key]
		if !ok || present[key] {
			continue
		}
		out.conn += " " + key + "=" + value
	}
	return out
}

// querySpanName collapses whitespace so multi-line statements read as one
// line in the trace UI, and caps the length on a rune boundary.
func querySpanName(query string) string {
	name := strings.Join(strings.Fields(query), " ")
	if len(name) <= maxQuerySpanName {
		return name
	}
	cut := maxQuerySpanName
	for cut > 0 && !utf8.RuneStart(name[cut]) {
		cut--
	}
	return name[:cut] + "..."
}
