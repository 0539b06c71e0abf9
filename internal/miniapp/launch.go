package miniapp

import (
	"net/url"
	"strings"
)

// ResolveStartParam определяет кандидата на реферальный код при старте приложения.
// Порядок источников фиксирован: нативный параметр запуска платформы →
// tgWebAppStartParam → start → фрагмент URL → dev-параметр invite.
func ResolveStartParam(native string, query url.Values, fragment string) string {
	if native != "" {
		return native
	}
	if v := query.Get("tgWebAppStartParam"); v != "" {
		return v
	}
	if v := query.Get("start"); v != "" {
		return v
	}
	if v := fragmentParam(fragment, "start"); v != "" {
		return v
	}
	// Только для разработки: ?invite=<id> превращается в синтетический код.
	if v := query.Get("invite"); v != "" {
		return "invite_" + v
	}
	return ""
}

func fragmentParam(fragment, key string) string {
	fragment = strings.TrimPrefix(fragment, "#")
	values, err := url.ParseQuery(fragment)
	if err != nil {
		return ""
	}
	return values.Get(key)
}
