package http

import (
	"math/rand/v2"
	"strings"
)

var quotes = []string{
	"Grosz do grosza, a będzie kokosza.",
	"Gdy pieniądze mówią, prawda milczy.",
	"Z pieniędzmi nie jest tak dobrze, jak jest źle bez nich.",
	"Żyje się za pieniądze, ale nie warto żyć dla pieniędzy.",
	"Człowiek z klasą nie rozdrabnia się nad sprawami pieniędzy.",
	"Jeśli możesz policzyć, ile masz pieniędzy, to nie jesteś specjalnie bogaty.",
	"Inteligencję człowieka można zobaczyć w tym, jak zarabia pieniądze. Jego mądrość w tym, jak je wydaje.",
}

func randomQuote() string {
	return quotes[rand.IntN(len(quotes))]
}

// sanitizeInput drops control characters other than tab and newlines and
// trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, s)
}
