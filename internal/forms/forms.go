// Package forms parses and validates the account, profile and roster forms.
// Field errors are returned keyed by input name so the page can show each
// next to its field.
package forms

import (
	"net/url"
	"strings"
	"unicode/utf8"
)

// MinPasswordLength is the shortest password registration accepts
const MinPasswordLength = 6

const (
	msgRequired      = "Campo obrigatório."
	msgEmail         = "Informe um email válido."
	msgPasswordShort = "A senha deve ter pelo menos 6 caracteres."
	msgUnknownGame   = "Jogo não suportado."
	msgUnknownRole   = "Função inválida para o jogo principal do time."
	msgNoGame        = "Defina o jogo principal do time antes de escolher funções."
)

// Errors maps a field name to its message
type Errors map[string]string

// Add keeps the first message per field
func (e Errors) Add(field, msg string) {
	if _, ok := e[field]; !ok {
		e[field] = msg
	}
}

// Any reports whether there is at least one error
func (e Errors) Any() bool { return len(e) > 0 }

// Get returns the message for field, or ""
func (e Errors) Get(field string) string { return e[field] }

func value(v url.Values, key string) string {
	return strings.TrimSpace(v.Get(key))
}

func required(errs Errors, field, val string) {
	if val == "" {
		errs.Add(field, msgRequired)
	}
}

func validEmail(s string) bool {
	at := strings.IndexByte(s, '@')
	return at > 0 && at < len(s)-1 && !strings.ContainsAny(s, " \t")
}

func longEnough(s string, n int) bool {
	return utf8.RuneCountInString(s) >= n
}
