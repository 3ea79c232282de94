package registry

import "strings"

// Redacted replaces secrets in diagnostic output.
const Redacted = "[REDACTED]"

// Redact replaces every occurrence of each non-empty secret in s.
func Redact(s string, secrets ...string) string {
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		s = strings.ReplaceAll(s, secret, Redacted)
	}
	return s
}

// redactedError carries a redacted message while keeping the original
// error reachable for errors.Is/As.
type redactedError struct {
	msg string
	err error
}

func (e *redactedError) Error() string { return e.msg }
func (e *redactedError) Unwrap() error { return e.err }

// redactErr returns err with the endpoint token scrubbed from its text.
func redactErr(err error, ep Endpoint) error {
	if err == nil || ep.Token == "" {
		return err
	}
	msg := err.Error()
	clean := Redact(msg, ep.Token)
	if clean == msg {
		return err
	}
	return &redactedError{msg: clean, err: err}
}
