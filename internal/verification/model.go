package verification

import "time"

// Challenge is one outstanding one-time verification attempt: a 6-digit code
// plus an opaque correlation token bound to the mailbox the code was sent to.
// Target is set only for email change requests and names the address being
// moved to.
type Challenge struct {
	ID        string    `json:"id"`
	Subject   string    `json:"subject"`
	Target    string    `json:"target,omitempty"`
	Code      string    `json:"code"`
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"created_at"`
}

// Query describes an exact-match ledger lookup. The two variants are built
// through Exact and ExactWithTarget so a targeted lookup cannot be assembled
// without its target.
type Query struct {
	subject  string
	code     string
	token    string
	target   string
	targeted bool
}

// Exact builds a lookup matching subject, code and token. Any target stored on
// the challenge is ignored.
func Exact(subject, code, token string) Query {
	return Query{subject: subject, code: code, token: token}
}

// ExactWithTarget builds a lookup that additionally requires the challenge to
// have been issued for exactly the given target email.
func ExactWithTarget(subject, code, token, target string) Query {
	return Query{subject: subject, code: code, token: token, target: target, targeted: true}
}

// Subject returns the subject email the query is scoped to.
func (q Query) Subject() string {
	return q.subject
}

// Matches reports whether the challenge satisfies the query.
func (q Query) Matches(ch Challenge) bool {
	if ch.Subject != q.subject || ch.Code != q.code || ch.Token != q.token {
		return false
	}
	if q.targeted && ch.Target != q.target {
		return false
	}
	return true
}
