package domain

import "errors"

// ErrorKind enumerates every failure mode this service can surface. The set is
// closed: the HTTP boundary owns a single translation table from kind to
// status code and message, and nothing else interprets these.
type ErrorKind int

const (
	KindInvalidAuthHeader ErrorKind = iota
	KindMalformedToken
	KindMissingUsername
	KindInvalidToken
	KindUsernameNotFound
	KindUserNotFound
	KindTokenNotFound
	KindAlreadyVerified
	KindNotVerified
	KindBadCredentials
	KindInvalidParameters
	KindUnsupportedContentType
	KindUnsupportedFilename
	KindFileSaveFailed
	KindFileLoadFailed
	KindFileDeleteFailed
	KindDirCreateFailed
	KindNotAllowedAction
)

// Error is the tagged variant carried from usecases and middleware to the
// boundary. Detail is kind-specific: a username, a filename, a content type,
// or a joined validation message.
type Error struct {
	Kind   ErrorKind
	Detail string
}

var kindLabels = map[ErrorKind]string{
	KindInvalidAuthHeader:      "invalid authorization header",
	KindMalformedToken:         "malformed token",
	KindMissingUsername:        "missing username in token",
	KindInvalidToken:           "invalid token",
	KindUsernameNotFound:       "username not found",
	KindUserNotFound:           "user not found",
	KindTokenNotFound:          "verification token not found",
	KindAlreadyVerified:        "user already verified",
	KindNotVerified:            "user not verified",
	KindBadCredentials:         "bad credentials",
	KindInvalidParameters:      "invalid parameters",
	KindUnsupportedContentType: "unsupported content type",
	KindUnsupportedFilename:    "unsupported filename",
	KindFileSaveFailed:         "file save failed",
	KindFileLoadFailed:         "file load failed",
	KindFileDeleteFailed:       "file delete failed",
	KindDirCreateFailed:        "directory create failed",
	KindNotAllowedAction:       "action not allowed",
}

func (e *Error) Error() string {
	label := kindLabels[e.Kind]
	if e.Detail == "" {
		return label
	}
	return label + ": " + e.Detail
}

func NewError(kind ErrorKind, detail string) *Error {
	return &Error{Kind: kind, Detail: detail}
}

// KindOf unwraps err looking for a tagged *Error.
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// Is lets callers match with errors.Is against a bare kind sentinel,
// e.g. errors.Is(err, domain.NewError(domain.KindUserNotFound, "")).
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}
