package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across the delivery layer. User-facing messages live
// in the error values themselves because the route handlers forward them
// verbatim, matching the dashboard's Portuguese labels.
var (
	// ErrUnauthenticated covers a missing, malformed or invalid bearer token.
	ErrUnauthenticated = errors.New("Não autorizado")

	// ErrTokenExpired means the identity token is valid but expired; the UI
	// must send the user back through login.
	ErrTokenExpired = errors.New("Token de autenticação expirado. Por favor, faça login novamente.")

	// ErrUserNotFound means the credential record for the user does not exist.
	ErrUserNotFound = errors.New("Usuário não encontrado.")

	// ErrUpstreamUnavailable means the ad platform could not be reached at all
	// (transport failure rather than an API error payload).
	ErrUpstreamUnavailable = errors.New("Plataforma de anúncios indisponível no momento.")
)

// BadRequestError is a client-side validation failure: missing required
// fields or an invalid enum value.
type BadRequestError struct {
	Message string
	Fields  []string
}

func (e *BadRequestError) Error() string {
	return e.Message
}

// NotConnectedError means an operation needs a platform token that is not
// stored for the user.
type NotConnectedError struct {
	Platform Platform
}

func (e *NotConnectedError) Error() string {
	switch e.Platform {
	case PlatformGoogle:
		return "Conta do Google não conectada."
	default:
		return "Conta do Facebook não conectada."
	}
}

// UpstreamError carries an ad platform's error payload verbatim so the UI can
// display exactly what the platform said.
type UpstreamError struct {
	Platform Platform
	Code     int
	Message  string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("(%d) %s", e.Code, e.Message)
}

// OAuthExchangeError is a failure in one step of an authorization-code
// exchange. Step names the exchange stage so callback redirects can say which
// part of the dance broke.
type OAuthExchangeError struct {
	Step    string
	Message string
}

func (e *OAuthExchangeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Step, e.Message)
}

// StorageError wraps a credential store failure. The delivery layer converts
// it to a generic 500 without leaking store internals.
type StorageError struct {
	Err error
}

func (e *StorageError) Error() string {
	return "credential store: " + e.Err.Error()
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
