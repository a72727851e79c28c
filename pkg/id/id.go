package id

import (
	"github.com/gofrs/uuid"
)

// GenTraceID generate a random trace id
func GenTraceID() string {
	return uuid.Must(uuid.NewV4()).String()
}

// GenAddress derive a deterministic address from a namespace id and a name
func GenAddress(namespace, name string) string {
	ns, e := uuid.FromString(namespace)
	if e != nil {
		return GenTraceID()
	}

	return uuid.NewV5(ns, name).String()
}
