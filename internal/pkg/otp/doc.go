// Package otp generates short-lived numeric one-time passwords for
// email-based verification flows.
//
// Codes come from crypto/rand and always have the configured number of
// digits, so values with a leading zero never occur.
package otp
