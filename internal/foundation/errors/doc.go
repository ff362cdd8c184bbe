// Package errors provides classified error primitives used across kontentsource.
//
// A ClassifiedError carries a category (config, structure, delivery, emission, ...),
// a severity, a retry strategy and structured context. Errors are created through
// the fluent ErrorBuilder:
//
//	err := errors.DeliveryError("unexpected status").
//		Retryable().
//		WithContext("url", u).
//		WithCause(originalErr).
//		Build()
//
// The CLI adapter maps categories to process exit codes.
package errors
