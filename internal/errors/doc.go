// Package errors provides the structured error type used across versus-api.
//
// Every layer returns *Error values carrying a Code, a user-facing Message,
// an optional Cause and free-form Meta. The fight adapter surfaces
// GetMessage(err) verbatim in the page's error region, so messages are
// written for the person looking at the page.
//
// # Basic Usage
//
//	err := errors.InvalidArgument("character name is required")
//	err := errors.InvalidArgumentf("unknown message type %q", msgType)
//
// Adding metadata:
//
//	err := errors.DataLoss("response is not valid JSON").
//	    WithMeta("raw_length", len(buf))
//
// Wrapping errors:
//
//	if err := repo.Issue(ctx, input); err != nil {
//	    return errors.Wrap(err, "failed to issue fight token")
//	}
//
// # Fight Error Taxonomy
//
// The fight flow distinguishes four failures, each mapped to a code:
//   - ConfigurationError (missing or placeholder API key): FailedPrecondition
//   - ValidationError (empty character name): InvalidArgument
//   - TransportError (network or service failure): Unavailable, or
//     Canceled / DeadlineExceeded when the caller's context ended
//   - MalformedResponse (unparsable or incomplete result): DataLoss
//
// # Validation Errors
//
//	vb := errors.NewValidationBuilder()
//	errors.ValidateRequired("model", cfg.Model, vb)
//	if err := vb.Build(); err != nil {
//	    return err
//	}
package errors
