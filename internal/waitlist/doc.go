// Package waitlist implements the waitlist submission controller and the
// collaborators that actually register an address.
//
// # State machine
//
// A Controller owns the email value and the submission state:
//
//	State       SetEmail             Submit / Retry            call completes
//	Idle        store value          valid -> Submitting       n/a
//	Submitting  rejected             rejected (duplicate)      ok  -> Succeeded, email cleared
//	                                                           err -> Failed
//	Succeeded   rejected             rejected                  n/a
//	Failed      store, -> Idle       -> Submitting             n/a
//
// Rejections never change state. They are returned as sentinel errors
// (ErrInvalidEmail, ErrDuplicateSubmission, ErrAlreadyRegistered,
// ErrEmailLocked) so the surface binding the form can show feedback.
//
// The Controller is the only caller of its Registrar and never has more than
// one call in flight. Close cancels that call and discards its outcome.
//
// # Registrars
//
//   - SimulatedRegistrar waits a fixed delay on a clockwork.Clock and succeeds.
//   - HTTPRegistrar posts to a site server's /api/waitlist endpoint with
//     retry and exponential backoff.
//   - RegistrarFunc adapts a plain function, used by the server to register
//     into its in-memory roster.
package waitlist
