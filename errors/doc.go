/*
Package errors implements the error taxonomy of the paystream ledger.

Every failure returned by a handler wraps one of the root errors declared in
this package. Root errors carry a stable ABCI code so that clients can tell
apart a retryable condition (ErrNothingVested) from misuse or a resource
constraint without parsing messages.

Use ErrXyz.New / ErrXyz.Newf or Wrap at the point of failure so that a stack
trace is attached once, at the innermost frame.
*/
package errors
