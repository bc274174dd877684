// Package validator provides composable validation rules for request input.
//
// Each rule pairs a check with the error reported when it fails. Apply runs
// every rule and returns ValidationErrors listing all failures, so a client
// sees every problem with a form at once:
//
//	err := validator.Apply(
//		validator.ValidEmail("email", in.Email),
//		validator.LenBetween("password", in.Password, 8, 64),
//	)
//	if validator.IsValidationError(err) {
//		// respond with 400
//	}
package validator
