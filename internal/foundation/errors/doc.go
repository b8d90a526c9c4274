// Package errors provides the classified error type used across transpileconf.
//
// Every failure that can abort a resolution carries a category that says who has
// to act on it: the user (a malformed override file), the installation (a plugin
// or preset that cannot be resolved) or an extension author (a failing hook).
//
// Key features:
//   - ErrorCategory: config, validation, toolchain, extension, filesystem, ...
//   - ErrorSeverity: fatal, error, warning, info
//   - ClassifiedError: structured error with category, severity, hint and context
//   - ErrorBuilder: fluent API for creating classified errors
//   - CLIErrorAdapter: exit codes and user-facing formatting
//
// Example usage:
//
//	err := errors.WrapError(parseErr, errors.CategoryConfig, "cannot parse .babelrc").
//		Fatal().
//		WithHint("fix the syntax error or delete the file to use the defaults").
//		WithContext("path", path).
//		Build()
package errors
