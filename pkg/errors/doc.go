// Package errors provides structured error types for better observability
// and programmatic error handling across the application.
//
// Example usage:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeEnumeration,
//	    "failed to open enumeration",
//	    cause,
//	    map[string]any{
//	        "class":     req.ClassName,
//	        "namespace": req.Namespace,
//	    },
//	)
package errors
