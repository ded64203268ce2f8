// Package errors provides structured, actionable errors for the head
// tooling surfaces: configuration, manifests, snapshot storage and the
// live protocol.
//
// Each error has a code that maps to a registered template:
//   - E1xx: configuration
//   - E2xx: head manifests
//   - E3xx: snapshot storage
//   - E4xx: live protocol
//
// # Usage
//
//	err := errors.New("E202").
//	    WithLocation("head.yaml", 7, 5).
//	    WithSuggestion("Every head entry needs a tag")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR E202: Invalid head manifest
//	//
//	//   head.yaml:7:5
//	//
//	//       6 │   - name: layout
//	//   →   7 │     head:
//	//         │     ^
//	//
//	//   Hint: Every head entry needs a tag
//
// HeadError implements Unwrap, so errors.Is and errors.As see the wrapped
// cause.
package errors
