// Package retyped is a typed convenience layer over the Restate Go SDK.
//
// Handlers are declared once, with their input and output types, and the
// declaration value is then used for everything derived from it: binding the
// handler into a Restate endpoint, calling it durably from inside another
// handler, and calling it from plain Go code through the ingress. One codec,
// chosen at Configure time, is injected into every registration, state
// access, durable step and remote call, so the wire format never has to be
// restated at a call site.
//
//	f, _ := retyped.Configure(retyped.JSON)
//
//	increment := retyped.NewObjectHandler("Increment",
//		func(ctx *retyped.ObjectContext, _ retyped.Void) (int, error) {
//			n, err := retyped.GetState[int](ctx, "count")
//			if err != nil {
//				return 0, err
//			}
//			n++
//			if err := retyped.SetState(ctx, "count", n); err != nil {
//				return 0, err
//			}
//			return n, nil
//		})
//
//	counter, _ := f.Object("Counter", increment)
//	_ = counter
//	// f.Serve(ctx, ":9080") binds every built definition.
//
// Elsewhere, the same declaration is the client:
//
//	n, err := increment.CallFrom(ctx, f.Clients(), "my-counter", retyped.Void{})
//
// Durable execution, retries, state storage and transport remain the
// runtime's job; this package only removes the per-call-site type and codec
// bookkeeping.
package retyped
