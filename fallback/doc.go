// Package fallback supplies degraded substitute results for failed pipeline
// executions.
//
// A fallback is not a policy: it never wraps the protected operation and it
// never fails. The consuming layer runs the pipeline, inspects the failure
// kind, and decides whether to degrade:
//
//	pred, err := pipeline.Run(ctx, p, predictOp)
//	if err != nil {
//	    if sub, ok := fallback.Resolve(ctx, input, err, handler); ok {
//	        return sub // degraded success
//	    }
//	    return err // hard failure (e.g. bulkhead rejection -> back-pressure)
//	}
//
// Handlers must be pure, fast (sub-millisecond), and side-effect free. For
// consumers that prefer a recent real answer over a conservative constant,
// Cached serves the last known good result recorded for the same input and
// only falls through to its inner handler on a miss.
package fallback
