/*
Package tracing provides lightweight request tracing for the editor server.

Every HTTP request gets a span whose trace id is taken from the X-Trace-ID
header or freshly generated. Finished spans are logged by a buffered
collector; when the buffer is full spans are dropped with a warning.

# Usage

	tracer := tracing.New("editor", logger)
	defer tracer.Close()

	router.Use(tracing.HTTPMiddleware(tracer))

	// Inside a handler
	logger.Info("undo", tracing.Field(c.Request.Context()))
*/
package tracing
