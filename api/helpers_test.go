package api_test

import "context"

func testCtx() context.Context {
	return context.Background()
}
