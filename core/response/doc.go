// Package response assembles handler output into HTTP responses:
// constructors for common content types, decorators for headers and
// cookies, structured error payloads, and streaming responses that stop
// emitting when the request is no longer wanted.
//
// All constructors return a handler.Response; the default status is
// 200 OK when none is specified.
//
//	func getUser(ctx handler.Context) handler.Response {
//		user, err := users.Find(ctx, ctx.Param("id"))
//		if err != nil {
//			return response.ErrNotFound.Render()
//		}
//		return response.JSON(user)
//	}
//
// Streaming responses (Stream, Chunks, StreamJSON) check the request
// context between chunks, so a cancelled request stops the stream
// without writing further data.
package response
