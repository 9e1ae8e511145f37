// Package middleware gates inbound requests on a valid session token.
//
// # Gate
//
// [Gate] is a small state machine over two capabilities: a [Request] that can
// yield its bearer token and a [Responder] that can write the rejection. Each
// request moves from Unauthenticated to TokenPresent and then to either
// Verified or Rejected. Verified requests reach the downstream handler exactly
// once, with the claims attached via authcore.WithClaims. Rejected requests
// get one uniform 401 and never reach the handler.
//
// # Adapters
//
//   - [Guard] for net/http, reading "Authorization: Bearer <token>".
//   - [Gin] for gin-gonic/gin.
//
// # What this package must NOT do
//
//   - Parse or sign tokens directly (delegates to the Verifier).
//   - Tell the client why a token was rejected.
//   - Touch the credential store.
package middleware
