// Package common contains shared constants, sentinel errors and small helpers
// used by both the document-store server and the community client.
package common

// AccessTokenHeaderName is the gRPC metadata key (and websocket query
// parameter) used to carry the store access token.
const AccessTokenHeaderName = "access_token"
