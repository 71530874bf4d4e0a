package common

// Caller-visible messages. Keep them free of identifiers, hashes and driver
// output.
const (
	MsgClientInit   = "Database client is not initialized"
	MsgQuery        = "Database query failed"
	MsgCredential   = "Invalid credentials"
	MsgInvalidToken = "Invalid token"
	MsgTokenExpired = "Token expired"
	MsgUnexpected   = "Unexpected error"
)
