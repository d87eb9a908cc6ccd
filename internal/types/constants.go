package types

// ContextUserKey is where the auth middleware stores the authenticated user
// on the request context.
const ContextUserKey = "user"
