// Package identity defines the stored entities of the user system: accounts
// (UserRecord), platform-agnostic people (ProfileRecord), delivery
// destinations (MailboxRecord) and message ownership marks (MailRef).
//
// Every entity is a stored record with an explicit codec; persistence goes
// through the typed storages here, which are thin views over docstore
// collections obtained from the hub. Returned values are independent copies:
// mutating one never changes stored state until an explicit Put.
package identity
